package charts

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

const (
	width      = 720
	height     = 360
	marginLeft = 60
	marginTop  = 40
	marginBot  = 60
	plotW      = width - marginLeft - 20
	plotH      = height - marginTop - marginBot
)

// Renderer writes charts as standalone SVG documents. Output depends only on
// the table contents, so the same run always yields identical bytes.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

var _ analysis.ChartRenderer = (*Renderer)(nil)

func (r *Renderer) RenderBar(t analysis.NamedTable, outPath string) error {
	labels, values, err := series(t)
	if err != nil {
		return err
	}
	var b strings.Builder
	header(&b, t.Title)
	axes(&b)

	max := maxValue(values)
	barW := plotW / len(values)
	for i, v := range values {
		h := scaled(v, max)
		x := marginLeft + i*barW + barW/8
		y := marginTop + plotH - h
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="#2b6cb0"/>`+"\n",
			x, y, barW*3/4, h)
		label(&b, marginLeft+i*barW+barW/2, labels[i])
	}

	footer(&b)
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

func (r *Renderer) RenderLine(t analysis.NamedTable, outPath string) error {
	labels, values, err := series(t)
	if err != nil {
		return err
	}
	var b strings.Builder
	header(&b, t.Title)
	axes(&b)

	max := maxValue(values)
	step := plotW / (len(values) - 1)
	points := make([]string, len(values))
	for i, v := range values {
		x := marginLeft + i*step
		y := marginTop + plotH - scaled(v, max)
		points[i] = fmt.Sprintf("%d,%d", x, y)
		label(&b, x, labels[i])
	}
	fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="#2b6cb0" stroke-width="2"/>`+"\n",
		strings.Join(points, " "))

	footer(&b)
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

// series extracts (label, value) pairs from a two-column fact table.
func series(t analysis.NamedTable) ([]string, []float64, error) {
	if len(t.Columns) != 2 {
		return nil, nil, fmt.Errorf("chart needs a two-column table, got %d columns", len(t.Columns))
	}
	if len(t.Rows) < 2 {
		return nil, nil, fmt.Errorf("chart needs at least 2 rows, got %d", len(t.Rows))
	}
	labels := make([]string, len(t.Rows))
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != 2 {
			return nil, nil, fmt.Errorf("row %d is not a pair", i)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d value %q is not numeric", i, row[1])
		}
		labels[i] = row[0]
		values[i] = v
	}
	return labels, values, nil
}

func header(b *strings.Builder, title string) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(b, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)
	fmt.Fprintf(b, `<text x="%d" y="24" font-family="sans-serif" font-size="16">%s</text>`+"\n",
		marginLeft, escape(title))
}

func axes(b *strings.Builder) {
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#444"/>`+"\n",
		marginLeft, marginTop, marginLeft, marginTop+plotH)
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#444"/>`+"\n",
		marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
}

func label(b *strings.Builder, x int, text string) {
	if r := []rune(text); len(r) > 12 {
		text = string(r[:12])
	}
	fmt.Fprintf(b, `<text x="%d" y="%d" font-family="sans-serif" font-size="10" text-anchor="middle">%s</text>`+"\n",
		x, marginTop+plotH+16, escape(text))
}

func footer(b *strings.Builder) {
	b.WriteString("</svg>\n")
}

func scaled(v, max float64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	return int(v / max * float64(plotH))
}

func maxValue(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
