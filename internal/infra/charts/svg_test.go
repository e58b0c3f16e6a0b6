package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

func rankingTable() analysis.NamedTable {
	return analysis.NamedTable{
		Title:   "Top region by revenue",
		Columns: []string{"Category", "Total"},
		Rows:    [][]string{{"north", "50.00"}, {"south", "20.00"}, {"east", "5.00"}},
	}
}

func TestRenderBarWritesSVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bar.svg")
	require.NoError(t, NewRenderer().RenderBar(rankingTable(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Top region by revenue")
	assert.Equal(t, 3, strings.Count(svg, "<rect x="))
	assert.Contains(t, svg, ">north<")
}

func TestRenderLineWritesPolyline(t *testing.T) {
	tbl := analysis.NamedTable{
		Title:   "revenue over time (monthly)",
		Columns: []string{"Period", "Value"},
		Rows:    [][]string{{"2024-01", "30.00"}, {"2024-02", "40.00"}},
	}
	out := filepath.Join(t.TempDir(), "line.svg")
	require.NoError(t, NewRenderer().RenderLine(tbl, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<polyline points=")
}

func TestRenderDeterministicBytes(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.svg")
	second := filepath.Join(dir, "b.svg")
	require.NoError(t, NewRenderer().RenderBar(rankingTable(), first))
	require.NoError(t, NewRenderer().RenderBar(rankingTable(), second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderRejectsBadTables(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.svg")

	err := NewRenderer().RenderBar(analysis.NamedTable{
		Columns: []string{"only"},
		Rows:    [][]string{{"x"}, {"y"}},
	}, out)
	assert.Error(t, err)

	err = NewRenderer().RenderLine(analysis.NamedTable{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"x", "1"}},
	}, out)
	assert.Error(t, err)

	err = NewRenderer().RenderBar(analysis.NamedTable{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"x", "not-a-number"}, {"y", "2"}},
	}, out)
	assert.Error(t, err)
}

func TestLabelTruncatesOnRunes(t *testing.T) {
	tbl := analysis.NamedTable{
		Title:   "Top kategori by revenue",
		Columns: []string{"Category", "Total"},
		Rows:    [][]string{{"électroménager été", "50.00"}, {"b", "20.00"}},
	}
	out := filepath.Join(t.TempDir(), "runes.svg")
	require.NoError(t, NewRenderer().RenderBar(tbl, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, utf8.ValidString(svg))
	assert.Contains(t, svg, ">électroménag<")
}

func TestEscapeTitle(t *testing.T) {
	tbl := analysis.NamedTable{
		Title:   `Top "A&B" <regions>`,
		Columns: []string{"Category", "Total"},
		Rows:    [][]string{{"a", "1"}, {"b", "2"}},
	}
	out := filepath.Join(t.TempDir(), "esc.svg")
	require.NoError(t, NewRenderer().RenderBar(tbl, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	svg := string(data)
	assert.Contains(t, svg, "&quot;A&amp;B&quot;")
	assert.NotContains(t, svg, "<regions>")
}
