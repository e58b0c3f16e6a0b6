package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// Tool names, fixed catalog.
const (
	ToolDataframeSummary = "get_dataframe_summary"
	ToolRevenueSummary   = "compute_revenue_summary"
	ToolTopCategories    = "analyze_top_categories"
	ToolChurnMetrics     = "calculate_churn_metrics"
	ToolTimeSeries       = "compute_time_series"
	ToolCustomerLTV      = "calculate_customer_ltv"
)

const defaultTopN = 5

// ToolFunc is a pure function over the loaded tables. Failures are returned
// as {"error": reason} objects; a tool never raises across the boundary.
type ToolFunc func(args map[string]any) map[string]any

// Executor resolves tool calls against a fixed table set.
type Executor struct {
	tables map[string]*dataset.Table
	tools  map[string]ToolFunc
}

func NewExecutor(tables map[string]*dataset.Table) *Executor {
	e := &Executor{tables: tables}
	e.tools = map[string]ToolFunc{
		ToolDataframeSummary: e.dataframeSummary,
		ToolRevenueSummary:   e.revenueSummary,
		ToolTopCategories:    e.topCategories,
		ToolChurnMetrics:     e.churnMetrics,
		ToolTimeSeries:       e.timeSeries,
		ToolCustomerLTV:      e.customerLTV,
	}
	return e
}

func errResult(format string, args ...any) map[string]any {
	return map[string]any{"error": fmt.Sprintf(format, args...)}
}

// IsError reports whether a tool result is an error object.
func IsError(result map[string]any) bool {
	_, ok := result["error"]
	return ok
}

// Execute runs one named tool. Unknown tools and unknown tables come back as
// error objects, never as crashes.
func (e *Executor) Execute(name string, args map[string]any) map[string]any {
	fn, ok := e.tools[name]
	if !ok {
		return errResult("unknown tool: %s", name)
	}
	return fn(args)
}

func (e *Executor) table(args map[string]any) (*dataset.Table, map[string]any) {
	name := cast.ToString(args["dataframe_name"])
	if name == "" {
		return nil, errResult("dataframe_name is required")
	}
	t, ok := e.tables[name]
	if !ok {
		return nil, errResult("dataframe '%s' not found", name)
	}
	return t, nil
}

func (e *Executor) dataframeSummary(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	cols := make([]map[string]any, 0, len(t.Columns))
	for i, col := range t.Columns {
		kind := dataset.KindObject
		if i < len(t.Kinds) {
			kind = t.Kinds[i]
		}
		cells := t.Column(col)
		nulls := 0
		var samples []string
		for _, c := range cells {
			if c == "" {
				nulls++
			} else if len(samples) < 3 {
				samples = append(samples, c)
			}
		}
		cols = append(cols, map[string]any{
			"name":          col,
			"dtype":         string(kind),
			"null_count":    nulls,
			"sample_values": samples,
		})
	}
	return map[string]any{
		"row_count":    t.RowCount(),
		"column_count": len(t.Columns),
		"columns":      cols,
	}
}

func (e *Executor) revenueSummary(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	col := cast.ToString(args["amount_column"])
	if !t.HasColumn(col) {
		return errResult("column '%s' not found in dataframe", col)
	}
	nums := t.NumericColumn(col)
	if len(nums) == 0 {
		return errResult("column '%s' has no numeric values", col)
	}
	total, minV, maxV := 0.0, nums[0], nums[0]
	for _, v := range nums {
		total += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return map[string]any{
		"total_revenue":   total,
		"average_revenue": total / float64(len(nums)),
		"median_revenue":  median(nums),
		"min_revenue":     minV,
		"max_revenue":     maxV,
		"count":           len(nums),
		"amount_column":   col,
	}
}

func (e *Executor) topCategories(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	catCol := cast.ToString(args["category_column"])
	metCol := cast.ToString(args["metric_column"])
	if !t.HasColumn(catCol) {
		return errResult("column '%s' not found", catCol)
	}
	if !t.HasColumn(metCol) {
		return errResult("column '%s' not found", metCol)
	}
	topN := cast.ToInt(args["top_n"])
	if topN <= 0 {
		topN = defaultTopN
	}

	// group-by sum, then rank
	cats := t.Column(catCol)
	mets := t.Column(metCol)
	sums := map[string]float64{}
	for i, cat := range cats {
		if cat == "" || i >= len(mets) {
			continue
		}
		if v, ok := dataset.ParseNumber(mets[i]); ok {
			sums[cat] += v
		}
	}
	type catTotal struct {
		cat   string
		total float64
	}
	ranked := make([]catTotal, 0, len(sums))
	for c, v := range sums {
		ranked = append(ranked, catTotal{c, v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].cat < ranked[j].cat
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]map[string]any, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, map[string]any{"category": r.cat, "total": r.total})
	}
	return map[string]any{
		"top_categories":  out,
		"category_column": catCol,
		"metric_column":   metCol,
	}
}

func (e *Executor) churnMetrics(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	col := cast.ToString(args["churn_column"])
	if !t.HasColumn(col) {
		return errResult("column '%s' not found", col)
	}
	total, churned := 0, 0
	for _, c := range t.Column(col) {
		b, ok := dataset.ParseBool(c)
		if !ok {
			continue
		}
		total++
		if b {
			churned++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(churned) / float64(total) * 100
	}
	return map[string]any{
		"total_customers":   total,
		"churned_customers": churned,
		"active_customers":  total - churned,
		"churn_rate":        rate,
		"churn_column":      col,
	}
}

func (e *Executor) timeSeries(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	dateCol := cast.ToString(args["date_column"])
	metCol := cast.ToString(args["metric_column"])
	if !t.HasColumn(dateCol) {
		return errResult("column '%s' not found", dateCol)
	}
	if !t.HasColumn(metCol) {
		return errResult("column '%s' not found", metCol)
	}
	period := cast.ToString(args["period"])
	if period == "" {
		period = "M"
	}

	dates := t.Column(dateCol)
	mets := t.Column(metCol)
	buckets := map[string]float64{}
	for i, cell := range dates {
		d, ok := dataset.ParseDate(cell)
		if !ok {
			continue // unparseable dates are dropped, not fatal
		}
		v, ok := dataset.ParseNumber(valueAt(mets, i))
		if !ok {
			continue
		}
		buckets[bucketLabel(d, period)] += v
	}
	labels := make([]string, 0, len(buckets))
	for l := range buckets {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	series := make([]map[string]any, 0, len(labels))
	for _, l := range labels {
		series = append(series, map[string]any{"period": l, "value": buckets[l]})
	}
	return map[string]any{
		"time_series": series,
		"period_type": period,
		"metric":      metCol,
	}
}

func (e *Executor) customerLTV(args map[string]any) map[string]any {
	t, errObj := e.table(args)
	if errObj != nil {
		return errObj
	}
	col := cast.ToString(args["ltv_column"])
	if !t.HasColumn(col) {
		return errResult("column '%s' not found", col)
	}
	nums := t.NumericColumn(col)
	if len(nums) == 0 {
		return errResult("column '%s' has no numeric values", col)
	}
	total, minV, maxV := 0.0, nums[0], nums[0]
	for _, v := range nums {
		total += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return map[string]any{
		"average_ltv":    total / float64(len(nums)),
		"median_ltv":     median(nums),
		"total_ltv":      total,
		"min_ltv":        minV,
		"max_ltv":        maxV,
		"customer_count": len(nums),
		"ltv_column":     col,
	}
}

// bucketLabel: D = day, W = Monday of the ISO week, M = calendar month.
func bucketLabel(d time.Time, period string) string {
	switch period {
	case "D":
		return d.Format("2006-01-02")
	case "W":
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset).Format("2006-01-02")
	default:
		return d.Format("2006-01")
	}
}

func valueAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func median(nums []float64) float64 {
	s := append([]float64(nil), nums...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
