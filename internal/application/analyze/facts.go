package analyze

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

const timeSeriesRowCap = 10

// Facts is what the conversion table yields from an accumulator.
type Facts struct {
	KPIs   []analysis.KPI
	Tables []analysis.NamedTable
}

// Convert maps every successful invocation to zero or more facts using a
// fixed per-tool conversion table. Pure and deterministic: the same
// accumulator always yields the same facts. Error results are skipped.
func Convert(invocations []Invocation) Facts {
	var f Facts
	for _, inv := range invocations {
		if IsError(inv.Result) {
			continue
		}
		switch inv.Tool {
		case ToolRevenueSummary:
			f.convertRevenue(inv)
		case ToolTopCategories:
			f.convertTopCategories(inv)
		case ToolChurnMetrics:
			f.convertChurn(inv)
		case ToolTimeSeries:
			f.convertTimeSeries(inv)
		case ToolCustomerLTV:
			f.convertLTV(inv)
		}
		// get_dataframe_summary orients the model; it yields no facts
	}
	return f
}

func (f *Facts) convertRevenue(inv Invocation) {
	col := cast.ToString(inv.Result["amount_column"])
	related := []string{col}
	f.KPIs = append(f.KPIs,
		analysis.KPI{
			Name:           "Total Revenue",
			Value:          cast.ToFloat64(inv.Result["total_revenue"]),
			Explanation:    fmt.Sprintf("Sum of %s", col),
			RelatedColumns: related,
		},
		analysis.KPI{
			Name:           "Average Revenue",
			Value:          cast.ToFloat64(inv.Result["average_revenue"]),
			Explanation:    fmt.Sprintf("Mean of %s over %d rows", col, cast.ToInt(inv.Result["count"])),
			RelatedColumns: related,
		},
	)
}

func (f *Facts) convertTopCategories(inv Invocation) {
	catCol := cast.ToString(inv.Result["category_column"])
	metCol := cast.ToString(inv.Result["metric_column"])
	rows := [][]string{}
	for _, item := range cast.ToSlice(inv.Result["top_categories"]) {
		m := cast.ToStringMap(item)
		rows = append(rows, []string{
			cast.ToString(m["category"]),
			formatCell(cast.ToFloat64(m["total"])),
		})
	}
	f.Tables = append(f.Tables, analysis.NamedTable{
		Title:       fmt.Sprintf("Top %s by %s", catCol, metCol),
		Columns:     []string{"Category", "Total"},
		Rows:        rows,
		Description: fmt.Sprintf("%s grouped by %s, summed and ranked descending", metCol, catCol),
	})
}

func (f *Facts) convertChurn(inv Invocation) {
	col := cast.ToString(inv.Result["churn_column"])
	related := []string{col}
	f.KPIs = append(f.KPIs,
		analysis.KPI{
			Name:           "Churn Rate",
			Value:          cast.ToFloat64(inv.Result["churn_rate"]),
			Explanation:    "Share of customers flagged as churned, in percent",
			RelatedColumns: related,
		},
		analysis.KPI{
			Name:           "Total Customers",
			Value:          float64(cast.ToInt(inv.Result["total_customers"])),
			Explanation:    fmt.Sprintf("Rows with a usable %s indicator", col),
			RelatedColumns: related,
		},
	)
}

func (f *Facts) convertTimeSeries(inv Invocation) {
	metric := cast.ToString(inv.Result["metric"])
	period := cast.ToString(inv.Result["period_type"])
	rows := [][]string{}
	for _, item := range cast.ToSlice(inv.Result["time_series"]) {
		if len(rows) >= timeSeriesRowCap {
			break
		}
		m := cast.ToStringMap(item)
		rows = append(rows, []string{
			cast.ToString(m["period"]),
			formatCell(cast.ToFloat64(m["value"])),
		})
	}
	f.Tables = append(f.Tables, analysis.NamedTable{
		Title:       fmt.Sprintf("%s over time (%s)", metric, periodName(period)),
		Columns:     []string{"Period", "Value"},
		Rows:        rows,
		Description: fmt.Sprintf("Sum of %s per %s bucket", metric, periodName(period)),
	})
}

func (f *Facts) convertLTV(inv Invocation) {
	col := cast.ToString(inv.Result["ltv_column"])
	related := []string{col}
	f.KPIs = append(f.KPIs,
		analysis.KPI{
			Name:           "Average Customer LTV",
			Value:          cast.ToFloat64(inv.Result["average_ltv"]),
			Explanation:    fmt.Sprintf("Mean of %s across %d customers", col, cast.ToInt(inv.Result["customer_count"])),
			RelatedColumns: related,
		},
		analysis.KPI{
			Name:           "Median Customer LTV",
			Value:          cast.ToFloat64(inv.Result["median_ltv"]),
			Explanation:    fmt.Sprintf("Median of %s", col),
			RelatedColumns: related,
		},
	)
}

func periodName(period string) string {
	switch period {
	case "D":
		return "daily"
	case "W":
		return "weekly"
	default:
		return "monthly"
	}
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
