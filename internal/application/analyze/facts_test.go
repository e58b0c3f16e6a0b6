package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func revenueInvocation() Invocation {
	return Invocation{
		Tool:  ToolRevenueSummary,
		Input: map[string]any{"dataframe_name": "sales", "amount_column": "revenue"},
		Result: map[string]any{
			"total_revenue":   65.0,
			"average_revenue": 16.25,
			"median_revenue":  15.0,
			"min_revenue":     5.0,
			"max_revenue":     30.0,
			"count":           4,
			"amount_column":   "revenue",
		},
	}
}

func TestConvertRevenueYieldsTwoKPIs(t *testing.T) {
	f := Convert([]Invocation{revenueInvocation()})
	require.Len(t, f.KPIs, 2)
	assert.Equal(t, "Total Revenue", f.KPIs[0].Name)
	assert.Equal(t, 65.0, f.KPIs[0].Value)
	assert.Equal(t, "Average Revenue", f.KPIs[1].Name)
	assert.Equal(t, []string{"revenue"}, f.KPIs[1].RelatedColumns)
}

func TestConvertSkipsErrorResults(t *testing.T) {
	f := Convert([]Invocation{
		{Tool: ToolRevenueSummary, Result: map[string]any{"error": "column not found"}},
		revenueInvocation(),
	})
	assert.Len(t, f.KPIs, 2)
}

func TestConvertDataframeSummaryYieldsNoFacts(t *testing.T) {
	f := Convert([]Invocation{{
		Tool:   ToolDataframeSummary,
		Result: map[string]any{"row_count": 4, "column_count": 2},
	}})
	assert.Empty(t, f.KPIs)
	assert.Empty(t, f.Tables)
}

func TestConvertTopCategoriesTable(t *testing.T) {
	f := Convert([]Invocation{{
		Tool: ToolTopCategories,
		Result: map[string]any{
			"top_categories": []map[string]any{
				{"category": "north", "total": 45.0},
				{"category": "south", "total": 20.0},
			},
			"category_column": "region",
			"metric_column":   "revenue",
		},
	}})
	require.Len(t, f.Tables, 1)
	tbl := f.Tables[0]
	assert.Equal(t, "Top region by revenue", tbl.Title)
	assert.Equal(t, []string{"Category", "Total"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"north", "45.00"}, tbl.Rows[0])
}

func TestConvertTimeSeriesCapsRows(t *testing.T) {
	series := make([]map[string]any, 0, 14)
	for i := 0; i < 14; i++ {
		series = append(series, map[string]any{"period": "2024-01", "value": float64(i)})
	}
	f := Convert([]Invocation{{
		Tool: ToolTimeSeries,
		Result: map[string]any{
			"time_series": series,
			"period_type": "M",
			"metric":      "revenue",
		},
	}})
	require.Len(t, f.Tables, 1)
	assert.Equal(t, "revenue over time (monthly)", f.Tables[0].Title)
	assert.Len(t, f.Tables[0].Rows, timeSeriesRowCap)
}

func TestConvertIsDeterministic(t *testing.T) {
	in := []Invocation{revenueInvocation()}
	assert.Equal(t, Convert(in), Convert(in))
}

func TestConvertChurnAndLTV(t *testing.T) {
	f := Convert([]Invocation{
		{
			Tool: ToolChurnMetrics,
			Result: map[string]any{
				"total_customers":   4,
				"churned_customers": 3,
				"active_customers":  1,
				"churn_rate":        75.0,
				"churn_column":      "churned",
			},
		},
		{
			Tool: ToolCustomerLTV,
			Result: map[string]any{
				"average_ltv":    16.25,
				"median_ltv":     15.0,
				"total_ltv":      65.0,
				"min_ltv":        5.0,
				"max_ltv":        30.0,
				"customer_count": 4,
				"ltv_column":     "ltv",
			},
		},
	})
	require.Len(t, f.KPIs, 4)
	assert.Equal(t, "Churn Rate", f.KPIs[0].Name)
	assert.Equal(t, 75.0, f.KPIs[0].Value)
	assert.Equal(t, "Total Customers", f.KPIs[1].Name)
	assert.Equal(t, "Average Customer LTV", f.KPIs[2].Name)
	assert.Equal(t, "Median Customer LTV", f.KPIs[3].Name)
}
