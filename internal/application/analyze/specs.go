package analyze

import domai "github.com/bryanwahyu/consulting-factory/internal/domain/ai"

func objectSchema(required []string, props map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// ToolSpecs is the fixed tool catalog presented to the model.
func ToolSpecs() []domai.ToolSpec {
	return []domai.ToolSpec{
		{
			Name:        ToolDataframeSummary,
			Description: "Get basic summary of dataframe structure including columns, types, null counts, and sample values. Use this first to understand the data.",
			Parameters: objectSchema([]string{"dataframe_name"}, map[string]any{
				"dataframe_name": stringProp("Name of the dataframe to summarize"),
			}),
		},
		{
			Name:        ToolRevenueSummary,
			Description: "Compute revenue statistics (total, average, median, min, max) from a dataframe column containing revenue/amount data.",
			Parameters: objectSchema([]string{"dataframe_name", "amount_column"}, map[string]any{
				"dataframe_name": stringProp("Name of the dataframe to analyze (e.g., 'orders.csv')"),
				"amount_column":  stringProp("Name of the column containing revenue/amount values"),
			}),
		},
		{
			Name:        ToolTopCategories,
			Description: "Find top N categories by a metric. Useful for finding top products, regions, or segments by revenue or other metrics.",
			Parameters: objectSchema([]string{"dataframe_name", "category_column", "metric_column"}, map[string]any{
				"dataframe_name":  stringProp("Name of the dataframe to analyze"),
				"category_column": stringProp("Column containing categories (e.g., 'product_category', 'country', 'segment')"),
				"metric_column":   stringProp("Column with metric to sum (e.g., 'total_amount', 'quantity')"),
				"top_n": map[string]any{
					"type":        "integer",
					"description": "Number of top categories to return",
					"default":     defaultTopN,
				},
			}),
		},
		{
			Name:        ToolChurnMetrics,
			Description: "Calculate churn rate and customer retention metrics from a churn indicator column.",
			Parameters: objectSchema([]string{"dataframe_name", "churn_column"}, map[string]any{
				"dataframe_name": stringProp("Name of the dataframe (typically the customer table)"),
				"churn_column":   stringProp("Column indicating churn status (boolean or 1/0)"),
			}),
		},
		{
			Name:        ToolTimeSeries,
			Description: "Compute time-based aggregation of a metric (e.g., monthly revenue trends).",
			Parameters: objectSchema([]string{"dataframe_name", "date_column", "metric_column"}, map[string]any{
				"dataframe_name": stringProp("Name of the dataframe"),
				"date_column":    stringProp("Column containing dates"),
				"metric_column":  stringProp("Column with metric to aggregate over time"),
				"period": map[string]any{
					"type":        "string",
					"description": "Period for aggregation: 'D' (daily), 'W' (weekly), 'M' (monthly)",
					"default":     "M",
				},
			}),
		},
		{
			Name:        ToolCustomerLTV,
			Description: "Calculate customer lifetime value statistics (average, median, total, min, max).",
			Parameters: objectSchema([]string{"dataframe_name", "ltv_column"}, map[string]any{
				"dataframe_name": stringProp("Name of the dataframe (typically the customer table)"),
				"ltv_column":     stringProp("Column containing lifetime value data"),
			}),
		},
	}
}
