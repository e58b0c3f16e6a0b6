package analyze

import (
	"sort"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// RunOffline executes a deterministic role-driven tool schedule through the
// same registry the model would use. No LLM involved; only activates behind
// the explicit offline flag.
func RunOffline(tables map[string]*dataset.Table, profiles map[string]dataset.TableProfile) []Invocation {
	exec := NewExecutor(tables)

	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)

	var acc []Invocation
	run := func(tool string, args map[string]any) {
		acc = append(acc, Invocation{Tool: tool, Input: args, Result: exec.Execute(tool, args)})
	}

	for _, name := range names {
		tp := profiles[name]
		run(ToolDataframeSummary, map[string]any{"dataframe_name": name})

		measure := firstRole(tp, dataset.RoleMeasure)
		dimension := firstRole(tp, dataset.RoleDimension)
		timeCol := firstRole(tp, dataset.RoleTime)

		if measure != "" {
			run(ToolRevenueSummary, map[string]any{
				"dataframe_name": name,
				"amount_column":  measure,
			})
		}
		if measure != "" && dimension != "" {
			run(ToolTopCategories, map[string]any{
				"dataframe_name":  name,
				"category_column": dimension,
				"metric_column":   measure,
			})
		}
		if measure != "" && timeCol != "" {
			run(ToolTimeSeries, map[string]any{
				"dataframe_name": name,
				"date_column":    timeCol,
				"metric_column":  measure,
				"period":         "M",
			})
		}
		if col := churnColumn(tp); col != "" {
			run(ToolChurnMetrics, map[string]any{
				"dataframe_name": name,
				"churn_column":   col,
			})
		}
		if col := ltvColumn(tp); col != "" {
			run(ToolCustomerLTV, map[string]any{
				"dataframe_name": name,
				"ltv_column":     col,
			})
		}
	}
	return acc
}

func firstRole(tp dataset.TableProfile, role dataset.Role) string {
	for _, c := range tp.Columns {
		if c.Role == role {
			return c.Name
		}
	}
	return ""
}

// churnColumn: boolean-like categorical whose name hints at churn state.
func churnColumn(tp dataset.TableProfile) string {
	for _, c := range tp.Columns {
		if c.Type != dataset.TypeCategorical || c.UniqueCount > 2 {
			continue
		}
		lower := strings.ToLower(c.Name)
		if strings.Contains(lower, "churn") || strings.Contains(lower, "active") {
			return c.Name
		}
	}
	return ""
}

func ltvColumn(tp dataset.TableProfile) string {
	for _, c := range tp.Columns {
		if c.Role != dataset.RoleMeasure {
			continue
		}
		lower := strings.ToLower(c.Name)
		if strings.Contains(lower, "ltv") || strings.Contains(lower, "lifetime") {
			return c.Name
		}
	}
	return ""
}
