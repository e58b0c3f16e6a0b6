package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// PlannerSystemPrompt constrains the model to strict JSON matching the plan
// shape. Type-driven, domain-agnostic analysis selection.
func PlannerSystemPrompt() string {
	return `You are a data analytics planner creating analysis plans for tabular datasets.

Given a business brief and compact schemas (with column types and statistics), propose a concise JSON plan.

CRITICAL RULES:
1. Base your plan ONLY on the column types and statistics provided - make NO assumptions about what the data represents
2. Use type-driven analysis selection:
   - For 'datetime' columns (role: time) -> time-series trends, temporal patterns
   - For 'numeric' columns (role: measure) -> distributions, summaries, min/max/mean analysis
   - For 'categorical' columns (role: dimension) -> group-by aggregations, top categories
   - For 'text' columns -> generally skip or simple counts
3. Design 3-6 generic analysis steps that work for ANY tabular dataset
4. Keep step descriptions concise (1 sentence each)
5. Do NOT use domain-specific terms unless they appear explicitly in the brief

Return ONLY valid JSON with this exact structure:
{
  "title": "brief analysis title",
  "objectives": ["objective 1", "objective 2"],
  "steps": [
    {
      "id": "1",
      "description": "concise generic description",
      "required_columns": ["col1", "col2"],
      "output_type": "kpi_table"
    }
  ]
}`
}

// FormatSchemaCompact renders profiles one line per column so the whole
// schema fits in a prompt without transmitting raw data.
func FormatSchemaCompact(profiles map[string]dataset.TableProfile) string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		tp := profiles[name]
		fmt.Fprintf(&b, "\n%s (%d rows):\n", name, tp.RowCount)
		for _, col := range tp.Columns {
			parts := []string{fmt.Sprintf("  - %s [%s]", col.Name, col.Type)}
			parts = append(parts, fmt.Sprintf("role=%s", col.Role))

			var stats []string
			if col.UniqueCount > 0 {
				stats = append(stats, fmt.Sprintf("unique=%d", col.UniqueCount))
			}
			if col.MissingRatio > 0 {
				stats = append(stats, fmt.Sprintf("missing=%.1f%%", col.MissingRatio*100))
			}
			switch col.Type {
			case dataset.TypeNumeric:
				stats = append(stats,
					fmt.Sprintf("range=[%.1f..%.1f]", col.Min, col.Max),
					fmt.Sprintf("mean=%.1f", col.Mean))
			case dataset.TypeCategorical:
				if len(col.TopValues) > 0 {
					top := col.TopValues
					if len(top) > 3 {
						top = top[:3]
					}
					stats = append(stats, fmt.Sprintf("top=(%s)", strings.Join(top, ", ")))
				}
			case dataset.TypeDatetime:
				if col.MinDate != "" {
					stats = append(stats, fmt.Sprintf("range=[%s..%s]", col.MinDate, col.MaxDate))
				}
			}
			if len(stats) > 0 {
				parts = append(parts, strings.Join(stats, ", "))
			}
			b.WriteString(strings.Join(parts, " | "))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PlannerUserPrompt pairs the brief with the compact schema summary.
func PlannerUserPrompt(brief, schemaSummary string) string {
	return fmt.Sprintf("Business brief:\n%s\n\nData schemas:%s\nProvide analysis plan as JSON:", brief, schemaSummary)
}
