package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

// InsightsSystemPrompt forbids invented numbers and fixes the two-section
// output structure.
func InsightsSystemPrompt() string {
	return `You are a consulting analyst who writes crisp Markdown reports.
Use only the provided quantitative facts and do not invent new numbers.
Return two sections only: 'Executive summary' (2-3 tight paragraphs) and 'Key findings' (3-5 bullets).`
}

// InsightsUserPrompt renders the brief plus the fact list the narrative must
// stay inside.
func InsightsUserPrompt(brief string, result *analysis.Result) string {
	lines := []string{"Business brief:", brief, "\nData facts (use exactly):"}
	for _, kpi := range result.KPIs {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", kpi.Name, analysis.FormatNumber(kpi.Value), kpi.Explanation))
	}
	lines = append(lines, "\nTables:")
	for _, t := range result.Tables {
		lines = append(lines, fmt.Sprintf("- %s with columns [%s]", t.Title, strings.Join(t.Columns, ", ")))
	}
	if len(result.Charts) > 0 {
		lines = append(lines, "\nCharts:")
		for _, c := range result.Charts {
			lines = append(lines, fmt.Sprintf("- %s -> %s", c.Title, c.Filename))
		}
	}
	return strings.Join(lines, "\n")
}
