package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// AnalystSystemPrompt drives the bounded tool-calling loop. The model picks
// tools; it is never the source of a reported number.
func AnalystSystemPrompt() string {
	return `You are a meticulous data analyst. You have a fixed set of deterministic analysis tools that run against the real datasets.

RULES:
1. Start by calling get_dataframe_summary on each dataset so you work with real column names, never guessed ones.
2. Be data-driven: choose follow-up tools based on what the summaries reveal and on the analysis plan objectives.
3. Every number you rely on must come from a tool result.
4. When you have gathered sufficient insight to cover the plan objectives, stop calling tools and reply with a short closing note.`
}

// AnalystInitialMessage carries the plan and a structural summary of every
// table - row/column counts and dtypes, never raw data.
func AnalystInitialMessage(plan analysis.Plan, tables map[string]*dataset.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis plan: %s\n", plan.Title)
	if len(plan.Objectives) > 0 {
		b.WriteString("Objectives:\n")
		for _, o := range plan.Objectives {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}

	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)

	b.WriteString("\nAvailable datasets:\n")
	for _, name := range names {
		t := tables[name]
		fmt.Fprintf(&b, "- %s: %d rows x %d columns\n", name, t.RowCount(), len(t.Columns))
		for i, col := range t.Columns {
			kind := dataset.KindObject
			if i < len(t.Kinds) {
				kind = t.Kinds[i]
			}
			fmt.Fprintf(&b, "    %s [%s]\n", col, kind)
		}
	}
	b.WriteString("\nInspect the data first, then analyze according to the plan.")
	return b.String()
}
