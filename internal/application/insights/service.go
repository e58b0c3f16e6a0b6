package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
)

const offlineNarrative = `## Executive summary

Offline mode enabled. The figures below were computed deterministically from the input files; no model-written narrative is available for this run.

## Key findings

- See the data highlights and tables below for the computed metrics.`

type Service struct {
	client      ai.Client
	temperature float64
	maxTokens   int
}

func NewService(client ai.Client, temperature float64, maxTokens int) *Service {
	return &Service{client: client, temperature: temperature, maxTokens: maxTokens}
}

// BuildReport produces the consulting_report.md content. The narrative body
// comes from the model (or a fixed offline stand-in); every other section is
// rendered deterministically from the result.
func (s *Service) BuildReport(ctx context.Context, brief string, result *analysis.Result, offline bool) (string, error) {
	narrative := offlineNarrative
	if !offline {
		text, err := s.client.Chat(ctx, ai.ChatRequest{
			System:      prompt.InsightsSystemPrompt(),
			User:        prompt.InsightsUserPrompt(brief, result),
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("narrative generation failed: %w", err)
		}
		narrative = strings.TrimSpace(text)
	}
	return Render(narrative, result), nil
}

// Render assembles the final report around a narrative body. Pure; identical
// inputs yield the identical document.
func Render(narrative string, result *analysis.Result) string {
	var b strings.Builder
	b.WriteString("# Consulting Report\n\n")

	if m := result.Metadata; m != nil {
		b.WriteString("## Run details\n\n")
		fmt.Fprintf(&b, "- Generated: %s\n", m.RunTimestamp)
		fmt.Fprintf(&b, "- Model: %s @ temperature %.2f\n", m.Model, m.Temperature)
		fmt.Fprintf(&b, "- Offline: %t\n", m.Offline)
		for _, f := range m.InputFiles {
			fmt.Fprintf(&b, "- Input: %s (%d rows, %d columns, sha256 %s)\n",
				f.Filename, f.Rows, f.Columns, shortDigest(f.SHA256))
		}
		b.WriteString("\n")
	}

	b.WriteString(narrative)
	b.WriteString("\n")

	if len(result.KPIs) > 0 {
		b.WriteString("\n## Data highlights\n\n")
		for _, kpi := range result.KPIs {
			fmt.Fprintf(&b, "- **%s**: %s", kpi.Name, analysis.FormatNumber(kpi.Value))
			if kpi.Explanation != "" {
				fmt.Fprintf(&b, " (%s)", kpi.Explanation)
			}
			b.WriteString("\n")
		}
	}

	if len(result.Tables) > 0 {
		b.WriteString("\n## Tables\n")
		for _, t := range result.Tables {
			fmt.Fprintf(&b, "\n### %s\n\n", t.Title)
			writeMarkdownTable(&b, t)
		}
	}

	if len(result.Charts) > 0 {
		b.WriteString("\n## Charts\n\n")
		for _, c := range result.Charts {
			fmt.Fprintf(&b, "- %s: `%s`", c.Title, c.Filename)
			if c.Description != "" {
				fmt.Fprintf(&b, " (%s)", c.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Recommended actions\n\n")
	b.WriteString("- Validate the highlighted metrics against internal reporting before acting on them.\n")
	b.WriteString("- Re-run the analysis after the next data refresh to track movement.\n")
	b.WriteString("- Use the Q&A endpoint to drill into any figure above.\n")

	return b.String()
}

func writeMarkdownTable(b *strings.Builder, t analysis.NamedTable) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(t.Columns, " | "))
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range t.Rows {
		fmt.Fprintf(b, "| %s |\n", strings.Join(row, " | "))
	}
	if t.Description != "" {
		fmt.Fprintf(b, "\n%s\n", t.Description)
	}
}

func shortDigest(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
