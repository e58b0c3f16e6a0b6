package qa

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
)

const (
	maxObjectives     = 3
	maxRoleColumns    = 5
	maxKPIs           = 10
	maxTables         = 5
	emptyQuestionText = "Please provide a question."
)

type Service struct {
	client      ai.Client
	temperature float64
	maxTokens   int
	offline     bool
}

func NewService(client ai.Client, temperature float64, maxTokens int, offline bool) *Service {
	return &Service{client: client, temperature: temperature, maxTokens: maxTokens, offline: offline}
}

// Answer replies to a question about a completed run. Read-only: the answer
// is grounded in the serialized result and never mutates it.
func (s *Service) Answer(ctx context.Context, result *analysis.Result, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return emptyQuestionText, nil
	}

	contextText := BuildContext(result)
	if s.offline {
		return offlineAnswer(contextText), nil
	}

	text, err := s.client.Chat(ctx, ai.ChatRequest{
		System:      prompt.QASystemPrompt(),
		User:        prompt.QAUserPrompt(contextText, question),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// BuildContext condenses a result into the bounded grounding block the model
// sees. Deliberately truncated so large runs cannot blow the prompt.
func BuildContext(result *analysis.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analysis plan: %s\n", result.Plan.Title)
	for i, obj := range result.Plan.Objectives {
		if i >= maxObjectives {
			break
		}
		fmt.Fprintf(&b, "- Objective: %s\n", obj)
	}

	if len(result.Roles) > 0 {
		b.WriteString("\nColumn roles:\n")
		tables := make([]string, 0, len(result.Roles))
		for t := range result.Roles {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			cols := make([]string, 0, len(result.Roles[t]))
			for c, r := range result.Roles[t] {
				cols = append(cols, fmt.Sprintf("%s=%s", c, r.Role))
			}
			sort.Strings(cols)
			extra := ""
			if len(cols) > maxRoleColumns {
				extra = fmt.Sprintf(" (+%d more)", len(cols)-maxRoleColumns)
				cols = cols[:maxRoleColumns]
			}
			fmt.Fprintf(&b, "- %s: %s%s\n", t, strings.Join(cols, ", "), extra)
		}
	}

	if len(result.KPIs) > 0 {
		b.WriteString("\nComputed metrics:\n")
		for i, kpi := range result.KPIs {
			if i >= maxKPIs {
				fmt.Fprintf(&b, "(and %d more metrics)\n", len(result.KPIs)-maxKPIs)
				break
			}
			fmt.Fprintf(&b, "- %s: %s (%s)\n", kpi.Name, analysis.FormatNumber(kpi.Value), kpi.Explanation)
		}
	}

	if len(result.Tables) > 0 {
		b.WriteString("\nResult tables:\n")
		for i, t := range result.Tables {
			if i >= maxTables {
				fmt.Fprintf(&b, "(and %d more tables)\n", len(result.Tables)-maxTables)
				break
			}
			fmt.Fprintf(&b, "- %s (%d rows)\n", t.Title, len(t.Rows))
		}
	}

	return b.String()
}

func offlineAnswer(contextText string) string {
	return "Offline mode enabled. The computed facts for this run are:\n\n" + contextText
}
