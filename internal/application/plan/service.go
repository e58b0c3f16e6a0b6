package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
)

type Service struct {
	client      ai.Client
	validate    *validator.Validate
	temperature float64
	maxTokens   int
}

func NewService(client ai.Client, temperature float64, maxTokens int) *Service {
	return &Service{
		client:      client,
		validate:    validator.New(),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// rawPlan tolerates the shapes models actually return: step ids arrive as
// numbers or strings, required_columns may be missing.
type rawPlan struct {
	Title      string    `json:"title"`
	Objectives []string  `json:"objectives"`
	Steps      []rawStep `json:"steps"`
}

type rawStep struct {
	ID              any      `json:"id"`
	Description     string   `json:"description"`
	RequiredColumns []string `json:"required_columns"`
	OutputType      string   `json:"output_type"`
}

// Generate asks the model for an analysis plan over the profiled schema.
// The plan is validated before anything downstream sees it.
func (s *Service) Generate(ctx context.Context, brief string, profiles map[string]dataset.TableProfile) (analysis.Plan, error) {
	if strings.TrimSpace(brief) == "" {
		return analysis.Plan{}, analysis.ErrMissingBrief
	}

	schema := prompt.FormatSchemaCompact(profiles)
	text, err := s.client.Chat(ctx, ai.ChatRequest{
		System:      prompt.PlannerSystemPrompt(),
		User:        prompt.PlannerUserPrompt(brief, schema),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return analysis.Plan{}, fmt.Errorf("plan generation failed: %w", err)
	}
	return s.parse(text)
}

func (s *Service) parse(text string) (analysis.Plan, error) {
	cleaned := stripFences(text)

	var raw rawPlan
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return analysis.Plan{}, fmt.Errorf("%w: %v", analysis.ErrInvalidPlan, err)
	}

	p := analysis.Plan{
		Title:      raw.Title,
		Objectives: raw.Objectives,
		Steps:      make([]analysis.PlanStep, 0, len(raw.Steps)),
	}
	for _, st := range raw.Steps {
		p.Steps = append(p.Steps, analysis.PlanStep{
			ID:              cast.ToString(st.ID),
			Description:     st.Description,
			RequiredColumns: st.RequiredColumns,
			OutputType:      st.OutputType,
		})
	}

	if err := s.validate.Struct(p); err != nil {
		return analysis.Plan{}, fmt.Errorf("%w: %v", analysis.ErrInvalidPlan, err)
	}
	return p, nil
}

// stripFences removes a ```json ... ``` wrapper when the model ignores the
// JSON-only instruction.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// Fallback builds a fixed role-driven plan for offline runs. Same shape as a
// model plan so everything downstream is agnostic to its origin.
func Fallback(brief string, profiles map[string]dataset.TableProfile) analysis.Plan {
	steps := []analysis.PlanStep{
		{ID: "1", Description: "Summarize each input table", OutputType: "table"},
	}
	id := 2
	add := func(desc string, cols ...string) {
		steps = append(steps, analysis.PlanStep{
			ID:              cast.ToString(id),
			Description:     desc,
			RequiredColumns: cols,
			OutputType:      "kpi",
		})
		id++
	}

	for _, tp := range sortedProfiles(profiles) {
		var measure, dimension, timeCol string
		for _, c := range tp.Columns {
			switch {
			case c.Role == dataset.RoleMeasure && measure == "":
				measure = c.Name
			case c.Role == dataset.RoleDimension && dimension == "":
				dimension = c.Name
			case c.Role == dataset.RoleTime && timeCol == "":
				timeCol = c.Name
			}
		}
		if measure != "" {
			add(fmt.Sprintf("Compute summary statistics of %s in %s", measure, tp.Table), measure)
		}
		if measure != "" && dimension != "" {
			add(fmt.Sprintf("Rank %s by total %s in %s", dimension, measure, tp.Table), dimension, measure)
		}
		if measure != "" && timeCol != "" {
			add(fmt.Sprintf("Trend %s over %s in %s", measure, timeCol, tp.Table), timeCol, measure)
		}
	}

	title := "Business performance review"
	if strings.TrimSpace(brief) != "" {
		title = strings.TrimSpace(brief)
	}
	return analysis.Plan{
		Title:      title,
		Objectives: []string{"Profile the available data", "Quantify the key business metrics"},
		Steps:      steps,
	}
}

func sortedProfiles(profiles map[string]dataset.TableProfile) []dataset.TableProfile {
	out := make([]dataset.TableProfile, 0, len(profiles))
	for _, tp := range profiles {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}
