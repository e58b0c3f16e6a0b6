package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
)

type Service struct {
	client      ai.Client
	temperature float64
	maxTokens   int
}

func NewService(client ai.Client, temperature float64, maxTokens int) *Service {
	return &Service{client: client, temperature: temperature, maxTokens: maxTokens}
}

// Outline condenses a finished report into a slide deck outline. The model
// only sees the report markdown, never the raw data.
func (s *Service) Outline(ctx context.Context, reportMarkdown string) (analysis.SlideDeckOutline, error) {
	text, err := s.client.Chat(ctx, ai.ChatRequest{
		System:      prompt.SlidesSystemPrompt(),
		User:        reportMarkdown,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return analysis.SlideDeckOutline{}, fmt.Errorf("slide outline failed: %w", err)
	}
	return parse(text)
}

func parse(text string) (analysis.SlideDeckOutline, error) {
	cleaned := stripFences(text)

	var deck analysis.SlideDeckOutline
	if err := json.Unmarshal([]byte(cleaned), &deck); err != nil {
		return analysis.SlideDeckOutline{}, fmt.Errorf("slide outline is not valid JSON: %w", err)
	}
	if len(deck.Slides) == 0 {
		return analysis.SlideDeckOutline{}, fmt.Errorf("slide outline has no slides")
	}
	return deck, nil
}

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

// Fallback is the deterministic outline used offline or when the model turn
// cannot be used.
func Fallback() analysis.SlideDeckOutline {
	return analysis.SlideDeckOutline{
		Slides: []analysis.Slide{
			{
				Title:   "Executive summary",
				Bullets: []string{"Overall performance overview", "Highlights of revenue and churn"},
				Visual:  "Line chart of revenue by month",
			},
			{
				Title:   "Opportunities",
				Bullets: []string{"Invest in top categories", "Focus retention on at-risk segments"},
				Visual:  "Bar chart of top categories",
			},
		},
		Overview: "Auto-generated offline outline",
	}
}
