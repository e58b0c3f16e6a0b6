package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domai "github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
	"github.com/bryanwahyu/consulting-factory/internal/infra/ai/prompt"
)

const DefaultMaxRounds = 10

// Invocation is one executed tool call: the {tool, input, result} triple the
// fact converter consumes.
type Invocation struct {
	Tool   string         `json:"tool"`
	Input  map[string]any `json:"input"`
	Result map[string]any `json:"result"`
}

// Engine drives the bounded multi-round tool-calling loop. The model chooses
// which analyses to run; every reported number comes from the Executor.
type Engine struct {
	Client      domai.Client
	MaxRounds   int
	Temperature float64
	MaxTokens   int
}

func NewEngine(client domai.Client, maxRounds int, temperature float64, maxTokens int) *Engine {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Engine{Client: client, MaxRounds: maxRounds, Temperature: temperature, MaxTokens: maxTokens}
}

// Run executes up to MaxRounds model turns against the tool catalog and
// returns the accumulated invocations. Exhausting the round cap is not an
// error: the caller compiles whatever was gathered.
func (e *Engine) Run(ctx context.Context, plan analysis.Plan, tables map[string]*dataset.Table) ([]Invocation, error) {
	exec := NewExecutor(tables)
	messages := []domai.Message{
		{Role: domai.RoleUser, Content: prompt.AnalystInitialMessage(plan, tables)},
	}

	var acc []Invocation
	for round := 0; round < e.MaxRounds; round++ {
		resp, err := e.Client.ChatWithTools(ctx, domai.ToolChatRequest{
			System:      prompt.AnalystSystemPrompt(),
			Messages:    messages,
			Tools:       ToolSpecs(),
			Temperature: e.Temperature,
			MaxTokens:   e.MaxTokens,
		})
		if err != nil {
			return acc, fmt.Errorf("analysis round %d failed: %w", round+1, err)
		}

		switch resp.Kind {
		case domai.KindDone:
			return acc, nil
		case domai.KindToolCalls:
			messages = append(messages, domai.Message{
				Role:      domai.RoleAssistant,
				Content:   resp.Text,
				ToolCalls: resp.Calls,
			})
			// execute in request order; results echo back in the same order
			for _, call := range resp.Calls {
				result := exec.Execute(call.Name, call.Arguments)
				acc = append(acc, Invocation{Tool: call.Name, Input: call.Arguments, Result: result})
				messages = append(messages, domai.Message{
					Role:       domai.RoleTool,
					ToolCallID: call.ID,
					Content:    marshalResult(result),
				})
			}
		default:
			// the loop must not spin on odd provider states
			log.Printf("analysis loop: unexpected response at round %d, stopping", round+1)
			return acc, nil
		}
	}
	return acc, nil
}

func marshalResult(result map[string]any) string {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to serialize tool result: %v"}`, err)
	}
	return string(b)
}
