package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/consulting-factory/internal/domain/ai"
)

const defaultMaxTokens = 2048

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) model() string {
	if c.Model != "" {
		return c.Model
	}
	return "gpt-4o-mini"
}

// applyTokenLimit: reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens
// instead of MaxTokens.
func applyTokenLimit(req *openai.ChatCompletionRequest, limit int) {
	if limit <= 0 {
		limit = defaultMaxTokens
	}
	m := req.Model
	if strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4") || strings.HasPrefix(m, "gpt-5") {
		req.MaxCompletionTokens = limit
	} else {
		req.MaxTokens = limit
	}
}

// Chat implements the plain prompt -> text capability.
func (c *Client) Chat(ctx context.Context, in domai.ChatRequest) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model(),
		Temperature: float32(in.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: in.System},
			{Role: openai.ChatMessageRoleUser, Content: in.User},
		},
	}
	if in.JSONOnly {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	applyTokenLimit(&req, in.MaxTokens)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatWithTools implements the tool-calling capability and maps the provider
// response onto the domain's tagged union.
func (c *Client) ChatWithTools(ctx context.Context, in domai.ToolChatRequest) (domai.ToolResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(in.Messages)+1)
	if in.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: in.System,
		})
	}
	for _, m := range in.Messages {
		msgs = append(msgs, toProviderMessage(m))
	}

	tools := make([]openai.Tool, 0, len(in.Tools))
	for _, t := range in.Tools {
		params, err := json.Marshal(t.Parameters)
		if err != nil {
			return domai.ToolResponse{}, fmt.Errorf("failed to marshal tool schema %s: %w", t.Name, err)
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(params),
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model(),
		Temperature: float32(in.Temperature),
		Messages:    msgs,
		Tools:       tools,
	}
	applyTokenLimit(&req, in.MaxTokens)

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return domai.ToolResponse{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domai.ToolResponse{Kind: domai.KindUnexpected}, nil
	}

	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) > 0 {
		out := domai.ToolResponse{Kind: domai.KindToolCalls}
		for _, tc := range choice.Message.ToolCalls {
			args := map[string]any{}
			if tc.Function.Arguments != "" {
				// malformed arguments become an empty map; the tool layer
				// reports the missing fields as an error object
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
			}
			out.Calls = append(out.Calls, domai.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: args,
			})
		}
		return out, nil
	}

	switch choice.FinishReason {
	case openai.FinishReasonStop, openai.FinishReasonLength, "":
		return domai.ToolResponse{Kind: domai.KindDone, Text: choice.Message.Content}, nil
	default:
		return domai.ToolResponse{Kind: domai.KindUnexpected, Text: choice.Message.Content}, nil
	}
}

func toProviderMessage(m domai.Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{Content: m.Content}
	switch m.Role {
	case domai.RoleAssistant:
		out.Role = openai.ChatMessageRoleAssistant
		for _, call := range m.ToolCalls {
			args, _ := json.Marshal(call.Arguments)
			out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: string(args),
				},
			})
		}
	case domai.RoleTool:
		out.Role = openai.ChatMessageRoleTool
		out.ToolCallID = m.ToolCallID
	case domai.RoleSystem:
		out.Role = openai.ChatMessageRoleSystem
	default:
		out.Role = openai.ChatMessageRoleUser
	}
	return out
}
