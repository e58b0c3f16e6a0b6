package ai

import "context"

// Message roles mirrored across providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of a conversation. Tool-result messages carry the
// ToolCallID they answer; assistant turns may carry the calls they requested.
type Message struct {
	Role       string
	Content    string
	ToolCallID string
	ToolCalls  []ToolCall
}

// ToolSpec describes one callable tool to the model. Parameters is a JSON
// Schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChatRequest is a plain prompt -> text exchange.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONOnly    bool
}

// ToolChatRequest is a prompt + tool catalog -> text or tool calls exchange.
type ToolChatRequest struct {
	System      string
	Messages    []Message
	Tools       []ToolSpec
	Temperature float64
	MaxTokens   int
}

type Client interface {
	// Chat returns the model's text for a single system+user exchange.
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// ChatWithTools returns the model's next turn: a completion or a batch
	// of tool invocation requests.
	ChatWithTools(ctx context.Context, req ToolChatRequest) (ToolResponse, error)
}
