package ai

// ResponseKind tags the shape of a tool-chat turn. The analysis engine
// switches on it exhaustively; Unexpected stops the loop.
type ResponseKind int

const (
	// KindDone: the model produced a final text answer, no tool calls.
	KindDone ResponseKind = iota
	// KindToolCalls: the model requested one or more tool invocations.
	KindToolCalls
	// KindUnexpected: any other provider response state.
	KindUnexpected
)

// ToolCall is one tool invocation requested by the model. Arguments arrive
// as a decoded JSON object; values are loosely typed.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResponse is the tagged union of one model turn.
type ToolResponse struct {
	Kind  ResponseKind
	Text  string
	Calls []ToolCall
}
