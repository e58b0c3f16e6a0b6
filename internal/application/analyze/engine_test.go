package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/dataset"
)

// fakeClient replays a scripted sequence of tool responses.
type fakeClient struct {
	responses []domai.ToolResponse
	err       error
	calls     int
}

func (f *fakeClient) Chat(ctx context.Context, req domai.ChatRequest) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeClient) ChatWithTools(ctx context.Context, req domai.ToolChatRequest) (domai.ToolResponse, error) {
	f.calls++
	if f.err != nil {
		return domai.ToolResponse{}, f.err
	}
	i := f.calls - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func testPlan() analysis.Plan {
	return analysis.Plan{
		Title:      "Revenue review",
		Objectives: []string{"Understand revenue"},
		Steps:      []analysis.PlanStep{{ID: "1", Description: "Summarize revenue"}},
	}
}

func toolCallResponse(name string, args map[string]any) domai.ToolResponse {
	return domai.ToolResponse{
		Kind:  domai.KindToolCalls,
		Calls: []domai.ToolCall{{ID: "call-1", Name: name, Arguments: args}},
	}
}

func TestEngineStopsWhenModelIsDone(t *testing.T) {
	client := &fakeClient{responses: []domai.ToolResponse{
		toolCallResponse(ToolRevenueSummary, map[string]any{
			"dataframe_name": "sales",
			"amount_column":  "revenue",
		}),
		{Kind: domai.KindDone, Text: "done"},
	}}
	engine := NewEngine(client, 10, 0, 0)

	acc, err := engine.Run(context.Background(), testPlan(), map[string]*dataset.Table{"sales": salesTable()})
	require.NoError(t, err)
	require.Len(t, acc, 1)
	assert.Equal(t, ToolRevenueSummary, acc[0].Tool)
	assert.Equal(t, 2, client.calls)
}

func TestEngineRoundCapIsNotAnError(t *testing.T) {
	// model never stops asking for tools
	client := &fakeClient{responses: []domai.ToolResponse{
		toolCallResponse(ToolDataframeSummary, map[string]any{"dataframe_name": "sales"}),
	}}
	engine := NewEngine(client, 3, 0, 0)

	acc, err := engine.Run(context.Background(), testPlan(), map[string]*dataset.Table{"sales": salesTable()})
	require.NoError(t, err)
	assert.Len(t, acc, 3)
	assert.Equal(t, 3, client.calls)
}

func TestEngineProviderErrorKeepsAccumulator(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	engine := NewEngine(client, 5, 0, 0)

	acc, err := engine.Run(context.Background(), testPlan(), map[string]*dataset.Table{"sales": salesTable()})
	require.Error(t, err)
	assert.Empty(t, acc)
}

func TestEngineUnexpectedResponseStopsCleanly(t *testing.T) {
	client := &fakeClient{responses: []domai.ToolResponse{
		{Kind: domai.KindUnexpected},
	}}
	engine := NewEngine(client, 5, 0, 0)

	acc, err := engine.Run(context.Background(), testPlan(), map[string]*dataset.Table{"sales": salesTable()})
	require.NoError(t, err)
	assert.Empty(t, acc)
	assert.Equal(t, 1, client.calls)
}

func TestEngineRecordsFailedToolCalls(t *testing.T) {
	client := &fakeClient{responses: []domai.ToolResponse{
		toolCallResponse(ToolRevenueSummary, map[string]any{
			"dataframe_name": "missing",
			"amount_column":  "revenue",
		}),
		{Kind: domai.KindDone},
	}}
	engine := NewEngine(client, 10, 0, 0)

	acc, err := engine.Run(context.Background(), testPlan(), map[string]*dataset.Table{"sales": salesTable()})
	require.NoError(t, err)
	require.Len(t, acc, 1)
	assert.True(t, IsError(acc[0].Result))
}
