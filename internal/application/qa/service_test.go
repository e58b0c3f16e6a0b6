package qa

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

type fakeClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeClient) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeClient) ChatWithTools(ctx context.Context, req ai.ToolChatRequest) (ai.ToolResponse, error) {
	return ai.ToolResponse{}, errors.New("not used")
}

func bigResult() *analysis.Result {
	r := &analysis.Result{
		Plan: analysis.Plan{
			Title:      "Revenue review",
			Objectives: []string{"a", "b", "c", "d", "e"},
		},
		Roles: analysis.ColumnRoles{
			"sales": {
				"c1": {Role: "measure", Dtype: "numeric"},
				"c2": {Role: "dimension", Dtype: "categorical"},
				"c3": {Role: "time", Dtype: "datetime"},
				"c4": {Role: "text", Dtype: "text"},
				"c5": {Role: "measure", Dtype: "numeric"},
				"c6": {Role: "measure", Dtype: "numeric"},
				"c7": {Role: "dimension", Dtype: "categorical"},
			},
		},
	}
	for i := 0; i < 14; i++ {
		r.KPIs = append(r.KPIs, analysis.KPI{
			Name:        fmt.Sprintf("KPI %02d", i),
			Value:       float64(i),
			Explanation: "x",
		})
	}
	for i := 0; i < 8; i++ {
		r.Tables = append(r.Tables, analysis.NamedTable{
			Title: fmt.Sprintf("Table %02d", i),
			Rows:  [][]string{{"a", "1"}},
		})
	}
	return r
}

func TestAnswerEmptyQuestionNeverCallsModel(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, 0.3, 1000, false)

	got, err := svc.Answer(context.Background(), bigResult(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "Please provide a question.", got)
	assert.Zero(t, client.calls)
}

func TestAnswerGroundsInResult(t *testing.T) {
	client := &fakeClient{reply: "Total revenue was strong."}
	svc := NewService(client, 0.3, 1000, false)

	got, err := svc.Answer(context.Background(), bigResult(), "How did revenue do?")
	require.NoError(t, err)
	assert.Equal(t, "Total revenue was strong.", got)
	assert.Equal(t, 1, client.calls)
}

func TestAnswerOfflineNeverCallsModel(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, 0.3, 1000, true)

	got, err := svc.Answer(context.Background(), bigResult(), "How did revenue do?")
	require.NoError(t, err)
	assert.Contains(t, got, "Offline mode enabled")
	assert.Zero(t, client.calls)
}

func TestBuildContextTruncates(t *testing.T) {
	ctxText := BuildContext(bigResult())

	// objectives capped at 3
	assert.Contains(t, ctxText, "- Objective: c")
	assert.NotContains(t, ctxText, "- Objective: d")

	// role listing capped at 5 columns with a remainder marker
	assert.Contains(t, ctxText, "(+2 more)")

	// KPIs capped at 10
	assert.Contains(t, ctxText, "KPI 09")
	assert.NotContains(t, ctxText, "KPI 10")
	assert.Contains(t, ctxText, "(and 4 more metrics)")

	// tables capped at 5
	assert.Contains(t, ctxText, "Table 04")
	assert.NotContains(t, ctxText, "Table 05")
	assert.Contains(t, ctxText, "(and 3 more tables)")
}

func TestAnswerPropagatesModelError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota")}
	svc := NewService(client, 0.3, 1000, false)

	_, err := svc.Answer(context.Background(), bigResult(), "q")
	assert.Error(t, err)
}
