package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appruns "github.com/bryanwahyu/consulting-factory/internal/application/runs"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/answers"
)

const testRunID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

type fakeRunRepo struct {
	runs map[string]*analysis.Run
}

func (f *fakeRunRepo) Save(ctx context.Context, r *analysis.Run) error {
	f.runs[string(r.ID)] = r
	return nil
}

func (f *fakeRunRepo) Get(ctx context.Context, tenant string, id analysis.RunID) (*analysis.Run, error) {
	run, ok := f.runs[string(id)]
	if !ok || run.TenantID != tenant {
		return nil, sql.ErrNoRows
	}
	return run, nil
}

func (f *fakeRunRepo) Latest(ctx context.Context, tenant string, limit int) ([]*analysis.Run, error) {
	return nil, nil
}

func (f *fakeRunRepo) UpdateStatus(ctx context.Context, tenant string, id analysis.RunID, status analysis.Status) error {
	return nil
}

func (f *fakeRunRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) (analysis.PaginatedResult, error) {
	return analysis.PaginatedResult{Page: page, PageSize: pageSize}, nil
}

type fakeAnswerRepo struct {
	lastLimit int
}

func (f *fakeAnswerRepo) Save(ctx context.Context, a *answers.Answer) error { return nil }

func (f *fakeAnswerRepo) ListByRun(ctx context.Context, tenant, runID string, limit int) ([]*answers.Answer, error) {
	f.lastLimit = limit
	return []*answers.Answer{}, nil
}

func newTestRouter() (http.Handler, *fakeRunRepo, *fakeAnswerRepo) {
	repo := &fakeRunRepo{runs: map[string]*analysis.Run{
		testRunID: {
			ID:          analysis.RunID(testRunID),
			TenantID:    "acme",
			TriggeredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Status:      analysis.StatusSuccess,
		},
	}}
	answerRepo := &fakeAnswerRepo{}
	svc := &appruns.Service{Repo: repo, Answers: answerRepo}
	return NewRouter(svc), repo, answerRepo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h, _, _ := newTestRouter()
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerRunRejectsBadInput(t *testing.T) {
	h, _, _ := newTestRouter()

	rec := do(t, h, http.MethodPost, "/v1/acme/runs", `{"brief": "", "input_dir": "data"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/acme/runs", `{"brief": "ok", "input_dir": "../../etc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/bad!tenant/runs", `{"brief": "ok", "input_dir": "data"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunValidatesID(t *testing.T) {
	h, _, _ := newTestRouter()

	rec := do(t, h, http.MethodGet, "/v1/acme/runs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/acme/runs/"+testRunID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testRunID)
}

func TestGetRunUnknownIDIs404(t *testing.T) {
	h, _, _ := newTestRouter()
	rec := do(t, h, http.MethodGet, "/v1/acme/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAskRejectsOversizedQuestion(t *testing.T) {
	h, _, _ := newTestRouter()
	question := strings.Repeat("x", 1001)
	rec := do(t, h, http.MethodPost, "/v1/acme/runs/"+testRunID+"/ask", `{"question": "`+question+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnswersClampLimit(t *testing.T) {
	h, _, answerRepo := newTestRouter()

	rec := do(t, h, http.MethodGet, "/v1/acme/runs/"+testRunID+"/answers?limit=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, answerRepo.lastLimit)

	rec = do(t, h, http.MethodGet, "/v1/acme/runs/"+testRunID+"/answers?limit=9999", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, answerRepo.lastLimit)
}

func TestRateLimitKicksIn(t *testing.T) {
	h, _, _ := newTestRouter()

	limited := 0
	for i := 0; i < rateLimitCapacity*2; i++ {
		if do(t, h, http.MethodGet, "/v1/acme/runs/latest", "").Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Greater(t, limited, 0)
}
