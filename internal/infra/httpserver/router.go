package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appruns "github.com/bryanwahyu/consulting-factory/internal/application/runs"
	domai "github.com/bryanwahyu/consulting-factory/internal/domain/ai"
	domain "github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/middleware"
)

// Per tenant+IP bucket: burst of 30, one token back per second.
const (
	rateLimitCapacity = 30
	rateLimitRefill   = 1
)

type Router struct {
	runsSvc *appruns.Service
}

func NewRouter(runsSvc *appruns.Service) http.Handler {
	r := &Router{runsSvc: runsSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.LivenessHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RateLimitMiddleware(rateLimitCapacity, rateLimitRefill))
		rt.Post("/runs", r.wrap(r.handleTriggerRun))
		rt.Get("/runs", r.wrap(r.handleList))
		rt.Get("/runs/latest", r.wrap(r.handleLatest))
		rt.Get("/runs/{id}", r.wrap(r.handleGet))
		rt.Post("/runs/{id}/ask", r.wrap(r.handleAsk))
		rt.Get("/runs/{id}/answers", r.wrap(r.handleAnswers))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// validationError marks client-input failures so wrap answers 400.
type validationError struct{ err error }

func (e validationError) Error() string { return e.err.Error() }

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return validationError{err: err}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var ve validationError
			if errors.As(err, &ve) {
				http.Error(w, ve.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			if errors.Is(err, domain.ErrMissingBrief) || errors.Is(err, domain.ErrNoInputTables) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/runs
// Body: {"brief": "...", "input_dir": "..."}
func (r *Router) handleTriggerRun(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}

	var body struct {
		Brief    string `json:"brief"`
		InputDir string `json:"input_dir"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateBrief(body.Brief); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateInputDir(body.InputDir); err != nil {
		return invalid(err)
	}

	cmd := appruns.TriggerRunCommand{
		TenantID: tenant,
		Brief:    middleware.SanitizeString(body.Brief),
		InputDir: body.InputDir,
	}

	// 🚀 Jalankan di background, biar jalan sampai selesai
	go func() {
		result, err := r.runsSvc.TriggerRunUntilDone(cmd)
		if err != nil {
			fmt.Printf("background run error for tenant=%s: %v\n", tenant, err)
			return
		}
		fmt.Printf("run finished: tenant=%s id=%s report=%s\n",
			tenant, result.ID, result.ReportURL)
	}()

	// 🔙 langsung balikin respons ke client
	resp := map[string]any{
		"status":   "queued",
		"tenant":   tenant,
		"message":  "analysis started in background",
		"queuedAt": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/runs?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	size = middleware.ValidateLimit(size)

	list, err := r.runsSvc.Paginate(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/runs/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.runsSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/runs/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateRunID(id); err != nil {
		return invalid(err)
	}

	run, err := r.runsSvc.Get(req.Context(), tenant, domain.RunID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(run)
}

// POST /v1/{tenant}/runs/{id}/ask
// Body: {"question": "..."}
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateRunID(id); err != nil {
		return invalid(err)
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateQuestion(body.Question); err != nil {
		return invalid(err)
	}

	answer, err := r.runsSvc.Ask(req.Context(), tenant, domain.RunID(id), middleware.SanitizeString(body.Question))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{
		"run_id":   id,
		"question": body.Question,
		"answer":   answer,
	})
}

// GET /v1/{tenant}/runs/{id}/answers?limit=20
func (r *Router) handleAnswers(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return invalid(err)
	}
	if err := middleware.ValidateRunID(id); err != nil {
		return invalid(err)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.runsSvc.AnswersForRun(req.Context(), tenant, domain.RunID(id), limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
