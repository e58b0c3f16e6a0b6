package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	app "github.com/bryanwahyu/consulting-factory/internal/application"
	"github.com/bryanwahyu/consulting-factory/internal/application/qa"
	"github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
	"github.com/bryanwahyu/consulting-factory/internal/domain/answers"
	"github.com/bryanwahyu/consulting-factory/internal/domain/runerrors"
	"github.com/bryanwahyu/consulting-factory/internal/middleware"
)

// Service implements use-cases untuk Run
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo       analysis.Repository
	Artifacts  analysis.ArtifactStore
	Pipeline   *Pipeline
	QA         *qa.Service
	ErrRepo    runerrors.Repository
	Answers    answers.Repository
	Clock      app.Clock
	ReportsDir string
}

// Command untuk trigger run
type TriggerRunCommand struct {
	TenantID string
	Brief    string
	InputDir string
}

type TriggerRunResult struct {
	ID         string              `json:"id"`
	Status     string              `json:"status"`
	Counts     analysis.FactCounts `json:"counts"`
	SummaryURL string              `json:"summary_url,omitempty"`
	ReportURL  string              `json:"report_url,omitempty"`
	DurationMS int64               `json:"duration_ms"`
}

// TriggerRunUntilDone → jalanin run dengan context.Background()
// cocok dipanggil dari goroutine di router supaya gak kena context canceled
func (s *Service) TriggerRunUntilDone(cmd TriggerRunCommand) (TriggerRunResult, error) {
	return s.TriggerRun(context.Background(), cmd)
}

// TriggerRun jalankan pipeline → upload artifacts → simpan ke repo
func (s *Service) TriggerRun(ctx context.Context, cmd TriggerRunCommand) (TriggerRunResult, error) {
	if strings.TrimSpace(cmd.Brief) == "" {
		return TriggerRunResult{}, analysis.ErrMissingBrief
	}

	middleware.IncrementRuns()
	middleware.IncrementRunsRunning()
	defer middleware.DecrementRunsRunning()

	now := s.Clock.Now()
	id := uuid.New().String()
	outDir := filepath.Join(s.ReportsDir, cmd.TenantID, id)

	initial := &analysis.Run{
		ID:          analysis.RunID(id),
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		Brief:       cmd.Brief,
		InputDir:    cmd.InputDir,
		Status:      analysis.StatusRunning,
		LocalDir:    outDir,
		Model:       s.Pipeline.Model,
		Offline:     s.Pipeline.Offline,
	}
	if err := s.Repo.Save(ctx, initial); err != nil {
		return TriggerRunResult{ID: id, Status: string(analysis.StatusError)}, err
	}

	out, err := s.Pipeline.Execute(ctx, cmd.Brief, cmd.InputDir, outDir)
	if err != nil {
		middleware.IncrementRunsFailed()
		s.recordError(cmd.TenantID, id, err)
		_ = s.Repo.UpdateStatus(context.Background(), cmd.TenantID, analysis.RunID(id), analysis.StatusFailed)
		return TriggerRunResult{ID: id, Status: string(analysis.StatusFailed)}, err
	}

	summaryURL, reportURL, upErr := s.uploadArtifacts(ctx, cmd.TenantID, id, out)
	if upErr != nil {
		middleware.IncrementRunsFailed()
		s.recordError(cmd.TenantID, id, &PhaseError{Phase: "narrative", Err: upErr})
		_ = s.Repo.UpdateStatus(context.Background(), cmd.TenantID, analysis.RunID(id), analysis.StatusError)
		return TriggerRunResult{ID: id, Status: string(analysis.StatusError)}, upErr
	}

	done := &analysis.Run{
		ID:          analysis.RunID(id),
		TenantID:    cmd.TenantID,
		TriggeredAt: now,
		Brief:       cmd.Brief,
		InputDir:    cmd.InputDir,
		Status:      analysis.StatusSuccess,
		Counts: analysis.FactCounts{
			KPIs:   len(out.Result.KPIs),
			Tables: len(out.Result.Tables),
			Charts: len(out.Result.Charts),
		},
		SummaryURL: summaryURL,
		ReportURL:  reportURL,
		LocalDir:   outDir,
		Model:      s.Pipeline.Model,
		Offline:    s.Pipeline.Offline,
		DurationMS: s.Clock.Now().Sub(now).Milliseconds(),
	}
	if err := s.Repo.Save(ctx, done); err != nil {
		return TriggerRunResult{ID: id, Status: string(done.Status)}, err
	}

	return TriggerRunResult{
		ID:         id,
		Status:     string(done.Status),
		Counts:     done.Counts,
		SummaryURL: done.SummaryURL,
		ReportURL:  done.ReportURL,
		DurationMS: done.DurationMS,
	}, nil
}

// uploadArtifacts pushes the written artifacts to object storage: the two
// canonical files plus every rendered chart. A chart upload failure only
// loses that chart's remote copy, the run still completes.
func (s *Service) uploadArtifacts(ctx context.Context, tenant, id string, out *Output) (string, string, error) {
	if s.Artifacts == nil {
		return "", "", nil
	}
	summaryKey := fmt.Sprintf("%s/%s/%s", tenant, id, SummaryFilename)
	summaryURL, err := s.Artifacts.Upload(ctx, out.SummaryPath, summaryKey)
	if err != nil {
		return "", "", err
	}
	reportKey := fmt.Sprintf("%s/%s/%s", tenant, id, ReportFilename)
	reportURL, err := s.Artifacts.Upload(ctx, out.ReportPath, reportKey)
	if err != nil {
		return "", "", err
	}
	dir := filepath.Dir(out.ReportPath)
	for _, c := range out.Result.Charts {
		key := fmt.Sprintf("%s/%s/%s", tenant, id, c.Filename)
		if _, err := s.Artifacts.Upload(ctx, filepath.Join(dir, c.Filename), key); err != nil {
			log.Printf("chart upload skipped for %s: %v", c.Filename, err)
		}
	}
	if out.SlidesPath != "" {
		key := fmt.Sprintf("%s/%s/%s", tenant, id, SlidesFilename)
		if _, err := s.Artifacts.Upload(ctx, out.SlidesPath, key); err != nil {
			log.Printf("slide outline upload skipped: %v", err)
		}
	}
	return summaryURL, reportURL, nil
}

func (s *Service) recordError(tenant, id string, err error) {
	if s.ErrRepo == nil {
		return
	}
	phase := "analyze"
	var pe *PhaseError
	if errors.As(err, &pe) {
		phase = pe.Phase
	}
	rec := &runerrors.RunError{
		TenantID:  tenant,
		RunID:     id,
		Phase:     phase,
		Message:   err.Error(),
		CreatedAt: s.Clock.Now(),
	}
	if serr := s.ErrRepo.Save(context.Background(), rec); serr != nil {
		log.Printf("run error not persisted: %v", serr)
	}
}

// Ask answers a question about a completed run from its serialized summary.
// The summary is re-read from disk on every call.
func (s *Service) Ask(ctx context.Context, tenant string, id analysis.RunID, question string) (string, error) {
	middleware.IncrementQuestions()

	run, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return "", err
	}
	if run.Status != analysis.StatusSuccess {
		return "", fmt.Errorf("run %s is not complete (status %s)", id, run.Status)
	}

	result, err := loadResult(filepath.Join(run.LocalDir, SummaryFilename))
	if err != nil {
		s.recordError(tenant, string(id), &PhaseError{Phase: "qa", Err: err})
		return "", err
	}

	answer, err := s.QA.Answer(ctx, result, question)
	if err != nil {
		s.recordError(tenant, string(id), &PhaseError{Phase: "qa", Err: err})
		return "", err
	}

	if s.Answers != nil {
		rec := &answers.Answer{
			ID:        answers.AnswerID(uuid.New().String()),
			TenantID:  tenant,
			RunID:     string(id),
			Question:  question,
			Answer:    answer,
			CreatedAt: s.Clock.Now(),
		}
		if serr := s.Answers.Save(context.Background(), rec); serr != nil {
			log.Printf("answer not persisted: %v", serr)
		}
	}
	return answer, nil
}

// Get ambil 1 run by id
func (s *Service) Get(ctx context.Context, tenant string, id analysis.RunID) (*analysis.Run, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Latest ambil N run terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*analysis.Run, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Paginate list run per halaman
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) (analysis.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// AnswersForRun lists stored Q&A exchanges, newest first. Without an answer
// repository there is nothing stored, so the list is empty.
func (s *Service) AnswersForRun(ctx context.Context, tenant string, id analysis.RunID, limit int) ([]*answers.Answer, error) {
	if s.Answers == nil {
		return nil, nil
	}
	return s.Answers.ListByRun(ctx, tenant, string(id), limit)
}

func loadResult(path string) (*analysis.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &result, nil
}
