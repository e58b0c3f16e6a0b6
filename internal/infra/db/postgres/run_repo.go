package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/consulting-factory/internal/domain/analysis"
)

type RunRepository struct{ db *sql.DB }

func NewRunRepository(db *sql.DB) *RunRepository { return &RunRepository{db: db} }

// Save insert/update Run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO analysis_runs
(id, tenant_id, triggered_at, brief, input_dir, status,
 kpi_count, table_count, chart_count,
 summary_url, report_url, local_dir, model, offline, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,
        $7,$8,$9,
        $10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 kpi_count = EXCLUDED.kpi_count,
 table_count = EXCLUDED.table_count,
 chart_count = EXCLUDED.chart_count,
 summary_url = EXCLUDED.summary_url,
 report_url = EXCLUDED.report_url,
 local_dir = EXCLUDED.local_dir,
 duration_ms = EXCLUDED.duration_ms;`

	tenant := stringOrDash(run.TenantID)
	status := stringOrDash(string(run.Status))
	triggered := run.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, tenant, triggered, run.Brief, run.InputDir, status,
		run.Counts.KPIs, run.Counts.Tables, run.Counts.Charts,
		run.SummaryURL, run.ReportURL, run.LocalDir, run.Model, run.Offline, run.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *RunRepository) Get(ctx context.Context, tenant string, id domain.RunID) (*domain.Run, error) {
	const q = `
SELECT id, tenant_id, triggered_at, brief, input_dir, status,
       kpi_count, table_count, chart_count,
       summary_url, report_url, local_dir, model, offline, duration_ms
FROM analysis_runs
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	return scanRun(row.Scan)
}

// Latest runs per tenant
func (r *RunRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, triggered_at, brief, input_dir, status,
       kpi_count, table_count, chart_count,
       summary_url, report_url, local_dir, model, offline, duration_ms
FROM analysis_runs
WHERE tenant_id=$1
ORDER BY triggered_at DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// UpdateStatus hanya update kolom status
func (r *RunRepository) UpdateStatus(ctx context.Context, tenant string, id domain.RunID, status domain.Status) error {
	const q = `
UPDATE analysis_runs
SET status = $1
WHERE tenant_id = $2 AND id = $3;`
	_, err := r.db.ExecContext(ctx, q, status, tenant, id)
	return err
}

// Paginate with offset + limit
func (r *RunRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, triggered_at, brief, input_dir, status,
       kpi_count, table_count, chart_count,
       summary_url, report_url, local_dir, model, offline, duration_ms
FROM analysis_runs
WHERE tenant_id=$1
ORDER BY triggered_at DESC, id DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM analysis_runs WHERE tenant_id = $1", tenant).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       runs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func scanRun(scan func(dest ...any) error) (*domain.Run, error) {
	var run domain.Run
	var kpis, tables, charts int
	if err := scan(
		&run.ID, &run.TenantID, &run.TriggeredAt, &run.Brief, &run.InputDir, &run.Status,
		&kpis, &tables, &charts,
		&run.SummaryURL, &run.ReportURL, &run.LocalDir, &run.Model, &run.Offline, &run.DurationMS,
	); err != nil {
		return nil, err
	}
	run.Counts = domain.FactCounts{KPIs: kpis, Tables: tables, Charts: charts}
	return &run, nil
}
