package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/consulting-factory/internal/domain/answers"
)

type AnswerRepository struct{ db *sql.DB }

func NewAnswerRepository(db *sql.DB) *AnswerRepository { return &AnswerRepository{db: db} }

// Save inserts a Q&A record
func (r *AnswerRepository) Save(ctx context.Context, a *domain.Answer) error {
	const q = `
INSERT INTO run_answers
  (id, tenant_id, run_id, question, answer, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  question = EXCLUDED.question, answer = EXCLUDED.answer;`

	tenant := stringOrDash(a.TenantID)
	question := a.Question
	if strings.TrimSpace(question) == "" {
		question = "-"
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, a.ID, tenant, a.RunID, question, a.Answer, createdAt)
	return err
}

// ListByRun returns stored answers for one run, newest first
func (r *AnswerRepository) ListByRun(ctx context.Context, tenant string, runID string, limit int) ([]*domain.Answer, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, run_id, question, answer, created_at
FROM run_answers
WHERE tenant_id=$1 AND run_id=$2
ORDER BY created_at DESC, id DESC
LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Answer
	for rows.Next() {
		var a domain.Answer
		var created time.Time
		if err := rows.Scan(&a.ID, &a.TenantID, &a.RunID, &a.Question, &a.Answer, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = created
		out = append(out, &a)
	}
	return out, rows.Err()
}
