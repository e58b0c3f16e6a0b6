package answers

import "context"

// Repository port for persisting and querying answers
type Repository interface {
	Save(ctx context.Context, a *Answer) error
	ListByRun(ctx context.Context, tenant string, runID string, limit int) ([]*Answer, error)
}
