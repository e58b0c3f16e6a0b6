package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Run) error
	Get(ctx context.Context, tenant string, id RunID) (*Run, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Run, error)
	UpdateStatus(ctx context.Context, tenant string, id RunID, status Status) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedResult, error)
}

// ArtifactStore port (interface untuk penyimpanan artefak)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
}

// ChartRenderer is the black-box chart capability: one table in, one image
// file out. Implementations must be deterministic for a given table.
type ChartRenderer interface {
	RenderLine(t NamedTable, outPath string) error
	RenderBar(t NamedTable, outPath string) error
}
