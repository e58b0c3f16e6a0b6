package runerrors

import "time"

// RunError represents a persisted pipeline error entry
type RunError struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	RunID     string    `json:"run_id"`
	Phase     string    `json:"phase,omitempty"` // load | plan | analyze | narrative | qa
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
