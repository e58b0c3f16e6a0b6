package analysis

import (
	"time"
)

// ID tipe untuk Run
type RunID string

// Status enum
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
)

// PlanStep is one step of the analysis plan. IDs are always strings; the
// planner normalizes whatever the model returns.
type PlanStep struct {
	ID              string   `json:"id" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	RequiredColumns []string `json:"required_columns,omitempty"`
	OutputType      string   `json:"output_type"`
}

// Plan produced once per run, immutable thereafter.
type Plan struct {
	Title      string     `json:"title" validate:"required"`
	Objectives []string   `json:"objectives" validate:"required,min=1"`
	Steps      []PlanStep `json:"steps" validate:"required,min=1,dive"`
}

// KPI is a single fact computed by a deterministic tool, never by the model.
type KPI struct {
	Name           string   `json:"name"`
	Value          float64  `json:"value"`
	Explanation    string   `json:"explanation"`
	RelatedColumns []string `json:"related_columns,omitempty"`
}

// NamedTable is a tabular fact with fixed-width rows of scalar values.
type NamedTable struct {
	Title       string     `json:"title"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	Description string     `json:"description,omitempty"`
}

// ChartInfo references a rendered chart file, relative to the run directory.
type ChartInfo struct {
	Title       string `json:"title"`
	ChartType   string `json:"chart_type"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
}

// ColumnRole is the canonical serialized role record. Deserialized once at
// the boundary; downstream code never branches on alternate shapes.
type ColumnRole struct {
	Role  string `json:"role"`
	Dtype string `json:"dtype"`
}

// ColumnRoles maps table name -> column name -> role.
type ColumnRoles map[string]map[string]ColumnRole

// InputFileProfile proves which exact input bytes produced a run.
type InputFileProfile struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
	SHA256   string `json:"sha256"`
}

// RunMetadata is computed once at run end from the actual loaded inputs.
type RunMetadata struct {
	RunTimestamp string             `json:"run_timestamp"`
	Model        string             `json:"model"`
	Temperature  float64            `json:"temperature"`
	Offline      bool               `json:"offline"`
	InputFiles   []InputFileProfile `json:"input_files"`
}

// Result is the canonical analysis artifact. Once serialized to
// analysis_summary.json it is never mutated; Q&A reads a fresh
// deserialization.
type Result struct {
	Plan     Plan         `json:"plan"`
	KPIs     []KPI        `json:"kpis"`
	Tables   []NamedTable `json:"tables"`
	Charts   []ChartInfo  `json:"charts"`
	Roles    ColumnRoles  `json:"column_roles,omitempty"`
	Metadata *RunMetadata `json:"metadata,omitempty"`
	Notes    string       `json:"notes,omitempty"`
}

// Slide is one slide of a deck outline derived from the finished report.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Visual  string   `json:"visual,omitempty"`
	Notes   string   `json:"notes,omitempty"`
}

// SlideDeckOutline is the optional slide_outline.json artifact.
type SlideDeckOutline struct {
	Slides   []Slide `json:"slides"`
	Overview string  `json:"overview,omitempty"`
}

// FactCounts value object
type FactCounts struct {
	KPIs   int `json:"kpis"`
	Tables int `json:"tables"`
	Charts int `json:"charts"`
}

// Aggregate Root: Run
type Run struct {
	ID          RunID      `json:"id"`
	TenantID    string     `json:"tenant_id"`
	TriggeredAt time.Time  `json:"triggered_at"`
	Brief       string     `json:"brief,omitempty"`
	InputDir    string     `json:"input_dir,omitempty"`
	Status      Status     `json:"status"`
	Counts      FactCounts `json:"counts"`
	SummaryURL  string     `json:"summary_url,omitempty"`
	ReportURL   string     `json:"report_url,omitempty"`
	LocalDir    string     `json:"local_dir,omitempty"`
	Model       string     `json:"model,omitempty"`
	Offline     bool       `json:"offline"`
	DurationMS  int64      `json:"duration_ms"`
}
