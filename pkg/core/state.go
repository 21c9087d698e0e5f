package core

import "time"

// Store defines the interface for generation history persistence.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Run operations
	CreateRun(profile, project string, rowCount int) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	ListRuns(limit int) ([]*Run, error)

	// Document operations
	SaveDocument(doc *Document) error
	GetDocuments(runID string) ([]*Document, error)
}

// RunStatus represents the status of a generation run.
type RunStatus string

// RunStatus values.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one generation request over a dataset.
type Run struct {
	ID          string     `json:"id"`
	Profile     string     `json:"profile"`
	Project     string     `json:"project"`
	RowCount    int        `json:"row_count"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Document is one generated per-table transmission, kept with its run.
type Document struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Position  int       `json:"position"`
	TableKey  string    `json:"table_key"`
	TableName string    `json:"table_name"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
