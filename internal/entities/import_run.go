package entities

import (
	"errors"
	"time"
)

// RunState is the lifecycle state of an import run.
type RunState string

const (
	RunStatePending RunState = "PENDING"
	RunStateDone    RunState = "DONE"
	RunStateFailure RunState = "FAILURE"
)

// ErrImportRunNotFound is returned when no import run has the requested ID.
var ErrImportRunNotFound = errors.New("import run not found")

// ImportRun records the outcome of an import executed out of the request path.
type ImportRun struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   uint      `gorm:"index" json:"owner_id"`
	Source    string    `gorm:"size:50" json:"source"`
	State     RunState  `gorm:"size:20;default:'PENDING'" json:"state"`
	Imported  int       `json:"imported"`
	Total     int       `json:"total"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
