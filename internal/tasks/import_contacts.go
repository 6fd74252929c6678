package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/contacts/internal/contacts"
)

// ErrRunnerNotConfigured is returned when an import task arrives without a runner.
var ErrRunnerNotConfigured = errors.New("import runner not configured")

// ImportContactsTask imports the contacts of one source for one user.
// RunID identifies the import run row the outcome is written to.
type ImportContactsTask struct {
	RunID       string               `json:"run_id"`
	Source      contacts.Source      `json:"source"`
	Credentials contacts.Credentials `json:"credentials"`
}

// Config returns the queue configuration for import tasks. Imports are not
// retried: a failed run is reported to the user, who can start a new one.
func (t ImportContactsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_contacts",
		MaxAttempts: 1,
		Timeout:     DefaultConfig().ImportTimeout,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportRunner executes an import and records its outcome under runID.
type ImportRunner interface {
	Execute(ctx context.Context, runID string, source contacts.Source, creds contacts.Credentials) error
}

// ImportContactsProcessor creates a processor function for ImportContactsTask.
func ImportContactsProcessor(runner ImportRunner) backlite.QueueProcessor[ImportContactsTask] {
	return func(ctx context.Context, task ImportContactsTask) error {
		if runner == nil {
			return ErrRunnerNotConfigured
		}

		log.Printf("[TASK] Importing %s contacts for user %d (run %s)",
			task.Source, task.Credentials.UserID, task.RunID)

		return runner.Execute(ctx, task.RunID, task.Source, task.Credentials)
	}
}

// NewImportContactsQueue creates a backlite queue for import tasks.
func NewImportContactsQueue(runner ImportRunner) backlite.Queue {
	return backlite.NewQueue(ImportContactsProcessor(runner))
}
