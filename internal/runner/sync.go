package runner

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
	"github.com/mrlokans/contacts/internal/importers"
)

// SyncExecutor runs imports inside the calling goroutine and always returns a
// ready handle. Handles are not retained, so Lookup never finds anything.
type SyncExecutor struct {
	registry *importers.Registry
	sink     Sink
}

// NewSyncExecutor creates an executor that runs imports inline.
func NewSyncExecutor(registry *importers.Registry, sink Sink) *SyncExecutor {
	return &SyncExecutor{registry: registry, sink: sink}
}

// Submit runs the import and returns a DONE or FAILURE handle. Only an unknown
// source is returned as an error; import failures are carried by the handle.
func (e *SyncExecutor) Submit(ctx context.Context, source contacts.Source, creds contacts.Credentials) (*Handle, error) {
	imp, err := e.registry.Get(source)
	if err != nil {
		return nil, err
	}

	handle := &Handle{TaskID: uuid.NewString(), OwnerID: creds.UserID}

	status, err := Run(ctx, imp, creds, e.sink)
	handle.Result = status
	if err != nil {
		log.Printf("[IMPORT] %s import for user %d failed: %v", source, creds.UserID, err)
		handle.State = entities.RunStateFailure
		handle.Err = err
		return handle, nil
	}

	log.Printf("[IMPORT] %s import for user %d finished: %s", source, creds.UserID, status)
	handle.State = entities.RunStateDone
	return handle, nil
}

// Lookup always fails: inline runs are finished before Submit returns.
func (e *SyncExecutor) Lookup(_ context.Context, taskID string) (*Handle, error) {
	return nil, fmt.Errorf("%w: %s", ErrRunNotFound, taskID)
}
