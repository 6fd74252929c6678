package runner

import (
	"context"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
)

// ErrRunNotFound is returned by Lookup for an unknown task ID.
var ErrRunNotFound = entities.ErrImportRunNotFound

// Handle reports the state of a submitted import.
type Handle struct {
	TaskID string
	// OwnerID is the user the import runs for.
	OwnerID uint
	State  entities.RunState
	Result contacts.Status
	// Err is set when State is FAILURE.
	Err error
}

// Ready reports whether the import has finished, successfully or not.
func (h *Handle) Ready() bool {
	return h.State == entities.RunStateDone || h.State == entities.RunStateFailure
}

// Succeeded reports whether the import finished without error.
func (h *Handle) Succeeded() bool {
	return h.State == entities.RunStateDone
}

// Executor decides where an import runs. Callers must not assume the returned
// handle is ready.
type Executor interface {
	Submit(ctx context.Context, source contacts.Source, creds contacts.Credentials) (*Handle, error)
	Lookup(ctx context.Context, taskID string) (*Handle, error)
}
