package runner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
	"github.com/mrlokans/contacts/internal/importers"
	"github.com/mrlokans/contacts/internal/tasks"
)

// RunStore persists the state of queued imports.
type RunStore interface {
	Create(ctx context.Context, run *entities.ImportRun) error
	MarkDone(ctx context.Context, id string, status contacts.Status) error
	MarkFailed(ctx context.Context, id string, message string) error
	Get(ctx context.Context, id string) (*entities.ImportRun, error)
}

// Enqueuer hands a task to the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// CredentialSealer protects credentials while they sit in the task queue.
type CredentialSealer interface {
	Seal(creds contacts.Credentials) (contacts.Credentials, error)
	Open(creds contacts.Credentials) (contacts.Credentials, error)
}

// AsyncExecutor records each import as a PENDING run and leaves the work to
// the task queue. The queue calls Execute, which writes the outcome back to
// the run store where Lookup finds it.
type AsyncExecutor struct {
	registry *importers.Registry
	sink     Sink
	store    RunStore
	queue    Enqueuer
	sealer   CredentialSealer
}

// NewAsyncExecutor creates a queue-backed executor.
func NewAsyncExecutor(registry *importers.Registry, sink Sink, store RunStore, queue Enqueuer) *AsyncExecutor {
	return &AsyncExecutor{
		registry: registry,
		sink:     sink,
		store:    store,
		queue:    queue,
	}
}

// SetCredentialSealer encrypts credentials before they are enqueued.
// Must be called before the first Submit.
func (e *AsyncExecutor) SetCredentialSealer(sealer CredentialSealer) {
	e.sealer = sealer
}

// Submit stores a PENDING run and enqueues it. The run row exists before the
// task does, so a worker never sees a run ID without a row.
func (e *AsyncExecutor) Submit(ctx context.Context, source contacts.Source, creds contacts.Credentials) (*Handle, error) {
	if _, err := e.registry.Get(source); err != nil {
		return nil, err
	}

	queued := creds
	if e.sealer != nil {
		var err error
		if queued, err = e.sealer.Seal(creds); err != nil {
			return nil, fmt.Errorf("seal credentials: %w", err)
		}
	}

	run := &entities.ImportRun{
		ID:      uuid.NewString(),
		OwnerID: creds.UserID,
		Source:  string(source),
		State:   entities.RunStatePending,
	}
	if err := e.store.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create import run: %w", err)
	}

	task := tasks.ImportContactsTask{RunID: run.ID, Source: source, Credentials: queued}
	if _, err := e.queue.Enqueue(task); err != nil {
		if markErr := e.store.MarkFailed(ctx, run.ID, err.Error()); markErr != nil {
			err = errors.Join(err, markErr)
		}
		return nil, fmt.Errorf("enqueue import run %s: %w", run.ID, err)
	}

	log.Printf("[IMPORT] Queued %s import for user %d as run %s", source, creds.UserID, run.ID)
	return &Handle{TaskID: run.ID, OwnerID: run.OwnerID, State: entities.RunStatePending}, nil
}

// Execute runs a queued import and records its outcome. It is called by the
// import task processor.
func (e *AsyncExecutor) Execute(ctx context.Context, runID string, source contacts.Source, creds contacts.Credentials) error {
	imp, err := e.registry.Get(source)
	if err != nil {
		return e.fail(ctx, runID, err)
	}

	if e.sealer != nil {
		if creds, err = e.sealer.Open(creds); err != nil {
			return e.fail(ctx, runID, fmt.Errorf("open credentials: %w", err))
		}
	}

	status, err := Run(ctx, imp, creds, e.sink)
	if err != nil {
		return e.fail(ctx, runID, err)
	}

	if err := e.store.MarkDone(ctx, runID, status); err != nil {
		return fmt.Errorf("record import run %s: %w", runID, err)
	}
	log.Printf("[IMPORT] Run %s finished: %s", runID, status)
	return nil
}

func (e *AsyncExecutor) fail(ctx context.Context, runID string, cause error) error {
	log.Printf("[IMPORT] Run %s failed: %v", runID, cause)
	if err := e.store.MarkFailed(ctx, runID, cause.Error()); err != nil {
		return errors.Join(cause, fmt.Errorf("record import run %s: %w", runID, err))
	}
	return cause
}

// Lookup reads the current state of a run.
func (e *AsyncExecutor) Lookup(ctx context.Context, taskID string) (*Handle, error) {
	run, err := e.store.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return handleFromRun(run), nil
}

func handleFromRun(run *entities.ImportRun) *Handle {
	h := &Handle{
		TaskID:  run.ID,
		OwnerID: run.OwnerID,
		State:   run.State,
		Result:  contacts.Status{Imported: run.Imported, Total: run.Total},
	}
	if run.State == entities.RunStateFailure {
		h.Err = errors.New(run.Error)
	}
	return h
}
