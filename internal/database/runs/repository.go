// Package runs keeps track of imports executed by the task queue so that the
// request layer can poll their outcome.
package runs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
)

// Repository handles import run database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new import runs repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new run. A run without a state starts as PENDING.
func (r *Repository) Create(ctx context.Context, run *entities.ImportRun) error {
	if run.State == "" {
		run.State = entities.RunStatePending
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// MarkDone records the final status of a successful run.
func (r *Repository) MarkDone(ctx context.Context, id string, status contacts.Status) error {
	return r.update(ctx, id, map[string]any{
		"state":    entities.RunStateDone,
		"imported": status.Imported,
		"total":    status.Total,
		"error":    "",
	})
}

// MarkFailed records a failed run with its error message.
func (r *Repository) MarkFailed(ctx context.Context, id string, message string) error {
	return r.update(ctx, id, map[string]any{
		"state": entities.RunStateFailure,
		"error": message,
	})
}

func (r *Repository) update(ctx context.Context, id string, values map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ImportRun{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update import run %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrImportRunNotFound, id)
	}
	return nil
}

// Get returns a run by ID.
func (r *Repository) Get(ctx context.Context, id string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", entities.ErrImportRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteOlderThan removes runs created more than retention ago.
func (r *Repository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entities.ImportRun{})
	return result.RowsAffected, result.Error
}
