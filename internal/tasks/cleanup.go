package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultRetention is how long imported contacts and runs are kept.
const DefaultRetention = 24 * time.Hour

// Cleaner deletes rows older than a retention period.
type Cleaner interface {
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// NamedCleaner pairs a Cleaner with the name used in log lines.
type NamedCleaner struct {
	Name    string
	Cleaner Cleaner
}

// CleanupTask removes abandoned imported contacts and finished import runs.
type CleanupTask struct {
	RetentionHours int `json:"retention_hours"`
}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_imports",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Retention returns the task retention, falling back to DefaultRetention.
func (t CleanupTask) Retention() time.Duration {
	if t.RetentionHours <= 0 {
		return DefaultRetention
	}
	return time.Duration(t.RetentionHours) * time.Hour
}

// RunCleanup deletes old rows from every cleaner and returns the total count.
// It stops at the first failing cleaner.
func RunCleanup(ctx context.Context, retention time.Duration, cleaners ...NamedCleaner) (int64, error) {
	var total int64
	for _, nc := range cleaners {
		deleted, err := nc.Cleaner.DeleteOlderThan(ctx, retention)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", nc.Name, err)
		}
		if deleted > 0 {
			log.Printf("[CLEANUP] Removed %d %s older than %s", deleted, nc.Name, retention)
		}
		total += deleted
	}
	return total, nil
}

// CleanupProcessor creates a processor function for CleanupTask.
func CleanupProcessor(cleaners ...NamedCleaner) backlite.QueueProcessor[CleanupTask] {
	return func(ctx context.Context, task CleanupTask) error {
		_, err := RunCleanup(ctx, task.Retention(), cleaners...)
		return err
	}
}

// NewCleanupQueue creates a backlite queue for cleanup tasks.
func NewCleanupQueue(cleaners ...NamedCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupProcessor(cleaners...))
}
