package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/contacts/internal/tasks"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// Enqueuer adds tasks to the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// EnqueueCleanup hands each run to the task queue, for async deployments.
func EnqueueCleanup(queue Enqueuer, retention time.Duration) Job {
	return func(context.Context) error {
		id, err := queue.Enqueue(tasks.CleanupTask{RetentionHours: retentionHours(retention)})
		if err != nil {
			return fmt.Errorf("enqueue cleanup: %w", err)
		}
		log.Printf("[CLEANUP] Enqueued cleanup task %s", id)
		return nil
	}
}

// InlineCleanup runs the cleanup in the scheduler goroutine.
func InlineCleanup(retention time.Duration, cleaners ...tasks.NamedCleaner) Job {
	return func(ctx context.Context) error {
		_, err := tasks.RunCleanup(ctx, retention, cleaners...)
		return err
	}
}

// retentionHours rounds up so short retentions never become "keep forever".
func retentionHours(d time.Duration) int {
	hours := int((d + time.Hour - 1) / time.Hour)
	if hours < 1 {
		return 1
	}
	return hours
}

// CleanupScheduler periodically removes abandoned imports.
type CleanupScheduler struct {
	schedule string
	job      Job

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isCleaning bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewCleanupScheduler creates a scheduler running job on schedule.
func NewCleanupScheduler(schedule string, job Job) *CleanupScheduler {
	return &CleanupScheduler{
		schedule: schedule,
		job:      job,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins the scheduler. It stops on its own when ctx is cancelled.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	next, _ := scheduleParser.Parse(s.schedule)
	log.Printf("Cleanup scheduler: started with schedule '%s'. Next run: %v", s.schedule, next.Next(time.Now()))

	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(s.ctx.Done())

	return nil
}

// Stop cancels a running cleanup, waits for it to return and stops the
// scheduler.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	cancel()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.cron.Remove(s.entryID)

	log.Printf("Cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup in the background.
func (s *CleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *CleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CleanupScheduler) runCleanup() {
	s.mu.Lock()
	if s.isCleaning {
		s.mu.Unlock()
		log.Printf("[CLEANUP] Skipped (already running)")
		return
	}
	s.isCleaning = true
	ctx := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isCleaning = false
		s.mu.Unlock()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	if err := s.job(ctx); err != nil {
		log.Printf("[CLEANUP] Failed: %v", err)
		return
	}
	log.Printf("[CLEANUP] Completed in %v", time.Since(start))
}
