// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/evasim27/library/internal/tasks"
)

// NotificationScanScheduler periodically enqueues due-date notification scans.
type NotificationScanScheduler struct {
	tasksClient *tasks.Client
	schedule    string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewNotificationScanScheduler creates a new scheduler instance.
func NewNotificationScanScheduler(tasksClient *tasks.Client, schedule string) *NotificationScanScheduler {
	return &NotificationScanScheduler{
		tasksClient: tasksClient,
		schedule:    schedule,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *NotificationScanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.tasksClient == nil {
		log.Printf("Notification scan scheduler: task queue not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueueScan()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule notification scan job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Notification scan scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *NotificationScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Notification scan scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *NotificationScanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scan will be enqueued.
func (s *NotificationScanScheduler) GetNextRunTime() *time.Time {
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

func (s *NotificationScanScheduler) enqueueScan() {
	if _, err := s.tasksClient.Add(tasks.ScanDueDatesTask{}).Save(); err != nil {
		log.Printf("Notification scan: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Notification scan: task enqueued")
}
