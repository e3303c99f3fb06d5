package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/evasim27/library/internal/notifier"
)

// DueDateScanner runs a due/overdue notification scan.
type DueDateScanner interface {
	Scan(now time.Time) (*notifier.Result, error)
}

// ScanDueDatesTask triggers one due-date notification scan.
type ScanDueDatesTask struct{}

// Config returns the queue configuration for scan tasks.
func (t ScanDueDatesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "scan_due_dates",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScanDueDatesProcessor creates a processor function for ScanDueDatesTask.
func ScanDueDatesProcessor(scanner DueDateScanner) backlite.QueueProcessor[ScanDueDatesTask] {
	return func(ctx context.Context, task ScanDueDatesTask) error {
		if scanner == nil {
			return fmt.Errorf("due date scanner not configured")
		}

		result, err := scanner.Scan(time.Now())
		if err != nil {
			return fmt.Errorf("scan due dates: %w", err)
		}

		log.Printf("[TASK] Due date scan created %d reminder(s), %d overdue notice(s)",
			result.RemindersCreated, result.OverdueCreated)
		return nil
	}
}

// NewScanDueDatesQueue creates a backlite queue for due-date scan tasks.
func NewScanDueDatesQueue(scanner DueDateScanner) backlite.Queue {
	return backlite.NewQueue(ScanDueDatesProcessor(scanner))
}
