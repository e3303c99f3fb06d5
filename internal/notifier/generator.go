// Package notifier generates due-date notifications for borrowed books.
//
// A scan walks every borrowed book with a due date and inserts at most one
// notification per (user, book, type): an overdue notice once the due date
// has passed, or a reminder once it is within the reminder window. Running
// the scan twice for an unchanged book creates nothing new. Notifications
// are not expired when a book is returned.
package notifier

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/evasim27/library/internal/config"
	"github.com/evasim27/library/internal/entities"
)

// dateFormat is used in notification messages.
const dateFormat = "Jan 2, 2006"

// BookStore provides the borrowed books to scan.
type BookStore interface {
	GetBorrowedWithDueDates() ([]entities.Book, error)
}

// UserStore resolves borrowers and their notification preferences.
type UserStore interface {
	GetByID(id uint) (*entities.User, error)
}

// NotificationStore persists generated notifications.
type NotificationStore interface {
	Exists(userID, bookID uint, typ entities.NotificationType) (bool, error)
	Create(notification *entities.Notification) error
}

// Result reports how many notifications a scan created.
type Result struct {
	RemindersCreated int `json:"remindersCreated"`
	OverdueCreated   int `json:"overdueCreated"`
}

// Generator runs due-date scans.
type Generator struct {
	books         BookStore
	users         UserStore
	notifications NotificationStore
}

// NewGenerator creates a notification generator.
func NewGenerator(books BookStore, users UserStore, notifications NotificationStore) *Generator {
	return &Generator{
		books:         books,
		users:         users,
		notifications: notifications,
	}
}

// Scan checks every borrowed book against now and creates the missing
// notifications, honoring each user's preferences.
func (g *Generator) Scan(now time.Time) (*Result, error) {
	borrowed, err := g.books.GetBorrowedWithDueDates()
	if err != nil {
		return nil, fmt.Errorf("failed to load borrowed books: %w", err)
	}

	reminderCutoff := now.AddDate(0, 0, config.ReminderWindowDays)
	result := &Result{}

	for _, book := range borrowed {
		if book.BorrowedByID == nil || book.DueDate == nil {
			continue
		}

		user, err := g.users.GetByID(*book.BorrowedByID)
		if err != nil {
			// Borrower may have been deleted; skip the book
			log.Printf("Notification scan: skipping book %d: %v", book.ID, err)
			continue
		}

		dueDate := *book.DueDate

		switch {
		case dueDate.Before(now):
			if !user.OverdueNotices {
				continue
			}
			created, err := g.createIfMissing(user.ID, book.ID, entities.NotificationTypeOverdue,
				overdueMessage(book.Title, dueDate))
			if err != nil {
				return nil, err
			}
			if created {
				result.OverdueCreated++
			}

		case !dueDate.After(reminderCutoff):
			if !user.DueDateReminders {
				continue
			}
			created, err := g.createIfMissing(user.ID, book.ID, entities.NotificationTypeReminder,
				reminderMessage(book.Title, dueDate, now))
			if err != nil {
				return nil, err
			}
			if created {
				result.RemindersCreated++
			}
		}
	}

	return result, nil
}

// createIfMissing inserts a notification unless one already exists for the
// (user, book, type) triple. Returns whether a row was created.
func (g *Generator) createIfMissing(userID, bookID uint, typ entities.NotificationType, message string) (bool, error) {
	exists, err := g.notifications.Exists(userID, bookID, typ)
	if err != nil {
		return false, fmt.Errorf("failed to check existing notification: %w", err)
	}
	if exists {
		return false, nil
	}

	err = g.notifications.Create(&entities.Notification{
		UserID:  userID,
		BookID:  bookID,
		Type:    typ,
		Message: message,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	return true, nil
}

func overdueMessage(title string, dueDate time.Time) string {
	return fmt.Sprintf("Book %q is overdue! It was due on %s.", title, dueDate.Format(dateFormat))
}

func reminderMessage(title string, dueDate, now time.Time) string {
	daysUntilDue := int(math.Ceil(dueDate.Sub(now).Hours() / 24))
	return fmt.Sprintf("Book %q is due in %d day(s) on %s.", title, daysUntilDue, dueDate.Format(dateFormat))
}
