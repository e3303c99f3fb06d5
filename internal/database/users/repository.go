// Package users provides database operations for user administration and
// notification preferences.
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/evasim27/library/internal/entities"
)

var ErrUserNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns a user or ErrUserNotFound.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users newest first. search matches name or email
// case-insensitively; status filters by blocked flag ("active"/"blocked").
func (r *Repository) List(search, status string) ([]entities.User, error) {
	query := r.db.Model(&entities.User{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
			pattern, pattern, pattern,
		)
	}

	switch status {
	case "active":
		query = query.Where("blocked = ?", false)
	case "blocked":
		query = query.Where("blocked = ?", true)
	}

	var users []entities.User
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

// SetBlocked blocks or unblocks a user and returns the updated record.
func (r *Repository) SetBlocked(id uint, blocked bool) (*entities.User, error) {
	result := r.db.Model(&entities.User{}).
		Where("id = ?", id).
		Update("blocked", blocked)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(id)
}

// NotificationPreferences is the pair of per-user notification flags.
type NotificationPreferences struct {
	DueDateReminders bool `json:"dueDateReminders"`
	OverdueNotices   bool `json:"overdueNotices"`
}

// GetNotificationPreferences returns the user's notification flags.
func (r *Repository) GetNotificationPreferences(id uint) (*NotificationPreferences, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &NotificationPreferences{
		DueDateReminders: user.DueDateReminders,
		OverdueNotices:   user.OverdueNotices,
	}, nil
}

// UpdateNotificationPreferences overwrites the user's notification flags.
func (r *Repository) UpdateNotificationPreferences(id uint, prefs NotificationPreferences) (*NotificationPreferences, error) {
	result := r.db.Model(&entities.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"due_date_reminders": prefs.DueDateReminders,
			"overdue_notices":    prefs.OverdueNotices,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetNotificationPreferences(id)
}
