// Package notifications provides database operations for due-date
// notifications. At most one notification exists per (user, book, type),
// enforced by an existence check before insert.
package notifications

import (
	"errors"

	"gorm.io/gorm"

	"github.com/evasim27/library/internal/entities"
)

var ErrNotificationNotFound = errors.New("notification not found")

// ListLimit caps how many notifications a single listing returns.
const ListLimit = 50

// Repository handles all notification database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns a user's notifications, newest first, capped at ListLimit.
func (r *Repository) ListByUser(userID uint, unreadOnly bool) ([]entities.Notification, error) {
	query := r.db.Preload("Book").Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []entities.Notification
	err := query.Order("created_at DESC").Limit(ListLimit).Find(&notifications).Error
	return notifications, err
}

// Exists reports whether a notification of the given type already exists for
// the (user, book) pair.
func (r *Repository) Exists(userID, bookID uint, typ entities.NotificationType) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Notification{}).
		Where("user_id = ? AND book_id = ? AND type = ?", userID, bookID, typ).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a notification.
func (r *Repository) Create(notification *entities.Notification) error {
	return r.db.Create(notification).Error
}

// MarkRead marks one of the user's notifications as read.
func (r *Repository) MarkRead(userID, notificationID uint) (*entities.Notification, error) {
	var notification entities.Notification
	err := r.db.
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if err := r.db.Model(&notification).Update("read", true).Error; err != nil {
		return nil, err
	}
	notification.Read = true
	return &notification, nil
}

// MarkAllRead marks all of the user's unread notifications as read.
func (r *Repository) MarkAllRead(userID uint) error {
	return r.db.Model(&entities.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete removes one of the user's notifications.
func (r *Repository) Delete(userID, notificationID uint) error {
	result := r.db.
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&entities.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAll removes all of the user's notifications.
func (r *Repository) DeleteAll(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entities.Notification{}).Error
}
