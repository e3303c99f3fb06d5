package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/database/notifications"
	"github.com/evasim27/library/internal/database/users"
	"github.com/evasim27/library/internal/entities"
	"github.com/evasim27/library/internal/notifier"
)

// NotificationsStore defines database operations for user notifications.
type NotificationsStore interface {
	ListByUser(userID uint, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(userID, notificationID uint) (*entities.Notification, error)
	MarkAllRead(userID uint) error
	Delete(userID, notificationID uint) error
	DeleteAll(userID uint) error
}

// PreferencesStore defines operations for notification preference flags.
type PreferencesStore interface {
	GetNotificationPreferences(id uint) (*users.NotificationPreferences, error)
	UpdateNotificationPreferences(id uint, prefs users.NotificationPreferences) (*users.NotificationPreferences, error)
}

// DueDateScanner runs a due-date notification scan.
type DueDateScanner interface {
	Scan(now time.Time) (*notifier.Result, error)
}

type NotificationsController struct {
	store       NotificationsStore
	preferences PreferencesStore
	scanner     DueDateScanner
}

func NewNotificationsController(store NotificationsStore, preferences PreferencesStore, scanner DueDateScanner) *NotificationsController {
	return &NotificationsController{store: store, preferences: preferences, scanner: scanner}
}

// ListNotifications returns the caller's notifications, newest first.
// GET /api/notifications?unreadOnly=true
func (nc *NotificationsController) ListNotifications(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unreadOnly"))

	result, err := nc.store.ListByUser(GetUserID(c), unreadOnly)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": result, "total": len(result)})
}

type markReadRequest struct {
	NotificationID uint `json:"notificationId"`
	MarkAllAsRead  bool `json:"markAllAsRead"`
}

// MarkRead marks one notification (notificationId) or all of the caller's
// notifications (markAllAsRead) as read.
// PATCH /api/notifications
func (nc *NotificationsController) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	userID := GetUserID(c)

	if req.MarkAllAsRead {
		if err := nc.store.MarkAllRead(userID); err != nil {
			respondInternalError(c, err, "mark notifications read")
			return
		}
		respondSuccess(c, "all notifications marked as read")
		return
	}

	if req.NotificationID == 0 {
		respondBadRequest(c, "notificationId or markAllAsRead is required")
		return
	}

	notification, err := nc.store.MarkRead(userID, req.NotificationID)
	if err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "notification")
			return
		}
		respondInternalError(c, err, "mark notification read")
		return
	}

	c.JSON(http.StatusOK, notification)
}

// DeleteNotifications deletes one notification (?id=) or all of the
// caller's notifications (?deleteAll=true).
// DELETE /api/notifications
func (nc *NotificationsController) DeleteNotifications(c *gin.Context) {
	userID := GetUserID(c)

	if deleteAll, _ := strconv.ParseBool(c.Query("deleteAll")); deleteAll {
		if err := nc.store.DeleteAll(userID); err != nil {
			respondInternalError(c, err, "delete notifications")
			return
		}
		respondSuccess(c, "all notifications deleted")
		return
	}

	id, ok := parseQueryID(c, "id")
	if !ok {
		return
	}

	if err := nc.store.Delete(userID, id); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "notification")
			return
		}
		respondInternalError(c, err, "delete notification")
		return
	}

	respondSuccess(c, "notification deleted")
}

// GetSettings returns the caller's notification preference flags.
// GET /api/notifications/settings
func (nc *NotificationsController) GetSettings(c *gin.Context) {
	prefs, err := nc.preferences.GetNotificationPreferences(GetUserID(c))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get notification settings")
		return
	}

	c.JSON(http.StatusOK, prefs)
}

type settingsRequest struct {
	DueDateReminders *bool `json:"dueDateReminders"`
	OverdueNotices   *bool `json:"overdueNotices"`
}

// UpdateSettings updates the caller's notification preference flags.
// PATCH /api/notifications/settings
func (nc *NotificationsController) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	userID := GetUserID(c)

	current, err := nc.preferences.GetNotificationPreferences(userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "update notification settings")
		return
	}

	if req.DueDateReminders != nil {
		current.DueDateReminders = *req.DueDateReminders
	}
	if req.OverdueNotices != nil {
		current.OverdueNotices = *req.OverdueNotices
	}

	updated, err := nc.preferences.UpdateNotificationPreferences(userID, *current)
	if err != nil {
		respondInternalError(c, err, "update notification settings")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RunCheck runs the due-date scan synchronously and reports how many
// notifications were created.
// POST /api/notifications/check (staff) and GET /api/notifications/check
// (unauthenticated batch trigger, kept for external cron compatibility).
func (nc *NotificationsController) RunCheck(c *gin.Context) {
	result, err := nc.scanner.Scan(time.Now())
	if err != nil {
		respondInternalError(c, err, "notification check")
		return
	}

	c.JSON(http.StatusOK, result)
}
