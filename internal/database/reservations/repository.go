// Package reservations provides database operations for the reservation
// pickup workflow (Pending -> Confirmed / Cancelled).
package reservations

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/evasim27/library/internal/entities"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrActiveReservationExists means the user already has a Pending or
	// Confirmed reservation for the book.
	ErrActiveReservationExists = errors.New("an active reservation already exists for this book")
)

// Repository handles all reservation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns a reservation with its user and book loaded.
func (r *Repository) GetByID(id uint) (*entities.Reservation, error) {
	var reservation entities.Reservation
	err := r.db.Preload("User").Preload("Book").First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// List returns reservations newest first, optionally filtered by status.
// When userID is non-zero only that user's reservations are returned.
func (r *Repository) List(userID uint, status string) ([]entities.Reservation, error) {
	query := r.db.Preload("User").Preload("Book")

	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var reservations []entities.Reservation
	err := query.Order("created_at DESC").Find(&reservations).Error
	return reservations, err
}

// Create inserts a Pending reservation unless the user already has an active
// one for this book. The duplicate guard is an existence check, not a unique
// constraint.
func (r *Repository) Create(userID, bookID uint, now time.Time) (*entities.Reservation, error) {
	var existing entities.Reservation
	err := r.db.
		Where("user_id = ? AND book_id = ? AND status IN ?",
			userID, bookID,
			[]entities.ReservationStatus{
				entities.ReservationStatusPending,
				entities.ReservationStatusConfirmed,
			}).
		First(&existing).Error
	if err == nil {
		return nil, ErrActiveReservationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	reservation := &entities.Reservation{
		UserID:          userID,
		BookID:          bookID,
		Status:          entities.ReservationStatusPending,
		ReservationDate: now,
	}
	if err := r.db.Create(reservation).Error; err != nil {
		return nil, err
	}

	return r.GetByID(reservation.ID)
}

// SetStatus moves a reservation to the given status.
func (r *Repository) SetStatus(id uint, status entities.ReservationStatus) (*entities.Reservation, error) {
	result := r.db.Model(&entities.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReservationNotFound
	}
	return r.GetByID(id)
}
