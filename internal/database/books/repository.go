// Package books provides database operations for the book catalog and the
// borrow/return/extend lifecycle.
//
// Lifecycle transitions are single conditional UPDATE statements guarded on
// the current status, so two concurrent borrows of the same book cannot both
// succeed: the loser sees zero affected rows and gets a conflict error.
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/evasim27/library/internal/config"
	"github.com/evasim27/library/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable means the book is already borrowed.
	ErrBookUnavailable = errors.New("book is already borrowed")
	// ErrBookNotBorrowed means a return/extend was attempted on an available book.
	ErrBookNotBorrowed = errors.New("book is not currently borrowed")
	ErrNoDueDate       = errors.New("book has no due date set")
	// ErrAlreadyReservedByUser means the caller already holds the reservation slot.
	ErrAlreadyReservedByUser = errors.New("book already reserved by this user")
	// ErrAlreadyReserved means another user holds the reservation slot.
	ErrAlreadyReserved = errors.New("book is already reserved by another user")
	ErrNotReserved     = errors.New("book is not currently reserved")
)

// ListFilter narrows ListBooks results. Zero values match everything.
type ListFilter struct {
	Status   string // "Available", "Borrowed" or "" / "all"
	Category string
	Search   string // case-insensitive substring over title/author/category
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns a single book or ErrBookNotFound.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// List returns books matching the filter, newest first.
func (r *Repository) List(filter ListFilter) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{})

	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title LIKE ? OR author LIKE ? OR category LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var books []entities.Book
	err := query.Order("created_at DESC").Find(&books).Error
	return books, err
}

// Create inserts a new catalog entry.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Update overwrites the catalog fields of an existing book. Lifecycle fields
// (borrow/reserve state, rating aggregate) are untouched.
func (r *Repository) Update(id uint, book *entities.Book) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":            book.Title,
		"author":           book.Author,
		"description":      book.Description,
		"category":         book.Category,
		"cover_image":      book.CoverImage,
		"publication_date": book.PublicationDate,
		"isbn":             book.ISBN,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrBookNotFound
	}
	return r.GetByID(id)
}

// Delete removes a book from the catalog.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Stats holds catalog-wide counts.
type Stats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Borrowed  int64 `json:"borrowed"`
}

// GetStats returns total/available/borrowed counts.
func (r *Repository) GetStats() (*Stats, error) {
	var stats Stats
	if err := r.db.Model(&entities.Book{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Book{}).
		Where("status = ?", entities.BookStatusAvailable).
		Count(&stats.Available).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Book{}).
		Where("status = ?", entities.BookStatusBorrowed).
		Count(&stats.Borrowed).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetBorrowedByUser returns the books currently borrowed by a user,
// most recently borrowed first.
func (r *Repository) GetBorrowedByUser(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("borrowed_by_id = ? AND status = ?", userID, entities.BookStatusBorrowed).
		Order("borrowed_date DESC").
		Find(&books).Error
	return books, err
}

// GetBorrowedWithDueDates returns every borrowed book that has a borrower and
// a due date, for the notification scan.
func (r *Repository) GetBorrowedWithDueDates() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("status = ? AND borrowed_by_id IS NOT NULL AND due_date IS NOT NULL",
			entities.BookStatusBorrowed).
		Find(&books).Error
	return books, err
}

// Borrow marks a book as borrowed by the user with a due date BorrowDays out.
// The status check and the write are one statement, so a concurrent borrow of
// the same book fails with ErrBookUnavailable instead of silently overwriting.
func (r *Repository) Borrow(bookID, userID uint, now time.Time) (*entities.Book, error) {
	dueDate := now.AddDate(0, 0, config.BorrowDays)

	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND status = ?", bookID, entities.BookStatusAvailable).
		Updates(map[string]any{
			"status":         entities.BookStatusBorrowed,
			"borrowed_by_id": userID,
			"borrowed_date":  now,
			"due_date":       dueDate,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the book does not exist or it is already borrowed.
		if _, err := r.GetByID(bookID); err != nil {
			return nil, err
		}
		return nil, ErrBookUnavailable
	}

	return r.GetByID(bookID)
}

// Return clears the borrow state of a book. Conditional on the book still
// being borrowed; callers check ownership before calling.
func (r *Repository) Return(bookID uint) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND status = ?", bookID, entities.BookStatusBorrowed).
		Updates(map[string]any{
			"status":         entities.BookStatusAvailable,
			"borrowed_by_id": nil,
			"borrowed_date":  nil,
			"due_date":       nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(bookID); err != nil {
			return nil, err
		}
		return nil, ErrBookNotBorrowed
	}

	return r.GetByID(bookID)
}

// Extend pushes the due date ExtensionDays past the current due date (not
// past now) and returns the updated book.
func (r *Repository) Extend(bookID uint, currentDue time.Time) (*entities.Book, error) {
	newDue := currentDue.AddDate(0, 0, config.ExtensionDays)

	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND status = ? AND due_date IS NOT NULL",
			bookID, entities.BookStatusBorrowed).
		Update("due_date", newDue)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(bookID); err != nil {
			return nil, err
		}
		return nil, ErrBookNotBorrowed
	}

	return r.GetByID(bookID)
}

// Reserve takes the book's single reservation slot for the user.
func (r *Repository) Reserve(bookID, userID uint, now time.Time) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND reserved_by_id IS NULL", bookID).
		Updates(map[string]any{
			"reserved_by_id": userID,
			"reserved_date":  now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		book, err := r.GetByID(bookID)
		if err != nil {
			return nil, err
		}
		if book.ReservedByID != nil && *book.ReservedByID == userID {
			return nil, ErrAlreadyReservedByUser
		}
		return nil, ErrAlreadyReserved
	}

	return r.GetByID(bookID)
}

// ClearReservation releases the book's reservation slot. Callers check
// ownership before calling.
func (r *Repository) ClearReservation(bookID uint) (*entities.Book, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND reserved_by_id IS NOT NULL", bookID).
		Updates(map[string]any{
			"reserved_by_id": nil,
			"reserved_date":  nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(bookID); err != nil {
			return nil, err
		}
		return nil, ErrNotReserved
	}

	return r.GetByID(bookID)
}
