// Package reviews provides database operations for book reviews and keeps the
// per-book rating aggregate (average_rating, review_count) in sync.
package reviews

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/evasim27/library/internal/entities"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	// ErrAlreadyReviewed means the user already has a review for this book.
	ErrAlreadyReviewed = errors.New("user has already reviewed this book")
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new review repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID returns a review or ErrReviewNotFound.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// ListByBook returns all reviews for a book, newest first.
func (r *Repository) ListByBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// Create inserts a review and refreshes the book's rating aggregate.
// A user can review each book once; the (book, user) pair is also backed by
// a unique index.
func (r *Repository) Create(review *entities.Review) (*entities.Review, error) {
	var existing entities.Review
	err := r.db.
		Where("book_id = ? AND user_id = ?", review.BookID, review.UserID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Create(review).Error; err != nil {
		return nil, err
	}
	if err := r.refreshBookRating(review.BookID); err != nil {
		return nil, err
	}

	return r.GetByID(review.ID)
}

// Update overwrites a review's rating and comment and refreshes the aggregate.
func (r *Repository) Update(id uint, rating int, comment string) (*entities.Review, error) {
	review, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.Review{}).Where("id = ?", id).Updates(map[string]any{
		"rating":  rating,
		"comment": comment,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := r.refreshBookRating(review.BookID); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Delete removes a review and refreshes the aggregate. Deleting the last
// review for a book resets its average to zero.
func (r *Repository) Delete(id uint) error {
	review, err := r.GetByID(id)
	if err != nil {
		return err
	}

	if err := r.db.Delete(&entities.Review{}, id).Error; err != nil {
		return err
	}
	return r.refreshBookRating(review.BookID)
}

// refreshBookRating recomputes average_rating (rounded to one decimal) and
// review_count from the reviews table and persists them onto the book.
func (r *Repository) refreshBookRating(bookID uint) error {
	var (
		count int64
		sum   int64
	)
	if err := r.db.Model(&entities.Review{}).
		Where("book_id = ?", bookID).
		Count(&count).Error; err != nil {
		return err
	}

	average := 0.0
	if count > 0 {
		row := r.db.Model(&entities.Review{}).
			Where("book_id = ?", bookID).
			Select("SUM(rating)").
			Row()
		if err := row.Scan(&sum); err != nil {
			return err
		}
		average = math.Round(float64(sum)/float64(count)*10) / 10
	}

	return r.db.Model(&entities.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]any{
			"average_rating": average,
			"review_count":   count,
		}).Error
}
