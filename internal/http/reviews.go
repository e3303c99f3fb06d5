package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/database/books"
	"github.com/evasim27/library/internal/database/reviews"
	"github.com/evasim27/library/internal/entities"
)

const (
	minReviewRating        = 1
	maxReviewRating        = 5
	minReviewCommentLength = 10
	maxReviewCommentLength = 1000
)

// ReviewsStore defines database operations for reviews.
type ReviewsStore interface {
	GetByID(id uint) (*entities.Review, error)
	ListByBook(bookID uint) ([]entities.Review, error)
	Create(review *entities.Review) (*entities.Review, error)
	Update(id uint, rating int, comment string) (*entities.Review, error)
	Delete(id uint) error
}

// ReviewBookStore is the subset of book operations reviews need.
type ReviewBookStore interface {
	GetByID(id uint) (*entities.Book, error)
}

type ReviewsController struct {
	store     ReviewsStore
	bookStore ReviewBookStore
}

func NewReviewsController(store ReviewsStore, bookStore ReviewBookStore) *ReviewsController {
	return &ReviewsController{store: store, bookStore: bookStore}
}

func validateReview(rating int, comment string) string {
	if rating < minReviewRating || rating > maxReviewRating {
		return "rating must be between 1 and 5"
	}
	length := len(strings.TrimSpace(comment))
	if length < minReviewCommentLength || length > maxReviewCommentLength {
		return "comment must be between 10 and 1000 characters"
	}
	return ""
}

// ListReviews returns all reviews for a book.
// GET /api/reviews?bookId=
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	bookID, ok := parseQueryID(c, "bookId")
	if !ok {
		return
	}

	result, err := rc.store.ListByBook(bookID)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": result, "total": len(result)})
}

type reviewRequest struct {
	BookID  uint   `json:"bookId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview adds the caller's review of a book. A user may only review
// a book once; the book's aggregate rating is recomputed.
// POST /api/reviews
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.BookID == 0 {
		respondBadRequest(c, "bookId is required")
		return
	}

	if msg := validateReview(req.Rating, req.Comment); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	if _, err := rc.bookStore.GetByID(req.BookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "create review")
		return
	}

	review, err := rc.store.Create(&entities.Review{
		BookID:  req.BookID,
		UserID:  GetUserID(c),
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	})
	if err != nil {
		if errors.Is(err, reviews.ErrAlreadyReviewed) {
			respondBadRequest(c, "you have already reviewed this book")
			return
		}
		respondInternalError(c, err, "create review")
		return
	}

	respondCreated(c, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReview updates the caller's own review.
// PUT /api/reviews/:id
func (rc *ReviewsController) UpdateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if msg := validateReview(req.Rating, req.Comment); msg != "" {
		respondBadRequest(c, msg)
		return
	}

	review, err := rc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "update review")
		return
	}

	if review.UserID != GetUserID(c) {
		respondForbidden(c, "you can only edit your own reviews")
		return
	}

	updated, err := rc.store.Update(id, req.Rating, strings.TrimSpace(req.Comment))
	if err != nil {
		respondInternalError(c, err, "update review")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteReview removes a review. Owners may delete their own; staff may
// delete any.
// DELETE /api/reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "delete review")
		return
	}

	if review.UserID != GetUserID(c) && !auth.IsStaff(c) {
		respondForbidden(c, "you can only delete your own reviews")
		return
	}

	if err := rc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete review")
		return
	}

	respondSuccess(c, "review deleted")
}
