package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/database/books"
	"github.com/evasim27/library/internal/database/reservations"
	"github.com/evasim27/library/internal/entities"
)

// ReservationsStore defines database operations for reservation records.
type ReservationsStore interface {
	GetByID(id uint) (*entities.Reservation, error)
	List(userID uint, status string) ([]entities.Reservation, error)
	Create(userID, bookID uint, now time.Time) (*entities.Reservation, error)
	SetStatus(id uint, status entities.ReservationStatus) (*entities.Reservation, error)
}

// ReservationBookStore is the subset of book operations reservations need.
type ReservationBookStore interface {
	GetByID(id uint) (*entities.Book, error)
	Borrow(bookID, userID uint, now time.Time) (*entities.Book, error)
}

type ReservationsController struct {
	store     ReservationsStore
	bookStore ReservationBookStore
}

func NewReservationsController(store ReservationsStore, bookStore ReservationBookStore) *ReservationsController {
	return &ReservationsController{store: store, bookStore: bookStore}
}

// ListReservations returns reservation records. Plain users see their own,
// staff see all. Supports status and search filters.
// GET /api/reservations?status=&search=
func (rc *ReservationsController) ListReservations(c *gin.Context) {
	userID := uint(0)
	if !auth.IsStaff(c) {
		userID = GetUserID(c)
	}

	result, err := rc.store.List(userID, c.Query("status"))
	if err != nil {
		respondInternalError(c, err, "list reservations")
		return
	}

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		filtered := make([]entities.Reservation, 0, len(result))
		for _, res := range result {
			name := strings.ToLower(res.User.FirstName + " " + res.User.LastName)
			title := strings.ToLower(res.Book.Title)
			if strings.Contains(name, search) || strings.Contains(title, search) {
				filtered = append(filtered, res)
			}
		}
		result = filtered
	}

	c.JSON(http.StatusOK, gin.H{"reservations": result, "total": len(result)})
}

type createReservationRequest struct {
	BookID uint `json:"bookId"`
}

// CreateReservation creates a pending reservation record for the caller.
// POST /api/reservations
func (rc *ReservationsController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BookID == 0 {
		respondBadRequest(c, "bookId is required")
		return
	}

	if _, err := rc.bookStore.GetByID(req.BookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "create reservation")
		return
	}

	reservation, err := rc.store.Create(GetUserID(c), req.BookID, time.Now())
	if err != nil {
		if errors.Is(err, reservations.ErrActiveReservationExists) {
			respondBadRequest(c, "an active reservation already exists for this book")
			return
		}
		respondInternalError(c, err, "create reservation")
		return
	}

	respondCreated(c, reservation)
}

// ConfirmReservation confirms a pending pickup: the book is borrowed on
// behalf of the reserving user and the reservation is marked Confirmed.
// PATCH /api/reservations/:id
func (rc *ReservationsController) ConfirmReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := rc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			respondNotFound(c, "reservation")
			return
		}
		respondInternalError(c, err, "confirm reservation")
		return
	}

	if reservation.Status != entities.ReservationStatusPending {
		respondBadRequest(c, "reservation is not pending")
		return
	}

	if _, err := rc.bookStore.Borrow(reservation.BookID, reservation.UserID, time.Now()); err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrBookUnavailable):
			respondBadRequest(c, "book is already borrowed")
		default:
			respondInternalError(c, err, "confirm reservation")
		}
		return
	}

	updated, err := rc.store.SetStatus(id, entities.ReservationStatusConfirmed)
	if err != nil {
		respondInternalError(c, err, "confirm reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation confirmed", "reservation": updated})
}

// CancelReservation marks a reservation record as Cancelled.
// DELETE /api/reservations/:id
func (rc *ReservationsController) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	updated, err := rc.store.SetStatus(id, entities.ReservationStatusCancelled)
	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			respondNotFound(c, "reservation")
			return
		}
		respondInternalError(c, err, "cancel reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation cancelled", "reservation": updated})
}
