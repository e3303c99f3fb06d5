package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/database/books"
	"github.com/evasim27/library/internal/entities"
)

// BooksStore defines database operations for catalog and lifecycle management.
type BooksStore interface {
	GetByID(id uint) (*entities.Book, error)
	List(filter books.ListFilter) ([]entities.Book, error)
	Create(book *entities.Book) error
	Update(id uint, book *entities.Book) (*entities.Book, error)
	Delete(id uint) error
	GetStats() (*books.Stats, error)
	GetBorrowedByUser(userID uint) ([]entities.Book, error)
	Borrow(bookID, userID uint, now time.Time) (*entities.Book, error)
	Return(bookID uint) (*entities.Book, error)
	Extend(bookID uint, currentDue time.Time) (*entities.Book, error)
	Reserve(bookID, userID uint, now time.Time) (*entities.Book, error)
	ClearReservation(bookID uint) (*entities.Book, error)
}

type BooksController struct {
	store BooksStore
}

func NewBooksController(store BooksStore) *BooksController {
	return &BooksController{store: store}
}

type bookRequest struct {
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	CoverImage      string     `json:"coverImage"`
	PublicationDate *time.Time `json:"publicationDate"`
	ISBN            string     `json:"isbn"`
}

// ListBooks returns the catalog, optionally filtered.
// GET /api/books?status=&category=&search=
func (bc *BooksController) ListBooks(c *gin.Context) {
	filter := books.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	result, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": result, "total": len(result)})
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// CreateBook adds a book to the catalog.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Title == "" || req.Author == "" || req.Category == "" {
		respondBadRequest(c, "title, author and category are required")
		return
	}

	book := &entities.Book{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		Category:        req.Category,
		CoverImage:      req.CoverImage,
		PublicationDate: req.PublicationDate,
		ISBN:            req.ISBN,
		Status:          entities.BookStatusAvailable,
	}

	if err := bc.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// UpdateBook updates catalog fields of a book.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Title == "" || req.Author == "" || req.Category == "" {
		respondBadRequest(c, "title, author and category are required")
		return
	}

	book, err := bc.store.Update(id, &entities.Book{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		Category:        req.Category,
		CoverImage:      req.CoverImage,
		PublicationDate: req.PublicationDate,
		ISBN:            req.ISBN,
	})
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book from the catalog.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// GetBookStats returns catalog counts.
// GET /api/books/stats
func (bc *BooksController) GetBookStats(c *gin.Context) {
	stats, err := bc.store.GetStats()
	if err != nil {
		respondInternalError(c, err, "get book stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MyBooks returns the books currently borrowed by the caller.
// GET /api/books/my-books
func (bc *BooksController) MyBooks(c *gin.Context) {
	userID := GetUserID(c)

	result, err := bc.store.GetBorrowedByUser(userID)
	if err != nil {
		respondInternalError(c, err, "list borrowed books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": result, "total": len(result)})
}

// BorrowBook borrows an available book for the caller.
// POST /api/books/:id/borrow
func (bc *BooksController) BorrowBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	book, err := bc.store.Borrow(id, userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrBookUnavailable):
			respondBadRequest(c, "book is already borrowed")
		default:
			respondInternalError(c, err, "borrow book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book borrowed", "book": book})
}

// ReturnBook returns a borrowed book. Only the borrower or staff may return it.
// POST /api/books/:id/return
func (bc *BooksController) ReturnBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "return book")
		return
	}

	if book.Status != entities.BookStatusBorrowed || book.BorrowedByID == nil {
		respondBadRequest(c, "book is not currently borrowed")
		return
	}

	if *book.BorrowedByID != GetUserID(c) && !auth.IsStaff(c) {
		respondForbidden(c, "only the borrower can return this book")
		return
	}

	updated, err := bc.store.Return(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotBorrowed) {
			respondBadRequest(c, "book is not currently borrowed")
			return
		}
		respondInternalError(c, err, "return book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book returned", "book": updated})
}

// ExtendBook extends the due date of a borrowed book by the standard
// extension period, counted from the current due date.
// POST /api/books/:id/extend
func (bc *BooksController) ExtendBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "extend book")
		return
	}

	if book.Status != entities.BookStatusBorrowed || book.BorrowedByID == nil {
		respondBadRequest(c, "book is not currently borrowed")
		return
	}

	if book.DueDate == nil {
		respondBadRequest(c, "book has no due date set")
		return
	}

	if *book.BorrowedByID != GetUserID(c) {
		respondForbidden(c, "only the borrower can extend this book")
		return
	}

	updated, err := bc.store.Extend(id, *book.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotBorrowed):
			respondBadRequest(c, "book is not currently borrowed")
		case errors.Is(err, books.ErrNoDueDate):
			respondBadRequest(c, "book has no due date set")
		default:
			respondInternalError(c, err, "extend book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "due date extended", "book": updated})
}

// ReserveBook places the caller in the book's reservation slot.
// POST /api/books/:id/reserve
func (bc *BooksController) ReserveBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	book, err := bc.store.Reserve(id, userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, books.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrAlreadyReservedByUser):
			respondBadRequest(c, "you have already reserved this book")
		case errors.Is(err, books.ErrAlreadyReserved):
			respondBadRequest(c, "book is already reserved by another user")
		default:
			respondInternalError(c, err, "reserve book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "book reserved", "book": book})
}

// CancelBookReservation clears the book's reservation slot. Only the
// reservation owner or staff may cancel it.
// DELETE /api/books/:id/reserve
func (bc *BooksController) CancelBookReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "cancel reservation")
		return
	}

	if book.ReservedByID == nil {
		respondBadRequest(c, "book is not currently reserved")
		return
	}

	if *book.ReservedByID != GetUserID(c) && !auth.IsStaff(c) {
		respondForbidden(c, "only the reservation owner can cancel it")
		return
	}

	updated, err := bc.store.ClearReservation(id)
	if err != nil {
		if errors.Is(err, books.ErrNotReserved) {
			respondBadRequest(c, "book is not currently reserved")
			return
		}
		respondInternalError(c, err, "cancel reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation cancelled", "book": updated})
}
