package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evasim27/library/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestBook(t *testing.T, db *gorm.DB, title, author, category string) *entities.Book {
	book := &entities.Book{
		Title:    title,
		Author:   author,
		Category: category,
		Status:   entities.BookStatusAvailable,
	}
	err := db.Create(book).Error
	require.NoError(t, err)
	return book
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	user := &entities.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
		Role:         entities.UserRoleUser,
	}
	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

func TestRepository_GetByID(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")

	t.Run("existing book", func(t *testing.T) {
		got, err := repo.GetByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", got.Title)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := repo.GetByID(9999)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	createTestBook(t, db, "Emma", "Jane Austen", "Classics")
	borrowed := createTestBook(t, db, "Neuromancer", "William Gibson", "Science Fiction")
	user := createTestUser(t, db, "borrower@example.com")

	_, err := repo.Borrow(borrowed.ID, user.ID, time.Now())
	require.NoError(t, err)

	t.Run("no filter returns all", func(t *testing.T) {
		books, err := repo.List(ListFilter{})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		books, err := repo.List(ListFilter{Status: string(entities.BookStatusBorrowed)})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Neuromancer", books[0].Title)
	})

	t.Run("category filter", func(t *testing.T) {
		books, err := repo.List(ListFilter{Category: "Classics"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Emma", books[0].Title)
	})

	t.Run("search matches author substring", func(t *testing.T) {
		books, err := repo.List(ListFilter{Search: "gibson"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Neuromancer", books[0].Title)
	})

	t.Run("all sentinel ignored", func(t *testing.T) {
		books, err := repo.List(ListFilter{Status: "all", Category: "all"})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})
}

func TestRepository_Update(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	user := createTestUser(t, db, "borrower@example.com")

	_, err := repo.Borrow(book.ID, user.ID, time.Now())
	require.NoError(t, err)

	t.Run("updates catalog fields, keeps lifecycle state", func(t *testing.T) {
		updated, err := repo.Update(book.ID, &entities.Book{
			Title:    "Dune Messiah",
			Author:   "Frank Herbert",
			Category: "Science Fiction",
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.Equal(t, entities.BookStatusBorrowed, updated.Status)
		require.NotNil(t, updated.BorrowedByID)
		assert.Equal(t, user.ID, *updated.BorrowedByID)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := repo.Update(9999, &entities.Book{Title: "x", Author: "y", Category: "z"})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")

	require.NoError(t, repo.Delete(book.ID))
	assert.ErrorIs(t, repo.Delete(book.ID), ErrBookNotFound)
}

func TestRepository_GetStats(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	borrowed := createTestBook(t, db, "Emma", "Jane Austen", "Classics")
	user := createTestUser(t, db, "borrower@example.com")

	_, err := repo.Borrow(borrowed.ID, user.ID, time.Now())
	require.NoError(t, err)

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(1), stats.Borrowed)
}

func TestRepository_Borrow(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	user := createTestUser(t, db, "first@example.com")
	other := createTestUser(t, db, "second@example.com")

	now := time.Now()

	t.Run("sets borrow state and due date", func(t *testing.T) {
		got, err := repo.Borrow(book.ID, user.ID, now)
		require.NoError(t, err)

		assert.Equal(t, entities.BookStatusBorrowed, got.Status)
		require.NotNil(t, got.BorrowedByID)
		assert.Equal(t, user.ID, *got.BorrowedByID)
		require.NotNil(t, got.DueDate)
		assert.WithinDuration(t, now.AddDate(0, 0, 14), *got.DueDate, time.Second)
	})

	t.Run("second borrow fails", func(t *testing.T) {
		_, err := repo.Borrow(book.ID, other.ID, now)
		assert.ErrorIs(t, err, ErrBookUnavailable)

		// The original borrower is untouched
		got, err := repo.GetByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, *got.BorrowedByID)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := repo.Borrow(9999, user.ID, now)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_Return(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	user := createTestUser(t, db, "borrower@example.com")

	t.Run("not borrowed", func(t *testing.T) {
		_, err := repo.Return(book.ID)
		assert.ErrorIs(t, err, ErrBookNotBorrowed)
	})

	t.Run("clears borrow state", func(t *testing.T) {
		_, err := repo.Borrow(book.ID, user.ID, time.Now())
		require.NoError(t, err)

		got, err := repo.Return(book.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.BookStatusAvailable, got.Status)
		assert.Nil(t, got.BorrowedByID)
		assert.Nil(t, got.BorrowedDate)
		assert.Nil(t, got.DueDate)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := repo.Return(9999)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_Extend(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	user := createTestUser(t, db, "borrower@example.com")

	now := time.Now()
	borrowed, err := repo.Borrow(book.ID, user.ID, now)
	require.NoError(t, err)

	t.Run("extends from the current due date", func(t *testing.T) {
		got, err := repo.Extend(book.ID, *borrowed.DueDate)
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)

		// 14 days from borrow plus 7 extension days
		assert.WithinDuration(t, now.AddDate(0, 0, 21), *got.DueDate, time.Second)
	})

	t.Run("not borrowed", func(t *testing.T) {
		_, err := repo.Return(book.ID)
		require.NoError(t, err)

		_, err = repo.Extend(book.ID, now)
		assert.ErrorIs(t, err, ErrBookNotBorrowed)
	})
}

func TestRepository_Reserve(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	user := createTestUser(t, db, "first@example.com")
	other := createTestUser(t, db, "second@example.com")

	now := time.Now()

	t.Run("takes the reservation slot", func(t *testing.T) {
		got, err := repo.Reserve(book.ID, user.ID, now)
		require.NoError(t, err)
		require.NotNil(t, got.ReservedByID)
		assert.Equal(t, user.ID, *got.ReservedByID)
		assert.NotNil(t, got.ReservedDate)
	})

	t.Run("same user again", func(t *testing.T) {
		_, err := repo.Reserve(book.ID, user.ID, now)
		assert.ErrorIs(t, err, ErrAlreadyReservedByUser)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := repo.Reserve(book.ID, other.ID, now)
		assert.ErrorIs(t, err, ErrAlreadyReserved)
	})

	t.Run("clear and re-reserve", func(t *testing.T) {
		got, err := repo.ClearReservation(book.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ReservedByID)
		assert.Nil(t, got.ReservedDate)

		_, err = repo.Reserve(book.ID, other.ID, now)
		require.NoError(t, err)
	})

	t.Run("clear without reservation", func(t *testing.T) {
		_, err := repo.ClearReservation(book.ID)
		require.NoError(t, err)

		_, err = repo.ClearReservation(book.ID)
		assert.ErrorIs(t, err, ErrNotReserved)
	})
}

func TestRepository_GetBorrowedWithDueDates(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestBook(t, db, "Dune", "Frank Herbert", "Science Fiction")
	borrowed := createTestBook(t, db, "Emma", "Jane Austen", "Classics")
	user := createTestUser(t, db, "borrower@example.com")

	_, err := repo.Borrow(borrowed.ID, user.ID, time.Now())
	require.NoError(t, err)

	books, err := repo.GetBorrowedWithDueDates()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
}
