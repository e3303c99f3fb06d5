package users

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evasim27/library/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, firstName, lastName, email string) *entities.User {
	user := &entities.User{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		PasswordHash:     "x",
		Role:             entities.UserRoleUser,
		DueDateReminders: true,
		OverdueNotices:   true,
	}
	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

func TestRepository_List(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, db, "Alice", "Archer", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "Baker", "bob@example.com")

	_, err := repo.SetBlocked(bob.ID, true)
	require.NoError(t, err)

	t.Run("all users", func(t *testing.T) {
		users, err := repo.List("", "")
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("search by name", func(t *testing.T) {
		users, err := repo.List("archer", "")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].FirstName)
	})

	t.Run("search by email", func(t *testing.T) {
		users, err := repo.List("bob@", "")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].FirstName)
	})

	t.Run("status active", func(t *testing.T) {
		users, err := repo.List("", "active")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].FirstName)
	})

	t.Run("status blocked", func(t *testing.T) {
		users, err := repo.List("", "blocked")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].FirstName)
	})
}

func TestRepository_SetBlocked(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "Alice", "Archer", "alice@example.com")

	blocked, err := repo.SetBlocked(user.ID, true)
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)

	unblocked, err := repo.SetBlocked(user.ID, false)
	require.NoError(t, err)
	assert.False(t, unblocked.Blocked)

	_, err = repo.SetBlocked(9999, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_NotificationPreferences(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "Alice", "Archer", "alice@example.com")

	prefs, err := repo.GetNotificationPreferences(user.ID)
	require.NoError(t, err)
	assert.True(t, prefs.DueDateReminders)
	assert.True(t, prefs.OverdueNotices)

	updated, err := repo.UpdateNotificationPreferences(user.ID, NotificationPreferences{
		DueDateReminders: false,
		OverdueNotices:   true,
	})
	require.NoError(t, err)
	assert.False(t, updated.DueDateReminders)
	assert.True(t, updated.OverdueNotices)

	_, err = repo.GetNotificationPreferences(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
