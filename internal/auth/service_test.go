package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evasim27/library/internal/config"
	"github.com/evasim27/library/internal/entities"
)

func setupService(t *testing.T) (*gorm.DB, *Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	service := NewService(db, config.Auth{
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		LockoutDuration:  30 * time.Minute,
	})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, service, cleanup
}

func TestService_CreateUser(t *testing.T) {
	_, service, cleanup := setupService(t)
	defer cleanup()

	t.Run("valid registration", func(t *testing.T) {
		user, err := service.CreateUser("Ada", "Lovelace", "Ada@Example.com", "secret123", entities.UserRoleUser)
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, entities.UserRoleUser, user.Role)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.DueDateReminders)
		assert.True(t, user.OverdueNotices)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.CreateUser("Other", "Person", "ada@example.com", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := service.CreateUser("", "Lovelace", "x@example.com", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrFirstNameRequired)

		_, err = service.CreateUser("Ada", "", "x@example.com", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrLastNameRequired)

		_, err = service.CreateUser("Ada", "Lovelace", "", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = service.CreateUser("Ada", "Lovelace", "x@example.com", "", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("name too short", func(t *testing.T) {
		_, err := service.CreateUser("A", "Lovelace", "x@example.com", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrNameInvalid)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := service.CreateUser("Ada", "Lovelace", "not-an-email", "secret123", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrEmailInvalid)
	})

	t.Run("password too short", func(t *testing.T) {
		_, err := service.CreateUser("Ada", "Lovelace", "y@example.com", "short", entities.UserRoleUser)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := service.CreateUser("Ada", "Lovelace", "z@example.com", "secret123", entities.UserRole("owner"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_Authenticate(t *testing.T) {
	db, service, cleanup := setupService(t)
	defer cleanup()

	user, err := service.CreateUser("Ada", "Lovelace", "ada@example.com", "secret123", entities.UserRoleUser)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := service.Authenticate("ada@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		// Last login is recorded
		fresh, err := service.GetUserByID(user.ID)
		require.NoError(t, err)
		assert.NotNil(t, fresh.LastLoginAt)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		_, err := service.Authenticate("ADA@Example.COM", "secret123")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate("ada@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Authenticate("nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("blocked account", func(t *testing.T) {
		require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).Update("blocked", true).Error)
		defer func() {
			require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).Update("blocked", false).Error)
		}()

		_, err := service.Authenticate("ada@example.com", "secret123")
		assert.ErrorIs(t, err, ErrAccountBlocked)
	})
}

func TestService_Authenticate_Lockout(t *testing.T) {
	_, service, cleanup := setupService(t)
	defer cleanup()

	_, err := service.CreateUser("Ada", "Lovelace", "ada@example.com", "secret123", entities.UserRoleUser)
	require.NoError(t, err)

	// Exhaust the three allowed attempts
	for i := 0; i < 3; i++ {
		_, err := service.Authenticate("ada@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	// Even the correct password is rejected while locked
	_, err = service.Authenticate("ada@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestService_HasUsers(t *testing.T) {
	_, service, cleanup := setupService(t)
	defer cleanup()

	has, err := service.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = service.CreateUser("Ada", "Lovelace", "ada@example.com", "secret123", entities.UserRoleUser)
	require.NoError(t, err)

	has, err = service.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}
