package http

import (
	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Stores
	BookStore         BooksStore
	ReservationsStore ReservationsStore
	ReviewsStore      ReviewsStore
	NotificationStore NotificationsStore
	PreferencesStore  PreferencesStore
	UsersStore        UsersStore

	// Due-date notification scan
	Scanner DueDateScanner

	// Authentication
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
