package http

import (
	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Resolve the session into a request-scoped user
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	requireAuth := cfg.AuthMiddleware.RequireAuth()
	requireStaff := cfg.AuthMiddleware.RequireRole(entities.UserRoleLibrarian, entities.UserRoleAdmin)
	requireAdmin := cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin)

	// Auth endpoints
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)
	reservationsController := NewReservationsController(cfg.ReservationsStore, cfg.BookStore)
	reviewsController := NewReviewsController(cfg.ReviewsStore, cfg.BookStore)
	notificationsController := NewNotificationsController(cfg.NotificationStore, cfg.PreferencesStore, cfg.Scanner)
	usersController := NewUsersController(cfg.UsersStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Book catalog endpoints
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/stats", booksController.GetBookStats)
	router.GET("/api/books/my-books", requireAuth, booksController.MyBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.POST("/api/books", requireStaff, booksController.CreateBook)
	router.PUT("/api/books/:id", requireStaff, booksController.UpdateBook)
	router.DELETE("/api/books/:id", requireStaff, booksController.DeleteBook)

	// Book lifecycle endpoints
	router.POST("/api/books/:id/borrow", requireAuth, booksController.BorrowBook)
	router.POST("/api/books/:id/return", requireAuth, booksController.ReturnBook)
	router.POST("/api/books/:id/extend", requireAuth, booksController.ExtendBook)
	router.POST("/api/books/:id/reserve", requireAuth, booksController.ReserveBook)
	router.DELETE("/api/books/:id/reserve", requireAuth, booksController.CancelBookReservation)

	// Reservation endpoints
	router.GET("/api/reservations", requireAuth, reservationsController.ListReservations)
	router.POST("/api/reservations", requireAuth, reservationsController.CreateReservation)
	router.PATCH("/api/reservations/:id", requireStaff, reservationsController.ConfirmReservation)
	router.DELETE("/api/reservations/:id", requireStaff, reservationsController.CancelReservation)

	// Review endpoints
	router.GET("/api/reviews", reviewsController.ListReviews)
	router.POST("/api/reviews", requireAuth, reviewsController.CreateReview)
	router.PUT("/api/reviews/:id", requireAuth, reviewsController.UpdateReview)
	router.DELETE("/api/reviews/:id", requireAuth, reviewsController.DeleteReview)

	// Notification endpoints
	router.GET("/api/notifications", requireAuth, notificationsController.ListNotifications)
	router.PATCH("/api/notifications", requireAuth, notificationsController.MarkRead)
	router.DELETE("/api/notifications", requireAuth, notificationsController.DeleteNotifications)
	router.GET("/api/notifications/settings", requireAuth, notificationsController.GetSettings)
	router.PATCH("/api/notifications/settings", requireAuth, notificationsController.UpdateSettings)
	router.POST("/api/notifications/check", requireStaff, notificationsController.RunCheck)
	// Unauthenticated batch trigger, kept for external cron compatibility
	router.GET("/api/notifications/check", notificationsController.RunCheck)

	// User administration endpoints
	router.GET("/api/users", requireAdmin, usersController.ListUsers)
	router.PATCH("/api/users", requireAdmin, usersController.SetBlocked)

	return router
}
