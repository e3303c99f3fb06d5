package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evasim27/library/internal/database/users"
	"github.com/evasim27/library/internal/entities"
)

// UsersStore defines database operations for user administration.
type UsersStore interface {
	List(search, status string) ([]entities.User, error)
	SetBlocked(id uint, blocked bool) (*entities.User, error)
}

type UsersController struct {
	store UsersStore
}

func NewUsersController(store UsersStore) *UsersController {
	return &UsersController{store: store}
}

// ListUsers returns all users with optional search and status filters.
// GET /api/users?search=&status=
func (uc *UsersController) ListUsers(c *gin.Context) {
	result, err := uc.store.List(c.Query("search"), c.Query("status"))
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": result, "total": len(result)})
}

type setBlockedRequest struct {
	UserID  uint  `json:"userId"`
	Blocked *bool `json:"blocked"`
}

// SetBlocked blocks or unblocks a user. Admins cannot block themselves.
// PATCH /api/users
func (uc *UsersController) SetBlocked(c *gin.Context) {
	var req setBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.Blocked == nil {
		respondBadRequest(c, "userId and blocked are required")
		return
	}

	if req.UserID == GetUserID(c) {
		respondBadRequest(c, "you cannot block your own account")
		return
	}

	user, err := uc.store.SetBlocked(req.UserID, *req.Blocked)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, user)
}
