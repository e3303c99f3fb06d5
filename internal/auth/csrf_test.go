package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFRouter(mutated *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CSRFMiddleware([]byte("0123456789abcdef0123456789abcdef"), false))
	router.GET("/form", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.POST("/mutate", func(c *gin.Context) {
		*mutated = true
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCSRFMiddleware_RejectsMissingToken(t *testing.T) {
	var mutated bool
	router := newCSRFRouter(&mutated)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mutate", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, mutated, "handler must not run when the token is missing")
	assert.Contains(t, w.Body.String(), "CSRF")
}

func TestCSRFMiddleware_AllowsSafeMethods(t *testing.T) {
	var mutated bool
	router := newCSRFRouter(&mutated)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(CSRFTokenHeader))
	assert.False(t, mutated)
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	var mutated bool
	router := newCSRFRouter(&mutated)

	// Fetch a token and its paired cookie first
	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := get.Header().Get(CSRFTokenHeader)
	require.NotEmpty(t, token)
	cookies := get.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mutated)
}
