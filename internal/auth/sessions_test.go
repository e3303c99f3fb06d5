package auth

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evasim27/library/internal/config"
)

func setupSessionManager(t *testing.T) (*SessionManager, func()) {
	t.Helper()

	dbPath := "./test_auth_sessions_" + t.Name() + ".db"
	sqlDB, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)

	sm, err := NewSessionManager(sqlDB, config.Auth{
		SessionLifetime: time.Hour,
	})
	require.NoError(t, err)

	return sm, func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}
}

func newSessionRouter(sm *SessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.POST("/login", func(c *gin.Context) {
		if err := sm.RenewToken(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sm.Put(c.Request.Context(), SessionKeyUserID, 42)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.POST("/logout", func(c *gin.Context) {
		if err := sm.Destroy(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": sm.GetInt(c.Request.Context(), SessionKeyUserID),
		})
	})
	return router
}

func TestSessionLoadSave_RoundTrip(t *testing.T) {
	sm, cleanup := setupSessionManager(t)
	defer cleanup()
	router := newSessionRouter(sm)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)

	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies, "session cookie must be written with the response")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)

	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"userId":42`)
}

func TestSessionLoadSave_DestroyClearsCookie(t *testing.T) {
	sm, cleanup := setupSessionManager(t)
	defer cleanup()
	router := newSessionRouter(sm)

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	logout := httptest.NewRecorder()
	router.ServeHTTP(logout, req)
	require.Equal(t, http.StatusOK, logout.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range logout.Result().Cookies() {
		if cookie.Name == sm.Cookie.Name {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "destroy must write an expiring session cookie")
	assert.Empty(t, sessionCookie.Value)
}
