package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalhub/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/protected", AuthRequired(testSecret), func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		c.JSON(200, gin.H{"user_id": userID})
	})
	router.GET("/admin-only", AuthRequired(testSecret), AdminRequired(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	router.GET("/page", PageAuth(testSecret, false), func(c *gin.Context) {
		c.String(200, "page")
	})
	router.GET("/admin-page", PageAuth(testSecret, true), func(c *gin.Context) {
		c.String(200, "admin page")
	})
	return router
}

func issueToken(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, err := jwtutil.GenerateToken(testSecret, time.Hour, 7, "a@b.com", isAdmin)
	require.NoError(t, err)
	return token
}

func TestAuthRequired_Cookie(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, false)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
}

func TestAuthRequired_BearerFallback(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired_Rejections(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token")

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "malformed token")

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, false)})
	req.URL.Path = "/admin-only"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "non-admin on admin route")
}

func TestAdminRequired_AllowsAdmin(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, true)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPageAuth_Redirects(t *testing.T) {
	router := authTestRouter()

	// Anonymous browser hits a protected page: redirect to login.
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// Authenticated non-admin on the admin console: redirect home.
	req = httptest.NewRequest(http.MethodGet, "/admin-page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, false)})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// Valid session: the page renders.
	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issueToken(t, false)})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
