package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"evalhub/internal/pkg/jwtutil"
	"evalhub/internal/transport/http/response"
)

const (
	ContextUserIDKey  = "user_id"
	ContextEmailKey   = "email"
	ContextIsAdminKey = "is_admin"

	// SessionCookieName is the cookie the auth handlers set on login.
	SessionCookieName = "token"
)

// tokenFromRequest reads the session cookie first and falls back to a
// Bearer header so API clients without a cookie jar still work.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	return ""
}

// AuthRequired rejects requests that do not carry a valid session token.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := c.Get(ContextIsAdminKey)
		if !ok || isAdmin != true {
			response.Error(c, http.StatusForbidden, "admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth populates the context when a valid token is present but never
// rejects. Logout uses this so clearing an already-dead session still works.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := jwtutil.ParseToken(secret, token); err == nil {
				c.Set(ContextUserIDKey, claims.UserID)
				c.Set(ContextEmailKey, claims.Email)
				c.Set(ContextIsAdminKey, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// PageAuth guards HTML pages: browsers get a redirect instead of a JSON 401.
// When adminOnly is set, authenticated non-admins are sent to the home page.
func PageAuth(secret string, adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		claims, err := jwtutil.ParseToken(secret, token)
		if token == "" || err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if adminOnly && !claims.IsAdmin {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextIsAdminKey, claims.IsAdmin)
		c.Next()
	}
}
