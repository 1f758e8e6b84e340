package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/transport/http/middleware"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60

// SetSession writes the auth token cookie. HttpOnly keeps it away from page
// scripts; Secure is only set in production so local HTTP development works.
func SetSession(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, sessionCookieMaxAge, "/", "", secure, true)
}

func ClearSession(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secure, true)
}
