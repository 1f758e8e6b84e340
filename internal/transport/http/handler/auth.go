package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/middleware"
	"evalhub/internal/transport/http/response"
)

type AuthHandler struct {
	authService  *app.AuthService
	secureCookie bool
}

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Name       string `json:"name" binding:"max=64"`
	InviteCode string `json:"invite_code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyInviteRequest struct {
	Code string `json:"code" binding:"required"`
}

func NewAuthHandler(authService *app.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		InviteCode: req.InviteCode,
		Meta:       requestMeta(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInviteInvalid), errors.Is(err, app.ErrInviteUsed):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	SetSession(c, result.Token, h.secureCookie)
	response.OK(c, gin.H{"user": result.User})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Meta:     requestMeta(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	SetSession(c, result.Token, h.secureCookie)
	response.OK(c, gin.H{"user": result.User})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := getUserIDFromContext(c); ok {
		h.authService.Logout(c.Request.Context(), userID, requestMeta(c))
	}
	ClearSession(c, h.secureCookie)
	response.OK(c, gin.H{"ok": true})
}

func (h *AuthHandler) VerifyInvite(c *gin.Context) {
	var req VerifyInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.authService.VerifyInvite(req.Code); err != nil {
		switch {
		case errors.Is(err, app.ErrInviteInvalid), errors.Is(err, app.ErrInviteUsed), errors.Is(err, app.ErrInvalidInput):
			response.OK(c, gin.H{"valid": false, "reason": err.Error()})
		default:
			response.Error(c, http.StatusInternalServerError, "invite verification failed")
		}
		return
	}

	response.OK(c, gin.H{"valid": true})
}

// Me returns the fresh profile of the authenticated user, not the claims
// snapshot, so credit balances are always current.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil || user == nil {
		response.Error(c, http.StatusUnauthorized, "user no longer exists")
		return
	}

	response.OK(c, gin.H{"user": user})
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}

func requestMeta(c *gin.Context) app.RequestMeta {
	return app.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
