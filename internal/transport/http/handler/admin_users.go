package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminUserHandler struct {
	userService *app.UserService
}

// PatchUserRequest carries one admin action against a user: a credit
// adjustment or an admin-flag toggle.
type PatchUserRequest struct {
	Action string `json:"action" binding:"required"`
	Delta  int    `json:"delta"`
}

func NewAdminUserHandler(userService *app.UserService) *AdminUserHandler {
	return &AdminUserHandler{userService: userService}
}

func (h *AdminUserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list users failed")
		return
	}
	response.OK(c, gin.H{"users": users})
}

func (h *AdminUserHandler) Patch(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	switch req.Action {
	case "addEvals":
		balance, err := h.userService.AddEvals(c.Request.Context(), userID, req.Delta, requestMeta(c))
		if err != nil {
			switch {
			case errors.Is(err, app.ErrUserNotFound):
				response.Error(c, http.StatusNotFound, err.Error())
			case errors.Is(err, app.ErrInvalidInput):
				response.Error(c, http.StatusBadRequest, err.Error())
			default:
				response.Error(c, http.StatusInternalServerError, "adjust credits failed")
			}
			return
		}
		response.OK(c, gin.H{"remaining_evals": balance})

	case "toggleAdmin":
		user, err := h.userService.Profile(userID)
		if err != nil {
			if errors.Is(err, app.ErrUserNotFound) {
				response.Error(c, http.StatusNotFound, err.Error())
				return
			}
			response.Error(c, http.StatusInternalServerError, "load user failed")
			return
		}
		if err := h.userService.SetAdmin(userID, !user.IsAdmin); err != nil {
			response.Error(c, http.StatusInternalServerError, "update admin flag failed")
			return
		}
		response.OK(c, gin.H{"is_admin": !user.IsAdmin})

	default:
		response.Error(c, http.StatusBadRequest, "unknown action")
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
