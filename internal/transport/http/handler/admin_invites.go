package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminInviteHandler struct {
	inviteService *app.InviteService
}

type GenerateInvitesRequest struct {
	Count      int    `json:"count"`
	CustomCode string `json:"custom_code"`
}

func NewAdminInviteHandler(inviteService *app.InviteService) *AdminInviteHandler {
	return &AdminInviteHandler{inviteService: inviteService}
}

func (h *AdminInviteHandler) List(c *gin.Context) {
	codes, err := h.inviteService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list invite codes failed")
		return
	}
	response.OK(c, gin.H{"invite_codes": codes})
}

func (h *AdminInviteHandler) Generate(c *gin.Context) {
	var req GenerateInvitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	codes, err := h.inviteService.Generate(req.Count, req.CustomCode)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrCodeExists):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "generate invite codes failed")
		}
		return
	}

	response.OK(c, gin.H{"invite_codes": codes})
}
