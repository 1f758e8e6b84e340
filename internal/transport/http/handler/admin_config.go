package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminConfigHandler struct {
	configService *app.ConfigService
}

type UpsertConfigRequest struct {
	Entries []ConfigEntryRequest `json:"entries" binding:"required,dive"`
}

type ConfigEntryRequest struct {
	Key   string `json:"key" binding:"required,max=64"`
	Value string `json:"value"`
}

func NewAdminConfigHandler(configService *app.ConfigService) *AdminConfigHandler {
	return &AdminConfigHandler{configService: configService}
}

func (h *AdminConfigHandler) List(c *gin.Context) {
	entries, err := h.configService.ListAll()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list config failed")
		return
	}
	response.OK(c, gin.H{"config": entries})
}

func (h *AdminConfigHandler) Upsert(c *gin.Context) {
	var req UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	entries := make([]app.ConfigEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, app.ConfigEntry{Key: e.Key, Value: e.Value})
	}

	if err := h.configService.UpsertAll(entries); err != nil {
		response.Error(c, http.StatusInternalServerError, "save config failed")
		return
	}

	response.OK(c, gin.H{"ok": true})
}
