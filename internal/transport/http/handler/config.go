package handler

import (
	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type ConfigHandler struct {
	configService *app.ConfigService
}

func NewConfigHandler(configService *app.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// Public serves the branding values every page loads. Always 200: missing or
// unreadable rows fall back to defaults inside the service.
func (h *ConfigHandler) Public(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	response.OK(c, h.configService.Public())
}
