package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminPromptHandler struct {
	promptService *app.PromptService
}

type CreatePromptRequest struct {
	Name         string `json:"name" binding:"required,max=128"`
	Type         string `json:"type" binding:"required"`
	SystemPrompt string `json:"system_prompt"`
}

type UpdatePromptRequest struct {
	Name         string `json:"name" binding:"required,max=128"`
	Type         string `json:"type" binding:"required"`
	SystemPrompt string `json:"system_prompt"`
	ModelID      uint   `json:"model_id"`
}

func NewAdminPromptHandler(promptService *app.PromptService) *AdminPromptHandler {
	return &AdminPromptHandler{promptService: promptService}
}

func (h *AdminPromptHandler) List(c *gin.Context) {
	prompts, err := h.promptService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list prompts failed")
		return
	}
	response.OK(c, gin.H{"prompts": prompts})
}

func (h *AdminPromptHandler) Create(c *gin.Context) {
	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.promptService.Create(req.Name, req.Type, req.SystemPrompt)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "create prompt failed")
		return
	}

	response.OK(c, gin.H{"prompt": created})
}

func (h *AdminPromptHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid prompt id")
		return
	}

	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	err := h.promptService.Update(app.UpdatePromptInput{
		ID:           id,
		Name:         req.Name,
		Type:         req.Type,
		SystemPrompt: req.SystemPrompt,
		ModelID:      req.ModelID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrPromptNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update prompt failed")
		}
		return
	}

	response.OK(c, gin.H{"ok": true})
}

func (h *AdminPromptHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid prompt id")
		return
	}

	if err := h.promptService.Delete(id); err != nil {
		if errors.Is(err, app.ErrPromptNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete prompt failed")
		return
	}

	response.OK(c, gin.H{"deleted_id": id})
}
