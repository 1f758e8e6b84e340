package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminModelHandler struct {
	modelService *app.ModelService
}

type CreateModelRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	Provider  string `json:"provider" binding:"max=64"`
	BaseURL   string `json:"base_url" binding:"max=256"`
	APIKey    string `json:"api_key" binding:"required"`
	ModelName string `json:"model_name" binding:"required,max=128"`
}

type SetModelActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func NewAdminModelHandler(modelService *app.ModelService) *AdminModelHandler {
	return &AdminModelHandler{modelService: modelService}
}

func (h *AdminModelHandler) List(c *gin.Context) {
	models, err := h.modelService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list models failed")
		return
	}
	response.OK(c, gin.H{"models": models})
}

func (h *AdminModelHandler) Create(c *gin.Context) {
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.modelService.Create(app.CreateModelInput{
		Name:      req.Name,
		Provider:  req.Provider,
		BaseURL:   req.BaseURL,
		APIKey:    req.APIKey,
		ModelName: req.ModelName,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "create model failed")
		return
	}

	response.OK(c, gin.H{"model": created})
}

func (h *AdminModelHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid model id")
		return
	}

	var req SetModelActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.modelService.SetActive(id, *req.IsActive); err != nil {
		if errors.Is(err, app.ErrModelNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "update model failed")
		return
	}

	response.OK(c, gin.H{"ok": true})
}

func (h *AdminModelHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid model id")
		return
	}

	if err := h.modelService.Delete(id); err != nil {
		if errors.Is(err, app.ErrModelNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete model failed")
		return
	}

	response.OK(c, gin.H{"deleted_id": id})
}
