package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type AdminFileHandler struct {
	knowledgeService *app.KnowledgeService
}

func NewAdminFileHandler(knowledgeService *app.KnowledgeService) *AdminFileHandler {
	return &AdminFileHandler{knowledgeService: knowledgeService}
}

func (h *AdminFileHandler) List(c *gin.Context) {
	files, err := h.knowledgeService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list files failed")
		return
	}
	response.OK(c, gin.H{"files": files})
}

func (h *AdminFileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file provided")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "read upload failed")
		return
	}
	defer f.Close()

	created, err := h.knowledgeService.Upload(c.Request.Context(), app.UploadInput{
		Name: fileHeader.Filename,
		Size: fileHeader.Size,
		Type: fileHeader.Header.Get("Content-Type"),
		Body: f,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrFileEmptyUpload), errors.Is(err, app.ErrFileType), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	response.OK(c, gin.H{"file": created})
}

func (h *AdminFileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid file id")
		return
	}

	if err := h.knowledgeService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, app.ErrFileNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "delete file failed")
		return
	}

	response.OK(c, gin.H{"deleted_id": id})
}
