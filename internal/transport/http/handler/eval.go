package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"evalhub/internal/app"
	"evalhub/internal/transport/http/response"
)

type EvalHandler struct {
	evalService *app.EvalService
}

type EvalRequest struct {
	Input string `json:"input" binding:"required"`
	Type  string `json:"type"`
}

func NewEvalHandler(evalService *app.EvalService) *EvalHandler {
	return &EvalHandler{evalService: evalService}
}

// Stream runs one evaluation and relays the model output as SSE. Pre-stream
// failures are plain JSON errors; once streaming has started, failures are
// delivered as an SSE error event since the status line is already written.
func (h *EvalHandler) Stream(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req EvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	stream, err := h.evalService.Evaluate(c.Request.Context(), app.EvalInput{
		UserID: userID,
		Input:  req.Input,
		Type:   req.Type,
		Meta:   requestMeta(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrQuotaExhausted):
			response.Error(c, http.StatusForbidden, err.Error())
		case errors.Is(err, app.ErrNoModelConfigured):
			response.Error(c, http.StatusInternalServerError, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, "stream not supported")
		return
	}

	for fragment := range stream.Fragments() {
		frame, err := json.Marshal(gin.H{"content": fragment})
		if err != nil {
			continue
		}
		if _, writeErr := c.Writer.Write(append(append([]byte("data: "), frame...), '\n', '\n')); writeErr != nil {
			// Client gone; the service sees the context cancel and stops.
			return
		}
		flusher.Flush()
	}

	if _, err := stream.Wait(); err != nil {
		if _, writeErr := c.Writer.Write([]byte("event: error\ndata: " + err.Error() + "\n\n")); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	if _, writeErr := c.Writer.Write([]byte("data: [DONE]\n\n")); writeErr == nil {
		flusher.Flush()
	}
}
