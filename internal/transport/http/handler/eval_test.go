package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalhub/internal/ai"
	"evalhub/internal/app"
	"evalhub/internal/model"
	"evalhub/internal/transport/http/middleware"
)

type stubEvalStore struct {
	remaining int
	mdl       *model.AIModel
}

func (s *stubEvalStore) RemainingEvals(uint) (int, error)         { return s.remaining, nil }
func (s *stubEvalStore) ActiveModel(uint) (*model.AIModel, error) { return s.mdl, nil }
func (s *stubEvalStore) TemplateByType(string) (*model.PromptTemplate, error) {
	return nil, nil
}
func (s *stubEvalStore) FilesByIDs([]uint) ([]model.KnowledgeFile, error) { return nil, nil }
func (s *stubEvalStore) Finalize(uint, *model.EvalLog) error              { return nil }

type stubProvider struct {
	chunks []string
}

func (p *stubProvider) StreamComplete(_ context.Context, _ ai.ChatConfig, _ []ai.ChatMessage, onChunk func(string) error) (string, error) {
	var full strings.Builder
	for _, chunk := range p.chunks {
		if err := onChunk(chunk); err != nil {
			return "", err
		}
		full.WriteString(chunk)
	}
	return full.String(), nil
}

func evalTestRouter(store *stubEvalStore, provider *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.NewEvalService(store, provider, nil, logger)
	h := NewEvalHandler(svc)

	router := gin.New()
	router.POST("/api/eval", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uint(1))
		c.Next()
	}, h.Stream)
	return router
}

func TestEvalStream_SSEFraming(t *testing.T) {
	store := &stubEvalStore{remaining: 3, mdl: &model.AIModel{ID: 1, Name: "m", APIKey: "k", ModelName: "gpt", IsActive: true}}
	provider := &stubProvider{chunks: []string{"first", "second"}}
	router := evalTestRouter(store, provider)

	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader(`{"input":"evaluate me"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `data: {"content":"first"}`+"\n\n")
	assert.Contains(t, body, `data: {"content":"second"}`+"\n\n")
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"), "the stream must end with the DONE sentinel, got: %q", body)
}

func TestEvalStream_QuotaExhaustedIsPlainJSON(t *testing.T) {
	store := &stubEvalStore{remaining: 0, mdl: &model.AIModel{ID: 1, APIKey: "k", ModelName: "gpt"}}
	router := evalTestRouter(store, &stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader(`{"input":"evaluate me"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"no evaluations remaining"}`, rec.Body.String())
}

func TestEvalStream_BadPayload(t *testing.T) {
	store := &stubEvalStore{remaining: 3}
	router := evalTestRouter(store, &stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/eval", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
