package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"evalhub/internal/app"
	"evalhub/internal/model"
)

func testDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubUserStore struct {
	byEmail map[string]*model.User
}

func (s *stubUserStore) GetByEmail(email string) (*model.User, error) {
	return s.byEmail[email], nil
}

func (s *stubUserStore) GetByID(uint) (*model.User, error) { return nil, nil }

func (s *stubUserStore) RegisterWithInvite(user *model.User, _ uint) error {
	user.ID = 1
	return nil
}

type stubInviteStore struct {
	codes map[string]*model.InviteCode
}

func (s *stubInviteStore) GetByCode(code string) (*model.InviteCode, error) {
	return s.codes[code], nil
}

func registerTestRouter(users *stubUserStore, invites *stubInviteStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewAuthService(users, invites, nil, testDiscardLogger(), "test-secret", time.Hour, 99)
	h := NewAuthHandler(svc, false)

	router := gin.New()
	router.POST("/api/auth/register", h.Register)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_DuplicateEmailIsBadRequest(t *testing.T) {
	users := &stubUserStore{byEmail: map[string]*model.User{
		"taken@example.com": {ID: 5, Email: "taken@example.com"},
	}}
	invites := &stubInviteStore{codes: map[string]*model.InviteCode{
		"WELCOME12345": {ID: 1, Code: "WELCOME12345", Status: model.InviteStatusUnused},
	}}
	router := registerTestRouter(users, invites)

	rec := postJSON(router, "/api/auth/register",
		`{"email":"taken@example.com","password":"secret-pw","invite_code":"WELCOME12345"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "a duplicate email is a client error, not a conflict")
	assert.JSONEq(t, `{"error":"email already registered"}`, rec.Body.String())
}

func TestRegister_InvalidInviteIsBadRequest(t *testing.T) {
	users := &stubUserStore{byEmail: map[string]*model.User{}}
	invites := &stubInviteStore{codes: map[string]*model.InviteCode{}}
	router := registerTestRouter(users, invites)

	rec := postJSON(router, "/api/auth/register",
		`{"email":"new@example.com","password":"secret-pw","invite_code":"NOSUCHCODE12"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
