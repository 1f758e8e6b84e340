package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"evalhub/internal/model"
	"evalhub/internal/pkg/jwtutil"
	"evalhub/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInviteInvalid     = errors.New("invite code does not exist")
	ErrInviteUsed        = errors.New("invite code already used")
)

const minPasswordLength = 6

// AuthUserStore is the slice of user persistence the auth flows need.
type AuthUserStore interface {
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
	RegisterWithInvite(user *model.User, inviteID uint) error
}

type InviteStore interface {
	GetByCode(code string) (*model.InviteCode, error)
}

type AuthService struct {
	users         AuthUserStore
	invites       InviteStore
	audit         AuditPublisher
	logger        *slog.Logger
	jwtSecret     string
	tokenTTL      time.Duration
	signupCredits int
}

type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	InviteCode string
	Meta       RequestMeta
}

type LoginInput struct {
	Email    string
	Password string
	Meta     RequestMeta
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	users AuthUserStore,
	invites InviteStore,
	audit AuditPublisher,
	logger *slog.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
	signupCredits int,
) *AuthService {
	return &AuthService{
		users:         users,
		invites:       invites,
		audit:         audit,
		logger:        logger,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		signupCredits: signupCredits,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password
	code := strings.TrimSpace(strings.ToUpper(input.InviteCode))

	if email == "" || password == "" || code == "" {
		return nil, ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	invite, err := s.invites.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, ErrInviteInvalid
	}
	if invite.Status != model.InviteStatusUnused {
		return nil, ErrInviteUsed
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:          email,
		Name:           strings.TrimSpace(input.Name),
		PasswordHash:   string(hash),
		RemainingEvals: s.signupCredits,
	}
	if err := s.users.RegisterWithInvite(user, invite.ID); err != nil {
		if errors.Is(err, repository.ErrInviteTaken) {
			return nil, ErrInviteUsed
		}
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.tokenTTL, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, model.AuditLog{
		UserID:    user.ID,
		Action:    model.AuditActionRegister,
		IP:        input.Meta.IP,
		UserAgent: input.Meta.UserAgent,
	})
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	// Unknown email and wrong password are indistinguishable to the caller.
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.tokenTTL, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, model.AuditLog{
		UserID:    user.ID,
		Action:    model.AuditActionLogin,
		IP:        input.Meta.IP,
		UserAgent: input.Meta.UserAgent,
	})
	return &AuthResult{Token: token, User: user}, nil
}

// Logout only records the audit event; the handler clears the cookie.
func (s *AuthService) Logout(ctx context.Context, userID uint, meta RequestMeta) {
	s.publishAudit(ctx, model.AuditLog{
		UserID:    userID,
		Action:    model.AuditActionLogout,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
}

// VerifyInvite reports whether the code exists and is still redeemable.
func (s *AuthService) VerifyInvite(code string) error {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return ErrInvalidInput
	}

	invite, err := s.invites.GetByCode(code)
	if err != nil {
		return err
	}
	if invite == nil {
		return ErrInviteInvalid
	}
	if invite.Status != model.InviteStatusUnused {
		return ErrInviteUsed
	}
	return nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.users.GetByID(id)
}

func (s *AuthService) publishAudit(ctx context.Context, entry model.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, entry); err != nil {
		s.logger.Warn("publish audit event failed", "action", entry.Action, "error", err)
	}
}
