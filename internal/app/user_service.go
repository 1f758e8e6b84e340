package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"evalhub/internal/model"
	"evalhub/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type UserService struct {
	users  *repository.UserRepository
	audit  AuditPublisher
	logger *slog.Logger
}

func NewUserService(users *repository.UserRepository, audit AuditPublisher, logger *slog.Logger) *UserService {
	return &UserService{users: users, audit: audit, logger: logger}
}

func (s *UserService) Profile(userID uint) (*model.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateName(userID uint, name string) error {
	return s.users.UpdateName(userID, strings.TrimSpace(name))
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string, meta RequestMeta) error {
	if currentPassword == "" || newPassword == "" {
		return ErrInvalidInput
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	if err := s.users.UpdatePasswordHash(userID, string(hash)); err != nil {
		return err
	}

	if s.audit != nil {
		entry := model.AuditLog{
			UserID:    userID,
			Action:    model.AuditActionPasswordChange,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		}
		if err := s.audit.Publish(ctx, entry); err != nil {
			s.logger.Warn("publish audit event failed", "action", entry.Action, "error", err)
		}
	}
	return nil
}

func (s *UserService) ListUsers() ([]model.User, error) {
	return s.users.ListAll()
}

// AddEvals adjusts a user's credit balance by delta (floor zero) and returns
// the new balance.
func (s *UserService) AddEvals(ctx context.Context, userID uint, delta int, meta RequestMeta) (int, error) {
	if userID == 0 || delta == 0 {
		return 0, ErrInvalidInput
	}

	balance, err := s.users.AddEvals(userID, delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if s.audit != nil {
		entry := model.AuditLog{
			Action:    model.AuditActionAdminAddEvals,
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		}
		entry.SetMetadata(map[string]any{"user_id": userID, "delta": delta, "new_balance": balance})
		if err := s.audit.Publish(ctx, entry); err != nil {
			s.logger.Warn("publish audit event failed", "action", entry.Action, "error", err)
		}
	}
	return balance, nil
}

func (s *UserService) SetAdmin(userID uint, isAdmin bool) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	if err := s.users.SetAdmin(userID, isAdmin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
