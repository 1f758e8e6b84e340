package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"evalhub/internal/model"
)

var ErrCodeExists = errors.New("invite code already exists")

const (
	inviteCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeLength = 12
	maxBatchSize     = 100
)

// InviteAdminStore is the persistence slice invite administration needs.
type InviteAdminStore interface {
	GetByCode(code string) (*model.InviteCode, error)
	ListAll() ([]model.InviteCode, error)
	Create(invite *model.InviteCode) error
	CreateBatch(invites []model.InviteCode) ([]model.InviteCode, error)
}

type InviteService struct {
	invites InviteAdminStore
}

func NewInviteService(invites InviteAdminStore) *InviteService {
	return &InviteService{invites: invites}
}

func (s *InviteService) List() ([]model.InviteCode, error) {
	return s.invites.ListAll()
}

// Generate creates count random codes, or a single custom code when one is
// given. Batch size is capped; random collisions are regenerated.
func (s *InviteService) Generate(count int, customCode string) ([]model.InviteCode, error) {
	if customCode != "" {
		code := strings.ToUpper(strings.TrimSpace(customCode))
		existing, err := s.invites.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrCodeExists
		}

		invite := model.InviteCode{Code: code, Status: model.InviteStatusUnused}
		if err := s.invites.Create(&invite); err != nil {
			return nil, err
		}
		return []model.InviteCode{invite}, nil
	}

	if count < 1 {
		count = 1
	}
	if count > maxBatchSize {
		count = maxBatchSize
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	attempts := 0
	for len(codes) < count {
		attempts++
		if attempts > count*20 {
			return nil, fmt.Errorf("generate invite codes failed after %d attempts", attempts)
		}

		code, err := randomCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		existing, err := s.invites.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	invites := make([]model.InviteCode, len(codes))
	for i, code := range codes {
		invites[i] = model.InviteCode{Code: code, Status: model.InviteStatusUnused}
	}
	return s.invites.CreateBatch(invites)
}

func randomCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes failed: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCharset[int(b)%len(inviteCharset)]
	}
	return string(buf), nil
}
