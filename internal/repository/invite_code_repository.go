package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

type InviteCodeRepository struct {
	db *gorm.DB
}

func NewInviteCodeRepository(db *gorm.DB) *InviteCodeRepository {
	return &InviteCodeRepository{db: db}
}

func (r *InviteCodeRepository) GetByCode(code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	if err := r.db.Where("code = ?", code).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query invite code failed: %w", err)
	}
	return &invite, nil
}

func (r *InviteCodeRepository) ListAll() ([]model.InviteCode, error) {
	var codes []model.InviteCode
	if err := r.db.Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("list invite codes failed: %w", err)
	}
	return codes, nil
}

func (r *InviteCodeRepository) Create(invite *model.InviteCode) error {
	if err := r.db.Create(invite).Error; err != nil {
		return fmt.Errorf("create invite code failed: %w", err)
	}
	return nil
}

func (r *InviteCodeRepository) CreateBatch(invites []model.InviteCode) ([]model.InviteCode, error) {
	if err := r.db.Create(&invites).Error; err != nil {
		return nil, fmt.Errorf("create invite code batch failed: %w", err)
	}
	return invites, nil
}
