package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

type AIModelRepository struct {
	db *gorm.DB
}

func NewAIModelRepository(db *gorm.DB) *AIModelRepository {
	return &AIModelRepository{db: db}
}

func (r *AIModelRepository) ListAll() ([]model.AIModel, error) {
	var models []model.AIModel
	if err := r.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list ai models failed: %w", err)
	}
	return models, nil
}

func (r *AIModelRepository) GetByID(id uint) (*model.AIModel, error) {
	var m model.AIModel
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query ai model failed: %w", err)
	}
	return &m, nil
}

func (r *AIModelRepository) Create(m *model.AIModel) error {
	if err := r.db.Create(m).Error; err != nil {
		return fmt.Errorf("create ai model failed: %w", err)
	}
	return nil
}

func (r *AIModelRepository) SetActive(id uint, isActive bool) error {
	res := r.db.Model(&model.AIModel{}).Where("id = ?", id).Update("is_active", isActive)
	if res.Error != nil {
		return fmt.Errorf("update ai model active flag failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AIModelRepository) Delete(id uint) error {
	res := r.db.Delete(&model.AIModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete ai model failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
