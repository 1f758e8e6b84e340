package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

type PromptTemplateRepository struct {
	db *gorm.DB
}

func NewPromptTemplateRepository(db *gorm.DB) *PromptTemplateRepository {
	return &PromptTemplateRepository{db: db}
}

func (r *PromptTemplateRepository) ListAll() ([]model.PromptTemplate, error) {
	var templates []model.PromptTemplate
	if err := r.db.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list prompt templates failed: %w", err)
	}
	return templates, nil
}

func (r *PromptTemplateRepository) GetByID(id uint) (*model.PromptTemplate, error) {
	var t model.PromptTemplate
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query prompt template failed: %w", err)
	}
	return &t, nil
}

func (r *PromptTemplateRepository) GetByType(evalType string) (*model.PromptTemplate, error) {
	var t model.PromptTemplate
	if err := r.db.Where("type = ?", evalType).Order("created_at DESC").First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query prompt template by type failed: %w", err)
	}
	return &t, nil
}

func (r *PromptTemplateRepository) Create(t *model.PromptTemplate) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("create prompt template failed: %w", err)
	}
	return nil
}

func (r *PromptTemplateRepository) Update(t *model.PromptTemplate) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("update prompt template failed: %w", err)
	}
	return nil
}

func (r *PromptTemplateRepository) Delete(id uint) error {
	res := r.db.Delete(&model.PromptTemplate{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete prompt template failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
