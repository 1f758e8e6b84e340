package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evalhub/internal/model"
)

type SystemConfigRepository struct {
	db *gorm.DB
}

func NewSystemConfigRepository(db *gorm.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

func (r *SystemConfigRepository) ListAll() ([]model.SystemConfig, error) {
	var configs []model.SystemConfig
	if err := r.db.Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list system configs failed: %w", err)
	}
	return configs, nil
}

func (r *SystemConfigRepository) ListByKeys(keys []string) ([]model.SystemConfig, error) {
	var configs []model.SystemConfig
	if err := r.db.Where("`key` IN ?", keys).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list system configs by key failed: %w", err)
	}
	return configs, nil
}

func (r *SystemConfigRepository) Upsert(key, value string) error {
	cfg := model.SystemConfig{Key: key, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return fmt.Errorf("upsert system config failed: %w", err)
	}
	return nil
}
