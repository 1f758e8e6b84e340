package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

type KnowledgeFileRepository struct {
	db *gorm.DB
}

func NewKnowledgeFileRepository(db *gorm.DB) *KnowledgeFileRepository {
	return &KnowledgeFileRepository{db: db}
}

func (r *KnowledgeFileRepository) ListAll() ([]model.KnowledgeFile, error) {
	var files []model.KnowledgeFile
	if err := r.db.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list knowledge files failed: %w", err)
	}
	return files, nil
}

func (r *KnowledgeFileRepository) GetByID(id uint) (*model.KnowledgeFile, error) {
	var f model.KnowledgeFile
	if err := r.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query knowledge file failed: %w", err)
	}
	return &f, nil
}

func (r *KnowledgeFileRepository) ListByNames(names []string) ([]model.KnowledgeFile, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var files []model.KnowledgeFile
	if err := r.db.Where("name IN ?", names).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list knowledge files by name failed: %w", err)
	}
	return files, nil
}

func (r *KnowledgeFileRepository) Create(f *model.KnowledgeFile) error {
	if err := r.db.Create(f).Error; err != nil {
		return fmt.Errorf("create knowledge file failed: %w", err)
	}
	return nil
}

func (r *KnowledgeFileRepository) Delete(id uint) error {
	res := r.db.Delete(&model.KnowledgeFile{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete knowledge file failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
