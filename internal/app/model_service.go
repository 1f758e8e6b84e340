package app

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"evalhub/internal/model"
	"evalhub/internal/repository"
)

var ErrModelNotFound = errors.New("ai model not found")

type ModelService struct {
	models *repository.AIModelRepository
}

type CreateModelInput struct {
	Name      string
	Provider  string
	BaseURL   string
	APIKey    string
	ModelName string
}

func NewModelService(models *repository.AIModelRepository) *ModelService {
	return &ModelService{models: models}
}

func (s *ModelService) List() ([]model.AIModel, error) {
	return s.models.ListAll()
}

func (s *ModelService) Create(input CreateModelInput) (*model.AIModel, error) {
	name := strings.TrimSpace(input.Name)
	apiKey := strings.TrimSpace(input.APIKey)
	modelName := strings.TrimSpace(input.ModelName)
	if name == "" || apiKey == "" || modelName == "" {
		return nil, ErrInvalidInput
	}

	m := &model.AIModel{
		Name:      name,
		Provider:  strings.TrimSpace(input.Provider),
		BaseURL:   strings.TrimSpace(input.BaseURL),
		APIKey:    apiKey,
		ModelName: modelName,
		IsActive:  true,
	}
	if err := s.models.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModelService) SetActive(id uint, isActive bool) error {
	if id == 0 {
		return ErrInvalidInput
	}
	if err := s.models.SetActive(id, isActive); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModelNotFound
		}
		return err
	}
	return nil
}

func (s *ModelService) Delete(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	if err := s.models.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModelNotFound
		}
		return err
	}
	return nil
}
