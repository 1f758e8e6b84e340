package app

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"evalhub/internal/model"
	"evalhub/internal/pkg/prompttmpl"
	"evalhub/internal/repository"
)

var ErrPromptNotFound = errors.New("prompt template not found")

// defaultPromptBody seeds newly created templates when no body is given.
const defaultPromptBody = "请对以下文本进行评测：\n\n{{user_input}}"

type PromptService struct {
	prompts *repository.PromptTemplateRepository
	files   *repository.KnowledgeFileRepository
}

type UpdatePromptInput struct {
	ID           uint
	Name         string
	Type         string
	SystemPrompt string
	ModelID      uint
}

func NewPromptService(prompts *repository.PromptTemplateRepository, files *repository.KnowledgeFileRepository) *PromptService {
	return &PromptService{prompts: prompts, files: files}
}

func (s *PromptService) List() ([]model.PromptTemplate, error) {
	return s.prompts.ListAll()
}

func (s *PromptService) Create(name, evalType, systemPrompt string) (*model.PromptTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validEvalType(evalType) {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultPromptBody
	}

	tmpl := &model.PromptTemplate{
		Name:         name,
		Type:         evalType,
		SystemPrompt: systemPrompt,
	}
	tmpl.SetAttachedFileIDs(nil)
	if err := s.prompts.Create(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Update saves the template and resyncs the attached-file list from the
// @name.ext tokens actually present in the prompt body.
func (s *PromptService) Update(input UpdatePromptInput) error {
	if input.ID == 0 || strings.TrimSpace(input.Name) == "" || !validEvalType(input.Type) {
		return ErrInvalidInput
	}

	tmpl, err := s.prompts.GetByID(input.ID)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return ErrPromptNotFound
	}

	var fileIDs []uint
	if names := prompttmpl.FileRefs(input.SystemPrompt); len(names) > 0 {
		files, err := s.files.ListByNames(names)
		if err != nil {
			return err
		}
		fileIDs = make([]uint, 0, len(files))
		for _, f := range files {
			fileIDs = append(fileIDs, f.ID)
		}
	}

	tmpl.Name = strings.TrimSpace(input.Name)
	tmpl.Type = input.Type
	tmpl.SystemPrompt = input.SystemPrompt
	tmpl.ModelID = input.ModelID
	tmpl.SetAttachedFileIDs(fileIDs)
	return s.prompts.Update(tmpl)
}

func (s *PromptService) Delete(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	if err := s.prompts.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromptNotFound
		}
		return err
	}
	return nil
}

func validEvalType(evalType string) bool {
	return evalType == model.EvalTypeSuggestion || evalType == model.EvalTypePolicy
}
