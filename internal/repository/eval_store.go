package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"evalhub/internal/model"
)

// ErrNoCredit is returned by Finalize when the balance hit zero between the
// pre-stream check and the deduction, so neither the decrement nor the log
// row was written.
var ErrNoCredit = errors.New("no remaining evaluations to deduct")

// EvalStore bundles the queries the evaluation pipeline runs, including the
// finalize transaction that must apply the credit decrement and the log entry
// as one unit.
type EvalStore struct {
	db *gorm.DB
}

func NewEvalStore(db *gorm.DB) *EvalStore {
	return &EvalStore{db: db}
}

func (s *EvalStore) RemainingEvals(userID uint) (int, error) {
	var user model.User
	if err := s.db.Select("remaining_evals").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("query remaining evals failed: %w", err)
	}
	return user.RemainingEvals, nil
}

// ActiveModel returns the model to evaluate with. A pinned id wins when that
// row exists and is active; otherwise the most recently created active row is
// used. Returns nil when no model is eligible.
func (s *EvalStore) ActiveModel(pinnedID uint) (*model.AIModel, error) {
	if pinnedID != 0 {
		var pinned model.AIModel
		err := s.db.Where("id = ? AND is_active = ?", pinnedID, true).First(&pinned).Error
		if err == nil {
			return &pinned, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query pinned model failed: %w", err)
		}
	}

	var m model.AIModel
	err := s.db.Where("is_active = ?", true).Order("created_at DESC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query active model failed: %w", err)
	}
	return &m, nil
}

func (s *EvalStore) TemplateByType(evalType string) (*model.PromptTemplate, error) {
	return NewPromptTemplateRepository(s.db).GetByType(evalType)
}

func (s *EvalStore) FilesByIDs(ids []uint) ([]model.KnowledgeFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []model.KnowledgeFile
	if err := s.db.Where("id IN ?", ids).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list knowledge files by id failed: %w", err)
	}
	return files, nil
}

// Finalize decrements the user's credit by one and writes the evaluation log
// in a single transaction. The conditional update keeps the balance at or
// above zero even when concurrent streams both passed the pre-check.
func (s *EvalStore) Finalize(userID uint, entry *model.EvalLog) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND remaining_evals > 0", userID).
			Update("remaining_evals", gorm.Expr("remaining_evals - 1"))
		if res.Error != nil {
			return fmt.Errorf("decrement remaining evals failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoCredit
		}

		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("create eval log failed: %w", err)
		}
		return nil
	})
}
