package model

import (
	"encoding/json"
	"time"
)

const (
	EvalTypeSuggestion = "SUGGESTION"
	EvalTypePolicy     = "POLICY"
)

// PromptTemplate stores the system prompt used for one evaluation type.
// AttachedFiles holds the ids of the knowledge files referenced by @name
// placeholders in the prompt body, stored as a JSON array for portability.
type PromptTemplate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Type          string    `gorm:"size:32;not null;index" json:"type"`
	SystemPrompt  string    `gorm:"type:text" json:"system_prompt"`
	AttachedFiles string    `gorm:"type:text" json:"-"` // JSON array of KnowledgeFile ids
	ModelID       uint      `json:"model_id"`           // 0 = no pinned model
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AttachedFileIDs returns the parsed id list; empty on parse error.
func (t *PromptTemplate) AttachedFileIDs() []uint {
	if t.AttachedFiles == "" {
		return nil
	}
	var ids []uint
	_ = json.Unmarshal([]byte(t.AttachedFiles), &ids)
	return ids
}

// SetAttachedFileIDs stores the id list as JSON.
func (t *PromptTemplate) SetAttachedFileIDs(ids []uint) {
	if len(ids) == 0 {
		t.AttachedFiles = "[]"
		return
	}
	b, _ := json.Marshal(ids)
	t.AttachedFiles = string(b)
}
