package model

import "time"

// EvalLog is the immutable record written once per completed evaluation.
// Input keeps only a truncated preview; Output is the full generated text.
type EvalLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	Input      string    `gorm:"size:64;not null" json:"input"`
	Output     string    `gorm:"type:mediumtext" json:"output"`
	TokensUsed int       `gorm:"not null" json:"tokens_used"`
	ModelID    uint      `gorm:"index" json:"model_id"`
	CreatedAt  time.Time `json:"created_at"`
}
