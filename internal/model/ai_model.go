package model

import "time"

// AIModel holds the connection settings for one OpenAI-compatible provider.
// Only rows with IsActive set are eligible for evaluations.
type AIModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Provider  string    `gorm:"size:64" json:"provider"`
	BaseURL   string    `gorm:"size:256" json:"base_url"`
	APIKey    string    `gorm:"size:256;not null" json:"-"`
	ModelName string    `gorm:"size:128;not null" json:"model_name"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
