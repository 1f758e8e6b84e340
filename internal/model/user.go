package model

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Name           string    `gorm:"size:64" json:"name"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	RemainingEvals int       `gorm:"not null;default:0" json:"remaining_evals"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	InviteCodeID   uint      `gorm:"index" json:"invite_code_id,omitempty"` // 0 = seeded account, not invite-created
	InviteCode     *InviteCode `gorm:"foreignKey:InviteCodeID" json:"invite_code,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
