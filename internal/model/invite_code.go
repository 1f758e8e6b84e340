package model

import "time"

const (
	InviteStatusUnused = "UNUSED"
	InviteStatusUsed   = "USED"
)

// InviteCode is a single-use registration token. It moves from UNUSED to USED
// exactly once, in the same transaction that creates the redeeming user.
type InviteCode struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Code      string     `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Status    string     `gorm:"size:16;not null;default:UNUSED;index" json:"status"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
