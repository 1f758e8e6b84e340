package model

import (
	"encoding/json"
	"time"
)

const (
	AuditActionRegister       = "REGISTER"
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionAdminAddEvals  = "ADMIN_ADD_EVALS"
	AuditActionCompleteEval   = "COMPLETE_EVAL"
)

// AuditLog is a best-effort trace event. Rows are written asynchronously by
// the audit worker; a lost event never fails the operation that emitted it.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id,omitempty"` // 0 = system event
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	IP        string    `gorm:"size:64" json:"ip,omitempty"`
	UserAgent string    `gorm:"size:256" json:"user_agent,omitempty"`
	Metadata  string    `gorm:"type:text" json:"-"` // JSON object
	CreatedAt time.Time `json:"created_at"`
}

// SetMetadata stores the given fields as JSON.
func (l *AuditLog) SetMetadata(fields map[string]any) {
	if len(fields) == 0 {
		l.Metadata = ""
		return
	}
	b, _ := json.Marshal(fields)
	l.Metadata = string(b)
}
