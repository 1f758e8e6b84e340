package app

import (
	"context"

	"evalhub/internal/model"
)

// AuditPublisher hands audit events to the async persistence pipeline.
// Services call it best-effort: a publish failure is logged and swallowed,
// never surfaced to the caller of the primary operation.
type AuditPublisher interface {
	Publish(ctx context.Context, entry model.AuditLog) error
}

// RequestMeta carries the client attributes recorded on audit events.
type RequestMeta struct {
	IP        string
	UserAgent string
}
