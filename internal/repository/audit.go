package repository

import (
	"context"

	"prompt-hub/internal/domain"
)

// AuditRepository is the append-only sink for audit records. Request
// handling only ever writes; the list form exists for the archive exporter.
type AuditRepository interface {
	Init(ctx context.Context) error
	Insert(ctx context.Context, record *domain.AuditRecord) error
	// ListAfterID returns up to limit records with id greater than afterID,
	// in id order.
	ListAfterID(ctx context.Context, afterID int64, limit int) ([]domain.AuditRecord, error)
}
