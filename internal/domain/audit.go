package domain

import "time"

// AuditRecord captures who touched a sensitive endpoint, when and from where.
// Records are append-only and are never read back by request handling.
type AuditRecord struct {
	ID        int64
	Timestamp time.Time
	Endpoint  string
	IPAddress string
	UserID    *int64
	Username  string
}
