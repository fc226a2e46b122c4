package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
)

// AuditRecorder persists one audit row per sensitive request. Recording is
// fire-and-forget: a failed insert is logged and swallowed so that auditing
// can never fail the request it describes.
type AuditRecorder interface {
	Record(ctx context.Context, endpoint, ip string, userID *int64, username string)
}

type auditRecorder struct {
	records repository.AuditRepository
	logger  *logrus.Logger
}

func NewAuditRecorder(records repository.AuditRepository, logger *logrus.Logger) AuditRecorder {
	return &auditRecorder{records: records, logger: logger}
}

func (r *auditRecorder) Record(ctx context.Context, endpoint, ip string, userID *int64, username string) {
	rec := &domain.AuditRecord{
		Timestamp: time.Now().UTC(),
		Endpoint:  endpoint,
		IPAddress: ip,
		UserID:    userID,
		Username:  username,
	}
	if err := r.records.Insert(ctx, rec); err != nil {
		r.logger.WithError(err).WithField("endpoint", endpoint).Warn("audit record dropped")
	}
}
