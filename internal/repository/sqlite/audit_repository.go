package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS audit_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	endpoint TEXT NOT NULL,
	ip_address TEXT NOT NULL,
	user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
	username TEXT NOT NULL DEFAULT ''
);
`

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAuditTable); err != nil {
		return fmt.Errorf("create audit_logs table: %w", err)
	}
	return nil
}

func (r *AuditRepository) Insert(ctx context.Context, record *domain.AuditRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO audit_logs (timestamp, endpoint, ip_address, user_id, username)
VALUES (?, ?, ?, ?, ?)`,
		record.Timestamp,
		record.Endpoint,
		record.IPAddress,
		record.UserID,
		record.Username,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

func (r *AuditRepository) ListAfterID(ctx context.Context, afterID int64, limit int) ([]domain.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, timestamp, endpoint, ip_address, user_id, username
FROM audit_logs WHERE id > ? ORDER BY id LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var userID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Endpoint, &rec.IPAddress, &userID, &rec.Username); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		if userID.Valid {
			v := userID.Int64
			rec.UserID = &v
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
