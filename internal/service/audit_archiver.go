package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/repository"
	"prompt-hub/internal/storage"
)

const archiveBatchSize = 1000

// ArchiverConfig conveys the archive destination and cadence.
type ArchiverConfig struct {
	Bucket    string
	KeyPrefix string
	Interval  time.Duration
	Logger    *logrus.Logger
}

// AuditArchiver periodically exports audit records to object storage as
// JSONL batches. It tracks the last exported id in memory; after a restart
// the next batch re-exports from the oldest retained record, so delivery is
// at-least-once.
type AuditArchiver struct {
	records repository.AuditRepository
	store   storage.Service
	cfg     ArchiverConfig

	lastID int64
	wg     sync.WaitGroup
}

func NewAuditArchiver(records repository.AuditRepository, store storage.Service, cfg ArchiverConfig) *AuditArchiver {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &AuditArchiver{records: records, store: store, cfg: cfg}
}

// Start launches the export loop. It returns immediately; the loop stops
// when ctx is cancelled, flushing one final batch on the way out.
func (a *AuditArchiver) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(a.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := a.Flush(flushCtx); err != nil {
					a.cfg.Logger.WithError(err).Warn("final audit archive flush failed")
				}
				cancel()
				return
			case <-ticker.C:
				if err := a.Flush(ctx); err != nil {
					a.cfg.Logger.WithError(err).Warn("audit archive flush failed")
				}
			}
		}
	}()
}

// Shutdown blocks until the export loop has exited.
func (a *AuditArchiver) Shutdown() {
	a.wg.Wait()
}

// Flush exports every record newer than the last exported one. Each call
// uploads at most one object per archiveBatchSize records.
func (a *AuditArchiver) Flush(ctx context.Context) error {
	for {
		records, err := a.records.ListAfterID(ctx, a.lastID, archiveBatchSize)
		if err != nil {
			return fmt.Errorf("list audit records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		body, err := encodeJSONL(records)
		if err != nil {
			return err
		}

		key := a.objectKey(records[0].Timestamp)
		if err := a.store.PutObject(ctx, a.cfg.Bucket, key, body); err != nil {
			return err
		}

		a.lastID = records[len(records)-1].ID
		a.cfg.Logger.WithFields(logrus.Fields{
			"key":     key,
			"records": len(records),
		}).Info("audit batch archived")

		if len(records) < archiveBatchSize {
			return nil
		}
	}
}

func (a *AuditArchiver) objectKey(first time.Time) string {
	prefix := strings.Trim(a.cfg.KeyPrefix, "/")
	name := fmt.Sprintf("%s-%s.jsonl", first.UTC().Format("20060102T150405Z"), uuid.NewString())
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

type archivedRecord struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Endpoint  string `json:"endpoint"`
	IPAddress string `json:"ip_address"`
	UserID    *int64 `json:"user_id"`
	Username  string `json:"username,omitempty"`
}

func encodeJSONL(records []domain.AuditRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range records {
		rec := archivedRecord{
			ID:        records[i].ID,
			Timestamp: records[i].Timestamp.UTC().Format(time.RFC3339),
			Endpoint:  records[i].Endpoint,
			IPAddress: records[i].IPAddress,
			UserID:    records[i].UserID,
			Username:  records[i].Username,
		}
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("encode audit record %d: %w", records[i].ID, err)
		}
	}
	return buf.Bytes(), nil
}
