package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/storage"
)

type fakeStore struct {
	objects map[string][]byte
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) PutObject(_ context.Context, _, key string, body []byte) error {
	if s.err != nil {
		return s.err
	}
	s.objects[key] = body
	return nil
}

func (s *fakeStore) ListObjects(_ context.Context, _, _ string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, body := range s.objects {
		out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(body))})
	}
	return out, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAuditRecorderSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{err: assert.AnError}
	rec := NewAuditRecorder(repo, quietLogger())

	// must not panic or surface the error
	rec.Record(ctx, "/api/auth/login", "127.0.0.1", nil, "")
	assert.Empty(t, repo.records)

	repo.err = nil
	userID := int64(5)
	rec.Record(ctx, "/api/prompts", "10.0.0.1", &userID, "alice")
	require.Len(t, repo.records, 1)
	assert.Equal(t, "/api/prompts", repo.records[0].Endpoint)
	assert.Equal(t, "alice", repo.records[0].Username)
	require.NotNil(t, repo.records[0].UserID)
	assert.Equal(t, int64(5), *repo.records[0].UserID)
	assert.False(t, repo.records[0].Timestamp.IsZero())
}

func TestArchiverFlush(t *testing.T) {
	ctx := context.Background()
	userID := int64(5)
	repo := &fakeAuditRepo{records: []domain.AuditRecord{
		{ID: 1, Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Endpoint: "/api/auth/login", IPAddress: "127.0.0.1", UserID: &userID, Username: "alice"},
		{ID: 2, Timestamp: time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC), Endpoint: "/api/prompts", IPAddress: "127.0.0.1"},
	}}
	store := newFakeStore()

	archiver := NewAuditArchiver(repo, store, ArchiverConfig{
		Bucket:    "audit",
		KeyPrefix: "audit-logs",
		Interval:  time.Hour,
		Logger:    quietLogger(),
	})

	require.NoError(t, archiver.Flush(ctx))
	require.Len(t, store.objects, 1)

	var key string
	var body []byte
	for k, b := range store.objects {
		key, body = k, b
	}
	assert.True(t, strings.HasPrefix(key, "audit-logs/20260301T120000Z-"))
	assert.True(t, strings.HasSuffix(key, ".jsonl"))

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "/api/auth/login", first["endpoint"])
	assert.Equal(t, "alice", first["username"])
	assert.Equal(t, float64(5), first["user_id"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Nil(t, second["user_id"])
	_, hasUsername := second["username"]
	assert.False(t, hasUsername)

	// nothing new, nothing uploaded
	require.NoError(t, archiver.Flush(ctx))
	assert.Len(t, store.objects, 1)

	// a third record goes into a fresh object
	repo.records = append(repo.records, domain.AuditRecord{
		ID: 3, Timestamp: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), Endpoint: "/api/admin/admins/:id", IPAddress: "127.0.0.1",
	})
	require.NoError(t, archiver.Flush(ctx))
	assert.Len(t, store.objects, 2)
}

func TestArchiverFlushUploadFailure(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{records: []domain.AuditRecord{
		{ID: 1, Timestamp: time.Now().UTC(), Endpoint: "/api/auth/login", IPAddress: "127.0.0.1"},
	}}
	store := newFakeStore()
	store.err = assert.AnError

	archiver := NewAuditArchiver(repo, store, ArchiverConfig{
		Bucket: "audit",
		Logger: quietLogger(),
	})

	require.Error(t, archiver.Flush(ctx))

	// the failed batch is retried on the next flush
	store.err = nil
	require.NoError(t, archiver.Flush(ctx))
	assert.Len(t, store.objects, 1)
}
