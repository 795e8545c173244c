package tracking

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func newTestTrackingStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "tracking.json"), newTestLogger(t))
}

func TestFileStore_CreateAndGetRecord(t *testing.T) {
	store := newTestTrackingStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRecord(ctx, "id-1", "first-post", "First Post", 3))

	record, err := store.GetRecord(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "first-post", record.PostSlug)
	assert.Equal(t, "First Post", record.PostTitle)
	assert.Equal(t, 3, record.SentTo)
	assert.Empty(t, record.Opens)
	assert.Empty(t, record.Clicks)
}

func TestFileStore_GetRecordUnknownIDIsNil(t *testing.T) {
	store := newTestTrackingStore(t)

	record, err := store.GetRecord(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFileStore_RecordOpenDedupesPerEmail(t *testing.T) {
	store := newTestTrackingStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateRecord(ctx, "id-1", "post", "Post", 2))

	require.NoError(t, store.RecordOpen(ctx, "id-1", "a@example.com", "1.2.3.4", "ua"))
	require.NoError(t, store.RecordOpen(ctx, "id-1", "A@Example.com", "5.6.7.8", "ua2"))
	require.NoError(t, store.RecordOpen(ctx, "id-1", "b@example.com", "", ""))

	record, err := store.GetRecord(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Len(t, record.Opens, 2, "repeat opens for the same email must be dropped")
	assert.Equal(t, "a@example.com", record.Opens[0].Email)
	assert.Equal(t, "1.2.3.4", record.Opens[0].IP, "first open wins")
	assert.Equal(t, "b@example.com", record.Opens[1].Email)
}

func TestFileStore_RecordClickNeverDedupes(t *testing.T) {
	store := newTestTrackingStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateRecord(ctx, "id-1", "post", "Post", 1))

	require.NoError(t, store.RecordClick(ctx, "id-1", "a@example.com", "https://example.com/blog/post", "", ""))
	require.NoError(t, store.RecordClick(ctx, "id-1", "a@example.com", "https://example.com/blog/post", "", ""))

	record, err := store.GetRecord(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Len(t, record.Clicks, 2)
}

func TestFileStore_UnknownIDEventsAreNoOps(t *testing.T) {
	store := newTestTrackingStore(t)
	ctx := context.Background()

	assert.NoError(t, store.RecordOpen(ctx, "ghost", "a@example.com", "", ""))
	assert.NoError(t, store.RecordClick(ctx, "ghost", "a@example.com", "https://example.com", "", ""))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStore_ListRecordsKeepsCreationOrder(t *testing.T) {
	store := newTestTrackingStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRecord(ctx, "id-1", "one", "One", 1))
	require.NoError(t, store.CreateRecord(ctx, "id-2", "two", "Two", 1))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id-1", records[0].EmailID)
	assert.Equal(t, "id-2", records[1].EmailID)
}
