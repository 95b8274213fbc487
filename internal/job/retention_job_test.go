package job

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/synopsis/internal/config"
	"github.com/xxxsen/synopsis/internal/filestore"
	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/repo"
	"github.com/xxxsen/synopsis/internal/testutil"
)

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func testID(t *testing.T) string {
	t.Helper()
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}

func storeRecord(t *testing.T, summaries *repo.SummaryRepo, store filestore.Store, userID string, age time.Duration) *model.PdfSummary {
	t.Helper()
	ctx := context.Background()
	key := "pdfs/" + userID + "/" + testID(t) + ".pdf"
	payload := []byte("%PDF-1.4 retained")
	require.NoError(t, store.Save(ctx, key, readSeekNopCloser{bytes.NewReader(payload)}, int64(len(payload))))
	record := &model.PdfSummary{
		ID:          testID(t),
		UserID:      userID,
		Summary:     "kept summary",
		PdfPath:     key,
		Filename:    "doc.pdf",
		Filesize:    int64(len(payload)),
		SummaryType: "standard",
		Ctime:       time.Now().Add(-age).UnixMilli(),
	}
	require.NoError(t, summaries.Create(ctx, record))
	return record
}

func TestRetentionJobSweepsExpiredFiles(t *testing.T) {
	conn, closer := testutil.OpenTestDB(t)
	defer closer()
	summaries := repo.NewSummaryRepo(conn)
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": t.TempDir()},
	})
	require.NoError(t, err)
	ctx := context.Background()
	userID := testID(t)

	expired := storeRecord(t, summaries, store, userID, 40*24*time.Hour)
	fresh := storeRecord(t, summaries, store, userID, 24*time.Hour)

	job := NewRetentionJob(summaries, store, 30*24*time.Hour)
	require.Equal(t, "pdf_retention", job.Name())
	require.NoError(t, job.Run(ctx))

	// expired: raw file gone, reference cleared, summary text kept
	_, err = store.Open(ctx, expired.PdfPath)
	require.Error(t, err)
	got, err := summaries.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	require.Empty(t, got.PdfPath)
	require.Equal(t, "kept summary", got.Summary)

	// fresh: untouched
	rc, err := store.Open(ctx, fresh.PdfPath)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	got, err = summaries.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, fresh.PdfPath, got.PdfPath)
}

func TestRetentionJobDisabled(t *testing.T) {
	job := NewRetentionJob(nil, nil, 0)
	require.NoError(t, job.Run(context.Background()))
}
