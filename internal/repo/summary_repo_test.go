package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/synopsis/internal/model"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/testutil"
)

func testID(t *testing.T) string {
	t.Helper()
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}

func seedSummary(t *testing.T, repo *SummaryRepo, userID string, insights []string, ctime int64) *model.PdfSummary {
	t.Helper()
	record := &model.PdfSummary{
		ID:          testID(t),
		UserID:      userID,
		Summary:     "## Title\n\nBody text.",
		KeyInsights: insights,
		PdfPath:     "pdfs/" + userID + "/" + testID(t) + ".pdf",
		Filename:    "doc.pdf",
		Filesize:    1234,
		SummaryType: "standard",
		Ctime:       ctime,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}

func TestSummaryRepoCreateGet(t *testing.T) {
	conn, closer := testutil.OpenTestDB(t)
	defer closer()
	summaries := NewSummaryRepo(conn)
	ctx := context.Background()
	userID := testID(t)

	withInsights := seedSummary(t, summaries, userID, []string{"a", "b"}, time.Now().UnixMilli())
	got, err := summaries.GetByID(ctx, withInsights.ID)
	require.NoError(t, err)
	require.Equal(t, withInsights.Summary, got.Summary)
	require.Equal(t, []string{"a", "b"}, got.KeyInsights)
	require.Equal(t, withInsights.PdfPath, got.PdfPath)

	withoutInsights := seedSummary(t, summaries, userID, nil, time.Now().UnixMilli())
	got, err = summaries.GetByID(ctx, withoutInsights.ID)
	require.NoError(t, err)
	require.Nil(t, got.KeyInsights)

	_, err = summaries.GetByID(ctx, "no-such-id")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestSummaryRepoListByUser(t *testing.T) {
	conn, closer := testutil.OpenTestDB(t)
	defer closer()
	summaries := NewSummaryRepo(conn)
	ctx := context.Background()
	userID := testID(t)

	base := time.Now().UnixMilli()
	first := seedSummary(t, summaries, userID, nil, base)
	second := seedSummary(t, summaries, userID, nil, base+1)
	third := seedSummary(t, summaries, userID, nil, base+2)
	seedSummary(t, summaries, testID(t), nil, base) // someone else's

	got, err := summaries.ListByUser(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, third.ID, got[0].ID)
	require.Equal(t, second.ID, got[1].ID)

	got, err = summaries.ListByUser(ctx, userID, 2, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, first.ID, got[0].ID)

	count, err := summaries.CountByUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestSummaryRepoRetentionQueries(t *testing.T) {
	conn, closer := testutil.OpenTestDB(t)
	defer closer()
	summaries := NewSummaryRepo(conn)
	ctx := context.Background()
	userID := testID(t)

	cutoff := time.Now().AddDate(0, 0, -30).UnixMilli()
	old := seedSummary(t, summaries, userID, nil, cutoff-1000)
	fresh := seedSummary(t, summaries, userID, nil, time.Now().UnixMilli())

	aged, err := summaries.ListStoredBefore(ctx, cutoff, 100)
	require.NoError(t, err)
	ids := make(map[string]bool, len(aged))
	for _, record := range aged {
		ids[record.ID] = true
		require.NotEmpty(t, record.PdfPath)
	}
	require.True(t, ids[old.ID])
	require.False(t, ids[fresh.ID])

	require.NoError(t, summaries.ClearPdfPath(ctx, old.ID))
	got, err := summaries.GetByID(ctx, old.ID)
	require.NoError(t, err)
	require.Empty(t, got.PdfPath)

	// cleared records drop out of the sweep candidates
	aged, err = summaries.ListStoredBefore(ctx, cutoff, 100)
	require.NoError(t, err)
	for _, record := range aged {
		require.NotEqual(t, old.ID, record.ID)
	}
}
