package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/synopsis/internal/model"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/repo"
	"github.com/xxxsen/synopsis/internal/testutil"
)

func seedRecord(t *testing.T, summaries *repo.SummaryRepo, userID, body string) *model.PdfSummary {
	t.Helper()
	record := &model.PdfSummary{
		ID:          newID(),
		UserID:      userID,
		Summary:     body,
		PdfPath:     "pdfs/" + userID + "/" + newID() + ".pdf",
		Filename:    "doc.pdf",
		Filesize:    100,
		SummaryType: "standard",
		Ctime:       time.Now().UnixMilli(),
	}
	require.NoError(t, summaries.Create(context.Background(), record))
	return record
}

func newSummaryFixture(t *testing.T) (*SummaryService, *repo.UserRepo, *repo.SummaryRepo, func()) {
	t.Helper()
	conn, closer := testutil.OpenTestDB(t)
	users := repo.NewUserRepo(conn)
	summaries := repo.NewSummaryRepo(conn)
	svc := NewSummaryService(summaries, NewQuotaService(users, repo.NewPlanRepo(conn)))
	return svc, users, summaries, closer
}

func TestSummaryGet_OwnershipEnforced(t *testing.T) {
	svc, _, summaries, closer := newSummaryFixture(t)
	defer closer()
	ctx := context.Background()

	owner := newID()
	record := seedRecord(t, summaries, owner, "body")

	got, err := svc.Get(ctx, owner, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, got.ID)

	_, err = svc.Get(ctx, newID(), record.ID)
	require.ErrorIs(t, err, appErr.ErrForbidden)

	_, err = svc.Get(ctx, owner, "no-such-id")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestSummaryList_ClampsLimit(t *testing.T) {
	svc, _, summaries, closer := newSummaryFixture(t)
	defer closer()
	ctx := context.Background()

	owner := newID()
	for i := 0; i < 25; i++ {
		seedRecord(t, summaries, owner, "body")
	}

	got, err := svc.List(ctx, owner, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 20)

	got, err = svc.List(ctx, owner, 1000, -5)
	require.NoError(t, err)
	require.Len(t, got, 20)

	got, err = svc.List(ctx, owner, 5, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
}

func TestSummaryStats(t *testing.T) {
	svc, users, summaries, closer := newSummaryFixture(t)
	defer closer()
	ctx := context.Background()

	user := seedUser(t, users, "plan-basic", 4, 0)
	seedRecord(t, summaries, user.ID, "body")
	seedRecord(t, summaries, user.ID, "body")

	stats, err := svc.Stats(ctx, user)
	require.NoError(t, err)
	require.Equal(t, 4, stats.PdfCount)
	require.Equal(t, 10, stats.PdfLimit)
	require.Equal(t, 2, stats.SummaryCount)
	require.True(t, stats.CanUpload)

	exhausted := seedUser(t, users, "plan-basic", 10, 0)
	stats, err = svc.Stats(ctx, exhausted)
	require.NoError(t, err)
	require.False(t, stats.CanUpload)
}

func TestSummaryExport(t *testing.T) {
	svc, _, summaries, closer := newSummaryFixture(t)
	defer closer()
	ctx := context.Background()

	owner := newID()
	record := seedRecord(t, summaries, owner, "# Heading\n\nSome **bold** text.")

	md, err := svc.Export(ctx, owner, record.ID, "markdown")
	require.NoError(t, err)
	require.Equal(t, "text/markdown; charset=utf-8", md.ContentType)
	require.Equal(t, record.ID+".md", md.Filename)
	require.Equal(t, record.Summary, string(md.Content))

	// empty format defaults to markdown
	md, err = svc.Export(ctx, owner, record.ID, "")
	require.NoError(t, err)
	require.Equal(t, "text/markdown; charset=utf-8", md.ContentType)

	html, err := svc.Export(ctx, owner, record.ID, "html")
	require.NoError(t, err)
	require.Equal(t, "text/html; charset=utf-8", html.ContentType)
	require.Contains(t, string(html.Content), "<h1")
	require.Contains(t, string(html.Content), "<strong>bold</strong>")

	_, err = svc.Export(ctx, owner, record.ID, "docx")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Export(ctx, newID(), record.ID, "markdown")
	require.ErrorIs(t, err, appErr.ErrForbidden)
}
