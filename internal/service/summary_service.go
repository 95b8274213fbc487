package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/xxxsen/synopsis/internal/model"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/repo"
)

type UserStats struct {
	PdfCount     int  `json:"pdf_count"`
	PdfLimit     int  `json:"pdf_limit"`
	SummaryCount int  `json:"summary_count"`
	CanUpload    bool `json:"can_upload"`
}

type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// SummaryService serves recorded summaries back to their owner. Records are
// immutable after creation.
type SummaryService struct {
	summaries *repo.SummaryRepo
	quota     *QuotaService
}

func NewSummaryService(summaries *repo.SummaryRepo, quota *QuotaService) *SummaryService {
	return &SummaryService{summaries: summaries, quota: quota}
}

// Get returns the full record when the requester owns it, ErrForbidden
// otherwise. Existence is not hidden from a differently-authorized caller.
func (s *SummaryService) Get(ctx context.Context, userID, summaryID string) (*model.PdfSummary, error) {
	record, err := s.summaries.GetByID(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, appErr.ErrForbidden
	}
	return record, nil
}

func (s *SummaryService) List(ctx context.Context, userID string, limit, offset int) ([]*model.PdfSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.summaries.ListByUser(ctx, userID, limit, offset)
}

// Stats powers the dashboard. It reuses the admission check, so a stale
// counter rolls over here too.
func (s *SummaryService) Stats(ctx context.Context, user *model.User) (*UserStats, error) {
	admission, plan, err := s.quota.Admit(ctx, user)
	if err != nil {
		return nil, err
	}
	count, err := s.summaries.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	limit := 0
	if plan != nil {
		limit = plan.PdfLimit
	}
	return &UserStats{
		PdfCount:     user.PdfCount,
		PdfLimit:     limit,
		SummaryCount: count,
		CanUpload:    admission.Allowed,
	}, nil
}

// Export renders the summary body for download, as raw markdown or as HTML.
func (s *SummaryService) Export(ctx context.Context, userID, summaryID, format string) (*ExportResult, error) {
	record, err := s.Get(ctx, userID, summaryID)
	if err != nil {
		return nil, err
	}
	switch format {
	case "", "markdown":
		return &ExportResult{
			Content:     []byte(record.Summary),
			ContentType: "text/markdown; charset=utf-8",
			Filename:    record.ID + ".md",
		}, nil
	case "html":
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(record.Summary), &buf); err != nil {
			return nil, fmt.Errorf("render summary: %w", err)
		}
		return &ExportResult{
			Content:     buf.Bytes(),
			ContentType: "text/html; charset=utf-8",
			Filename:    record.ID + ".html",
		}, nil
	default:
		return nil, appErr.ErrInvalid
	}
}
