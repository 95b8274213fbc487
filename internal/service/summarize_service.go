package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/synopsis/internal/ai"
	"github.com/xxxsen/synopsis/internal/filestore"
	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/pdftext"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/prompt"
	"github.com/xxxsen/synopsis/internal/repo"
)

type SummarizeInput struct {
	Data     []byte
	Filename string
	StyleKey string
}

type SummarizeResult struct {
	ID       string
	Summary  string
	Insights []string
}

// SummarizeService runs the quota-gated pipeline for one uploaded document:
// admission, storage, extraction, summary generation, optional insight
// extraction, recording, usage commit. Any failure after the storage write
// deletes the stored file and leaves the quota untouched.
type SummarizeService struct {
	users          *repo.UserRepo
	summaries      *repo.SummaryRepo
	quota          *QuotaService
	store          filestore.Store
	extractor      pdftext.Extractor
	client         *ai.Client
	maxInputChars  int
	insightMinTier int
}

func NewSummarizeService(
	users *repo.UserRepo,
	summaries *repo.SummaryRepo,
	quota *QuotaService,
	store filestore.Store,
	extractor pdftext.Extractor,
	client *ai.Client,
	maxInputChars int,
	insightMinTier int,
) *SummarizeService {
	if maxInputChars <= 0 {
		maxInputChars = pdftext.MaxChars
	}
	return &SummarizeService{
		users:          users,
		summaries:      summaries,
		quota:          quota,
		store:          store,
		extractor:      extractor,
		client:         client,
		maxInputChars:  maxInputChars,
		insightMinTier: insightMinTier,
	}
}

func (s *SummarizeService) Summarize(ctx context.Context, userID string, in SummarizeInput) (*SummarizeResult, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID), zap.String("filename", in.Filename))

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	admission, plan, err := s.quota.Admit(ctx, user)
	if err != nil {
		return nil, err
	}
	if !admission.Allowed {
		return nil, appErr.ErrQuotaExceeded
	}

	// The raw file is persisted before content validation: extraction and the
	// record both want a durable copy. Every exit below this point except full
	// success must release it.
	key := buildFileKey(userID, in.Filename)
	if err := s.store.Save(ctx, key, nopCloser{bytes.NewReader(in.Data)}, int64(len(in.Data))); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	retained := false
	defer func() {
		if retained {
			return
		}
		if err := s.store.Delete(ctx, key); err != nil {
			logger.Warn("cleanup of stored file failed", zap.String("key", key), zap.Error(err))
		}
	}()

	text, err := s.extractor.Extract(bytes.NewReader(in.Data), int64(len(in.Data)))
	if err != nil {
		return nil, err
	}
	text = pdftext.Normalize(text)
	text, origLen := pdftext.Truncate(text, s.maxInputChars)
	logger.Info("extracted text", zap.Int("original_chars", origLen), zap.Int("truncated_chars", len([]rune(text))))
	if text == "" {
		return nil, pdftext.ErrEmptyContent
	}
	words := pdftext.WordCount(text)
	if words < pdftext.MinWords {
		return nil, &pdftext.InsufficientContentError{Words: words}
	}

	style := prompt.ParseStyle(in.StyleKey)
	system, instruction := prompt.Select(style)
	summaryText, err := s.client.Summarize(ctx, system, prompt.BuildUserMessage(instruction, text))
	if err != nil {
		return nil, err
	}

	// Insights are an enhancement: gated by plan tier, never fail the request.
	var insights []string
	if plan != nil && plan.TierRank >= s.insightMinTier {
		insights = s.client.ExtractInsights(ctx, summaryText)
	}

	record := &model.PdfSummary{
		ID:          newID(),
		UserID:      userID,
		Summary:     summaryText,
		KeyInsights: insights,
		PdfPath:     key,
		Filename:    in.Filename,
		Filesize:    int64(len(in.Data)),
		SummaryType: string(style),
		Ctime:       time.Now().UnixMilli(),
	}
	if err := s.summaries.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist summary: %w", err)
	}
	// The record now references the stored file; keep it even if the usage
	// commit below fails.
	retained = true
	if err := s.quota.Commit(ctx, userID); err != nil {
		return nil, fmt.Errorf("commit usage: %w", err)
	}
	logger.Info("summary recorded",
		zap.String("summary_id", record.ID),
		zap.String("style", string(style)),
		zap.Int("insights", len(insights)),
	)
	return &SummarizeResult{ID: record.ID, Summary: summaryText, Insights: insights}, nil
}

func buildFileKey(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return "pdfs/" + userID + "/" + newID() + ext
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
