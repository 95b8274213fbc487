package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/synopsis/internal/filestore"
	"github.com/xxxsen/synopsis/internal/repo"
)

const sweepBatchSize = 500

// RetentionJob deletes raw uploaded PDFs past the retention window and clears
// the storage reference on their records. The summaries themselves are kept;
// only the raw source file expires.
type RetentionJob struct {
	summaries *repo.SummaryRepo
	store     filestore.Store
	maxAge    time.Duration
}

func NewRetentionJob(summaries *repo.SummaryRepo, store filestore.Store, maxAge time.Duration) *RetentionJob {
	return &RetentionJob{summaries: summaries, store: store, maxAge: maxAge}
}

func (j *RetentionJob) Name() string {
	return "pdf_retention"
}

func (j *RetentionJob) Run(ctx context.Context) error {
	if j.maxAge <= 0 {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	cutoff := time.Now().Add(-j.maxAge).UnixMilli()
	records, err := j.summaries.ListStoredBefore(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return err
	}
	removed := 0
	for _, record := range records {
		if err := j.store.Delete(ctx, record.PdfPath); err != nil {
			logger.Warn("retention delete failed",
				zap.String("summary_id", record.ID),
				zap.String("key", record.PdfPath),
				zap.Error(err),
			)
			continue
		}
		if err := j.summaries.ClearPdfPath(ctx, record.ID); err != nil {
			return err
		}
		removed++
	}
	if removed > 0 {
		logger.Info("retention sweep", zap.Int("removed", removed))
	}
	return nil
}
