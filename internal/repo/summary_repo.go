package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/pkg/dbutil"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
)

type SummaryRepo struct {
	db *sql.DB
}

func NewSummaryRepo(db *sql.DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

func (r *SummaryRepo) Create(ctx context.Context, summary *model.PdfSummary) error {
	var insights interface{}
	if summary.KeyInsights != nil {
		data, err := json.Marshal(summary.KeyInsights)
		if err != nil {
			return err
		}
		insights = string(data)
	}
	data := map[string]interface{}{
		"id":           summary.ID,
		"user_id":      summary.UserID,
		"summary":      summary.Summary,
		"key_insights": insights,
		"pdf_path":     summary.PdfPath,
		"filename":     summary.Filename,
		"filesize":     summary.Filesize,
		"summary_type": summary.SummaryType,
		"ctime":        summary.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("pdf_summaries", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetByID does not filter by owner: the caller decides between not-found and
// forbidden, existence is not hidden from a differently-authorized caller.
func (r *SummaryRepo) GetByID(ctx context.Context, id string) (*model.PdfSummary, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("pdf_summaries", where, summaryColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanSummary(rows)
}

func (r *SummaryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.PdfSummary, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
		"_limit":   []uint{uint(offset), uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("pdf_summaries", where, summaryColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var summaries []*model.PdfSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (r *SummaryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	where := map[string]interface{}{"user_id": userID}
	sqlStr, args, err := builder.BuildSelect("pdf_summaries", where, []string{"count(1)"})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListStoredBefore returns records created before the cutoff that still
// reference a stored raw file. Used by the retention sweep.
func (r *SummaryRepo) ListStoredBefore(ctx context.Context, cutoff int64, limit int) ([]*model.PdfSummary, error) {
	where := map[string]interface{}{
		"ctime <":     cutoff,
		"pdf_path !=": "",
		"_orderby":    "ctime asc",
		"_limit":      []uint{0, uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("pdf_summaries", where, summaryColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var summaries []*model.PdfSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (r *SummaryRepo) ClearPdfPath(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pdf_summaries SET pdf_path = '' WHERE id = $1`, id)
	return err
}

func summaryColumns() []string {
	return []string{"id", "user_id", "summary", "key_insights", "pdf_path", "filename", "filesize", "summary_type", "ctime"}
}

func scanSummary(rows *sql.Rows) (*model.PdfSummary, error) {
	var summary model.PdfSummary
	var insights sql.NullString
	if err := rows.Scan(&summary.ID, &summary.UserID, &summary.Summary, &insights,
		&summary.PdfPath, &summary.Filename, &summary.Filesize, &summary.SummaryType, &summary.Ctime); err != nil {
		return nil, err
	}
	if insights.Valid && insights.String != "" {
		_ = json.Unmarshal([]byte(insights.String), &summary.KeyInsights)
	}
	return &summary, nil
}
