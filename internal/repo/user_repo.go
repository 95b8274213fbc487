package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/pkg/dbutil"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":                 user.ID,
		"email":              user.Email,
		"name":               user.Name,
		"plan_id":            user.PlanID,
		"pdf_count":          user.PdfCount,
		"pdf_count_reset_at": user.PdfCountResetAt,
		"ctime":              user.Ctime,
		"mtime":              user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	where := map[string]interface{}{"id": id}
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns())
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
	return scanUser(rows)
}

// ResetUsage rolls the usage counter over into a new billing period. The update
// is guarded on the previous reset timestamp so that concurrent admission checks
// apply the rollover exactly once. Returns whether this caller won the update.
func (r *UserRepo) ResetUsage(ctx context.Context, userID string, prevResetAt, newResetAt int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET pdf_count = 0, pdf_count_reset_at = $1, mtime = $2 WHERE id = $3 AND pdf_count_reset_at = $4`,
		newResetAt, time.Now().UnixMilli(), userID, prevResetAt)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// IncrementUsage charges one summarization against the user's monthly allowance.
// Single atomic increment, called only after a summary record is persisted.
func (r *UserRepo) IncrementUsage(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET pdf_count = pdf_count + 1, mtime = $1 WHERE id = $2`,
		time.Now().UnixMilli(), userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func userColumns() []string {
	return []string{"id", "email", "name", "plan_id", "pdf_count", "pdf_count_reset_at", "ctime", "mtime"}
}

func scanUser(rows *sql.Rows) (*model.User, error) {
	var user model.User
	if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PlanID,
		&user.PdfCount, &user.PdfCountResetAt, &user.Ctime, &user.Mtime); err != nil {
		return nil, err
	}
	return &user, nil
}
