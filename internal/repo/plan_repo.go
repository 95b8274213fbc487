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

type PlanRepo struct {
	db *sql.DB
}

func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	return r.getOne(ctx, map[string]interface{}{"id": id})
}

func (r *PlanRepo) GetBySlug(ctx context.Context, slug string) (*model.Plan, error) {
	return r.getOne(ctx, map[string]interface{}{"slug": slug})
}

func (r *PlanRepo) ListActive(ctx context.Context) ([]*model.Plan, error) {
	where := map[string]interface{}{
		"is_active": 1,
		"_orderby":  "price asc",
	}
	sqlStr, args, err := builder.BuildSelect("plans", where, planColumns())
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var plans []*model.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *PlanRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Plan, error) {
	sqlStr, args, err := builder.BuildSelect("plans", where, planColumns())
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
	return scanPlan(rows)
}

func planColumns() []string {
	return []string{"id", "name", "slug", "description", "price", "pdf_limit", "tier_rank", "is_active", "features"}
}

func scanPlan(rows *sql.Rows) (*model.Plan, error) {
	var plan model.Plan
	var features string
	if err := rows.Scan(&plan.ID, &plan.Name, &plan.Slug, &plan.Description,
		&plan.Price, &plan.PdfLimit, &plan.TierRank, &plan.IsActive, &features); err != nil {
		return nil, err
	}
	if features != "" {
		_ = json.Unmarshal([]byte(features), &plan.Features)
	}
	return &plan, nil
}
