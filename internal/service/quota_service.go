package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/synopsis/internal/model"
	appErr "github.com/xxxsen/synopsis/internal/pkg/errors"
	"github.com/xxxsen/synopsis/internal/repo"
)

// UnlimitedRemaining marks plans without a monthly ceiling.
const UnlimitedRemaining = -1

type AdmissionResult struct {
	Allowed   bool
	Remaining int // UnlimitedRemaining for unlimited plans
}

// QuotaService tracks per-user consumption against the plan's monthly
// allowance. Admission performs the billing-period rollover as a side effect;
// Commit charges usage with a single atomic increment, only after a summary
// record was durably persisted.
type QuotaService struct {
	users *repo.UserRepo
	plans *repo.PlanRepo
}

func NewQuotaService(users *repo.UserRepo, plans *repo.PlanRepo) *QuotaService {
	return &QuotaService{users: users, plans: plans}
}

// Admit decides whether the user may run one more summarization. The user is
// refreshed in place when a rollover applies. The returned plan is nil when
// the user has none.
func (s *QuotaService) Admit(ctx context.Context, user *model.User) (AdmissionResult, *model.Plan, error) {
	if user.PlanID == "" {
		return AdmissionResult{Allowed: false}, nil, nil
	}
	plan, err := s.plans.GetByID(ctx, user.PlanID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return AdmissionResult{Allowed: false}, nil, nil
		}
		return AdmissionResult{}, nil, err
	}

	if user.PdfCountResetAt > 0 && user.PdfCountResetAt < time.Now().UnixMilli() {
		if err := s.rollover(ctx, user); err != nil {
			return AdmissionResult{}, nil, err
		}
	}

	if plan.Unlimited() {
		return AdmissionResult{Allowed: true, Remaining: UnlimitedRemaining}, plan, nil
	}
	remaining := plan.PdfLimit - user.PdfCount
	if remaining < 0 {
		remaining = 0
	}
	return AdmissionResult{Allowed: user.PdfCount < plan.PdfLimit, Remaining: remaining}, plan, nil
}

// Commit increments usage by exactly 1. Never called on failure paths.
func (s *QuotaService) Commit(ctx context.Context, userID string) error {
	return s.users.IncrementUsage(ctx, userID)
}

// rollover resets the stale counter and moves the reset timestamp one billing
// period ahead. The update is conditional on the observed timestamp; losing
// the race to a concurrent request means the rollover already happened, so the
// user is reloaded either way.
func (s *QuotaService) rollover(ctx context.Context, user *model.User) error {
	newResetAt := time.Now().AddDate(0, 1, 0).UnixMilli()
	applied, err := s.users.ResetUsage(ctx, user.ID, user.PdfCountResetAt, newResetAt)
	if err != nil {
		return err
	}
	if applied {
		logutil.GetLogger(ctx).Info("usage rollover",
			zap.String("user_id", user.ID),
			zap.Int("stale_count", user.PdfCount),
		)
		user.PdfCount = 0
		user.PdfCountResetAt = newResetAt
		return nil
	}
	fresh, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	*user = *fresh
	return nil
}
