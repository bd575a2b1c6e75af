package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/policy"
)

const (
	recentWindow      = 7 * 24 * time.Hour
	popularBooksLimit = 10
	overdueListLimit  = 50
	activityLimit     = 10
)

type Service struct {
	src    Source
	policy policy.Policy
	log    *zap.Logger
}

func NewService(src Source, p policy.Policy, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, policy: p, log: log}
}

// Summary は1つの読み取りスナップショットから集計する
func (s *Service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	out := &Summary{GeneratedAt: now}
	err := s.src.ReadOnly(ctx, func(ctx context.Context, r Reader) error {
		var err error
		if out.Stats, err = r.Stats(ctx, now, now.Add(-recentWindow)); err != nil {
			return err
		}
		if out.PopularBooks, err = r.PopularBooks(ctx, popularBooksLimit); err != nil {
			return err
		}
		if out.Overdue, err = s.overdue(ctx, r, now, overdueListLimit); err != nil {
			return err
		}
		out.RecentActivity, err = r.RecentActivity(ctx, activityLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OverdueList は延滞日数と現時点の延滞金見込みを付ける。limit<=0 で全件
func (s *Service) OverdueList(ctx context.Context, now time.Time, limit int) ([]OverdueItem, error) {
	return s.overdue(ctx, s.src, now, limit)
}

func (s *Service) overdue(ctx context.Context, r Reader, now time.Time, limit int) ([]OverdueItem, error) {
	items, err := r.Overdue(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		it.DaysOverdue = fines.DaysOverdue(it.DueAt, nil, now)
		it.AccruedFine = fines.Compute(it.DueAt, nil, now, s.policy)
	}
	return items, nil
}
