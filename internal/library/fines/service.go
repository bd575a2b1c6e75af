package fines

import (
	"context"
	"time"

	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Get(ctx context.Context, fineID string) (*Fine, error) {
	return s.store.GetFine(ctx, fineID)
}

// Pay: pending → paid。paid_at に now を記録する
func (s *Service) Pay(ctx context.Context, fineID string, now time.Time, notes string) (*Fine, error) {
	var out Fine
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.LockFine(ctx, fineID)
		if err != nil {
			return err
		}
		if err := f.Pay(now, notes); err != nil {
			return err
		}
		if err := tx.UpdateFine(ctx, f); err != nil {
			return err
		}
		out = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("fine paid", zap.String("fine_id", fineID), zap.String("amount", out.Amount.StringFixed(2)))
	return &out, nil
}

// Waive: pending → waived
func (s *Service) Waive(ctx context.Context, fineID string, notes string) (*Fine, error) {
	var out Fine
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		f, err := tx.LockFine(ctx, fineID)
		if err != nil {
			return err
		}
		if err := f.Waive(notes); err != nil {
			return err
		}
		if err := tx.UpdateFine(ctx, f); err != nil {
			return err
		}
		out = *f
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("fine waived", zap.String("fine_id", fineID))
	return &out, nil
}

func (s *Service) List(ctx context.Context, f Filter, p db.Page) ([]Fine, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apierr.ErrInvalid("status must be pending, paid or waived")
	}
	return s.store.ListFines(ctx, f, p.Normalize())
}

func (s *Service) Totals(ctx context.Context, borrowerID string) (Totals, error) {
	return s.store.Totals(ctx, borrowerID)
}
