package reservations

import (
	"context"
	"time"

	"go.uber.org/zap"

	"readify-backend/internal/library/policy"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

type Service struct {
	store  Store
	policy policy.Policy
	id     ids.IDGen
	log    *zap.Logger
}

func NewService(store Store, p policy.Policy, id ids.IDGen, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, policy: p, id: id, log: log}
}

// Reserve は在庫の有無に関係なく予約できる。同じ本の pending 予約は1件まで。
// 期限切れのまま残っている pending はここで expired にしてから判定する
func (s *Service) Reserve(ctx context.Context, borrowerID, bookID string, now time.Time, notes string) (*Reservation, error) {
	if borrowerID == "" || bookID == "" {
		return nil, apierr.ErrInvalid("borrower_id and book_id are required")
	}
	var out Reservation
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		borrower, err := tx.LockBorrower(ctx, borrowerID)
		if err != nil {
			return err
		}
		if !borrower.Active {
			return apierr.ErrBorrowerInactive
		}
		if _, err := tx.LockBook(ctx, bookID); err != nil {
			return err
		}

		pending, err := tx.PendingReservations(ctx, borrowerID, bookID)
		if err != nil {
			return err
		}
		for i := range pending {
			r := &pending[i]
			if !r.IsExpired(now) {
				return apierr.ErrDuplicateReservation
			}
			r.Status = StatusExpired
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return err
			}
		}

		out = Reservation{
			ID:          s.id.NewULID(now),
			BorrowerID:  borrowerID,
			BookID:      bookID,
			RequestedAt: now,
			ExpiresAt:   s.policy.ExpiresAt(now),
			Status:      StatusPending,
			Notes:       notes,
		}
		return tx.InsertReservation(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book reserved",
		zap.String("reservation_id", out.ID),
		zap.String("borrower_id", borrowerID),
		zap.String("book_id", bookID),
		zap.Time("expires_at", out.ExpiresAt),
	)
	return &out, nil
}

// Cancel は所有者の確認を状態の確認より先に行う
func (s *Service) Cancel(ctx context.Context, reservationID, requesterID string) (*Reservation, error) {
	var out Reservation
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if r.BorrowerID != requesterID {
			return apierr.ErrNotOwner
		}
		if err := r.transition(StatusCancelled); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("reservation cancelled", zap.String("reservation_id", reservationID))
	return &out, nil
}

// Fulfill: 期限切れなら expired を確定させたうえで InvalidReservationState を返す
func (s *Service) Fulfill(ctx context.Context, reservationID string, now time.Time) (*Reservation, error) {
	var (
		out     Reservation
		expired bool
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		next := StatusFulfilled
		if r.IsExpired(now) {
			next, expired = StatusExpired, true
		}
		if err := r.transition(next); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		s.log.Info("reservation expired on fulfill", zap.String("reservation_id", reservationID))
		return &out, apierr.New(apierr.CodeInvalidReservationState, "reservation has expired")
	}
	s.log.Info("reservation fulfilled", zap.String("reservation_id", reservationID))
	return &out, nil
}

// ExpireStale は期限切れの pending をまとめて expired にする。定期実行はしない
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	n := 0
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		stale, err := tx.ExpiredPendingReservations(ctx, now)
		if err != nil {
			return err
		}
		for i := range stale {
			r := &stale[i]
			if !r.IsExpired(now) {
				continue
			}
			r.Status = StatusExpired
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("expired stale reservations", zap.Int("count", n), zap.Time("now", now))
	return n, nil
}

func (s *Service) Get(ctx context.Context, reservationID string) (*Reservation, error) {
	return s.store.GetReservation(ctx, reservationID)
}

func (s *Service) List(ctx context.Context, f Filter, p db.Page) ([]Reservation, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apierr.ErrInvalid("unknown reservation status")
	}
	return s.store.ListReservations(ctx, f, p.Normalize())
}
