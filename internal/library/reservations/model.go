package reservations

import (
	"time"

	"readify-backend/internal/platform/apierr"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type Reservation struct {
	ID          string    `db:"reservation_id"`
	BorrowerID  string    `db:"borrower_id"`
	BookID      string    `db:"book_id"`
	RequestedAt time.Time `db:"requested_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	Status      Status    `db:"status"`
	Notes       string    `db:"notes"`
}

// IsExpired: pending のまま期限を過ぎている（期限ちょうどはまだ有効）
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == StatusPending && now.After(r.ExpiresAt)
}

func (r *Reservation) transition(to Status) error {
	if r.Status != StatusPending {
		return apierr.New(apierr.CodeInvalidReservationState, "reservation is "+string(r.Status))
	}
	r.Status = to
	return nil
}

type Filter struct {
	BorrowerID string
	BookID     string
	Status     Status
}
