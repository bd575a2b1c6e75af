package fines

import (
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/platform/apierr"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusWaived  Status = "waived"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusWaived
}

// Fine は貸出1件につき高々1件。金額は作成後に変えない
type Fine struct {
	ID          string          `db:"fine_id"`
	BorrowingID string          `db:"borrowing_id"`
	BorrowerID  string          `db:"borrower_id"`
	Amount      decimal.Decimal `db:"amount"`
	Status      Status          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	PaidAt      *time.Time      `db:"paid_at"`
	Notes       string          `db:"notes"`
}

func (f *Fine) Pay(now time.Time, notes string) error {
	if f.Status != StatusPending {
		return apierr.New(apierr.CodeInvalidFineState, "fine is "+string(f.Status))
	}
	f.Status = StatusPaid
	f.PaidAt = &now
	if notes != "" {
		f.Notes = notes
	}
	return nil
}

func (f *Fine) Waive(notes string) error {
	if f.Status != StatusPending {
		return apierr.New(apierr.CodeInvalidFineState, "fine is "+string(f.Status))
	}
	f.Status = StatusWaived
	if notes != "" {
		f.Notes = notes
	}
	return nil
}

type Filter struct {
	BorrowerID string
	Status     Status
}

type Totals struct {
	All     decimal.Decimal `json:"total_fines" db:"total_all"`
	Pending decimal.Decimal `json:"pending_fines" db:"total_pending"`
}
