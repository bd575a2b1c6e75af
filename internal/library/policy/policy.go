// Package policy holds the lending rules the lifecycle services are configured with.
package policy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type Policy struct {
	DailyFineRate         decimal.Decimal
	MaxFineDays           int
	LoanPeriodDays        int
	ReservationPeriodDays int
}

func (p Policy) Validate() error {
	if p.DailyFineRate.IsNegative() {
		return fmt.Errorf("daily fine rate must not be negative: %s", p.DailyFineRate)
	}
	if p.MaxFineDays < 0 {
		return fmt.Errorf("max fine days must not be negative: %d", p.MaxFineDays)
	}
	if p.LoanPeriodDays <= 0 {
		return fmt.Errorf("loan period must be positive: %d", p.LoanPeriodDays)
	}
	if p.ReservationPeriodDays <= 0 {
		return fmt.Errorf("reservation period must be positive: %d", p.ReservationPeriodDays)
	}
	return nil
}

// DueAt は貸出日時から返却期限を出す
func (p Policy) DueAt(borrowedAt time.Time) time.Time {
	return borrowedAt.Add(time.Duration(p.LoanPeriodDays) * day)
}

// ExpiresAt は予約日時から有効期限を出す
func (p Policy) ExpiresAt(requestedAt time.Time) time.Time {
	return requestedAt.Add(time.Duration(p.ReservationPeriodDays) * day)
}
