package fines

import (
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/library/policy"
)

const day = 24 * time.Hour

// IsOverdue: 未返却かつ now が期限を過ぎている（期限ちょうどは延滞ではない）
func IsOverdue(due time.Time, returnedAt *time.Time, now time.Time) bool {
	return returnedAt == nil && now.After(due)
}

// DaysOverdue は経過した丸一日の数。延滞でなければ 0
func DaysOverdue(due time.Time, returnedAt *time.Time, now time.Time) int {
	if !IsOverdue(due, returnedAt, now) {
		return 0
	}
	return int(now.Sub(due) / day)
}

// Amount = min(days, MaxFineDays) * DailyFineRate
func Amount(days int, p policy.Policy) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	if days > p.MaxFineDays {
		days = p.MaxFineDays
	}
	return p.DailyFineRate.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

func Compute(due time.Time, returnedAt *time.Time, now time.Time, p policy.Policy) decimal.Decimal {
	return Amount(DaysOverdue(due, returnedAt, now), p)
}
