package fines

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"readify-backend/internal/library/policy"
)

var p = policy.Policy{
	DailyFineRate:         decimal.RequireFromString("5.0"),
	MaxFineDays:           30,
	LoanPeriodDays:        14,
	ReservationPeriodDays: 7,
}

func TestIsOverdueBoundary(t *testing.T) {
	borrowed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	due := p.DueAt(borrowed)

	assert.False(t, IsOverdue(due, nil, due))
	assert.True(t, IsOverdue(due, nil, due.Add(time.Second)))

	returned := due.Add(-time.Hour)
	assert.False(t, IsOverdue(due, &returned, due.Add(48*time.Hour)))
}

func TestDaysOverdueFloors(t *testing.T) {
	due := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysOverdue(due, nil, due.Add(23*time.Hour)))
	assert.Equal(t, 1, DaysOverdue(due, nil, due.Add(24*time.Hour)))
	assert.Equal(t, 2, DaysOverdue(due, nil, due.Add(71*time.Hour)))
	assert.Equal(t, 0, DaysOverdue(due, nil, due.Add(-72*time.Hour)))
}

func TestAmountCapped(t *testing.T) {
	assert.True(t, Amount(40, p).Equal(decimal.RequireFromString("150.0")))
	assert.True(t, Amount(30, p).Equal(decimal.NewFromInt(150)))
	assert.True(t, Amount(3, p).Equal(decimal.NewFromInt(15)))
	assert.True(t, Amount(0, p).IsZero())
	assert.True(t, Amount(-2, p).IsZero())
}

func TestComputeUsesFractionalRate(t *testing.T) {
	q := p
	q.DailyFineRate = decimal.RequireFromString("0.35")
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Compute(due, nil, due.Add(10*24*time.Hour+time.Minute), q)
	assert.Equal(t, "3.50", got.StringFixed(2))
}
