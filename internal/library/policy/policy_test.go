package policy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPolicy() Policy {
	return Policy{
		DailyFineRate:         decimal.RequireFromString("5.00"),
		MaxFineDays:           30,
		LoanPeriodDays:        14,
		ReservationPeriodDays: 7,
	}
}

func TestDueAtAndExpiresAt(t *testing.T) {
	p := testPolicy()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), p.DueAt(at))
	assert.Equal(t, time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC), p.ExpiresAt(at))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, testPolicy().Validate())

	p := testPolicy()
	p.DailyFineRate = decimal.NewFromInt(-1)
	assert.Error(t, p.Validate())

	p = testPolicy()
	p.LoanPeriodDays = 0
	assert.Error(t, p.Validate())

	p = testPolicy()
	p.ReservationPeriodDays = -3
	assert.Error(t, p.Validate())
}
