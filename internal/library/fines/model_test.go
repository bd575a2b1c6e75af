package fines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/platform/apierr"
)

func TestPayAndWaiveTransitions(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	f := &Fine{Status: StatusPending}
	require.NoError(t, f.Pay(now, "cash"))
	assert.Equal(t, StatusPaid, f.Status)
	require.NotNil(t, f.PaidAt)
	assert.Equal(t, now, *f.PaidAt)
	assert.Equal(t, "cash", f.Notes)

	assert.ErrorIs(t, f.Pay(now, ""), apierr.ErrInvalidFineState)
	assert.ErrorIs(t, f.Waive(""), apierr.ErrInvalidFineState)

	w := &Fine{Status: StatusPending, Notes: "original"}
	require.NoError(t, w.Waive(""))
	assert.Equal(t, StatusWaived, w.Status)
	assert.Nil(t, w.PaidAt)
	assert.Equal(t, "original", w.Notes)
	assert.ErrorIs(t, w.Pay(now, ""), apierr.ErrInvalidFineState)
}
