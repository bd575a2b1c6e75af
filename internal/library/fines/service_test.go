package fines_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/librarytest"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

// overdueFine は 4 日延滞で返却して 20.00 の延滞金を作る
func overdueFine(t *testing.T) (*librarytest.Env, *fines.Fine) {
	t.Helper()
	ctx := context.Background()
	env := librarytest.New(nil)
	book, err := env.AddBook(ctx, "Go", 1)
	require.NoError(t, err)
	alice, err := env.AddBorrower(ctx, "alice")
	require.NoError(t, err)
	b, err := env.Checkout(ctx, alice, book)
	require.NoError(t, err)
	res, err := env.Borrowings.ReturnBook(ctx, b.ID, b.DueAt.Add(4*24*time.Hour), "")
	require.NoError(t, err)
	require.NotNil(t, res.Fine)
	return env, res.Fine
}

func TestPay(t *testing.T) {
	env, f := overdueFine(t)
	ctx := context.Background()
	assert.Equal(t, "20.00", f.Amount.StringFixed(2))

	paidAt := env.Now().Add(40 * 24 * time.Hour)
	paid, err := env.Fines.Pay(ctx, f.ID, paidAt, "cash")
	require.NoError(t, err)
	assert.Equal(t, fines.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, paidAt, *paid.PaidAt)
	assert.Equal(t, "cash", paid.Notes)
	assert.True(t, f.Amount.Equal(paid.Amount), "amount is fixed at creation")

	_, err = env.Fines.Pay(ctx, f.ID, paidAt, "")
	assert.ErrorIs(t, err, apierr.ErrInvalidFineState)
	_, err = env.Fines.Waive(ctx, f.ID, "")
	assert.ErrorIs(t, err, apierr.ErrInvalidFineState)
}

func TestWaive(t *testing.T) {
	env, f := overdueFine(t)
	ctx := context.Background()

	waived, err := env.Fines.Waive(ctx, f.ID, "first offence")
	require.NoError(t, err)
	assert.Equal(t, fines.StatusWaived, waived.Status)
	assert.Nil(t, waived.PaidAt)

	totals, err := env.Fines.Totals(ctx, f.BorrowerID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", totals.All.StringFixed(2))
	assert.True(t, totals.Pending.IsZero())
}

func TestPayMissingFine(t *testing.T) {
	env, _ := overdueFine(t)
	_, err := env.Fines.Pay(context.Background(), "nope", env.Now(), "")
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))
}

func TestListFilters(t *testing.T) {
	env, f := overdueFine(t)
	ctx := context.Background()

	items, total, err := env.Fines.List(ctx, fines.Filter{Status: fines.StatusPending}, db.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, f.ID, items[0].ID)

	_, total, err = env.Fines.List(ctx, fines.Filter{Status: fines.StatusPaid}, db.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = env.Fines.List(ctx, fines.Filter{Status: "lost"}, db.Page{})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}
