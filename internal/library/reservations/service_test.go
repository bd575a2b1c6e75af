package reservations_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/library/librarytest"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

const day = 24 * time.Hour

func setup(t *testing.T) (*librarytest.Env, string, string) {
	t.Helper()
	ctx := context.Background()
	env := librarytest.New(nil)
	book, err := env.AddBook(ctx, "Go", 1)
	require.NoError(t, err)
	alice, err := env.AddBorrower(ctx, "alice")
	require.NoError(t, err)
	return env, book, alice
}

func TestReserveSetsExpiry(t *testing.T) {
	env, book, alice := setup(t)
	r, err := env.Reservations.Reserve(context.Background(), alice, book, env.Now(), "")
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusPending, r.Status)
	assert.Equal(t, env.Now().Add(7*day), r.ExpiresAt)
}

func TestReserveDuplicatePending(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	_, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)
	_, err = env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	assert.ErrorIs(t, err, apierr.ErrDuplicateReservation)

	// 別の利用者は予約できる
	bob, err := env.AddBorrower(ctx, "bob")
	require.NoError(t, err)
	_, err = env.Reservations.Reserve(ctx, bob, book, env.Now(), "")
	assert.NoError(t, err)
}

func TestReserveAgainAfterCancel(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	r, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)
	cancelled, err := env.Reservations.Cancel(ctx, r.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusCancelled, cancelled.Status)

	_, err = env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	assert.NoError(t, err)
}

func TestReserveReplacesExpiredPending(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	old, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)

	// 期限ちょうどはまだ有効
	_, err = env.Reservations.Reserve(ctx, alice, book, old.ExpiresAt, "")
	assert.ErrorIs(t, err, apierr.ErrDuplicateReservation)

	later := old.ExpiresAt.Add(time.Minute)
	fresh, err := env.Reservations.Reserve(ctx, alice, book, later, "")
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)

	got, err := env.Reservations.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusExpired, got.Status)
}

func TestReserveInactiveOrMissing(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	_, err := env.Reservations.Reserve(ctx, alice, "missing", env.Now(), "")
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))

	require.NoError(t, env.Deactivate(ctx, alice))
	_, err = env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	assert.ErrorIs(t, err, apierr.ErrBorrowerInactive)
}

func TestCancelChecksOwnerBeforeState(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()
	bob, err := env.AddBorrower(ctx, "bob")
	require.NoError(t, err)

	r, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)
	_, err = env.Reservations.Cancel(ctx, r.ID, bob)
	assert.ErrorIs(t, err, apierr.ErrNotOwner)

	_, err = env.Reservations.Cancel(ctx, r.ID, alice)
	require.NoError(t, err)

	// 終了済みでも他人には NotOwner
	_, err = env.Reservations.Cancel(ctx, r.ID, bob)
	assert.ErrorIs(t, err, apierr.ErrNotOwner)
	_, err = env.Reservations.Cancel(ctx, r.ID, alice)
	assert.ErrorIs(t, err, apierr.ErrInvalidReservationState)
}

func TestFulfill(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	r, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)
	done, err := env.Reservations.Fulfill(ctx, r.ID, env.Now().Add(day))
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusFulfilled, done.Status)

	_, err = env.Reservations.Fulfill(ctx, r.ID, env.Now().Add(day))
	assert.ErrorIs(t, err, apierr.ErrInvalidReservationState)
}

func TestFulfillExpiredCommitsExpiry(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()

	r, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)

	_, err = env.Reservations.Fulfill(ctx, r.ID, r.ExpiresAt.Add(time.Second))
	assert.ErrorIs(t, err, apierr.ErrInvalidReservationState)

	got, err := env.Reservations.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, reservations.StatusExpired, got.Status)
}

func TestExpireStale(t *testing.T) {
	env, book, alice := setup(t)
	ctx := context.Background()
	other, err := env.AddBook(ctx, "Rust", 1)
	require.NoError(t, err)

	first, err := env.Reservations.Reserve(ctx, alice, book, env.Now(), "")
	require.NoError(t, err)
	second, err := env.Reservations.Reserve(ctx, alice, other, env.Now().Add(3*day), "")
	require.NoError(t, err)

	n, err := env.Reservations.ExpireStale(ctx, first.ExpiresAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, total, err := env.Reservations.List(ctx, reservations.Filter{BorrowerID: alice, Status: reservations.StatusPending}, db.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, second.ID, pending[0].ID)

	n, err = env.Reservations.ExpireStale(ctx, first.ExpiresAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	env, _, _ := setup(t)
	_, _, err := env.Reservations.List(context.Background(), reservations.Filter{Status: "lost"}, db.Page{})
	assert.Equal(t, apierr.CodeInvalidArgument, apierr.CodeOf(err))
}
