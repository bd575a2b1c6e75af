package reservations

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readify-backend/internal/platform/apierr"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewStore(sqlx.NewDb(conn, "mysql")), mock
}

var reservationCols = []string{"reservation_id", "borrower_id", "book_id", "requested_at", "expires_at", "status", "notes"}

func TestPendingReservationsLocksRows(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE borrower_id = ? AND book_id = ? AND status = 'pending' FOR UPDATE")).
		WithArgs("U1", "B1").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow("R1", "U1", "B1", now.Add(-time.Hour), now.Add(time.Hour), "pending", ""))
	mock.ExpectCommit()

	var got []Reservation
	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		var err error
		got, err = tx.PendingReservations(ctx, "U1", "B1")
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, StatusPending, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpiredPendingReservationsOrderedAndLocked(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'pending' AND expires_at < ? ORDER BY expires_at FOR UPDATE")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow("R1", "U1", "B1", now.Add(-72*time.Hour), now.Add(-48*time.Hour), "pending", "").
			AddRow("R2", "U2", "B1", now.Add(-60*time.Hour), now.Add(-time.Hour), "pending", ""))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ?, notes = ? WHERE reservation_id = ?")).
		WithArgs(StatusExpired, "", "R1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ?, notes = ? WHERE reservation_id = ?")).
		WithArgs(StatusExpired, "", "R2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		items, err := tx.ExpiredPendingReservations(ctx, now)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Status = StatusExpired
			if err := tx.UpdateReservation(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReservationMissingRowRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.UpdateReservation(ctx, &Reservation{ID: "R1", Status: StatusCancelled})
	})
	assert.Equal(t, apierr.CodeInternal, apierr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockReservationNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE reservation_id = ? FOR UPDATE")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(reservationCols))
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx Tx) error {
		_, err := tx.LockReservation(ctx, "nope")
		return err
	})
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
