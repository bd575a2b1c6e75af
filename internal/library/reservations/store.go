package reservations

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type Tx interface {
	inventory.Tx
	borrowers.Tx
	// PendingReservations は利用者×本の pending をロックして返す
	PendingReservations(ctx context.Context, borrowerID, bookID string) ([]Reservation, error)
	InsertReservation(ctx context.Context, r *Reservation) error
	LockReservation(ctx context.Context, reservationID string) (*Reservation, error)
	UpdateReservation(ctx context.Context, r *Reservation) error
	ExpiredPendingReservations(ctx context.Context, now time.Time) ([]Reservation, error)
}

type Store interface {
	GetReservation(ctx context.Context, reservationID string) (*Reservation, error)
	ListReservations(ctx context.Context, f Filter, p db.Page) ([]Reservation, int64, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

var dialect = goqu.Dialect("mysql")

const reservationColumns = `reservation_id, borrower_id, book_id, requested_at, expires_at, status, notes`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) GetReservation(ctx context.Context, reservationID string) (*Reservation, error) {
	return getReservation(ctx, s.db, reservationID, false)
}

func getReservation(ctx context.Context, q db.DBTX, reservationID string, lock bool) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var r Reservation
	err := q.GetContext(ctx, &r, query, reservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("reservation not found")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) ListReservations(ctx context.Context, f Filter, p db.Page) ([]Reservation, int64, error) {
	p = p.Normalize()
	ex := goqu.Ex{}
	if f.BorrowerID != "" {
		ex["borrower_id"] = f.BorrowerID
	}
	if f.BookID != "" {
		ex["book_id"] = f.BookID
	}
	if f.Status != "" {
		ex["status"] = string(f.Status)
	}

	countSQL, args, err := dialect.From("reservations").Prepared(true).Select(goqu.COUNT("*")).Where(ex).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, err
	}

	order := goqu.I("requested_at").Desc()
	if p.Asc() {
		order = goqu.I("requested_at").Asc()
	}
	listSQL, args, err := dialect.From("reservations").Prepared(true).
		Select(goqu.L(reservationColumns)).Where(ex).
		Order(order, goqu.I("reservation_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Reservation{}
	if err := s.db.SelectContext(ctx, &items, listSQL, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, q db.DBTX) error {
		return fn(ctx, NewTx(q))
	})
}

type (
	bookTx     = inventory.Tx
	borrowerTx = borrowers.Tx
)

type sqlTx struct {
	bookTx
	borrowerTx
	q db.DBTX
}

func NewTx(q db.DBTX) Tx {
	return sqlTx{bookTx: inventory.NewTx(q), borrowerTx: borrowers.NewTx(q), q: q}
}

func (t sqlTx) PendingReservations(ctx context.Context, borrowerID, bookID string) ([]Reservation, error) {
	items := []Reservation{}
	err := t.q.SelectContext(ctx, &items, `
SELECT `+reservationColumns+` FROM reservations
WHERE borrower_id = ? AND book_id = ? AND status = 'pending'
FOR UPDATE`, borrowerID, bookID)
	return items, err
}

func (t sqlTx) InsertReservation(ctx context.Context, r *Reservation) error {
	const q = `
INSERT INTO reservations (` + reservationColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := t.q.ExecContext(ctx, q, r.ID, r.BorrowerID, r.BookID, r.RequestedAt, r.ExpiresAt, r.Status, r.Notes)
	return apierr.FromMySQL(err, "reservation already exists")
}

func (t sqlTx) LockReservation(ctx context.Context, reservationID string) (*Reservation, error) {
	return getReservation(ctx, t.q, reservationID, true)
}

func (t sqlTx) UpdateReservation(ctx context.Context, r *Reservation) error {
	const q = `UPDATE reservations SET status = ?, notes = ? WHERE reservation_id = ?`
	res, err := t.q.ExecContext(ctx, q, r.Status, r.Notes, r.ID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return apierr.ErrInternal("failed to update reservations")
	}
	return nil
}

func (t sqlTx) ExpiredPendingReservations(ctx context.Context, now time.Time) ([]Reservation, error) {
	items := []Reservation{}
	err := t.q.SelectContext(ctx, &items, `
SELECT `+reservationColumns+` FROM reservations
WHERE status = 'pending' AND expires_at < ?
ORDER BY expires_at
FOR UPDATE`, now)
	return items, err
}
