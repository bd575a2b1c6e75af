package fines

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type Tx interface {
	LockFine(ctx context.Context, fineID string) (*Fine, error)
	UpdateFine(ctx context.Context, f *Fine) error
	// FineByBorrowing は無ければ nil, nil
	FineByBorrowing(ctx context.Context, borrowingID string) (*Fine, error)
	InsertFine(ctx context.Context, f *Fine) error
}

type Store interface {
	GetFine(ctx context.Context, fineID string) (*Fine, error)
	ListFines(ctx context.Context, f Filter, p db.Page) ([]Fine, int64, error)
	Totals(ctx context.Context, borrowerID string) (Totals, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

var dialect = goqu.Dialect("mysql")

const fineColumns = `fine_id, borrowing_id, borrower_id, amount, status, created_at, paid_at, notes`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) GetFine(ctx context.Context, fineID string) (*Fine, error) {
	var f Fine
	err := s.db.GetContext(ctx, &f, `SELECT `+fineColumns+` FROM fines WHERE fine_id = ?`, fineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("fine not found")
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLStore) ListFines(ctx context.Context, f Filter, p db.Page) ([]Fine, int64, error) {
	p = p.Normalize()
	ex := goqu.Ex{}
	if f.BorrowerID != "" {
		ex["borrower_id"] = f.BorrowerID
	}
	if f.Status != "" {
		ex["status"] = string(f.Status)
	}

	countSQL, args, err := dialect.From("fines").Prepared(true).Select(goqu.COUNT("*")).Where(ex).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, err
	}

	order := goqu.I("created_at").Desc()
	if p.Asc() {
		order = goqu.I("created_at").Asc()
	}
	listSQL, args, err := dialect.From("fines").Prepared(true).
		Select(goqu.L(fineColumns)).Where(ex).
		Order(order, goqu.I("fine_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Fine{}
	if err := s.db.SelectContext(ctx, &items, listSQL, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) Totals(ctx context.Context, borrowerID string) (Totals, error) {
	const q = `
SELECT
  COALESCE(SUM(amount), 0) AS total_all,
  COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS total_pending
FROM fines
WHERE borrower_id = ?`
	var t Totals
	if err := s.db.GetContext(ctx, &t, q, borrowerID); err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, q db.DBTX) error {
		return fn(ctx, NewTx(q))
	})
}

type sqlTx struct{ q db.DBTX }

func NewTx(q db.DBTX) Tx { return sqlTx{q: q} }

func (t sqlTx) LockFine(ctx context.Context, fineID string) (*Fine, error) {
	var f Fine
	err := t.q.GetContext(ctx, &f, `SELECT `+fineColumns+` FROM fines WHERE fine_id = ? FOR UPDATE`, fineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("fine not found")
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (t sqlTx) UpdateFine(ctx context.Context, f *Fine) error {
	const q = `UPDATE fines SET status = ?, paid_at = ?, notes = ? WHERE fine_id = ?`
	res, err := t.q.ExecContext(ctx, q, f.Status, f.PaidAt, f.Notes, f.ID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return apierr.ErrInternal("failed to update fines")
	}
	return nil
}

func (t sqlTx) FineByBorrowing(ctx context.Context, borrowingID string) (*Fine, error) {
	var f Fine
	err := t.q.GetContext(ctx, &f, `SELECT `+fineColumns+` FROM fines WHERE borrowing_id = ? FOR UPDATE`, borrowingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (t sqlTx) InsertFine(ctx context.Context, f *Fine) error {
	const q = `
INSERT INTO fines (` + fineColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.q.ExecContext(ctx, q, f.ID, f.BorrowingID, f.BorrowerID, f.Amount, f.Status, f.CreatedAt, f.PaidAt, f.Notes)
	return apierr.FromMySQL(err, "fine already exists for this borrowing")
}
