package borrowers

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type Tx interface {
	LockBorrower(ctx context.Context, borrowerID string) (*Borrower, error)
}

type Store interface {
	CreateBorrower(ctx context.Context, b *Borrower) error
	GetBorrower(ctx context.Context, borrowerID string) (*Borrower, error)
	GetBorrowerByAccount(ctx context.Context, accountID string) (*Borrower, error)
	ListBorrowers(ctx context.Context, q Query, p db.Page) ([]Borrower, int64, error)
	UpdateBorrower(ctx context.Context, b *Borrower) error
}

var dialect = goqu.Dialect("mysql")

const borrowerColumns = `borrower_id, account_id, library_id, name, email, phone, address,
membership_date, is_active, max_books_allowed`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) CreateBorrower(ctx context.Context, b *Borrower) error {
	const q = `
INSERT INTO borrowers (` + borrowerColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		b.ID, b.AccountID, b.LibraryID, b.Name, b.Email, b.Phone, b.Address,
		b.MembershipDate, b.Active, b.MaxBooksAllowed,
	)
	return apierr.FromMySQL(err, "borrower profile or library_id already exists")
}

func (s *SQLStore) getOne(ctx context.Context, where string, arg any) (*Borrower, error) {
	var b Borrower
	err := s.db.GetContext(ctx, &b, `SELECT `+borrowerColumns+` FROM borrowers WHERE `+where+` = ?`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("borrower not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLStore) GetBorrower(ctx context.Context, borrowerID string) (*Borrower, error) {
	return s.getOne(ctx, "borrower_id", borrowerID)
}

func (s *SQLStore) GetBorrowerByAccount(ctx context.Context, accountID string) (*Borrower, error) {
	return s.getOne(ctx, "account_id", accountID)
}

func (s *SQLStore) ListBorrowers(ctx context.Context, q Query, p db.Page) ([]Borrower, int64, error) {
	p = p.Normalize()
	var where []goqu.Expression
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + kw + "%"
		where = append(where, goqu.Or(
			goqu.C("name").ILike(like),
			goqu.C("library_id").ILike(like),
			goqu.C("email").ILike(like),
		))
	}
	if q.Active != nil {
		where = append(where, goqu.C("is_active").Eq(*q.Active))
	}

	countSQL, args, err := dialect.From("borrowers").Prepared(true).
		Select(goqu.COUNT("*")).Where(where...).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, err
	}

	listSQL, args, err := dialect.From("borrowers").Prepared(true).
		Select(goqu.L(borrowerColumns)).Where(where...).
		Order(goqu.I("name").Asc(), goqu.I("borrower_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Borrower{}
	if err := s.db.SelectContext(ctx, &items, listSQL, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) UpdateBorrower(ctx context.Context, b *Borrower) error {
	const q = `
UPDATE borrowers
SET name = ?, email = ?, phone = ?, address = ?, is_active = ?, max_books_allowed = ?
WHERE borrower_id = ?`
	res, err := s.db.ExecContext(ctx, q, b.Name, b.Email, b.Phone, b.Address, b.Active, b.MaxBooksAllowed, b.ID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return apierr.ErrNotFound("borrower not found")
	}
	return nil
}

type sqlTx struct{ q db.DBTX }

func NewTx(q db.DBTX) Tx { return sqlTx{q: q} }

func (t sqlTx) LockBorrower(ctx context.Context, borrowerID string) (*Borrower, error) {
	var b Borrower
	err := t.q.GetContext(ctx, &b, `SELECT `+borrowerColumns+` FROM borrowers WHERE borrower_id = ? FOR UPDATE`, borrowerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("borrower not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
