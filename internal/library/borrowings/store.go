package borrowings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

// Tx は貸出・返却の1トランザクションで触る行すべて
type Tx interface {
	inventory.Tx
	borrowers.Tx
	fines.Tx
	CountOpenBorrowings(ctx context.Context, borrowerID string) (int, error)
	InsertBorrowing(ctx context.Context, b *Borrowing) error
	LockBorrowing(ctx context.Context, borrowingID string) (*Borrowing, error)
	UpdateBorrowing(ctx context.Context, b *Borrowing) error
}

type Store interface {
	GetBorrowing(ctx context.Context, borrowingID string) (*Borrowing, error)
	ListBorrowings(ctx context.Context, f Filter, p db.Page) ([]Borrowing, int64, error)
	CountOpenBorrowings(ctx context.Context, borrowerID string) (int, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

var dialect = goqu.Dialect("mysql")

const borrowingColumns = `borrowing_id, borrower_id, book_id, borrowed_at, due_at, returned_at, status, notes`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) GetBorrowing(ctx context.Context, borrowingID string) (*Borrowing, error) {
	return getBorrowing(ctx, s.db, borrowingID, false)
}

func getBorrowing(ctx context.Context, q db.DBTX, borrowingID string, lock bool) (*Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings WHERE borrowing_id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var b Borrowing
	err := q.GetContext(ctx, &b, query, borrowingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("borrowing not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func filterExpr(f Filter) []goqu.Expression {
	var where []goqu.Expression
	if f.BorrowerID != "" {
		where = append(where, goqu.C("borrower_id").Eq(f.BorrowerID))
	}
	if f.BookID != "" {
		where = append(where, goqu.C("book_id").Eq(f.BookID))
	}
	if f.Open != nil {
		if *f.Open {
			where = append(where, goqu.C("returned_at").IsNull())
		} else {
			where = append(where, goqu.C("returned_at").IsNotNull())
		}
	}
	if f.OverdueAt != nil {
		where = append(where,
			goqu.C("returned_at").IsNull(),
			goqu.C("due_at").Lt(*f.OverdueAt),
		)
	}
	return where
}

func (s *SQLStore) ListBorrowings(ctx context.Context, f Filter, p db.Page) ([]Borrowing, int64, error) {
	p = p.Normalize()
	where := filterExpr(f)

	countSQL, args, err := dialect.From("borrowings").Prepared(true).
		Select(goqu.COUNT("*")).Where(where...).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, err
	}

	// 延滞一覧は期限の古い順、それ以外は貸出日時
	col := "borrowed_at"
	if f.OverdueAt != nil {
		col = "due_at"
	}
	order := goqu.I(col).Desc()
	if p.Asc() {
		order = goqu.I(col).Asc()
	}
	listSQL, args, err := dialect.From("borrowings").Prepared(true).
		Select(goqu.L(borrowingColumns)).Where(where...).
		Order(order, goqu.I("borrowing_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Borrowing{}
	if err := s.db.SelectContext(ctx, &items, listSQL, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) CountOpenBorrowings(ctx context.Context, borrowerID string) (int, error) {
	return countOpen(ctx, s.db, borrowerID)
}

func countOpen(ctx context.Context, q db.DBTX, borrowerID string) (int, error) {
	var n int
	err := q.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM borrowings WHERE borrower_id = ? AND returned_at IS NULL`, borrowerID)
	return n, err
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, q db.DBTX) error {
		return fn(ctx, NewTx(q))
	})
}

type (
	bookTx     = inventory.Tx
	borrowerTx = borrowers.Tx
	fineTx     = fines.Tx
)

type sqlTx struct {
	bookTx
	borrowerTx
	fineTx
	q db.DBTX
}

func NewTx(q db.DBTX) Tx {
	return sqlTx{
		bookTx:     inventory.NewTx(q),
		borrowerTx: borrowers.NewTx(q),
		fineTx:     fines.NewTx(q),
		q:          q,
	}
}

func (t sqlTx) CountOpenBorrowings(ctx context.Context, borrowerID string) (int, error) {
	return countOpen(ctx, t.q, borrowerID)
}

func (t sqlTx) InsertBorrowing(ctx context.Context, b *Borrowing) error {
	const q = `
INSERT INTO borrowings (` + borrowingColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.q.ExecContext(ctx, q, b.ID, b.BorrowerID, b.BookID, b.BorrowedAt, b.DueAt, b.ReturnedAt, b.Status, b.Notes)
	return apierr.FromMySQL(err, "borrowing already exists")
}

func (t sqlTx) LockBorrowing(ctx context.Context, borrowingID string) (*Borrowing, error) {
	return getBorrowing(ctx, t.q, borrowingID, true)
}

// UpdateBorrowing は返却・ステータス・備考のみ。貸出日時と期限は変えない
func (t sqlTx) UpdateBorrowing(ctx context.Context, b *Borrowing) error {
	const q = `UPDATE borrowings SET returned_at = ?, status = ?, notes = ? WHERE borrowing_id = ?`
	res, err := t.q.ExecContext(ctx, q, b.ReturnedAt, b.Status, b.Notes, b.ID)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return apierr.ErrInternal("failed to update borrowings")
	}
	return nil
}
