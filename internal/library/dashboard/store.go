package dashboard

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	"github.com/jmoiron/sqlx"

	"readify-backend/internal/platform/db"
)

// Reader は集計クエリ
type Reader interface {
	Stats(ctx context.Context, now, since time.Time) (Stats, error)
	PopularBooks(ctx context.Context, limit int) ([]PopularBook, error)
	// Overdue は期限の古い順
	Overdue(ctx context.Context, now time.Time, limit int) ([]OverdueItem, error)
	RecentActivity(ctx context.Context, limit int) ([]Activity, error)
}

// Source は集計の取得元。MySQL とインメモリの2実装がある。
// ReadOnly に渡した fn の中の読み取りは同じ時点の状態を見る
type Source interface {
	Reader
	ReadOnly(ctx context.Context, fn func(ctx context.Context, r Reader) error) error
}

var dialect = goqu.Dialect("mysql")

type reader struct{ q db.DBTX }

type SQLStore struct {
	reader
	db *sqlx.DB
}

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{reader: reader{q: conn}, db: conn} }

// ReadOnly は読み取り専用Txの中で fn を実行する
func (s *SQLStore) ReadOnly(ctx context.Context, fn func(ctx context.Context, r Reader) error) error {
	return db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, reader{q: tx})
	})
}

func (s reader) Stats(ctx context.Context, now, since time.Time) (Stats, error) {
	const q = `
SELECT
  (SELECT COUNT(*) FROM books) AS total_books,
  (SELECT COUNT(*) FROM borrowers WHERE is_active = 1) AS active_borrowers,
  (SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL) AS active_borrowings,
  (SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL AND due_at < ?) AS overdue_borrowings,
  (SELECT COUNT(*) FROM borrowings WHERE borrowed_at >= ?) AS borrowings_recent,
  (SELECT COUNT(*) FROM borrowings WHERE returned_at >= ?) AS returns_recent,
  (SELECT COALESCE(SUM(amount), 0) FROM fines) AS total_fines,
  (SELECT COALESCE(SUM(amount), 0) FROM fines WHERE status = 'pending') AS pending_fines`
	var st Stats
	if err := s.q.GetContext(ctx, &st, q, now, since, since); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s reader) PopularBooks(ctx context.Context, limit int) ([]PopularBook, error) {
	query, args, err := dialect.From(goqu.T("borrowings").As("br")).Prepared(true).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("br.book_id")))).
		Select(
			goqu.I("b.book_id"),
			goqu.I("b.title"),
			goqu.I("b.author"),
			goqu.COUNT("br.borrowing_id").As("borrow_count"),
		).
		GroupBy(goqu.I("b.book_id"), goqu.I("b.title"), goqu.I("b.author")).
		Order(goqu.I("borrow_count").Desc(), goqu.I("b.title").Asc()).
		Limit(uint(limit)).ToSQL()
	if err != nil {
		return nil, err
	}
	items := []PopularBook{}
	if err := s.q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (s reader) Overdue(ctx context.Context, now time.Time, limit int) ([]OverdueItem, error) {
	ds := dialect.From(goqu.T("borrowings").As("br")).Prepared(true).
		Join(goqu.T("borrowers").As("u"), goqu.On(goqu.I("u.borrower_id").Eq(goqu.I("br.borrower_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("br.book_id")))).
		Select(
			goqu.I("br.borrowing_id"),
			goqu.I("br.borrower_id"),
			goqu.I("u.name").As("borrower_name"),
			goqu.I("u.library_id"),
			goqu.I("br.book_id"),
			goqu.I("b.title"),
			goqu.I("br.borrowed_at"),
			goqu.I("br.due_at"),
		).
		Where(goqu.I("br.returned_at").IsNull(), goqu.I("br.due_at").Lt(now)).
		Order(goqu.I("br.due_at").Asc(), goqu.I("br.borrowing_id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	items := []OverdueItem{}
	if err := s.q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (s reader) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	query, args, err := dialect.From(goqu.T("borrowings").As("br")).Prepared(true).
		Join(goqu.T("borrowers").As("u"), goqu.On(goqu.I("u.borrower_id").Eq(goqu.I("br.borrower_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("br.book_id")))).
		Select(
			goqu.I("br.borrowing_id"),
			goqu.I("u.name").As("borrower_name"),
			goqu.I("b.title"),
			goqu.I("br.borrowed_at"),
			goqu.I("br.returned_at"),
			goqu.I("br.status"),
		).
		Order(goqu.I("br.borrowed_at").Desc(), goqu.I("br.borrowing_id").Desc()).
		Limit(uint(limit)).ToSQL()
	if err != nil {
		return nil, err
	}
	items := []Activity{}
	if err := s.q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
