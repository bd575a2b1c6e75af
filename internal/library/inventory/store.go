package inventory

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

// Tx はロック済みの行に対する操作。RunInTx の中でのみ有効
type Tx interface {
	LockBook(ctx context.Context, bookID string) (*Book, error)
	SaveBookStock(ctx context.Context, b *Book) error
}

type Store interface {
	CreateBook(ctx context.Context, b *Book) error
	GetBook(ctx context.Context, bookID string) (*Book, error)
	ListBooks(ctx context.Context, q BookQuery, p db.Page) ([]Book, int64, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

var dialect = goqu.Dialect("mysql")

const bookColumns = `book_id, isbn, title, author, publisher, publication_year, pages, category_id,
description, price, status, total_copies, available_copies, created_at, updated_at`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

// CreateBook は本と著者リンクを1つのTxで書く。存在しない分類・著者は FK で弾かれる
func (s *SQLStore) CreateBook(ctx context.Context, b *Book) error {
	const q = `
INSERT INTO books (` + bookColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, q,
			b.ID, b.ISBN, b.Title, b.Author, b.Publisher, b.PublicationYear, b.Pages, b.CategoryID,
			b.Description, b.Price, b.Status, b.TotalCopies, b.AvailableCopies, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return apierr.FromMySQL(err, "isbn already exists")
		}
		for i, authorID := range b.AuthorIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO book_authors (book_id, author_id, position) VALUES (?, ?, ?)`, b.ID, authorID, i)
			if err != nil {
				return apierr.FromMySQL(err, "duplicate author")
			}
		}
		return nil
	})
}

func (s *SQLStore) GetBook(ctx context.Context, bookID string) (*Book, error) {
	var b Book
	err := s.db.GetContext(ctx, &b, `SELECT `+bookColumns+` FROM books WHERE book_id = ?`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("book not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, []*Book{&b}); err != nil {
		return nil, err
	}
	return &b, nil
}

type bookAuthor struct {
	BookID   string `db:"book_id"`
	AuthorID string `db:"author_id"`
}

// attachAuthors は books の AuthorIDs を position 順に埋める
func (s *SQLStore) attachAuthors(ctx context.Context, books []*Book) error {
	if len(books) == 0 {
		return nil
	}
	byID := make(map[string]*Book, len(books))
	keys := make([]any, 0, len(books))
	for _, b := range books {
		b.AuthorIDs = []string{}
		byID[b.ID] = b
		keys = append(keys, b.ID)
	}
	query, args, err := dialect.From("book_authors").Prepared(true).
		Select("book_id", "author_id").
		Where(goqu.C("book_id").In(keys...)).
		Order(goqu.I("book_id").Asc(), goqu.I("position").Asc()).ToSQL()
	if err != nil {
		return err
	}
	var links []bookAuthor
	if err := s.db.SelectContext(ctx, &links, query, args...); err != nil {
		return err
	}
	for _, l := range links {
		if b, ok := byID[l.BookID]; ok {
			b.AuthorIDs = append(b.AuthorIDs, l.AuthorID)
		}
	}
	return nil
}

func bookFilter(q BookQuery) []goqu.Expression {
	var where []goqu.Expression
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + kw + "%"
		where = append(where, goqu.Or(
			goqu.C("title").ILike(like),
			goqu.C("isbn").ILike(like),
			goqu.C("author").ILike(like),
			goqu.C("publisher").ILike(like),
		))
	}
	if q.CategoryID != "" {
		where = append(where, goqu.C("category_id").Eq(q.CategoryID))
	}
	if q.AuthorID != "" {
		where = append(where, goqu.C("book_id").In(
			dialect.From("book_authors").Select("book_id").Where(goqu.C("author_id").Eq(q.AuthorID)),
		))
	}
	if q.Status != "" {
		where = append(where, goqu.C("status").Eq(string(q.Status)))
	}
	if q.AvailableOnly {
		where = append(where,
			goqu.C("available_copies").Gt(0),
			goqu.C("status").Eq(string(StatusAvailable)),
		)
	}
	return where
}

func (s *SQLStore) ListBooks(ctx context.Context, q BookQuery, p db.Page) ([]Book, int64, error) {
	p = p.Normalize()
	where := bookFilter(q)

	countSQL, countArgs, err := dialect.From("books").Prepared(true).
		Select(goqu.COUNT("*")).Where(where...).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	order := goqu.I("title").Asc()
	if !p.Asc() {
		order = goqu.I("created_at").Desc()
	}
	listSQL, listArgs, err := dialect.From("books").Prepared(true).
		Select(goqu.L(bookColumns)).Where(where...).
		Order(order, goqu.I("book_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Book{}
	if err := s.db.SelectContext(ctx, &items, listSQL, listArgs...); err != nil {
		return nil, 0, err
	}
	ptrs := make([]*Book, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	if err := s.attachAuthors(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, q db.DBTX) error {
		return fn(ctx, NewTx(q))
	})
}

// sqlTx は他パッケージの Tx からも埋め込んで使う
type sqlTx struct{ q db.DBTX }

func NewTx(q db.DBTX) Tx { return sqlTx{q: q} }

func (t sqlTx) LockBook(ctx context.Context, bookID string) (*Book, error) {
	var b Book
	err := t.q.GetContext(ctx, &b, `SELECT `+bookColumns+` FROM books WHERE book_id = ? FOR UPDATE`, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("book not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t sqlTx) SaveBookStock(ctx context.Context, b *Book) error {
	const q = `
UPDATE books
SET available_copies = ?, status = ?, updated_at = ?
WHERE book_id = ? AND ? BETWEEN 0 AND total_copies`
	res, err := t.q.ExecContext(ctx, q, b.AvailableCopies, b.Status, b.UpdatedAt, b.ID, b.AvailableCopies)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return apierr.New(apierr.CodeInvariantViolation, "failed to update books.available_copies")
	}
	return nil
}
