package authors

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

type Store interface {
	CreateAuthor(ctx context.Context, a *Author) error
	GetAuthor(ctx context.Context, authorID string) (*Author, error)
	ListAuthors(ctx context.Context, q string, p db.Page) ([]Author, int64, error)
	UpdateAuthor(ctx context.Context, a *Author) error
}

var dialect = goqu.Dialect("mysql")

const authorColumns = `author_id, first_name, last_name, bio, birth_date, created_at`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) CreateAuthor(ctx context.Context, a *Author) error {
	const q = `
INSERT INTO authors (` + authorColumns + `)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.FirstName, a.LastName, a.Bio, a.BirthDate, a.CreatedAt)
	return apierr.FromMySQL(err, "author already exists")
}

func (s *SQLStore) GetAuthor(ctx context.Context, authorID string) (*Author, error) {
	var a Author
	err := s.db.GetContext(ctx, &a, `SELECT `+authorColumns+` FROM authors WHERE author_id = ?`, authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("author not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAuthors は姓・名の順
func (s *SQLStore) ListAuthors(ctx context.Context, q string, p db.Page) ([]Author, int64, error) {
	p = p.Normalize()
	var where []goqu.Expression
	if kw := strings.TrimSpace(q); kw != "" {
		like := "%" + kw + "%"
		where = append(where, goqu.Or(
			goqu.C("first_name").ILike(like),
			goqu.C("last_name").ILike(like),
		))
	}

	countSQL, args, err := dialect.From("authors").Prepared(true).
		Select(goqu.COUNT("*")).Where(where...).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, err
	}

	listSQL, args, err := dialect.From("authors").Prepared(true).
		Select(goqu.L(authorColumns)).Where(where...).
		Order(goqu.I("last_name").Asc(), goqu.I("first_name").Asc(), goqu.I("author_id").Asc()).
		Limit(uint(p.Limit)).Offset(uint(p.Offset)).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	items := []Author{}
	if err := s.db.SelectContext(ctx, &items, listSQL, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *SQLStore) UpdateAuthor(ctx context.Context, a *Author) error {
	const q = `
UPDATE authors
SET first_name = ?, last_name = ?, bio = ?, birth_date = ?
WHERE author_id = ?`
	_, err := s.db.ExecContext(ctx, q, a.FirstName, a.LastName, a.Bio, a.BirthDate, a.ID)
	return err
}
