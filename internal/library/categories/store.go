package categories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"readify-backend/internal/platform/apierr"
)

type Store interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, categoryID string) (*Category, error)
	ListCategories(ctx context.Context, includeDisabled bool) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
}

const categoryColumns = `category_id, name, description, is_disabled, created_at`

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) CreateCategory(ctx context.Context, c *Category) error {
	const q = `
INSERT INTO categories (` + categoryColumns + `)
VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, c.ID, c.Name, c.Description, c.IsDisabled, c.CreatedAt)
	return apierr.FromMySQL(err, "category name already exists")
}

func (s *SQLStore) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE category_id = ?`, categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GET /categories?all=1 で無効化済みも返す
func (s *SQLStore) ListCategories(ctx context.Context, includeDisabled bool) ([]Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeDisabled {
		q += ` WHERE is_disabled = 0`
	}
	q += ` ORDER BY name, category_id`

	items := []Category{}
	if err := s.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateCategory は存在確認済みの行を書き換える。値が同じだと affected=0 になるので見ない
func (s *SQLStore) UpdateCategory(ctx context.Context, c *Category) error {
	const q = `
UPDATE categories
SET name = ?, description = ?, is_disabled = ?
WHERE category_id = ?`
	_, err := s.db.ExecContext(ctx, q, c.Name, c.Description, c.IsDisabled, c.ID)
	return apierr.FromMySQL(err, "category name already exists")
}
