package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"readify-backend/internal/platform/apierr"
)

type Account struct {
	ID           string    `db:"id"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsDisabled   bool      `db:"is_disabled"`
	CreatedAt    time.Time `db:"created_at"`
}

// GetByID は見つからなければ nil, nil
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (int64, error)
}

type Store struct{ db *sqlx.DB }

func NewStore(db *sqlx.DB) AccountStore {
	return &Store{db: db}
}

func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	const q = `
SELECT id, password_hash, role, is_disabled, created_at
FROM auth_accounts
WHERE id = ?
LIMIT 1
`
	var a Account
	err := s.db.GetContext(ctx, &a, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO auth_accounts (id, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, 0, ?)
`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.PasswordHash, a.Role, a.CreatedAt)
	return apierr.FromMySQL(err, "account id already exists")
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM auth_accounts WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MemStore は database.driver=memory とテスト用
type MemStore struct {
	mu   sync.Mutex
	accs map[string]Account
}

func NewMemStore() *MemStore { return &MemStore{accs: map[string]Account{}} }

func (m *MemStore) GetByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accs[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *MemStore) Create(_ context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accs[a.ID]; ok {
		return apierr.ErrConflict("account id already exists")
	}
	m.accs[a.ID] = *a
	return nil
}

func (m *MemStore) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accs[id]; !ok {
		return 0, nil
	}
	delete(m.accs, id)
	return 1, nil
}
