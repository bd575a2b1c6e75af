// Package memstore は database.driver=memory 用の実装。
// 全テーブルを1つのミューテックスで守り、トランザクションは直列に実行する
package memstore

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

type Store struct {
	mu           sync.Mutex
	categories   map[string]categories.Category
	authors      map[string]authors.Author
	books        map[string]inventory.Book
	borrowers    map[string]borrowers.Borrower
	borrowings   map[string]borrowings.Borrowing
	fines        map[string]fines.Fine
	reservations map[string]reservations.Reservation
}

var (
	_ borrowers.Store  = (*Store)(nil)
	_ categories.Store = (*Store)(nil)
	_ authors.Store    = (*Store)(nil)
)

func New() *Store {
	return &Store{
		categories:   map[string]categories.Category{},
		authors:      map[string]authors.Author{},
		books:        map[string]inventory.Book{},
		borrowers:    map[string]borrowers.Borrower{},
		borrowings:   map[string]borrowings.Borrowing{},
		fines:        map[string]fines.Fine{},
		reservations: map[string]reservations.Reservation{},
	}
}

type snapshot struct {
	categories   map[string]categories.Category
	authors      map[string]authors.Author
	books        map[string]inventory.Book
	borrowers    map[string]borrowers.Borrower
	borrowings   map[string]borrowings.Borrowing
	fines        map[string]fines.Fine
	reservations map[string]reservations.Reservation
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		categories:   maps.Clone(s.categories),
		authors:      maps.Clone(s.authors),
		books:        maps.Clone(s.books),
		borrowers:    maps.Clone(s.borrowers),
		borrowings:   maps.Clone(s.borrowings),
		fines:        maps.Clone(s.fines),
		reservations: maps.Clone(s.reservations),
	}
}

func (s *Store) restore(sn snapshot) {
	s.categories = sn.categories
	s.authors = sn.authors
	s.books = sn.books
	s.borrowers = sn.borrowers
	s.borrowings = sn.borrowings
	s.fines = sn.fines
	s.reservations = sn.reservations
}

// runTx は fn がエラーを返すかパニックしたら開始時点に巻き戻す
func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, t *memTx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(sn)
		}
	}()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		return err
	}
	committed = true
	return nil
}

// Inventory などは各パッケージの Store を満たすアダプタを返す
func (s *Store) Inventory() inventory.Store       { return bookStore{s} }
func (s *Store) Fines() fines.Store               { return fineStore{s} }
func (s *Store) Borrowings() borrowings.Store     { return borrowingStore{s} }
func (s *Store) Reservations() reservations.Store { return reservationStore{s} }

type bookStore struct{ *Store }

func (b bookStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Tx) error) error {
	return b.runTx(ctx, func(ctx context.Context, t *memTx) error { return fn(ctx, t) })
}

type fineStore struct{ *Store }

func (f fineStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx fines.Tx) error) error {
	return f.runTx(ctx, func(ctx context.Context, t *memTx) error { return fn(ctx, t) })
}

type borrowingStore struct{ *Store }

func (b borrowingStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx borrowings.Tx) error) error {
	return b.runTx(ctx, func(ctx context.Context, t *memTx) error { return fn(ctx, t) })
}

type reservationStore struct{ *Store }

func (r reservationStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx reservations.Tx) error) error {
	return r.runTx(ctx, func(ctx context.Context, t *memTx) error { return fn(ctx, t) })
}

// ===== helpers =====

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, p db.Page) []T {
	from, to := p.Window(len(items))
	return slices.Clone(items[from:to])
}

func notFound(what string) error { return apierr.ErrNotFound(what + " not found") }
