package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"readify-backend/internal/library/inventory"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

func (s *Store) CreateBook(_ context.Context, b *inventory.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[b.ID]; ok {
		return apierr.ErrConflict("book already exists")
	}
	for _, x := range s.books {
		if x.ISBN == b.ISBN {
			return apierr.ErrConflict("isbn already exists")
		}
	}
	// SQL 版の外部キーと同じ扱い
	if b.CategoryID != nil {
		if _, ok := s.categories[*b.CategoryID]; !ok {
			return apierr.ErrInvalid("referenced row does not exist")
		}
	}
	for _, id := range b.AuthorIDs {
		if _, ok := s.authors[id]; !ok {
			return apierr.ErrInvalid("referenced row does not exist")
		}
	}
	cp := *b
	cp.AuthorIDs = slices.Clone(b.AuthorIDs)
	if cp.AuthorIDs == nil {
		cp.AuthorIDs = []string{}
	}
	s.books[b.ID] = cp
	return nil
}

func (s *Store) GetBook(_ context.Context, bookID string) (*inventory.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[bookID]
	if !ok {
		return nil, notFound("book")
	}
	return &b, nil
}

func matchBook(b inventory.Book, q inventory.BookQuery) bool {
	if kw := strings.TrimSpace(q.Q); kw != "" {
		if !containsFold(b.Title, kw) && !containsFold(b.ISBN, kw) &&
			!containsFold(b.Author, kw) && !containsFold(b.Publisher, kw) {
			return false
		}
	}
	if q.CategoryID != "" && (b.CategoryID == nil || *b.CategoryID != q.CategoryID) {
		return false
	}
	if q.AuthorID != "" && !slices.Contains(b.AuthorIDs, q.AuthorID) {
		return false
	}
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if q.AvailableOnly && !b.IsAvailable() {
		return false
	}
	return true
}

func (s *Store) ListBooks(_ context.Context, q inventory.BookQuery, p db.Page) ([]inventory.Book, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()

	var all []inventory.Book
	for _, b := range s.books {
		if matchBook(b, q) {
			all = append(all, b)
		}
	}
	// asc はタイトル順、desc は新しい順
	slices.SortFunc(all, func(a, b inventory.Book) int {
		var c int
		if p.Asc() {
			c = cmp.Compare(a.Title, b.Title)
		} else {
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return window(all, p), int64(len(all)), nil
}
