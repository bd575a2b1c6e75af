package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

// ===== categories =====

func (s *Store) nameTaken(name, exceptID string) bool {
	for _, c := range s.categories {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(_ context.Context, c *categories.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c.Name, "") {
		return apierr.ErrConflict("category name already exists")
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) GetCategory(_ context.Context, categoryID string) (*categories.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, notFound("category")
	}
	return &c, nil
}

func (s *Store) ListCategories(_ context.Context, includeDisabled bool) ([]categories.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []categories.Category{}
	for _, c := range s.categories {
		if includeDisabled || !c.IsDisabled {
			items = append(items, c)
		}
	}
	slices.SortFunc(items, func(a, b categories.Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}

func (s *Store) UpdateCategory(_ context.Context, c *categories.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return notFound("category")
	}
	if s.nameTaken(c.Name, c.ID) {
		return apierr.ErrConflict("category name already exists")
	}
	s.categories[c.ID] = *c
	return nil
}

// ===== authors =====

func (s *Store) CreateAuthor(_ context.Context, a *authors.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[a.ID]; ok {
		return apierr.ErrConflict("author already exists")
	}
	s.authors[a.ID] = *a
	return nil
}

func (s *Store) GetAuthor(_ context.Context, authorID string) (*authors.Author, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authors[authorID]
	if !ok {
		return nil, notFound("author")
	}
	return &a, nil
}

func (s *Store) ListAuthors(_ context.Context, q string, p db.Page) ([]authors.Author, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()
	kw := strings.TrimSpace(q)

	var all []authors.Author
	for _, a := range s.authors {
		if kw == "" || containsFold(a.FirstName, kw) || containsFold(a.LastName, kw) {
			all = append(all, a)
		}
	}
	slices.SortFunc(all, func(a, b authors.Author) int {
		return cmp.Or(cmp.Compare(a.LastName, b.LastName), cmp.Compare(a.FirstName, b.FirstName), cmp.Compare(a.ID, b.ID))
	})
	return window(all, p), int64(len(all)), nil
}

func (s *Store) UpdateAuthor(_ context.Context, a *authors.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[a.ID]; !ok {
		return notFound("author")
	}
	s.authors[a.ID] = *a
	return nil
}
