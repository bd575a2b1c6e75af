package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
)

func (s *Store) CreateBorrower(_ context.Context, b *borrowers.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.borrowers[b.ID]; ok {
		return apierr.ErrConflict("borrower already exists")
	}
	for _, x := range s.borrowers {
		if x.AccountID == b.AccountID || x.LibraryID == b.LibraryID {
			return apierr.ErrConflict("borrower profile or library_id already exists")
		}
	}
	s.borrowers[b.ID] = *b
	return nil
}

func (s *Store) GetBorrower(_ context.Context, borrowerID string) (*borrowers.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.borrowers[borrowerID]
	if !ok {
		return nil, notFound("borrower")
	}
	return &b, nil
}

func (s *Store) GetBorrowerByAccount(_ context.Context, accountID string) (*borrowers.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.borrowers {
		if b.AccountID == accountID {
			return &b, nil
		}
	}
	return nil, notFound("borrower")
}

func (s *Store) ListBorrowers(_ context.Context, q borrowers.Query, p db.Page) ([]borrowers.Borrower, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []borrowers.Borrower
	kw := strings.TrimSpace(q.Q)
	for _, b := range s.borrowers {
		if kw != "" && !containsFold(b.Name, kw) && !containsFold(b.LibraryID, kw) && !containsFold(b.Email, kw) {
			continue
		}
		if q.Active != nil && b.Active != *q.Active {
			continue
		}
		all = append(all, b)
	}
	slices.SortFunc(all, func(a, b borrowers.Borrower) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return window(all, p), int64(len(all)), nil
}

func (s *Store) UpdateBorrower(_ context.Context, b *borrowers.Borrower) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.borrowers[b.ID]
	if !ok {
		return notFound("borrower")
	}
	cur.Name = b.Name
	cur.Email = b.Email
	cur.Phone = b.Phone
	cur.Address = b.Address
	cur.Active = b.Active
	cur.MaxBooksAllowed = b.MaxBooksAllowed
	s.borrowers[b.ID] = cur
	return nil
}
