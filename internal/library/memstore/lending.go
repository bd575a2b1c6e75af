package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/db"
)

// ===== borrowings =====

func (s *Store) GetBorrowing(_ context.Context, borrowingID string) (*borrowings.Borrowing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.borrowings[borrowingID]
	if !ok {
		return nil, notFound("borrowing")
	}
	return &b, nil
}

func matchBorrowing(b borrowings.Borrowing, f borrowings.Filter) bool {
	if f.BorrowerID != "" && b.BorrowerID != f.BorrowerID {
		return false
	}
	if f.BookID != "" && b.BookID != f.BookID {
		return false
	}
	if f.Open != nil && b.IsOpen() != *f.Open {
		return false
	}
	if f.OverdueAt != nil && !(b.IsOpen() && b.DueAt.Before(*f.OverdueAt)) {
		return false
	}
	return true
}

func (s *Store) ListBorrowings(_ context.Context, f borrowings.Filter, p db.Page) ([]borrowings.Borrowing, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()

	var all []borrowings.Borrowing
	for _, b := range s.borrowings {
		if matchBorrowing(b, f) {
			all = append(all, b)
		}
	}
	key := func(b borrowings.Borrowing) time.Time { return b.BorrowedAt }
	if f.OverdueAt != nil {
		key = func(b borrowings.Borrowing) time.Time { return b.DueAt }
	}
	slices.SortFunc(all, func(a, b borrowings.Borrowing) int {
		c := key(a).Compare(key(b))
		if !p.Asc() {
			c = -c
		}
		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	})
	return window(all, p), int64(len(all)), nil
}

func (s *Store) countOpen(borrowerID string) int {
	n := 0
	for _, b := range s.borrowings {
		if b.BorrowerID == borrowerID && b.IsOpen() {
			n++
		}
	}
	return n
}

func (s *Store) CountOpenBorrowings(_ context.Context, borrowerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countOpen(borrowerID), nil
}

// ===== fines =====

func (s *Store) GetFine(_ context.Context, fineID string) (*fines.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fines[fineID]
	if !ok {
		return nil, notFound("fine")
	}
	return &f, nil
}

func (s *Store) ListFines(_ context.Context, f fines.Filter, p db.Page) ([]fines.Fine, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()

	var all []fines.Fine
	for _, x := range s.fines {
		if f.BorrowerID != "" && x.BorrowerID != f.BorrowerID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		all = append(all, x)
	}
	slices.SortFunc(all, func(a, b fines.Fine) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if !p.Asc() {
			c = -c
		}
		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	})
	return window(all, p), int64(len(all)), nil
}

func (s *Store) Totals(_ context.Context, borrowerID string) (fines.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := fines.Totals{All: decimal.Zero, Pending: decimal.Zero}
	for _, f := range s.fines {
		if f.BorrowerID != borrowerID {
			continue
		}
		t.All = t.All.Add(f.Amount)
		if f.Status == fines.StatusPending {
			t.Pending = t.Pending.Add(f.Amount)
		}
	}
	return t, nil
}

// ===== reservations =====

func (s *Store) GetReservation(_ context.Context, reservationID string) (*reservations.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[reservationID]
	if !ok {
		return nil, notFound("reservation")
	}
	return &r, nil
}

func (s *Store) ListReservations(_ context.Context, f reservations.Filter, p db.Page) ([]reservations.Reservation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalize()

	var all []reservations.Reservation
	for _, r := range s.reservations {
		if f.BorrowerID != "" && r.BorrowerID != f.BorrowerID {
			continue
		}
		if f.BookID != "" && r.BookID != f.BookID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b reservations.Reservation) int {
		c := a.RequestedAt.Compare(b.RequestedAt)
		if !p.Asc() {
			c = -c
		}
		return cmp.Or(c, cmp.Compare(a.ID, b.ID))
	})
	return window(all, p), int64(len(all)), nil
}
