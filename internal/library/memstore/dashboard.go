package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"readify-backend/internal/library/dashboard"
	"readify-backend/internal/library/fines"
)

var _ dashboard.Source = (*Store)(nil)

// view はロック済みの Store を読む。ReadOnly の中で使う
type view struct{ s *Store }

func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context, r dashboard.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, view{s: s})
}

func (s *Store) Stats(ctx context.Context, now, since time.Time) (dashboard.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{s: s}.Stats(ctx, now, since)
}

func (s *Store) PopularBooks(ctx context.Context, limit int) ([]dashboard.PopularBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{s: s}.PopularBooks(ctx, limit)
}

func (s *Store) Overdue(ctx context.Context, now time.Time, limit int) ([]dashboard.OverdueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{s: s}.Overdue(ctx, now, limit)
}

func (s *Store) RecentActivity(ctx context.Context, limit int) ([]dashboard.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{s: s}.RecentActivity(ctx, limit)
}

func (v view) Stats(_ context.Context, now, since time.Time) (dashboard.Stats, error) {
	s := v.s

	st := dashboard.Stats{TotalBooks: int64(len(s.books)), TotalFines: decimal.Zero, PendingFines: decimal.Zero}
	for _, b := range s.borrowers {
		if b.Active {
			st.ActiveBorrowers++
		}
	}
	for _, b := range s.borrowings {
		if b.IsOpen() {
			st.ActiveBorrowings++
			if b.DueAt.Before(now) {
				st.OverdueBorrowings++
			}
		}
		if !b.BorrowedAt.Before(since) {
			st.BorrowingsLast7Days++
		}
		if b.ReturnedAt != nil && !b.ReturnedAt.Before(since) {
			st.ReturnsLast7Days++
		}
	}
	for _, f := range s.fines {
		st.TotalFines = st.TotalFines.Add(f.Amount)
		if f.Status == fines.StatusPending {
			st.PendingFines = st.PendingFines.Add(f.Amount)
		}
	}
	return st, nil
}

func (v view) PopularBooks(_ context.Context, limit int) ([]dashboard.PopularBook, error) {
	s := v.s

	counts := map[string]int64{}
	for _, b := range s.borrowings {
		counts[b.BookID]++
	}
	items := []dashboard.PopularBook{}
	for id, n := range counts {
		b, ok := s.books[id]
		if !ok {
			continue
		}
		items = append(items, dashboard.PopularBook{BookID: id, Title: b.Title, Author: b.Author, BorrowCount: n})
	}
	slices.SortFunc(items, func(a, b dashboard.PopularBook) int {
		return cmp.Or(cmp.Compare(b.BorrowCount, a.BorrowCount), cmp.Compare(a.Title, b.Title))
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (v view) Overdue(_ context.Context, now time.Time, limit int) ([]dashboard.OverdueItem, error) {
	s := v.s

	items := []dashboard.OverdueItem{}
	for _, br := range s.borrowings {
		if !br.IsOpen() || !br.DueAt.Before(now) {
			continue
		}
		u := s.borrowers[br.BorrowerID]
		items = append(items, dashboard.OverdueItem{
			BorrowingID:  br.ID,
			BorrowerID:   br.BorrowerID,
			BorrowerName: u.Name,
			LibraryID:    u.LibraryID,
			BookID:       br.BookID,
			Title:        s.books[br.BookID].Title,
			BorrowedAt:   br.BorrowedAt,
			DueAt:        br.DueAt,
		})
	}
	slices.SortFunc(items, func(a, b dashboard.OverdueItem) int {
		return cmp.Or(a.DueAt.Compare(b.DueAt), cmp.Compare(a.BorrowingID, b.BorrowingID))
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (v view) RecentActivity(_ context.Context, limit int) ([]dashboard.Activity, error) {
	s := v.s

	items := []dashboard.Activity{}
	for _, br := range s.borrowings {
		items = append(items, dashboard.Activity{
			BorrowingID:  br.ID,
			BorrowerName: s.borrowers[br.BorrowerID].Name,
			Title:        s.books[br.BookID].Title,
			BorrowedAt:   br.BorrowedAt,
			ReturnedAt:   br.ReturnedAt,
			Status:       string(br.Status),
		})
	}
	slices.SortFunc(items, func(a, b dashboard.Activity) int {
		return cmp.Or(b.BorrowedAt.Compare(a.BorrowedAt), cmp.Compare(b.BorrowingID, a.BorrowingID))
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
