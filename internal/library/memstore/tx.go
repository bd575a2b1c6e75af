package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/apierr"
)

// memTx は runTx がロックを持っている間だけ使う。自分ではロックしない
type memTx struct{ s *Store }

var (
	_ borrowings.Tx   = (*memTx)(nil)
	_ reservations.Tx = (*memTx)(nil)
)

func (t *memTx) LockBook(_ context.Context, bookID string) (*inventory.Book, error) {
	b, ok := t.s.books[bookID]
	if !ok {
		return nil, notFound("book")
	}
	return &b, nil
}

// SaveBookStock は SQL 版と同じく 0..total の範囲外を拒否する
func (t *memTx) SaveBookStock(_ context.Context, b *inventory.Book) error {
	cur, ok := t.s.books[b.ID]
	if !ok || b.AvailableCopies < 0 || b.AvailableCopies > cur.TotalCopies {
		return apierr.New(apierr.CodeInvariantViolation, "failed to update books.available_copies")
	}
	cur.AvailableCopies = b.AvailableCopies
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	t.s.books[b.ID] = cur
	return nil
}

func (t *memTx) LockBorrower(_ context.Context, borrowerID string) (*borrowers.Borrower, error) {
	b, ok := t.s.borrowers[borrowerID]
	if !ok {
		return nil, notFound("borrower")
	}
	return &b, nil
}

func (t *memTx) LockFine(_ context.Context, fineID string) (*fines.Fine, error) {
	f, ok := t.s.fines[fineID]
	if !ok {
		return nil, notFound("fine")
	}
	return &f, nil
}

func (t *memTx) UpdateFine(_ context.Context, f *fines.Fine) error {
	cur, ok := t.s.fines[f.ID]
	if !ok {
		return apierr.ErrInternal("failed to update fines")
	}
	cur.Status = f.Status
	cur.PaidAt = f.PaidAt
	cur.Notes = f.Notes
	t.s.fines[f.ID] = cur
	return nil
}

func (t *memTx) FineByBorrowing(_ context.Context, borrowingID string) (*fines.Fine, error) {
	for _, f := range t.s.fines {
		if f.BorrowingID == borrowingID {
			return &f, nil
		}
	}
	return nil, nil
}

func (t *memTx) InsertFine(_ context.Context, f *fines.Fine) error {
	if _, ok := t.s.borrowings[f.BorrowingID]; !ok {
		return apierr.ErrInvalid("referenced row does not exist")
	}
	for _, x := range t.s.fines {
		if x.ID == f.ID || x.BorrowingID == f.BorrowingID {
			return apierr.ErrConflict("fine already exists for this borrowing")
		}
	}
	t.s.fines[f.ID] = *f
	return nil
}

func (t *memTx) CountOpenBorrowings(_ context.Context, borrowerID string) (int, error) {
	return t.s.countOpen(borrowerID), nil
}

func (t *memTx) InsertBorrowing(_ context.Context, b *borrowings.Borrowing) error {
	if _, ok := t.s.borrowings[b.ID]; ok {
		return apierr.ErrConflict("borrowing already exists")
	}
	if _, ok := t.s.books[b.BookID]; !ok {
		return apierr.ErrInvalid("referenced row does not exist")
	}
	if _, ok := t.s.borrowers[b.BorrowerID]; !ok {
		return apierr.ErrInvalid("referenced row does not exist")
	}
	t.s.borrowings[b.ID] = *b
	return nil
}

func (t *memTx) LockBorrowing(_ context.Context, borrowingID string) (*borrowings.Borrowing, error) {
	b, ok := t.s.borrowings[borrowingID]
	if !ok {
		return nil, notFound("borrowing")
	}
	return &b, nil
}

func (t *memTx) UpdateBorrowing(_ context.Context, b *borrowings.Borrowing) error {
	cur, ok := t.s.borrowings[b.ID]
	if !ok {
		return apierr.ErrInternal("failed to update borrowings")
	}
	cur.ReturnedAt = b.ReturnedAt
	cur.Status = b.Status
	cur.Notes = b.Notes
	t.s.borrowings[b.ID] = cur
	return nil
}

func (t *memTx) PendingReservations(_ context.Context, borrowerID, bookID string) ([]reservations.Reservation, error) {
	items := []reservations.Reservation{}
	for _, r := range t.s.reservations {
		if r.BorrowerID == borrowerID && r.BookID == bookID && r.Status == reservations.StatusPending {
			items = append(items, r)
		}
	}
	return items, nil
}

func (t *memTx) InsertReservation(_ context.Context, r *reservations.Reservation) error {
	if _, ok := t.s.reservations[r.ID]; ok {
		return apierr.ErrConflict("reservation already exists")
	}
	if _, ok := t.s.books[r.BookID]; !ok {
		return apierr.ErrInvalid("referenced row does not exist")
	}
	t.s.reservations[r.ID] = *r
	return nil
}

func (t *memTx) LockReservation(_ context.Context, reservationID string) (*reservations.Reservation, error) {
	r, ok := t.s.reservations[reservationID]
	if !ok {
		return nil, notFound("reservation")
	}
	return &r, nil
}

func (t *memTx) UpdateReservation(_ context.Context, r *reservations.Reservation) error {
	cur, ok := t.s.reservations[r.ID]
	if !ok {
		return apierr.ErrInternal("failed to update reservations")
	}
	cur.Status = r.Status
	cur.Notes = r.Notes
	t.s.reservations[r.ID] = cur
	return nil
}

func (t *memTx) ExpiredPendingReservations(_ context.Context, now time.Time) ([]reservations.Reservation, error) {
	items := []reservations.Reservation{}
	for _, r := range t.s.reservations {
		if r.Status == reservations.StatusPending && r.ExpiresAt.Before(now) {
			items = append(items, r)
		}
	}
	slices.SortFunc(items, func(a, b reservations.Reservation) int {
		return cmp.Or(a.ExpiresAt.Compare(b.ExpiresAt), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}
