package borrowings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/policy"
	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

const pastBorrowingsLimit = 50

type Service struct {
	store  Store
	ledger *inventory.Ledger
	policy policy.Policy
	id     ids.IDGen
	log    *zap.Logger
}

func NewService(store Store, p policy.Policy, id ids.IDGen, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, ledger: inventory.NewLedger(log), policy: p, id: id, log: log}
}

func (s *Service) Policy() policy.Policy { return s.policy }

type CheckoutOptions struct {
	// nil なら now + 貸出期間
	DueAt *time.Time
	Notes string
}

// Checkout は利用者・冊数上限・在庫を確認して貸出を作る。全体が1トランザクション
func (s *Service) Checkout(ctx context.Context, borrowerID, bookID string, now time.Time, opts CheckoutOptions) (*Borrowing, error) {
	if borrowerID == "" || bookID == "" {
		return nil, apierr.ErrInvalid("borrower_id and book_id are required")
	}
	// 保存する時刻はすべて UTC
	now = now.UTC()
	due := s.policy.DueAt(now)
	if opts.DueAt != nil {
		if !opts.DueAt.After(now) {
			return nil, apierr.ErrInvalid("due_at must be in the future")
		}
		due = opts.DueAt.UTC()
	}

	var out Borrowing
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		borrower, err := tx.LockBorrower(ctx, borrowerID)
		if err != nil {
			return err
		}
		if !borrower.Active {
			return apierr.ErrBorrowerInactive
		}

		open, err := tx.CountOpenBorrowings(ctx, borrowerID)
		if err != nil {
			return err
		}
		if open >= borrower.MaxBooksAllowed {
			return apierr.ErrBorrowingLimitExceeded
		}

		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if !book.IsAvailable() {
			return apierr.ErrBookUnavailable
		}
		if err := s.ledger.Apply(book, -1); err != nil {
			return err
		}
		book.UpdatedAt = now
		if err := tx.SaveBookStock(ctx, book); err != nil {
			return err
		}

		out = Borrowing{
			ID:         s.id.NewULID(now),
			BorrowerID: borrowerID,
			BookID:     bookID,
			BorrowedAt: now,
			DueAt:      due,
			Status:     StatusBorrowed,
			Notes:      opts.Notes,
		}
		return tx.InsertBorrowing(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book checked out",
		zap.String("borrowing_id", out.ID),
		zap.String("borrower_id", borrowerID),
		zap.String("book_id", bookID),
		zap.Time("due_at", out.DueAt),
	)
	return &out, nil
}

type ReturnResult struct {
	Borrowing Borrowing
	// 返却時点で延滞していれば確定した延滞金
	Fine *fines.Fine
}

// ReturnBook は返却を記録して在庫を1戻す。延滞していれば先に延滞金を確定する
func (s *Service) ReturnBook(ctx context.Context, borrowingID string, now time.Time, notes string) (*ReturnResult, error) {
	now = now.UTC()
	var out ReturnResult
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		b, err := tx.LockBorrowing(ctx, borrowingID)
		if err != nil {
			return err
		}
		if !b.IsOpen() {
			return apierr.ErrAlreadyReturned
		}

		fine, _, err := s.ensureFineTx(ctx, tx, b, now)
		if err != nil {
			return err
		}

		b.ReturnedAt = &now
		b.Status = StatusReturned
		b.appendNotes(notes)
		if err := tx.UpdateBorrowing(ctx, b); err != nil {
			return err
		}

		book, err := tx.LockBook(ctx, b.BookID)
		if err != nil {
			return err
		}
		if err := s.ledger.Apply(book, +1); err != nil {
			return err
		}
		book.UpdatedAt = now
		if err := tx.SaveBookStock(ctx, book); err != nil {
			return err
		}

		out = ReturnResult{Borrowing: *b, Fine: fine}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{zap.String("borrowing_id", borrowingID), zap.String("book_id", out.Borrowing.BookID)}
	if out.Fine != nil {
		fields = append(fields, zap.String("fine_id", out.Fine.ID), zap.String("fine_amount", out.Fine.Amount.StringFixed(2)))
	}
	s.log.Info("book returned", fields...)
	return &out, nil
}

// EnsureFine は延滞金が未作成で金額が正のときだけ作る。何度呼んでも1件
func (s *Service) EnsureFine(ctx context.Context, borrowingID string, now time.Time) (*fines.Fine, bool, error) {
	now = now.UTC()
	var (
		out     *fines.Fine
		created bool
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		b, err := tx.LockBorrowing(ctx, borrowingID)
		if err != nil {
			return err
		}
		before := b.Status
		f, c, err := s.ensureFineTx(ctx, tx, b, now)
		if err != nil {
			return err
		}
		if b.Status != before {
			if err := tx.UpdateBorrowing(ctx, b); err != nil {
				return err
			}
		}
		out, created = f, c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("fine materialized",
			zap.String("borrowing_id", borrowingID),
			zap.String("fine_id", out.ID),
			zap.String("amount", out.Amount.StringFixed(2)),
		)
	}
	return out, created, nil
}

// ensureFineTx は b をロック済みの前提。b.Status は書き換えるが保存は呼び出し側
func (s *Service) ensureFineTx(ctx context.Context, tx Tx, b *Borrowing, now time.Time) (*fines.Fine, bool, error) {
	existing, err := tx.FineByBorrowing(ctx, b.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	amount := b.FineAmount(now, s.policy)
	if !amount.IsPositive() {
		return nil, false, nil
	}
	f := &fines.Fine{
		ID:          s.id.NewULID(now),
		BorrowingID: b.ID,
		BorrowerID:  b.BorrowerID,
		Amount:      amount,
		Status:      fines.StatusPending,
		CreatedAt:   now,
	}
	if err := tx.InsertFine(ctx, f); err != nil {
		return nil, false, err
	}
	if b.IsOpen() {
		b.Status = StatusOverdue
	}
	return f, true, nil
}

func (s *Service) CurrentOpenBorrowingsCount(ctx context.Context, borrowerID string) (int, error) {
	return s.store.CountOpenBorrowings(ctx, borrowerID)
}

func (s *Service) Get(ctx context.Context, borrowingID string) (*Borrowing, error) {
	return s.store.GetBorrowing(ctx, borrowingID)
}

func (s *Service) List(ctx context.Context, f Filter, p db.Page) ([]Borrowing, int64, error) {
	return s.store.ListBorrowings(ctx, f, p.Normalize())
}

type BorrowerView struct {
	Current []Borrowing
	Past    []Borrowing
}

// ListForBorrower は貸出中と過去の貸出を返す。延滞中のものはここで延滞金を確定する
func (s *Service) ListForBorrower(ctx context.Context, borrowerID string, now time.Time) (*BorrowerView, error) {
	open := true
	current, _, err := s.store.ListBorrowings(ctx, Filter{BorrowerID: borrowerID, Open: &open}, db.Page{Limit: db.MaxLimit, Order: "asc"})
	if err != nil {
		return nil, err
	}
	for i := range current {
		b := &current[i]
		if !b.IsOverdue(now) || b.Status == StatusOverdue {
			continue
		}
		if _, _, err := s.EnsureFine(ctx, b.ID, now); err != nil {
			return nil, err
		}
		if b.FineAmount(now, s.policy).IsPositive() {
			b.Status = StatusOverdue
		}
	}

	closed := false
	past, _, err := s.store.ListBorrowings(ctx, Filter{BorrowerID: borrowerID, Open: &closed}, db.Page{Limit: pastBorrowingsLimit, Order: "desc"})
	if err != nil {
		return nil, err
	}
	return &BorrowerView{Current: current, Past: past}, nil
}

// RecentForBook は本ごとの直近の貸出履歴
func (s *Service) RecentForBook(ctx context.Context, bookID string, limit int) ([]Borrowing, error) {
	items, _, err := s.store.ListBorrowings(ctx, Filter{BookID: bookID}, db.Page{Limit: limit, Order: "desc"})
	return items, err
}
