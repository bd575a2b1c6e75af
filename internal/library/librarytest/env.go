// Package librarytest はインメモリストア上に全サービスを組み立てるテスト用ヘルパ
package librarytest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"readify-backend/internal/library/authors"
	"readify-backend/internal/library/borrowers"
	"readify-backend/internal/library/borrowings"
	"readify-backend/internal/library/categories"
	"readify-backend/internal/library/dashboard"
	"readify-backend/internal/library/fines"
	"readify-backend/internal/library/inventory"
	"readify-backend/internal/library/memstore"
	"readify-backend/internal/library/policy"
	"readify-backend/internal/library/reservations"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/ids"
)

// Start はテストの基準時刻
var Start = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func DefaultPolicy() policy.Policy {
	return policy.Policy{
		DailyFineRate:         decimal.RequireFromString("5.00"),
		MaxFineDays:           30,
		LoanPeriodDays:        14,
		ReservationPeriodDays: 7,
	}
}

type Env struct {
	Clock  *clock.Fixed
	Store  *memstore.Store
	Policy policy.Policy

	Categories   *categories.Service
	Authors      *authors.Service
	Books        *inventory.Service
	Borrowers    *borrowers.Service
	Borrowings   *borrowings.Service
	Reservations *reservations.Service
	Fines        *fines.Service
	Dashboard    *dashboard.Service

	seq int
}

func New(log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	clk := clock.NewFixed(Start)
	st := memstore.New()
	p := DefaultPolicy()
	id := ids.NewULID()
	return &Env{
		Clock:        clk,
		Store:        st,
		Policy:       p,
		Categories:   categories.NewService(st, clk, id, log),
		Authors:      authors.NewService(st, clk, id, log),
		Books:        inventory.NewService(st.Inventory(), clk, id, log),
		Borrowers:    borrowers.NewService(st, clk, id, log),
		Borrowings:   borrowings.NewService(st.Borrowings(), p, id, log),
		Reservations: reservations.NewService(st.Reservations(), p, id, log),
		Fines:        fines.NewService(st.Fines(), log),
		Dashboard:    dashboard.NewService(st, p, log),
	}
}

func (e *Env) Now() time.Time { return e.Clock.Now() }

// AddBook は連番の ISBN で本を登録する
func (e *Env) AddBook(ctx context.Context, title string, copies int) (string, error) {
	e.seq++
	b, err := e.Books.CreateBook(ctx, inventory.CreateBookRequest{
		ISBN:        fmt.Sprintf("978%010d", e.seq),
		Title:       title,
		Author:      "Author " + title,
		TotalCopies: copies,
	})
	if err != nil {
		return "", err
	}
	return b.BookID, nil
}

// AddBorrower は account_id=name で有効な利用者を作る
func (e *Env) AddBorrower(ctx context.Context, name string) (string, error) {
	b, err := e.Borrowers.Register(ctx, name, borrowers.RegisterRequest{Name: name})
	if err != nil {
		return "", err
	}
	return b.BorrowerID, nil
}

func (e *Env) SetMaxBooks(ctx context.Context, borrowerID string, n int) error {
	_, err := e.Borrowers.Update(ctx, borrowerID, borrowers.UpdateRequest{MaxBooksAllowed: &n})
	return err
}

func (e *Env) Deactivate(ctx context.Context, borrowerID string) error {
	off := false
	_, err := e.Borrowers.Update(ctx, borrowerID, borrowers.UpdateRequest{Active: &off})
	return err
}

// Checkout は時計の現在時刻で既定の期限の貸出を作る
func (e *Env) Checkout(ctx context.Context, borrowerID, bookID string) (*borrowings.Borrowing, error) {
	return e.Borrowings.Checkout(ctx, borrowerID, bookID, e.Now(), borrowings.CheckoutOptions{})
}

func (e *Env) Available(ctx context.Context, bookID string) (int, error) {
	b, err := e.Books.GetBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return b.AvailableCopies, nil
}
