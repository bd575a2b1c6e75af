package inventory

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

var isbnPattern = regexp.MustCompile(`^(\d{9}[\dX]|\d{13})$`)

type Service struct {
	store  Store
	ledger *Ledger
	clock  clock.Clock
	id     ids.IDGen
	log    *zap.Logger
}

func NewService(store Store, clk clock.Clock, id ids.IDGen, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, ledger: NewLedger(log), clock: clk, id: id, log: log}
}

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (*BookResponse, error) {
	isbn := strings.ReplaceAll(strings.TrimSpace(in.ISBN), "-", "")
	if !isbnPattern.MatchString(isbn) {
		return nil, apierr.ErrInvalid("isbn must be 10 or 13 digits")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return nil, apierr.ErrInvalid("title and author are required")
	}
	if in.TotalCopies < 1 {
		return nil, apierr.ErrInvalid("total_copies must be >= 1")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, apierr.ErrInvalid("price must not be negative")
	}
	if in.CategoryID != nil && !ids.Valid(*in.CategoryID) {
		return nil, apierr.ErrInvalid("invalid category_id")
	}
	authorIDs, err := uniqueIDs(in.AuthorIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &Book{
		ID:              s.id.NewULID(now),
		ISBN:            isbn,
		Title:           strings.TrimSpace(in.Title),
		Author:          strings.TrimSpace(in.Author),
		Publisher:       in.Publisher,
		PublicationYear: in.PublicationYear,
		Pages:           in.Pages,
		CategoryID:      in.CategoryID,
		AuthorIDs:       authorIDs,
		Description:     in.Description,
		Status:          StatusAvailable,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.AvailableCopies != nil {
		b.AvailableCopies = *in.AvailableCopies
	}
	if in.Price != nil {
		b.Price = decimal.NewNullDecimal(*in.Price)
	}
	b.Clamp()
	b.SetStatusOnExhaustion()

	if err := s.store.CreateBook(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("book created", zap.String("book_id", b.ID), zap.String("isbn", b.ISBN))
	out := ToResponse(b)
	return &out, nil
}

// uniqueIDs は重複を落として順序を保つ
func uniqueIDs(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, id := range in {
		if !ids.Valid(id) {
			return nil, apierr.ErrInvalid("invalid author_id: " + id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *Service) GetBook(ctx context.Context, bookID string) (*BookResponse, error) {
	b, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	out := ToResponse(b)
	return &out, nil
}

func (s *Service) ListBooks(ctx context.Context, q BookQuery, p db.Page) (*BookListResponse, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, apierr.ErrInvalid("unknown status")
	}
	if (q.CategoryID != "" && !ids.Valid(q.CategoryID)) || (q.AuthorID != "" && !ids.Valid(q.AuthorID)) {
		return nil, apierr.ErrInvalid("invalid category_id or author_id")
	}
	p = p.Normalize()
	books, total, err := s.store.ListBooks(ctx, q, p)
	if err != nil {
		return nil, err
	}
	out := &BookListResponse{Items: make([]BookResponse, 0, len(books)), Total: total, Limit: p.Limit, Offset: p.Offset}
	for i := range books {
		out.Items = append(out.Items, ToResponse(&books[i]))
	}
	return out, nil
}

// SetStatus は職員による手動のステータス変更（maintenance / reserved 等）
func (s *Service) SetStatus(ctx context.Context, bookID string, status Status) (*BookResponse, error) {
	if !status.Valid() {
		return nil, apierr.ErrInvalid("status must be one of available, borrowed, reserved, maintenance")
	}
	var out BookResponse
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		b, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		b.Status = status
		b.SetStatusOnExhaustion()
		b.UpdatedAt = s.clock.Now()
		if err := tx.SaveBookStock(ctx, b); err != nil {
			return err
		}
		out = ToResponse(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book status changed", zap.String("book_id", bookID), zap.String("status", string(out.Status)))
	return &out, nil
}
