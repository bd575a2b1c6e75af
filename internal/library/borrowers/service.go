package borrowers

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/db"
	"readify-backend/internal/platform/ids"
)

type Service struct {
	store Store
	clock clock.Clock
	id    ids.IDGen
	log   *zap.Logger
}

func NewService(store Store, clk clock.Clock, id ids.IDGen, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, clock: clk, id: id, log: log}
}

// Register は accountID に紐づく利用者プロフィールを作る
func (s *Service) Register(ctx context.Context, accountID string, in RegisterRequest) (*BorrowerResponse, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, apierr.ErrInvalid("account_id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.ErrInvalid("name is required")
	}
	if len(in.Phone) > 15 {
		return nil, apierr.ErrInvalid("phone must be at most 15 characters")
	}

	now := s.clock.Now()
	id := s.id.NewULID(now)
	libraryID := strings.TrimSpace(in.LibraryID)
	if libraryID == "" {
		// ULID の乱数部の末尾から発番
		libraryID = "LIB-" + id[len(id)-10:]
	}
	if len(libraryID) > 20 {
		return nil, apierr.ErrInvalid("library_id must be at most 20 characters")
	}

	b := &Borrower{
		ID:              id,
		AccountID:       accountID,
		LibraryID:       libraryID,
		Name:            name,
		Email:           strings.TrimSpace(in.Email),
		Phone:           in.Phone,
		Address:         in.Address,
		MembershipDate:  now.Truncate(24 * time.Hour),
		Active:          true,
		MaxBooksAllowed: DefaultMaxBooksAllowed,
	}
	if err := s.store.CreateBorrower(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("borrower registered", zap.String("borrower_id", b.ID), zap.String("account_id", accountID))
	out := ToResponse(b)
	return &out, nil
}

func (s *Service) Get(ctx context.Context, borrowerID string) (*BorrowerResponse, error) {
	b, err := s.store.GetBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	out := ToResponse(b)
	return &out, nil
}

func (s *Service) GetByAccount(ctx context.Context, accountID string) (*BorrowerResponse, error) {
	b, err := s.store.GetBorrowerByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := ToResponse(b)
	return &out, nil
}

// BorrowerIDForAccount はハンドラがトークンの sub から利用者IDを引くのに使う
func (s *Service) BorrowerIDForAccount(ctx context.Context, accountID string) (string, error) {
	b, err := s.store.GetBorrowerByAccount(ctx, accountID)
	if err != nil {
		if apierr.CodeOf(err) == apierr.CodeNotFound {
			return "", apierr.ErrNotFound("no borrower profile for this account")
		}
		return "", err
	}
	return b.ID, nil
}

func (s *Service) List(ctx context.Context, q Query, p db.Page) (*BorrowerListResponse, error) {
	p = p.Normalize()
	items, total, err := s.store.ListBorrowers(ctx, q, p)
	if err != nil {
		return nil, err
	}
	out := &BorrowerListResponse{Items: make([]BorrowerResponse, 0, len(items)), Total: total, Limit: p.Limit, Offset: p.Offset}
	for i := range items {
		out.Items = append(out.Items, ToResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, borrowerID string, in UpdateRequest) (*BorrowerResponse, error) {
	b, err := s.store.GetBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apierr.ErrInvalid("name must not be empty")
		}
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		b.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		if len(*in.Phone) > 15 {
			return nil, apierr.ErrInvalid("phone must be at most 15 characters")
		}
		b.Phone = *in.Phone
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Active != nil {
		b.Active = *in.Active
	}
	if in.MaxBooksAllowed != nil {
		if *in.MaxBooksAllowed < 1 {
			return nil, apierr.ErrInvalid("max_books_allowed must be >= 1")
		}
		b.MaxBooksAllowed = *in.MaxBooksAllowed
	}
	if err := s.store.UpdateBorrower(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("borrower updated", zap.String("borrower_id", b.ID), zap.Bool("active", b.Active))
	out := ToResponse(b)
	return &out, nil
}
