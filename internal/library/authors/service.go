package authors

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

// apply は入力を検証して a に写す
func (s *Service) apply(a *Author, in AuthorRequest, now time.Time) error {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return apierr.ErrInvalid("first_name and last_name are required")
	}
	if len([]rune(first)) > 100 || len([]rune(last)) > 100 {
		return apierr.ErrInvalid("names must be at most 100 characters")
	}
	var birth *time.Time
	if v := strings.TrimSpace(in.BirthDate); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return apierr.ErrInvalid("birth_date must be YYYY-MM-DD")
		}
		if d.After(now) {
			return apierr.ErrInvalid("birth_date must not be in the future")
		}
		birth = &d
	}
	a.FirstName = first
	a.LastName = last
	a.Bio = strings.TrimSpace(in.Bio)
	a.BirthDate = birth
	return nil
}

func (s *Service) Create(ctx context.Context, in AuthorRequest) (*AuthorResponse, error) {
	now := s.clock.Now()
	a := &Author{ID: s.id.NewULID(now), CreatedAt: now}
	if err := s.apply(a, in, now); err != nil {
		return nil, err
	}
	if err := s.store.CreateAuthor(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("author created", zap.String("author_id", a.ID))
	out := ToResponse(a)
	return &out, nil
}

func (s *Service) Get(ctx context.Context, authorID string) (*AuthorResponse, error) {
	a, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	out := ToResponse(a)
	return &out, nil
}

func (s *Service) List(ctx context.Context, q string, p db.Page) (*AuthorListResponse, error) {
	p = p.Normalize()
	items, total, err := s.store.ListAuthors(ctx, q, p)
	if err != nil {
		return nil, err
	}
	out := &AuthorListResponse{Items: make([]AuthorResponse, 0, len(items)), Total: total, Limit: p.Limit, Offset: p.Offset}
	for i := range items {
		out.Items = append(out.Items, ToResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, authorID string, in AuthorRequest) (*AuthorResponse, error) {
	a, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(a, in, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateAuthor(ctx, a); err != nil {
		return nil, err
	}
	out := ToResponse(a)
	return &out, nil
}
