package categories

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/clock"
	"readify-backend/internal/platform/ids"
)

const maxNameLen = 100

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

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierr.ErrInvalid("name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return "", apierr.ErrInvalid("name must be at most 100 characters")
	}
	return name, nil
}

func (s *Service) List(ctx context.Context, includeDisabled bool) ([]CategoryResponse, error) {
	items, err := s.store.ListCategories(ctx, includeDisabled)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, categoryID string) (*CategoryResponse, error) {
	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := ToResponse(c)
	return &out, nil
}

func (s *Service) Create(ctx context.Context, in CreateRequest) (*CategoryResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	c := &Category{
		ID:          s.id.NewULID(now),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("category created", zap.String("category_id", c.ID), zap.String("name", c.Name))
	out := ToResponse(c)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, categoryID string, in UpdateRequest) (*CategoryResponse, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.IsDisabled = in.IsDisabled
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	out := ToResponse(c)
	return &out, nil
}

// Delete は無効化のみ。本からの参照は残る
func (s *Service) Delete(ctx context.Context, categoryID string) error {
	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if c.IsDisabled {
		return nil
	}
	c.IsDisabled = true
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return err
	}
	s.log.Info("category disabled", zap.String("category_id", c.ID))
	return nil
}
