package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"readify-backend/internal/platform/apierr"
	"readify-backend/internal/platform/clock"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

var (
	ErrAlreadyExists = apierr.ErrConflict("id already exists")
	ErrNotFound      = apierr.ErrNotFound("account not found")
	ErrAuthFailed    = errors.New("authentication failed")
)

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleStaff || r == RoleAdmin
}

// IsStaff は staff 以上
func IsStaff(r string) bool { return r == RoleStaff || r == RoleAdmin }

type AuthService interface {
	Login(ctx context.Context, id, password string) (string, error)
	Register(ctx context.Context, id, password, role string) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store  AccountStore
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewService(store AccountStore, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl, clock: clock.Real{}}
}

func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

func (s *Service) Secret() []byte { return s.secret }

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil || acct.IsDisabled {
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"role": acct.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Service) Register(ctx context.Context, id, password, role string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 64 {
		return apierr.ErrInvalid("id must be 1-64 characters")
	}
	if len(password) < 8 {
		return apierr.ErrInvalid("password must be at least 8 characters")
	}
	if !ValidRole(role) {
		return apierr.ErrInvalid("role must be user, staff or admin")
	}

	exists, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.Create(ctx, &Account{
		ID:           id,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.clock.Now(),
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
