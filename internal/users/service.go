package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookstore/bookstore-api/internal/models"
	"github.com/bookstore/bookstore-api/internal/password"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// NewUser is the input to CreateUser. Password is plaintext and is hashed before storage.
type NewUser struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	IsAdmin   bool
}

// Service encapsulates user-related business logic
type Service struct {
	repo   Repository
	hasher password.Hasher
	// dummyHash is verified against when the email is unknown, so a miss costs
	// one bcrypt comparison at the configured cost just like a wrong password.
	dummyHash string
}

func NewService(r Repository, h password.Hasher) *Service {
	s := &Service{repo: r, hasher: h}
	if dh, err := h.Hash(context.Background(), "bookstore-unknown-user"); err == nil {
		s.dummyHash = dh
	}
	return s
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser hashes the password and stores a new account.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*models.User, error) {
	email := NormalizeEmail(nu.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	hash, err := s.hasher.Hash(ctx, nu.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Email:        email,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		PasswordHash: hash,
		IsAdmin:      nu.IsAdmin,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Authenticate returns the user when the password matches. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if _, verr := s.hasher.Verify(ctx, plaintext, s.dummyHash); verr != nil {
				return nil, verr
			}
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := s.hasher.Verify(ctx, plaintext, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Promote grants the admin role. Only the bootstrap command calls this.
func (s *Service) Promote(ctx context.Context, email string) error {
	return s.repo.SetAdmin(ctx, NormalizeEmail(email), true)
}
