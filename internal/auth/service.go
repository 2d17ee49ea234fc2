// Package auth ties the credential store, token service and revocation list
// together into the login, register, refresh and logout flows.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookstore/bookstore-api/internal/models"
	"github.com/bookstore/bookstore-api/internal/revocation"
	"github.com/bookstore/bookstore-api/internal/tokens"
	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/bookstore/bookstore-api/pkg/logger"
	"github.com/bookstore/bookstore-api/pkg/metrics"
)

// ErrUnauthorized is returned for any token that does not resolve to a live user.
// The underlying reason is logged, never returned to the client.
var ErrUnauthorized = errors.New("unauthorized")

type Service struct {
	users   *users.Service
	tokens  *tokens.Service
	revoked revocation.Store
}

func NewService(u *users.Service, t *tokens.Service, r revocation.Store) *Service {
	return &Service{users: u, tokens: t, revoked: r}
}

// AccessTTLSeconds is reported to clients as expires_in.
func (s *Service) AccessTTLSeconds() int {
	return int(s.tokens.AccessTTL().Seconds())
}

// Login checks the password and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*tokens.Pair, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
			logger.Debugf("login rejected for %q", users.NormalizeEmail(email))
		} else {
			metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		}
		return nil, err
	}
	pair, err := s.tokens.IssuePair(u.Email)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	return pair, nil
}

// Register creates a regular account. Admin status can never be set here.
func (s *Service) Register(ctx context.Context, email, firstName, lastName, password string) (*models.User, error) {
	u, err := s.users.CreateUser(ctx, users.NewUser{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
	})
	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
		return nil, err
	case err != nil:
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()
	logger.With("email", u.Email).Info("user registered")
	return u, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token.
func (s *Service) Refresh(ctx context.Context, raw string) (*tokens.Pair, error) {
	claims, err := s.tokens.Validate(raw, tokens.TypeRefresh)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", "invalid").Inc()
		logger.Debugf("refresh rejected: %v", err)
		return nil, ErrUnauthorized
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", "revoked").Inc()
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("refresh", "invalid").Inc()
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	pair, err := s.tokens.IssuePair(u.Email)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues("refresh", "ok").Inc()
	return pair, nil
}

// Logout revokes the presented access token and, when given and valid for the
// same subject, the refresh token.
func (s *Service) Logout(ctx context.Context, access *tokens.Claims, refreshRaw string) error {
	if access == nil {
		return ErrUnauthorized
	}
	if err := s.revoked.Revoke(ctx, access.ID, access.ExpiresAtTime()); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	if refreshRaw != "" {
		rc, err := s.tokens.Validate(refreshRaw, tokens.TypeRefresh)
		if err == nil && rc.Subject == access.Subject {
			if err := s.revoked.Revoke(ctx, rc.ID, rc.ExpiresAtTime()); err != nil {
				return fmt.Errorf("revoke refresh token: %w", err)
			}
		} else if err != nil {
			logger.Debugf("logout: ignoring unusable refresh token: %v", err)
		}
	}
	metrics.AuthAttempts.WithLabelValues("logout", "ok").Inc()
	return nil
}

// ResolveCurrentUser maps a raw access token to its user. Every failure
// (bad token, revoked, user deleted) comes back as ErrUnauthorized, except
// infrastructure errors from the stores.
func (s *Service) ResolveCurrentUser(ctx context.Context, raw string) (*models.User, *tokens.Claims, error) {
	claims, err := s.tokens.Validate(raw, tokens.TypeAccess)
	if err != nil {
		metrics.TokenValidations.WithLabelValues(validationResult(err)).Inc()
		logger.Debugf("access token rejected: %v", err)
		return nil, nil, ErrUnauthorized
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			metrics.TokenValidations.WithLabelValues("revoked").Inc()
		}
		return nil, nil, err
	}
	u, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			metrics.TokenValidations.WithLabelValues("unknown_user").Inc()
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}
	metrics.TokenValidations.WithLabelValues("ok").Inc()
	return u, claims, nil
}

func (s *Service) checkRevoked(ctx context.Context, c *tokens.Claims) error {
	if c.ID == "" {
		return nil
	}
	revoked, err := s.revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return ErrUnauthorized
	}
	return nil
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return "expired"
	case errors.Is(err, tokens.ErrWrongType):
		return "wrong_type"
	case errors.Is(err, tokens.ErrBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
