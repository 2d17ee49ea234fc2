package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/bookstore/bookstore-api/pkg/logger"
)

type adminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ensureAdmin creates the account with is_admin set, or promotes it when the
// email is already registered. Running it twice is harmless.
func ensureAdmin(ctx context.Context, svc *users.Service, in adminInput) error {
	if in.Email == "" {
		return errors.New("--email is required")
	}
	existing, err := svc.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if existing.IsAdmin {
			logger.Infof("%s is already an admin", existing.Email)
			return nil
		}
		if err := svc.Promote(ctx, existing.Email); err != nil {
			return fmt.Errorf("promote: %w", err)
		}
		logger.Infof("promoted %s to admin", existing.Email)
		return nil
	case !errors.Is(err, users.ErrNotFound):
		return err
	}

	if in.Password == "" {
		return errors.New("--password is required to create a new admin")
	}
	u, err := svc.CreateUser(ctx, users.NewUser{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		IsAdmin:   true,
	})
	if errors.Is(err, users.ErrDuplicateEmail) {
		// registered concurrently; promote instead
		return svc.Promote(ctx, in.Email)
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Infof("created admin %s", u.Email)
	return nil
}
