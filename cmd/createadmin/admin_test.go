package main

import (
	"context"
	"testing"

	"github.com/bookstore/bookstore-api/internal/password"
	"github.com/bookstore/bookstore-api/internal/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSvc() *users.Service {
	return users.NewService(users.NewMemoryRepository(), password.NewBcryptHasher(bcrypt.MinCost))
}

func TestEnsureAdmin_Creates(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()

	require.NoError(t, ensureAdmin(ctx, svc, adminInput{Email: "Root@x.com", Password: "pw", FirstName: "R", LastName: "T"}))
	u, err := svc.Authenticate(ctx, "root@x.com", "pw")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)

	// idempotent
	require.NoError(t, ensureAdmin(ctx, svc, adminInput{Email: "root@x.com"}))
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, users.NewUser{Email: "ann@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, ensureAdmin(ctx, svc, adminInput{Email: "ann@x.com"}))
	u, err := svc.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)

	// the password of an existing account is left alone
	_, err = svc.Authenticate(ctx, "ann@x.com", "pw")
	require.NoError(t, err)
}

func TestEnsureAdmin_Validation(t *testing.T) {
	svc := newSvc()
	ctx := context.Background()
	require.Error(t, ensureAdmin(ctx, svc, adminInput{}))
	require.Error(t, ensureAdmin(ctx, svc, adminInput{Email: "new@x.com"}))
}
