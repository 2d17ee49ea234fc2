package service

import (
	"context"
	"testing"

	"github.com/bookstore/bookstore-api/internal/books"
	"github.com/stretchr/testify/require"
)

func TestService_ListCapped(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()
	for i := 0; i < books.ListLimit+5; i++ {
		_, err := svc.Create(ctx, books.Input{Title: "t", Author: "a"})
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, books.ListLimit)
}

func TestService_NotFoundMapped(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, "missing", books.Input{})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
	require.ErrorIs(t, svc.SetCover(ctx, "missing", "k"), ErrNotFound)
}
