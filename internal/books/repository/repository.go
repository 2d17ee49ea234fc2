package repository

import (
	"context"
	"errors"

	"github.com/bookstore/bookstore-api/internal/books"
)

var (
	ErrNotFound = errors.New("book not found")
)

// Repository is the persistence contract shared by the memory and Mongo stores.
type Repository interface {
	Create(ctx context.Context, b *books.Book) (string, error)
	Get(ctx context.Context, id string) (*books.Book, error)
	List(ctx context.Context, limit int) ([]*books.Book, error)
	Update(ctx context.Context, id string, in books.Input) (*books.Book, error)
	SetCover(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}
