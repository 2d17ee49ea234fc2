package service

import (
	"context"
	"errors"

	"github.com/bookstore/bookstore-api/internal/books"
	"github.com/bookstore/bookstore-api/internal/books/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
)

// Service defines the catalog operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, in books.Input) (*books.Book, error)
	Get(ctx context.Context, id string) (*books.Book, error)
	List(ctx context.Context) ([]*books.Book, error)
	Update(ctx context.Context, id string, in books.Input) (*books.Book, error)
	SetCover(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return &service{repo: repository.NewMemoryRepo()}
}

// NewMongoService returns a Service backed by a MongoDB collection.
func NewMongoService(col *mongo.Collection) Service {
	return &service{repo: repository.NewMongoRepo(col)}
}

type service struct {
	repo repository.Repository
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *service) Create(ctx context.Context, in books.Input) (*books.Book, error) {
	b := &books.Book{}
	in.Apply(b)
	if _, err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*books.Book, error) {
	b, err := s.repo.Get(ctx, id)
	return b, mapErr(err)
}

// List returns at most books.ListLimit entries.
func (s *service) List(ctx context.Context) ([]*books.Book, error) {
	return s.repo.List(ctx, books.ListLimit)
}

func (s *service) Update(ctx context.Context, id string, in books.Input) (*books.Book, error) {
	b, err := s.repo.Update(ctx, id, in)
	return b, mapErr(err)
}

func (s *service) SetCover(ctx context.Context, id, key string) error {
	return mapErr(s.repo.SetCover(ctx, id, key))
}

func (s *service) Delete(ctx context.Context, id string) error {
	return mapErr(s.repo.Delete(ctx, id))
}
