package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookstore/bookstore-api/internal/books"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used when MongoDB is not configured
// and in unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*books.Book
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*books.Book)}
}

func (m *MemoryRepo) Create(_ context.Context, b *books.Book) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.store[b.ID] = &cp
	return b.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*books.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, ErrNotFound
}

// List returns books in creation order, at most limit of them.
func (m *MemoryRepo) List(_ context.Context, limit int) ([]*books.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*books.Book, 0, len(m.store))
	for _, b := range m.store {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, id string, in books.Input) (*books.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	in.Apply(b)
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (m *MemoryRepo) SetCover(_ context.Context, id, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	b.CoverKey = key
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
