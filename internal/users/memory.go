package users

import (
	"context"
	"sync"
	"time"

	"github.com/bookstore/bookstore-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps users in a map. Used in development when MONGODB_URI is
// unset and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	byKey map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[string]models.User)}
}

func (m *MemoryRepository) Insert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[u.Email]; ok {
		return ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.byKey[u.Email] = *u
	return nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byKey[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryRepository) SetAdmin(_ context.Context, email string, admin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byKey[email]
	if !ok {
		return ErrNotFound
	}
	u.IsAdmin = admin
	m.byKey[email] = u
	return nil
}
