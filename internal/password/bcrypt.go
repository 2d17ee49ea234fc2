// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrTooLong is returned for passwords bcrypt would reject (over 72 bytes).
var ErrTooLong = errors.New("password longer than 72 bytes")

// Hasher is the one-way password hashing contract used by the credential store.
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

// BcryptHasher salts every hash and bounds how many bcrypt computations run at once.
type BcryptHasher struct {
	cost  int
	slots int64
	sem   *semaphore.Weighted
}

// NewBcryptHasher returns a hasher using the given cost. Out-of-range costs fall back
// to bcrypt.DefaultCost. At most GOMAXPROCS hashes are computed concurrently.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	slots := int64(runtime.GOMAXPROCS(0))
	return &BcryptHasher{cost: cost, slots: slots, sem: semaphore.NewWeighted(slots)}
}

// Cost reports the configured bcrypt cost.
func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", ErrTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a mismatch,
// not an error; the error is non-nil only when ctx ends while waiting for a slot.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil, nil
}
