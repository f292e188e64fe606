package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"bizval/pkg/contracts/domain"
)

// MemoryUserRepository is an in-memory UserRepository used in tests and
// when no database is configured. Safe for concurrent use.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.User
	nextID int64
}

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:   make(map[int64]domain.User),
		nextID: 1,
	}
}

// GetByEmail returns the user with the given email, or ErrUserNotFound.
// Email matching is case-insensitive.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

// Insert stores a new user and returns it with its assigned ID.
func (r *MemoryUserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.User{}, ErrDuplicateEmail
		}
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.byID[user.ID] = user
	return user, nil
}

// UpdateLastLogin stamps the user's last login time to now.
func (r *MemoryUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	r.byID[id] = u
	return nil
}
