// Package store persists user accounts. It exposes a small repository
// interface with a PostgreSQL implementation for production and an
// in-memory implementation for tests and database-less deployments.
package store

import (
	"context"
	"errors"

	"bizval/pkg/contracts/domain"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when inserting an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the persistence contract for user accounts.
type UserRepository interface {
	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Insert stores a new user and returns it with its assigned ID.
	// Returns ErrDuplicateEmail when the email is taken.
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	// UpdateLastLogin stamps the user's last login time to now.
	UpdateLastLogin(ctx context.Context, id int64) error
}
