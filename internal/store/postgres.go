package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizval/internal/config"
	"bizval/pkg/contracts/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// NewPool creates a pgx connection pool from the database configuration.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}

// PostgresUserRepository is the pgx-backed UserRepository.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresUserRepository creates a repository over an existing pool.
func NewPostgresUserRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserRepository{pool: pool, logger: logger}
}

// GetByEmail returns the user with the given email, or ErrUserNotFound.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `
		SELECT id, email, password_hash, mobile, email_verified,
		       verification_token, created_at, last_login
		FROM users
		WHERE email = $1
	`

	var u domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Mobile, &u.EmailVerified,
		&u.VerificationToken, &u.CreatedAt, &u.LastLogin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to query user by email: %w", err)
	}
	return u, nil
}

// Insert stores a new user and returns it with its assigned ID and
// creation time.
func (r *PostgresUserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	query := `
		INSERT INTO users (email, password_hash, mobile, email_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.Mobile, user.EmailVerified, user.VerificationToken,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	r.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))
	return user, nil
}

// UpdateLastLogin stamps the user's last login time to now.
func (r *PostgresUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
