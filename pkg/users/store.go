package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twocards/platform/pkg/types"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert violates the unique
	// email constraint.
	ErrDuplicateEmail = errors.New("email already registered")
)

const pgUniqueViolation = "23505"

// Store manages user records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new user store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new user. Email uniqueness (case-insensitive, emails are
// stored lowercased) is enforced by the database.
func (s *Store) Create(ctx context.Context, u *types.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, name, type, country, stripe_id,
			confirmed, admin, terms_signed_at,
			salt, hash, legacy_hash,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		u.ID, strings.ToLower(u.Email), u.Name, u.Type, u.Country, u.StripeID,
		u.Confirmed, u.Admin, u.TermsSignedAt,
		u.Salt, u.Hash, u.LegacyHash,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("users.Create: %w", err)
	}
	return nil
}

// GetByEmail fetches a user by email (case-insensitive).
func (s *Store) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.get(ctx, `WHERE email = $1`, strings.ToLower(email))
}

// GetByID fetches a user by ID.
func (s *Store) GetByID(ctx context.Context, id string) (*types.User, error) {
	return s.get(ctx, `WHERE id = $1`, id)
}

func (s *Store) get(ctx context.Context, where string, arg any) (*types.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, type, country, stripe_id,
		       confirmed, admin, terms_signed_at,
		       salt, hash, legacy_hash,
		       created_at, updated_at
		FROM users `+where, arg)

	u := &types.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Type, &u.Country, &u.StripeID,
		&u.Confirmed, &u.Admin, &u.TermsSignedAt,
		&u.Salt, &u.Hash, &u.LegacyHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users.get: %w", err)
	}
	return u, nil
}

// UpdateCredential replaces the stored credential with a salted pair and
// clears any legacy hash. Used by the one-time migration path.
func (s *Store) UpdateCredential(ctx context.Context, id, salt, hash string) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE users
		SET salt = $2, hash = $3, legacy_hash = '', updated_at = NOW()
		WHERE id = $1`, id, salt, hash)
	if err != nil {
		return fmt.Errorf("users.UpdateCredential: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetConfirmed marks a user's email address as confirmed.
func (s *Store) SetConfirmed(ctx context.Context, id string) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE users SET confirmed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users.SetConfirmed: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
