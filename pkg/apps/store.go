// Package apps manages client applications and their test/live key pairs.
package apps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twocards/platform/pkg/auth"
	"github.com/twocards/platform/pkg/types"
)

var (
	// ErrNotFound is returned when no app matches the lookup.
	ErrNotFound = errors.New("no app found")
	// ErrDuplicateKey is returned when an insert violates one of the four
	// unique key constraints.
	ErrDuplicateKey = errors.New("app key already exists")
)

const pgUniqueViolation = "23505"

// Store manages app records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new app store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create generates both key pairs and inserts the app in one step. An app
// never exists with fewer than four keys. Uniqueness of all four key strings
// is enforced by the database.
func (s *Store) Create(ctx context.Context, userID string, in types.CreateAppInput) (*types.App, error) {
	if userID == "" {
		return nil, fmt.Errorf("apps.Create: userID is required")
	}

	testKeys, err := auth.GenerateKeyPair("test")
	if err != nil {
		return nil, fmt.Errorf("apps.Create: %w", err)
	}
	liveKeys, err := auth.GenerateKeyPair("live")
	if err != nil {
		return nil, fmt.Errorf("apps.Create: %w", err)
	}

	now := time.Now().UTC()
	app := &types.App{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		TestPublic:  testKeys.Public,
		TestSecret:  testKeys.Secret,
		LivePublic:  liveKeys.Public,
		LiveSecret:  liveKeys.Secret,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO apps (
			id, user_id, name, description,
			test_public, test_secret, live_public, live_secret,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		app.ID, app.UserID, app.Name, app.Description,
		app.TestPublic, app.TestSecret, app.LivePublic, app.LiveSecret,
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("apps.Create insert: %w", err)
	}
	return app, nil
}

// ResolveByPublicKey finds the app owning the presented public key. Both key
// columns are matched in a single query so test and live lookups take the
// same path. isTest reports whether the test key matched.
func (s *Store) ResolveByPublicKey(ctx context.Context, publicKey string) (*types.App, bool, error) {
	if publicKey == "" {
		return nil, false, ErrNotFound
	}

	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description,
		       test_public, test_secret, live_public, live_secret,
		       created_at, updated_at
		FROM apps
		WHERE test_public = $1 OR live_public = $1`, publicKey)

	app := &types.App{}
	err := row.Scan(
		&app.ID, &app.UserID, &app.Name, &app.Description,
		&app.TestPublic, &app.TestSecret, &app.LivePublic, &app.LiveSecret,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("apps.ResolveByPublicKey: %w", err)
	}
	return app, publicKey == app.TestPublic, nil
}

// ListByUser returns the apps owned by a user.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]types.App, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, description,
		       test_public, test_secret, live_public, live_secret,
		       created_at, updated_at
		FROM apps
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("apps.ListByUser: %w", err)
	}
	defer rows.Close()

	out := make([]types.App, 0)
	for rows.Next() {
		var app types.App
		if err := rows.Scan(
			&app.ID, &app.UserID, &app.Name, &app.Description,
			&app.TestPublic, &app.TestSecret, &app.LivePublic, &app.LiveSecret,
			&app.CreatedAt, &app.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("apps.ListByUser scan: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("apps.ListByUser iteration: %w", err)
	}
	return out, nil
}
