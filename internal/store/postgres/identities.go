package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Store implements store.Store on top of a PostgreSQL pool.
type Store struct {
	pool *Pool
}

// NewStore creates a store over an existing pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *Pool {
	return s.pool
}

// Upsert replaces or inserts the whole identity record.
func (s *Store) Upsert(ctx context.Context, identity store.Identity) error {
	vec := pgvector.NewVector(identity.Embedding)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO identities (identity_id, name, embedding, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (identity_id)
		DO UPDATE SET name = $2, embedding = $3
	`, identity.ID, identity.Name, vec)
	if err != nil {
		return fmt.Errorf("upsert identity %s: %w", identity.ID, err)
	}
	return nil
}

// Get retrieves an identity by ID, returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*store.Identity, error) {
	var identity store.Identity
	var vec pgvector.Vector

	err := s.pool.QueryRow(ctx, `
		SELECT identity_id, name, embedding, created_at
		FROM identities
		WHERE identity_id = $1
	`, id).Scan(&identity.ID, &identity.Name, &vec, &identity.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity %s: %w", id, err)
	}

	identity.Embedding = vec.Slice()
	return &identity, nil
}

// GetAll returns every identity in insertion order. The order is stable
// within a call; the matcher's tie-break relies on it.
func (s *Store) GetAll(ctx context.Context) ([]store.Identity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT identity_id, name, embedding, created_at
		FROM identities
		ORDER BY created_at, identity_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query identities: %w", err)
	}
	defer rows.Close()

	var identities []store.Identity
	for rows.Next() {
		var identity store.Identity
		var vec pgvector.Vector
		if err := rows.Scan(&identity.ID, &identity.Name, &vec, &identity.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identity.Embedding = vec.Slice()
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}

// Count returns the total number of identities.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM identities").Scan(&count); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}
