package mariadb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Store implements store.Store on top of a MariaDB pool.
type Store struct {
	pool *Pool
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

func encodeEmbedding(embedding []float32) (string, error) {
	data, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(data), nil
}

func decodeEmbedding(data string) ([]float32, error) {
	var embedding []float32
	if err := json.Unmarshal([]byte(data), &embedding); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	return embedding, nil
}

// Upsert replaces or inserts the whole identity record.
func (s *Store) Upsert(ctx context.Context, identity store.Identity) error {
	encoded, err := encodeEmbedding(identity.Embedding)
	if err != nil {
		return err
	}

	_, err = s.pool.db.ExecContext(ctx, `
		INSERT INTO identities (identity_id, name, embedding)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), embedding = VALUES(embedding)
	`, identity.ID, identity.Name, encoded)
	if err != nil {
		return fmt.Errorf("upsert identity %s: %w", identity.ID, err)
	}
	return nil
}

// Get retrieves an identity by ID, returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*store.Identity, error) {
	var identity store.Identity
	var encoded string

	err := s.pool.db.QueryRowContext(ctx, `
		SELECT identity_id, name, embedding, created_at
		FROM identities
		WHERE identity_id = ?
	`, id).Scan(&identity.ID, &identity.Name, &encoded, &identity.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get identity %s: %w", id, err)
	}

	if identity.Embedding, err = decodeEmbedding(encoded); err != nil {
		return nil, err
	}
	return &identity, nil
}

// GetAll returns every identity in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]store.Identity, error) {
	rows, err := s.pool.db.QueryContext(ctx, `
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
		var encoded string
		if err := rows.Scan(&identity.ID, &identity.Name, &encoded, &identity.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		if identity.Embedding, err = decodeEmbedding(encoded); err != nil {
			return nil, err
		}
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
	if err := s.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM identities").Scan(&count); err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	return count, nil
}
