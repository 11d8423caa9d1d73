package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Append records one attendance event and fills in its assigned ID.
func (s *Store) Append(ctx context.Context, event *store.Event) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attendance (identity_id, ts, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, event.IdentityID, event.Timestamp, string(event.Status)).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("append attendance event: %w", err)
	}
	return nil
}

// MostRecentFor returns the newest event for an identity, nil when none.
// Event IDs break ties between equal timestamps.
func (s *Store) MostRecentFor(ctx context.Context, identityID string) (*store.Event, error) {
	var event store.Event
	var status string

	err := s.pool.QueryRow(ctx, `
		SELECT id, identity_id, ts, status
		FROM attendance
		WHERE identity_id = $1
		ORDER BY ts DESC, id DESC
		LIMIT 1
	`, identityID).Scan(&event.ID, &event.IdentityID, &event.Timestamp, &status)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last event for %s: %w", identityID, err)
	}

	event.Status = store.Status(status)
	return &event, nil
}

// Recent returns up to limit events newest-first, with display names joined
// from the identities table. Events for deleted identities keep an empty name.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.LogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.identity_id, a.ts, a.status, COALESCE(i.name, '')
		FROM attendance a
		LEFT JOIN identities i ON i.identity_id = a.identity_id
		ORDER BY a.ts DESC, a.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attendance log: %w", err)
	}
	defer rows.Close()

	var entries []store.LogEntry
	for rows.Next() {
		var entry store.LogEntry
		var status string
		if err := rows.Scan(&entry.ID, &entry.IdentityID, &entry.Timestamp, &status, &entry.Name); err != nil {
			return nil, fmt.Errorf("scan attendance entry: %w", err)
		}
		entry.Status = store.Status(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance log: %w", err)
	}
	return entries, nil
}
