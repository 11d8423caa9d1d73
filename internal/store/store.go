// Package store defines the persistence contracts for identities and
// attendance events. Backends (postgres, mariadb, memory) implement these
// interfaces; the matcher and toggle engine only ever see the interfaces.
package store

import (
	"context"
	"time"
)

// Status is the recorded attendance state for a single event.
type Status string

const (
	StatusCheckIn  Status = "checkin"
	StatusCheckOut Status = "checkout"
)

// Opposite returns the flipped status.
func (s Status) Opposite() Status {
	if s == StatusCheckIn {
		return StatusCheckOut
	}
	return StatusCheckIn
}

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusCheckIn || s == StatusCheckOut
}

// Identity is a registered person: stable external ID, display name and the
// face embedding captured at registration. Embeddings are stored as given
// (raw, not pre-normalized); normalization happens at comparison time.
type Identity struct {
	ID        string
	Name      string
	Embedding []float32
	CreatedAt time.Time
}

// Event is a single attendance record. The ledger is append-only; ordering
// by timestamp descending determines "most recent".
type Event struct {
	ID         int64
	IdentityID string
	Timestamp  time.Time
	Status     Status
}

// LogEntry is an attendance event joined with the identity's display name.
// Name is empty when the identity record no longer resolves.
type LogEntry struct {
	Event
	Name string
}

// IdentityStore is the durable mapping from identity ID to (name, embedding).
type IdentityStore interface {
	// Upsert replaces or inserts the whole record. Idempotent on ID.
	Upsert(ctx context.Context, identity Identity) error
	// Get returns the identity or nil when the ID is unknown.
	Get(ctx context.Context, id string) (*Identity, error)
	// GetAll returns every identity in a stable order (insertion order).
	// The matcher's linear scan and its tie-break depend on this ordering.
	GetAll(ctx context.Context) ([]Identity, error)
	// Count returns the number of registered identities.
	Count(ctx context.Context) (int, error)
}

// AttendanceLedger is the append-only sequence of attendance events.
// It does not enforce referential integrity against the identity store.
type AttendanceLedger interface {
	// Append records one event and fills in its assigned ID.
	Append(ctx context.Context, event *Event) error
	// MostRecentFor returns the newest event for an identity, nil when none.
	MostRecentFor(ctx context.Context, identityID string) (*Event, error)
	// Recent returns up to limit events newest-first with names joined in.
	Recent(ctx context.Context, limit int) ([]LogEntry, error)
}

// Store bundles both resources as exposed by a single backend.
type Store interface {
	IdentityStore
	AttendanceLedger
	Close() error
}
