// Package memory provides an in-memory implementation of the store
// interfaces. It backs the unit tests and the zero-dependency demo mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Store is an in-memory identity store and attendance ledger.
// Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	identities map[string]store.Identity
	order      []string // insertion order for GetAll
	events     []store.Event
	nextID     int64

	// Error injection for tests.
	UpsertError       error
	GetError          error
	GetAllError       error
	AppendError       error
	MostRecentError   error
	RecentError       error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		identities: make(map[string]store.Identity),
		nextID:     1,
	}
}

// Upsert replaces or inserts the whole identity record.
func (s *Store) Upsert(ctx context.Context, identity store.Identity) error {
	if s.UpsertError != nil {
		return s.UpsertError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.identities[identity.ID]; !exists {
		s.order = append(s.order, identity.ID)
		if identity.CreatedAt.IsZero() {
			identity.CreatedAt = time.Now()
		}
	} else if identity.CreatedAt.IsZero() {
		identity.CreatedAt = s.identities[identity.ID].CreatedAt
	}
	// Copy the embedding so callers cannot mutate stored state.
	emb := make([]float32, len(identity.Embedding))
	copy(emb, identity.Embedding)
	identity.Embedding = emb
	s.identities[identity.ID] = identity
	return nil
}

// Get returns the identity or nil when unknown.
func (s *Store) Get(ctx context.Context, id string) (*store.Identity, error) {
	if s.GetError != nil {
		return nil, s.GetError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

// GetAll returns every identity in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]store.Identity, error) {
	if s.GetAllError != nil {
		return nil, s.GetAllError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]store.Identity, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.identities[id])
	}
	return result, nil
}

// Count returns the number of registered identities.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), nil
}

// Append records one event and assigns its ID.
func (s *Store) Append(ctx context.Context, event *store.Event) error {
	if s.AppendError != nil {
		return s.AppendError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID
	s.nextID++
	s.events = append(s.events, *event)
	return nil
}

// MostRecentFor returns the newest event for an identity, nil when none.
func (s *Store) MostRecentFor(ctx context.Context, identityID string) (*store.Event, error) {
	if s.MostRecentError != nil {
		return nil, s.MostRecentError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *store.Event
	for i := range s.events {
		e := &s.events[i]
		if e.IdentityID != identityID {
			continue
		}
		if best == nil || e.Timestamp.After(best.Timestamp) ||
			(e.Timestamp.Equal(best.Timestamp) && e.ID > best.ID) {
			best = e
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

// Recent returns up to limit events newest-first with names joined in.
func (s *Store) Recent(ctx context.Context, limit int) ([]store.LogEntry, error) {
	if s.RecentError != nil {
		return nil, s.RecentError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]store.LogEntry, 0, len(s.events))
	for _, e := range s.events {
		entry := store.LogEntry{Event: e}
		if identity, ok := s.identities[e.IdentityID]; ok {
			entry.Name = identity.Name
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
