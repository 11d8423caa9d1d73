// Package attendance implements the check-in/check-out toggle state machine.
//
// Per (identity, calendar date) the ledger encodes a two-state machine:
// absent-or-checked-out transitions to checkin, checked-in transitions to
// checkout. Only events are persisted; state is derived by replaying the
// latest event.
package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Engine derives today's next status from the ledger and appends it.
// It holds no cross-call state beyond the per-identity locks.
type Engine struct {
	ledger store.AttendanceLedger
	loc    *time.Location

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a toggle engine writing to the given ledger.
// loc is the time zone whose calendar dates delimit attendance days;
// nil means time.Local.
func NewEngine(ledger store.AttendanceLedger, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		ledger: ledger,
		loc:    loc,
		locks:  make(map[string]*sync.Mutex),
	}
}

// identityLock returns the mutex serializing toggles for one identity.
// Locks are created lazily and never released; the map grows with the
// identity set, which is bounded.
func (e *Engine) identityLock(identityID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[identityID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[identityID] = l
	}
	return l
}

// NextStatus decides the status a toggle at now should record, given the
// identity's most recent event (nil when none). A last event from a different
// calendar date resets the day to checkin regardless of its status.
func (e *Engine) NextStatus(last *store.Event, now time.Time) store.Status {
	if last == nil {
		return store.StatusCheckIn
	}
	ly, lm, ld := last.Timestamp.In(e.loc).Date()
	ny, nm, nd := now.In(e.loc).Date()
	if ly != ny || lm != nm || ld != nd {
		return store.StatusCheckIn
	}
	return last.Status.Opposite()
}

// Toggle reads the most recent event for the identity, decides the next
// status, appends the new event and returns it. The read-decide-append
// sequence is serialized per identity; toggles for different identities
// proceed concurrently without coordination.
//
// The ledger does not check that the identity exists; a toggle for an
// unknown ID still records an event. Callers are expected to have matched
// an identity first.
func (e *Engine) Toggle(ctx context.Context, identityID string, now time.Time) (store.Event, error) {
	lock := e.identityLock(identityID)
	lock.Lock()
	defer lock.Unlock()

	last, err := e.ledger.MostRecentFor(ctx, identityID)
	if err != nil {
		return store.Event{}, fmt.Errorf("reading last event for %s: %w", identityID, err)
	}

	event := store.Event{
		IdentityID: identityID,
		Timestamp:  now,
		Status:     e.NextStatus(last, now),
	}
	if err := e.ledger.Append(ctx, &event); err != nil {
		return store.Event{}, fmt.Errorf("appending event for %s: %w", identityID, err)
	}
	return event, nil
}
