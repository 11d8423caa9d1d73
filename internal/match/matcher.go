// Package match implements best-match search over stored identity embeddings.
package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// ErrDimensionMismatch is returned when a query vector's length does not
// equal the deployment's embedding dimension. This is a caller error, never
// silently truncated or padded.
var ErrDimensionMismatch = errors.New("query embedding dimension mismatch")

// Match is a successful best-match result.
type Match struct {
	IdentityID string
	Similarity float64
}

// Matcher finds the stored identity closest to a query embedding.
// It is stateless between calls and safe for concurrent use; it borrows
// read access to the identity store per call.
type Matcher struct {
	identities store.IdentityStore
	dim        int
	index      *Index // optional, nil means linear scan
}

// NewMatcher creates a matcher over the given identity store.
// dim is the deployment's embedding dimension.
func NewMatcher(identities store.IdentityStore, dim int) *Matcher {
	return &Matcher{
		identities: identities,
		dim:        dim,
	}
}

// FindBestMatch scans every stored identity and returns the one with the
// highest normalized cosine similarity to the query, provided it reaches the
// threshold (inclusive). Returns nil when no identity exists, the best
// similarity falls below the threshold, or the query has zero norm.
//
// The scan is a full pass with no early exit; similarity is not monotonic in
// enumeration order. When several identities tie on the maximum similarity,
// the first in enumeration order wins. That tie-break is arbitrary but
// deterministic, since GetAll enumerates in insertion order.
func (m *Matcher) FindBestMatch(ctx context.Context, query []float32, threshold float64) (*Match, error) {
	if len(query) != m.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), m.dim)
	}

	unit := recognize.Normalize(query)
	if unit == nil {
		return nil, nil
	}

	if m.index != nil {
		return m.index.FindBestMatch(unit, threshold), nil
	}

	identities, err := m.identities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading identities: %w", err)
	}

	var best *Match
	for i := range identities {
		identity := &identities[i]
		if len(identity.Embedding) != m.dim {
			continue
		}
		stored := recognize.Normalize(identity.Embedding)
		if stored == nil {
			// Zero-norm embeddings cannot be compared.
			continue
		}
		similarity := recognize.CosineSimilarity(unit, stored)
		if best == nil || similarity > best.Similarity {
			best = &Match{IdentityID: identity.ID, Similarity: similarity}
		}
	}

	if best == nil || best.Similarity < threshold {
		return nil, nil
	}
	return best, nil
}

// EnableIndex builds the in-memory nearest-neighbor index from the current
// identity set and routes subsequent searches through it. The linear scan
// remains the correctness baseline; the index trades the scan for approximate
// graph search and re-checks exact similarities on the returned candidates.
func (m *Matcher) EnableIndex(ctx context.Context) error {
	identities, err := m.identities.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading identities for index: %w", err)
	}

	idx := NewIndex(m.dim)
	if err := idx.Build(identities); err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	m.index = idx
	return nil
}

// IndexEnabled reports whether the nearest-neighbor index is active.
func (m *Matcher) IndexEnabled() bool {
	return m.index != nil
}

// IndexCount returns the number of identities in the index, 0 when disabled.
func (m *Matcher) IndexCount() int {
	if m.index == nil {
		return 0
	}
	return m.index.Count()
}

// NotifyUpserted keeps the index in sync after a registration. A no-op when
// the index is disabled.
func (m *Matcher) NotifyUpserted(identity store.Identity) {
	if m.index != nil {
		m.index.Add(identity)
	}
}
