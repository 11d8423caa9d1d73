package match

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/memory"
)

func TestIndexFindBestMatch(t *testing.T) {
	idx := NewIndex(testDim)
	if err := idx.Build([]store.Identity{
		{ID: "a", Embedding: []float32{1, 0, 0, 0}},
		{ID: "b", Embedding: []float32{0, 1, 0, 0}},
		{ID: "c", Embedding: []float32{0, 0, 1, 0}},
	}); err != nil {
		t.Fatalf("building index: %v", err)
	}
	if idx.Count() != 3 {
		t.Fatalf("count = %d, want 3", idx.Count())
	}

	got := idx.FindBestMatch([]float32{0, 0.99, 0.01, 0}, 0.5)
	if got == nil || got.IdentityID != "b" {
		t.Fatalf("got %+v, want match on b", got)
	}
}

func TestIndexSkipsUnusableEmbeddings(t *testing.T) {
	idx := NewIndex(testDim)
	if err := idx.Build([]store.Identity{
		{ID: "zero", Embedding: []float32{0, 0, 0, 0}},
		{ID: "short", Embedding: []float32{1, 0}},
		{ID: "ok", Embedding: []float32{1, 0, 0, 0}},
	}); err != nil {
		t.Fatalf("building index: %v", err)
	}
	if idx.Count() != 1 {
		t.Errorf("count = %d, want 1", idx.Count())
	}
}

func TestIndexBelowThreshold(t *testing.T) {
	idx := NewIndex(testDim)
	idx.Add(store.Identity{ID: "a", Embedding: []float32{1, 0, 0, 0}})

	// Orthogonal query, similarity 0.
	if got := idx.FindBestMatch([]float32{0, 1, 0, 0}, 0.5); got != nil {
		t.Errorf("expected nil below threshold, got %+v", got)
	}
}

func TestIndexEmpty(t *testing.T) {
	idx := NewIndex(testDim)
	if got := idx.FindBestMatch([]float32{1, 0, 0, 0}, 0.5); got != nil {
		t.Errorf("expected nil on empty index, got %+v", got)
	}
}

// The index must agree with the linear scan on best match and similarity
// for small identity sets, where graph search is effectively exhaustive.
func TestIndexAgreesWithScan(t *testing.T) {
	const dim = 8
	rng := rand.New(rand.NewSource(42))

	st := memory.New()
	for i := 0; i < 5; i++ {
		emb := make([]float32, dim)
		for j := range emb {
			emb[j] = rng.Float32()*2 - 1
		}
		addIdentity(t, st, fmt.Sprintf("id-%d", i), emb)
	}

	scan := NewMatcher(st, dim)
	indexed := NewMatcher(st, dim)
	if err := indexed.EnableIndex(context.Background()); err != nil {
		t.Fatalf("enabling index: %v", err)
	}
	if !indexed.IndexEnabled() {
		t.Fatal("index should be enabled")
	}

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		query := make([]float32, dim)
		for j := range query {
			query[j] = rng.Float32()*2 - 1
		}

		want, err := scan.FindBestMatch(ctx, query, 0.0)
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		got, err := indexed.FindBestMatch(ctx, query, 0.0)
		if err != nil {
			t.Fatalf("index error: %v", err)
		}

		if (want == nil) != (got == nil) {
			t.Fatalf("query %d: scan=%+v index=%+v", i, want, got)
		}
		if want == nil {
			continue
		}
		if want.IdentityID != got.IdentityID {
			t.Errorf("query %d: scan matched %s, index matched %s", i, want.IdentityID, got.IdentityID)
		}
		if math.Abs(want.Similarity-got.Similarity) > 1e-6 {
			t.Errorf("query %d: similarity %f vs %f", i, want.Similarity, got.Similarity)
		}
	}
}

func TestNotifyUpsertedUpdatesIndex(t *testing.T) {
	st := memory.New()
	m := NewMatcher(st, testDim)
	if err := m.EnableIndex(context.Background()); err != nil {
		t.Fatalf("enabling index: %v", err)
	}

	identity := store.Identity{ID: "late", Embedding: []float32{0, 0, 0, 1}}
	if err := st.Upsert(context.Background(), identity); err != nil {
		t.Fatalf("upserting: %v", err)
	}
	m.NotifyUpserted(identity)

	if m.IndexCount() != 1 {
		t.Fatalf("index count = %d, want 1", m.IndexCount())
	}
	got, err := m.FindBestMatch(context.Background(), []float32{0, 0, 0, 1}, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.IdentityID != "late" {
		t.Fatalf("got %+v, want match on late", got)
	}
}
