package match

import (
	"sync"

	"github.com/coder/hnsw"

	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// HNSW parameters for face embeddings.
const (
	// indexMaxNeighbors (M) is the maximum number of neighbors per node.
	indexMaxNeighbors = 16

	// indexSearchK is the candidate count requested per search. More than
	// one so exact re-scoring can break near-ties the same way a scan would.
	indexSearchK = 8
)

// Index is an in-memory HNSW graph over identity embeddings. Nodes carry the
// unit-normalized embedding; exact cosine similarity is recomputed on the
// returned candidates so threshold semantics match the linear scan.
type Index struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
	rank  map[string]int // insertion rank, used for deterministic tie-break
	dim   int
}

// NewIndex creates an empty index for embeddings of the given dimension.
func NewIndex(dim int) *Index {
	g := hnsw.NewGraph[string]()
	g.M = indexMaxNeighbors
	g.Ml = 1.0 / float64(indexMaxNeighbors)
	g.Distance = hnsw.CosineDistance
	return &Index{
		graph: g,
		rank:  make(map[string]int),
		dim:   dim,
	}
}

// Build populates the index from a slice of identities. Zero-norm or
// mismatched-dimension embeddings are skipped, matching the scan behavior.
func (idx *Index) Build(identities []store.Identity) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range identities {
		idx.addLocked(&identities[i])
	}
	return nil
}

// Add inserts or replaces a single identity in the index.
func (idx *Index) Add(identity store.Identity) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addLocked(&identity)
}

func (idx *Index) addLocked(identity *store.Identity) {
	if len(identity.Embedding) != idx.dim {
		return
	}
	unit := recognize.Normalize(identity.Embedding)
	if unit == nil {
		return
	}
	if _, seen := idx.rank[identity.ID]; !seen {
		idx.rank[identity.ID] = len(idx.rank)
	}
	idx.graph.Add(hnsw.MakeNode(identity.ID, unit))
}

// Count returns the number of identities in the index.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.graph.Len()
}

// FindBestMatch searches the graph for the query (already unit-normalized)
// and returns the candidate with the highest exact cosine similarity at or
// above the threshold, nil when none qualifies. Ties between candidates go
// to the earlier-inserted identity, mirroring the scan's enumeration order.
func (idx *Index) FindBestMatch(unit []float32, threshold float64) *Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph.Len() == 0 {
		return nil
	}

	neighbors := idx.graph.Search(unit, indexSearchK)

	var best *Match
	for _, n := range neighbors {
		similarity := recognize.CosineSimilarity(unit, n.Value)
		if best == nil || similarity > best.Similarity ||
			(similarity == best.Similarity && idx.rank[n.Key] < idx.rank[best.IdentityID]) {
			best = &Match{IdentityID: n.Key, Similarity: similarity}
		}
	}

	if best == nil || best.Similarity < threshold {
		return nil
	}
	return best
}
