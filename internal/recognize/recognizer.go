package recognize

import (
	"context"
)

// Extractor is the opaque frame-to-embedding function supplied by the face
// model. Implementations return nil (not an error) when no face is detected.
type Extractor interface {
	ComputeEmbedding(ctx context.Context, imageData []byte) ([]float32, error)
}

// Recognizer provides embedding extraction and aggregation over frames.
// It is stateless and safe for concurrent use across requests.
type Recognizer struct {
	extractor Extractor
	maxSize   int // frames larger than this are downscaled before upload
}

// NewRecognizer creates a recognizer backed by the given extractor.
// maxSize limits frame dimensions before upload; zero disables downscaling.
func NewRecognizer(extractor Extractor, maxSize int) *Recognizer {
	return &Recognizer{
		extractor: extractor,
		maxSize:   maxSize,
	}
}

// Extract computes the embedding for a single frame.
// Returns nil when no face is detected.
func (r *Recognizer) Extract(ctx context.Context, frame []byte) ([]float32, error) {
	if r.maxSize > 0 {
		if resized, err := ResizeImage(frame, r.maxSize); err == nil {
			// Undecodable frames are sent as-is; the model service rejects
			// what it cannot read.
			frame = resized
		}
	}
	return r.extractor.ComputeEmbedding(ctx, frame)
}

// Aggregate computes a single embedding from multiple frames by averaging
// per-frame embeddings and re-normalizing the mean to unit length. Frames
// without a detected face are skipped. Returns nil when no frame yields a
// usable embedding, or when the mean has zero norm.
//
// The order matters: mean first, then normalize. Normalizing per-frame
// before averaging would weight frames differently.
func (r *Recognizer) Aggregate(ctx context.Context, frames [][]byte) ([]float32, error) {
	var embeddings [][]float32
	for _, frame := range frames {
		emb, err := r.Extract(ctx, frame)
		if err != nil {
			return nil, err
		}
		if emb != nil {
			embeddings = append(embeddings, emb)
		}
	}
	if len(embeddings) == 0 {
		return nil, nil
	}

	mean := MeanVector(embeddings)
	if mean == nil {
		return nil, nil
	}
	return Normalize(mean), nil
}
