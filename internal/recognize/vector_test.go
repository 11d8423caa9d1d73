package recognize

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if v == nil {
		t.Fatal("expected non-nil result")
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", v)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("normalized vector has squared norm %f, want 1", sum)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if v := Normalize([]float32{0, 0, 0}); v != nil {
		t.Errorf("expected nil for zero vector, got %v", v)
	}
	if v := Normalize(nil); v != nil {
		t.Errorf("expected nil for empty vector, got %v", v)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float32{2, 0}
	_ = Normalize(in)
	if in[0] != 2 {
		t.Errorf("input mutated: %v", in)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled", []float32{1, 2}, []float32{2, 4}, 1},
		{"zero left", []float32{0, 0}, []float32{1, 1}, -1},
		{"zero right", []float32{1, 1}, []float32{0, 0}, -1},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, -1},
		{"both empty", nil, nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.1, -0.5, 0.3, 0.7}
	b := []float32{-0.2, 0.4, 0.9, 0.1}
	if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
		t.Error("cosine similarity is not symmetric")
	}
}

func TestCosineSimilaritySelfIsOne(t *testing.T) {
	v := []float32{0.123, -0.456, 0.789, 0.012, -0.345}
	sim := CosineSimilarity(v, v)
	if math.Abs(sim-1) > 1e-5 {
		t.Errorf("self similarity = %f, want 1 within 1e-5", sim)
	}
	if sim > 1 {
		t.Errorf("similarity %f exceeds 1, clamp failed", sim)
	}
}

func TestMeanVector(t *testing.T) {
	mean := MeanVector([][]float32{
		{1, 0},
		{0, 1},
	})
	if mean == nil {
		t.Fatal("expected non-nil mean")
	}
	if math.Abs(float64(mean[0])-0.5) > 1e-6 || math.Abs(float64(mean[1])-0.5) > 1e-6 {
		t.Errorf("MeanVector = %v, want [0.5 0.5]", mean)
	}
}

func TestMeanVectorEmpty(t *testing.T) {
	if m := MeanVector(nil); m != nil {
		t.Errorf("expected nil for empty input, got %v", m)
	}
}

func TestMeanVectorLengthMismatch(t *testing.T) {
	if m := MeanVector([][]float32{{1, 2}, {1, 2, 3}}); m != nil {
		t.Errorf("expected nil for mismatched lengths, got %v", m)
	}
}

// Averaging opposite vectors cancels out to zero, which must normalize to nil
// rather than produce a bogus unit vector.
func TestMeanThenNormalizeCancellation(t *testing.T) {
	mean := MeanVector([][]float32{
		{1, 0},
		{-1, 0},
	})
	if mean == nil {
		t.Fatal("expected non-nil mean")
	}
	if v := Normalize(mean); v != nil {
		t.Errorf("expected nil for zero-norm mean, got %v", v)
	}
}
