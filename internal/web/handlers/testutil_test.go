package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/match"
	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/memory"
)

const testDim = 3

// fakeExtractor maps raw frame bytes to embeddings. Frames not present in
// the map count as "no face detected".
type fakeExtractor struct {
	embeddings map[string][]float32
	err        error
}

func (f *fakeExtractor) ComputeEmbedding(ctx context.Context, imageData []byte) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embeddings[string(imageData)], nil
}

// env bundles a full handler environment over the in-memory store.
type env struct {
	store     *memory.Store
	extractor *fakeExtractor
	matcher   *match.Matcher
	engine    *attendance.Engine
	config    *config.Config
}

func newEnv() *env {
	st := memory.New()
	extractor := &fakeExtractor{embeddings: make(map[string][]float32)}
	cfg := &config.Config{
		Embedding:   config.EmbeddingConfig{Dim: testDim},
		Recognition: config.RecognitionConfig{Threshold: 0.6},
		Capture: config.CaptureConfig{
			DurationMs:  6000,
			FPS:         2,
			VideoWidth:  640,
			VideoHeight: 640,
		},
	}
	return &env{
		store:     st,
		extractor: extractor,
		matcher:   match.NewMatcher(st, testDim),
		engine:    attendance.NewEngine(st, time.UTC),
		config:    cfg,
	}
}

func (e *env) recognizer() *recognize.Recognizer {
	// maxSize 0 disables resizing so synthetic frames pass through untouched.
	return recognize.NewRecognizer(e.extractor, 0)
}

func (e *env) registerHandler() *RegisterHandler {
	return NewRegisterHandler(e.recognizer(), e.store, e.matcher)
}

func (e *env) checkHandler(now func() time.Time) *CheckHandler {
	h := NewCheckHandler(e.config, e.recognizer(), e.matcher, e.engine, e.store)
	if now != nil {
		h.now = now
	}
	return h
}

// frame registers a synthetic frame with the fake extractor and returns its
// base64 form for request bodies. A nil embedding means no face.
func (e *env) frame(content string, embedding []float32) string {
	if embedding != nil {
		e.extractor.embeddings[content] = embedding
	}
	return base64.StdEncoding.EncodeToString([]byte(content))
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshaling response %q: %v", w.Body.String(), err)
	}
	return out
}
