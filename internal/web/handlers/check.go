package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/match"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// CheckHandler handles recognition and attendance toggling.
type CheckHandler struct {
	config     *config.Config
	recognizer *recognize.Recognizer
	matcher    *match.Matcher
	engine     *attendance.Engine
	identities store.IdentityStore

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewCheckHandler creates a new check handler.
func NewCheckHandler(cfg *config.Config, recognizer *recognize.Recognizer, matcher *match.Matcher, engine *attendance.Engine, identities store.IdentityStore) *CheckHandler {
	return &CheckHandler{
		config:     cfg,
		recognizer: recognizer,
		matcher:    matcher,
		engine:     engine,
		identities: identities,
		now:        time.Now,
	}
}

// CheckRequest represents an attendance check request.
type CheckRequest struct {
	Frame string `json:"frame"`
}

// CheckResponse represents the attendance check response. The identity
// fields are empty when no face was detected or nobody matched; Message
// always says what happened.
type CheckResponse struct {
	IdentityID string  `json:"identity_id,omitempty"`
	Name       string  `json:"name,omitempty"`
	Status     string  `json:"status,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Message    string  `json:"message"`
}

// Check recognizes the person in a single frame and toggles their attendance
// for today. No face and no match are normal outcomes, answered with 200 and
// a structured message rather than an error.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	frame, err := decodeBase64Image(req.Frame)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	embedding, err := h.recognizer.Extract(r.Context(), frame)
	if err != nil {
		respondError(w, http.StatusBadGateway, "face model service unavailable")
		return
	}
	if embedding == nil {
		metrics.NoFace.Inc()
		respondJSON(w, http.StatusOK, CheckResponse{Message: "no face detected"})
		return
	}

	start := time.Now()
	result, err := h.matcher.FindBestMatch(r.Context(), embedding, h.config.Recognition.Threshold)
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, match.ErrDimensionMismatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusServiceUnavailable, "identity store unavailable")
		return
	}
	if result == nil {
		metrics.NoMatch.Inc()
		respondJSON(w, http.StatusOK, CheckResponse{Message: "face not recognized"})
		return
	}

	identity, err := h.identities.Get(r.Context(), result.IdentityID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "identity store unavailable")
		return
	}
	name := ""
	if identity != nil {
		name = identity.Name
	}

	event, err := h.engine.Toggle(r.Context(), result.IdentityID, h.now())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "failed to record attendance")
		return
	}
	metrics.Toggles.WithLabelValues(string(event.Status)).Inc()

	respondJSON(w, http.StatusOK, CheckResponse{
		IdentityID: result.IdentityID,
		Name:       name,
		Status:     string(event.Status),
		Similarity: result.Similarity,
		Message:    fmt.Sprintf("%s %s", name, event.Status),
	})
}
