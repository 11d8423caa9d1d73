package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-attendance/internal/match"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// RegisterHandler handles identity registration.
type RegisterHandler struct {
	recognizer *recognize.Recognizer
	identities store.IdentityStore
	matcher    *match.Matcher
}

// NewRegisterHandler creates a new registration handler.
func NewRegisterHandler(recognizer *recognize.Recognizer, identities store.IdentityStore, matcher *match.Matcher) *RegisterHandler {
	return &RegisterHandler{
		recognizer: recognizer,
		identities: identities,
		matcher:    matcher,
	}
}

// RegisterRequest represents an identity registration request.
// Frames are base64-encoded JPEG/PNG images captured during registration.
type RegisterRequest struct {
	IdentityID string   `json:"identity_id"`
	Name       string   `json:"name"`
	Frames     []string `json:"frames"`
}

// RegisterResponse represents the registration response.
type RegisterResponse struct {
	Message    string `json:"message"`
	IdentityID string `json:"identity_id"`
	Success    bool   `json:"success"`
}

// Register extracts a robust embedding from the provided frames and persists
// the identity. The embedding is the unit-normalized mean over per-frame
// embeddings; frames without a detectable face are skipped. An omitted
// identity ID is generated.
func (h *RegisterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	var frames [][]byte
	for _, b64 := range req.Frames {
		frame, err := decodeBase64Image(b64)
		if err != nil {
			// Invalid frames are skipped; registration works with what decodes.
			continue
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		respondError(w, http.StatusBadRequest, "no valid frames provided")
		return
	}

	embedding, err := h.recognizer.Aggregate(r.Context(), frames)
	if err != nil {
		respondError(w, http.StatusBadGateway, "face model service unavailable")
		return
	}
	if embedding == nil {
		respondError(w, http.StatusBadRequest, "no face detected in provided frames")
		return
	}

	identityID := strings.TrimSpace(req.IdentityID)
	if identityID == "" {
		identityID = uuid.NewString()
	}

	identity := store.Identity{
		ID:        identityID,
		Name:      strings.TrimSpace(req.Name),
		Embedding: embedding,
	}
	if err := h.identities.Upsert(r.Context(), identity); err != nil {
		respondError(w, http.StatusServiceUnavailable, "failed to store identity")
		return
	}
	h.matcher.NotifyUpserted(identity)
	metrics.Registrations.Inc()

	respondJSON(w, http.StatusOK, RegisterResponse{
		Message:    "identity registered successfully",
		IdentityID: identityID,
		Success:    true,
	})
}
