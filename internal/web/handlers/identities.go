package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/names"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// IdentitiesHandler handles identity listing endpoints.
type IdentitiesHandler struct {
	identities store.IdentityStore
}

// NewIdentitiesHandler creates a new identities handler.
func NewIdentitiesHandler(identities store.IdentityStore) *IdentitiesHandler {
	return &IdentitiesHandler{identities: identities}
}

// IdentityInfo is the public listing shape; embeddings are never exposed.
type IdentityInfo struct {
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
}

// List returns all registered identities (ID and name). The optional q
// parameter filters by name, case- and diacritic-insensitively.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	identities, err := h.identities.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "identity store unavailable")
		return
	}

	query := r.URL.Query().Get("q")
	result := make([]IdentityInfo, 0, len(identities))
	for _, identity := range identities {
		if !names.Matches(identity.Name, query) {
			continue
		}
		result = append(result, IdentityInfo{
			IdentityID: identity.ID,
			Name:       identity.Name,
		})
	}

	respondJSON(w, http.StatusOK, result)
}
