package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// defaultLogLimit is the number of attendance entries returned when the
// limit parameter is absent.
const defaultLogLimit = 100

// AttendanceHandler handles attendance log endpoints.
type AttendanceHandler struct {
	ledger store.AttendanceLedger
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(ledger store.AttendanceLedger) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger}
}

// LogEntry is a single attendance log row.
type LogEntry struct {
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
	Timestamp  string `json:"timestamp"`
	Status     string `json:"status"`
}

// Recent returns recent attendance events, newest first.
func (h *AttendanceHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.ledger.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "attendance ledger unavailable")
		return
	}

	result := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, LogEntry{
			IdentityID: e.IdentityID,
			Name:       e.Name,
			Timestamp:  e.Timestamp.Format(time.RFC3339),
			Status:     string(e.Status),
		})
	}

	respondJSON(w, http.StatusOK, result)
}
