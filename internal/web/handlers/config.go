package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/config"
)

// ConfigHandler handles configuration endpoints.
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

// ConfigResponse carries the settings the frontend pages need to drive
// webcam capture and show the active matching threshold.
type ConfigResponse struct {
	Threshold         float64 `json:"threshold"`
	CaptureDurationMs int     `json:"capture_duration_ms"`
	CaptureFPS        int     `json:"capture_fps"`
	VideoWidth        int     `json:"video_width"`
	VideoHeight       int     `json:"video_height"`
}

// Get returns the capture and recognition configuration.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		Threshold:         h.config.Recognition.Threshold,
		CaptureDurationMs: h.config.Capture.DurationMs,
		CaptureFPS:        h.config.Capture.FPS,
		VideoWidth:        h.config.Capture.VideoWidth,
		VideoHeight:       h.config.Capture.VideoHeight,
	})
}
