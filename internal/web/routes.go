package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/static"
)

func (s *Server) setupRoutes() {
	registerHandler := handlers.NewRegisterHandler(s.services.Recognizer, s.services.Store, s.services.Matcher)
	checkHandler := handlers.NewCheckHandler(s.config, s.services.Recognizer, s.services.Matcher, s.services.Engine, s.services.Store)
	identitiesHandler := handlers.NewIdentitiesHandler(s.services.Store)
	attendanceHandler := handlers.NewAttendanceHandler(s.services.Store)
	configHandler := handlers.NewConfigHandler(s.config)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", registerHandler.Register)
		r.Post("/check", checkHandler.Check)
		r.Get("/identities", identitiesHandler.List)
		r.Get("/attendance", attendanceHandler.Recent)
		r.Get("/config", configHandler.Get)
	})

	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())

	// Embedded frontend pages
	s.router.Get("/*", s.servePages)
}

// servePages serves the embedded registration/check-in/admin pages.
func (s *Server) servePages(w http.ResponseWriter, r *http.Request) {
	if static.HasPages() {
		fs := static.GetFileSystem()
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := fs.Open(path)
		if err == nil {
			defer f.Close()
			if stat, err := f.Stat(); err == nil && !stat.IsDir() {
				contentType := "application/octet-stream"
				switch {
				case strings.HasSuffix(path, ".html"):
					contentType = "text/html; charset=utf-8"
				case strings.HasSuffix(path, ".css"):
					contentType = "text/css; charset=utf-8"
				case strings.HasSuffix(path, ".js"):
					contentType = "application/javascript; charset=utf-8"
				case strings.HasSuffix(path, ".svg"):
					contentType = "image/svg+xml"
				case strings.HasSuffix(path, ".png"):
					contentType = "image/png"
				case strings.HasSuffix(path, ".ico"):
					contentType = "image/x-icon"
				}
				w.Header().Set("Content-Type", contentType)
				w.WriteHeader(http.StatusOK)
				io.Copy(w, f)
				return
			}
		}
	}

	// Fallback: placeholder page when no frontend is embedded.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Face Attendance</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        a { color: #00d9ff; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Face Attendance</h1>
        <p>Frontend pages are not embedded in this build.</p>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
