package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/match"
	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance web server",
	Long: `Start the Face Attendance web server.
The server exposes the registration and check-in API together with
embedded browser pages for kiosk-style usage.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	fmt.Printf("Opening %s attendance store...\n", cfg.Database.Driver)
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	loc, err := cfg.Attendance.Location()
	if err != nil {
		return fmt.Errorf("resolving attendance time zone: %w", err)
	}

	extractor := recognize.NewClient(cfg.Embedding.URL, cfg.Embedding.Model)
	recognizer := recognize.NewRecognizer(extractor, cfg.Recognition.MaxImageSize)
	matcher := match.NewMatcher(st, cfg.Embedding.Dim)
	engine := attendance.NewEngine(st, loc)

	if cfg.Match.UseIndex {
		fmt.Println("Building in-memory HNSW index for face matching...")
		if err := matcher.EnableIndex(context.Background()); err != nil {
			fmt.Printf("Warning: failed to build HNSW index: %v\n", err)
			fmt.Println("Face matching will use linear scans")
		} else {
			fmt.Printf("HNSW index built with %d identities\n", matcher.IndexCount())
		}
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, web.Services{
		Recognizer: recognizer,
		Matcher:    matcher,
		Engine:     engine,
		Store:      st,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Attendance on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
