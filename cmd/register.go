package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/recognize"
	"github.com/kozaktomas/face-attendance/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register <image> [image...]",
	Short: "Register an identity from face images",
	Long: `Register an identity from one or more face images.

Each image is sent to the face model service for embedding extraction.
Images without a detectable face are skipped. The stored embedding is
the unit-normalized mean over the per-image embeddings, which makes the
registration robust to a single bad frame.

Examples:
  # Register with a generated identity ID
  face-attendance register --name "Jane Doe" jane1.jpg jane2.jpg

  # Re-register an existing identity (replaces the stored embedding)
  face-attendance register --id emp-042 --name "Jane Doe" jane.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("id", "", "Identity ID (generated when omitted)")
	registerCmd.Flags().String("name", "", "Display name (required)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	if name == "" {
		return errors.New("--name is required")
	}

	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	extractor := recognize.NewClient(cfg.Embedding.URL, cfg.Embedding.Model)
	recognizer := recognize.NewRecognizer(extractor, cfg.Recognition.MaxImageSize)
	ctx := context.Background()

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Extracting embeddings"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("images"),
	)

	var frames [][]byte
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		frames = append(frames, data)
		_ = bar.Add(1)
	}
	fmt.Println()

	embedding, err := recognizer.Aggregate(ctx, frames)
	if err != nil {
		return fmt.Errorf("extracting embeddings: %w", err)
	}
	if embedding == nil {
		return errors.New("no face detected in any provided image")
	}

	identityID := mustGetString(cmd, "id")
	if identityID == "" {
		identityID = uuid.NewString()
	}

	if err := st.Upsert(ctx, store.Identity{
		ID:        identityID,
		Name:      name,
		Embedding: embedding,
	}); err != nil {
		return fmt.Errorf("storing identity: %w", err)
	}

	fmt.Printf("Registered %s (%s) from %d images\n", name, identityID, len(frames))
	return nil
}
