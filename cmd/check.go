package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/match"
	"github.com/kozaktomas/face-attendance/internal/recognize"
)

var checkCmd = &cobra.Command{
	Use:   "check <image>",
	Short: "Run an attendance check against a face image",
	Long: `Run an attendance check against a single face image.

The face embedding is matched against all registered identities. On a
match above the similarity threshold the identity toggles between
checked-in and checked-out; the first check of a calendar day is always
a check-in.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
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
	ctx := context.Background()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	embedding, err := recognizer.Extract(ctx, data)
	if err != nil {
		return fmt.Errorf("extracting embedding: %w", err)
	}
	if embedding == nil {
		return errors.New("no face detected")
	}

	m, err := matcher.FindBestMatch(ctx, embedding, cfg.Recognition.Threshold)
	if err != nil {
		return fmt.Errorf("matching face: %w", err)
	}
	if m == nil {
		return errors.New("face not recognized")
	}

	identity, err := st.Get(ctx, m.IdentityID)
	if err != nil {
		return fmt.Errorf("loading identity: %w", err)
	}
	name := m.IdentityID
	if identity != nil {
		name = identity.Name
	}

	event, err := engine.Toggle(ctx, m.IdentityID, time.Now())
	if err != nil {
		return fmt.Errorf("recording attendance: %w", err)
	}

	fmt.Printf("%s %s (similarity %.4f)\n", name, event.Status, m.Similarity)
	return nil
}
