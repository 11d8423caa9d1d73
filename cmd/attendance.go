package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show recent attendance events",
	Long:  `Show the most recent attendance events, newest first.`,
	RunE:  runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().Int("limit", 50, "Maximum number of events to show")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	limit := mustGetInt(cmd, "limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

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

	entries, err := st.Recent(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("listing attendance: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tNAME\tSTATUS")
	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = entry.IdentityID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Timestamp.In(loc).Format("2006-01-02 15:04:05"), name, entry.Status)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(entries))
	return nil
}
