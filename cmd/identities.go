package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/names"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities [query]",
	Short: "List registered identities",
	Long: `List registered identities. An optional query filters by name;
matching ignores case and diacritics, so "rehor" finds "Řehoř".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIdentities,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
}

func runIdentities(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	identities, err := st.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("listing identities: %w", err)
	}

	var query string
	if len(args) == 1 {
		query = args[0]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREGISTERED")
	count := 0
	for _, identity := range identities {
		if query != "" && !names.Matches(identity.Name, query) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", identity.ID, identity.Name, identity.CreatedAt.Format("2006-01-02 15:04"))
		count++
	}
	w.Flush()
	fmt.Printf("\n%d identities\n", count)
	return nil
}
