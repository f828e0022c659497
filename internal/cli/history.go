package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent cycle outcomes from the journal",
		Example: `  agent history
  agent history --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Journal == nil {
				return fmt.Errorf("cycle journal unavailable")
			}

			limit, _ := cmd.Flags().GetInt("limit")
			records, err := app.Journal.RecentCycles(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cycles recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tJOB\tOUTCOME\tDETAIL")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.Timestamp.Format("2006-01-02 15:04"), r.Job, r.Outcome, r.Detail)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum records to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "polymarket-agent %s\n", Version)
		},
	}
}
