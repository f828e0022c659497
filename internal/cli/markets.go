package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMarketsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markets",
		Short: "List tradeable markets",
		Long:  `Fetch the current market snapshot and list markets passing the tradeability filter.`,
		Example: `  agent markets
  agent markets --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			markets, err := app.MarketData.GetAllMarkets(cmd.Context())
			if err != nil {
				return err
			}
			tradeable, err := app.MarketData.FilterMarketsForTrading(cmd.Context(), markets)
			if err != nil {
				return err
			}

			if len(tradeable) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tradeable markets.")
				return nil
			}
			if limit > 0 && len(tradeable) > limit {
				tradeable = tradeable[:limit]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQUESTION\tPRICE\tVOLUME24H\tENDS")
			for _, m := range tradeable {
				fmt.Fprintf(w, "%s\t%s\t%.3f\t%.0f\t%s\n",
					m.ID, truncateQuestion(m.Question, 60), m.PrimaryPrice(), m.Volume24h, m.EndDate)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum markets to list")
	return cmd
}

func truncateQuestion(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
