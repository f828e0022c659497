package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"polymarket-agent/internal/monitor"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one expiration scan immediately",
		Long: `Scan all active markets and report those expiring within the threshold
window, with current odds and related news.`,
		Example: `  agent scan
  agent scan --days 14
  agent scan --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			jsonMode, _ := cmd.Flags().GetBool("json")

			threshold := app.Config.Monitor.ThresholdDays
			if days > 0 {
				threshold = days
			}

			mon := monitor.New(app.MarketData, app.News, app.Logger,
				monitor.WithThreshold(threshold))

			report, err := mon.Scan(cmd.Context())
			if err != nil {
				return err
			}

			if jsonMode {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report.Items)
			}

			app.Reporter.ExpirationReport(report)
			return nil
		},
	}

	cmd.Flags().IntP("days", "d", 0, "Override the expiration threshold in days")
	cmd.Flags().Bool("json", false, "Emit the report as JSON")
	return cmd
}
