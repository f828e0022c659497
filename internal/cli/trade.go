package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"polymarket-agent/internal/models"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Run one trade decision cycle immediately",
		Long: `Fetch tradeable markets, score each with the forecaster, and submit at
most one trade. A failed submission ends the cycle without retry.`,
		Example: `  agent trade
  agent trade --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Forecaster == nil {
				return fmt.Errorf("OPENAI_API_KEY not configured; the trade cycle needs a forecaster")
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			engine := app.newEngine()
			if dryRun {
				engine = app.newDryRunEngine()
			}

			result, err := engine.OneBestTrade(cmd.Context())
			if err != nil {
				return err
			}

			app.Reporter.TradeCycle(result)
			if result.Outcome == models.CycleFailed {
				return fmt.Errorf("trade cycle failed: %s", result.Detail)
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Select a trade but route it to the paper executor")
	return cmd
}
