package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"polymarket-agent/internal/agent"
	"polymarket-agent/internal/config"
	"polymarket-agent/internal/scheduler"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the scheduler loop",
		Long: `Start the scheduler: hourly expiration scans and a weekly trade cycle.

Jobs run strictly sequentially; a failure inside a job ends that cycle and
the loop continues to the next tick. Stop with Ctrl-C; a running job always
finishes before the process exits.`,
		Example: `  agent run
  agent run --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Forecaster == nil {
				return fmt.Errorf("OPENAI_API_KEY not configured; the trade cycle needs a forecaster")
			}

			weekday, err := config.ParseWeekday(app.Config.Scheduler.TradeWeekday)
			if err != nil {
				return err
			}

			sched := scheduler.New(app.Logger)
			ag, err := agent.New(
				app.newMonitor(),
				app.newEngine(),
				sched,
				app.Reporter,
				app.Journal,
				weekday,
				app.Logger,
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Logger.Info().
				Str("mode", app.Config.Trading.Mode).
				Str("trade_weekday", app.Config.Scheduler.TradeWeekday).
				Msg("Agent starting")

			if err := ag.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	return cmd
}
