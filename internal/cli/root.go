// Package cli provides the command-line interface for the agent.
package cli

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"polymarket-agent/internal/config"
	"polymarket-agent/internal/gateway"
	"polymarket-agent/internal/logging"
	"polymarket-agent/internal/monitor"
	"polymarket-agent/internal/notify"
	"polymarket-agent/internal/store"
	"polymarket-agent/internal/trader"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	MarketData gateway.MarketData
	News       gateway.News
	Forecaster gateway.Forecaster
	Executor   gateway.Executor
	Journal    store.Journal
	Reporter   *notify.Reporter
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Reporter: notify.NewReporter(nil),
	}

	app.MarketData = gateway.NewGammaClient(gateway.GammaConfig{
		BaseURL:   cfg.Gateways.Gamma.BaseURL,
		Timeout:   time.Duration(cfg.Gateways.Gamma.TimeoutSeconds) * time.Second,
		MinVolume: cfg.Gateways.Gamma.MinVolume,
		MaxSpread: cfg.Gateways.Gamma.MaxSpread,
	}, logger)

	if cfg.Credentials.NewsAPIKey != "" {
		app.News = gateway.NewNewsClient(gateway.NewsConfig{
			BaseURL:  cfg.Gateways.News.BaseURL,
			APIKey:   cfg.Credentials.NewsAPIKey,
			Timeout:  time.Duration(cfg.Gateways.News.TimeoutSeconds) * time.Second,
			PageSize: cfg.Gateways.News.PageSize,
		}, logger)
		logger.Debug().Msg("NewsAPI client initialized")
	} else {
		logger.Warn().Msg("NEWSAPI_API_KEY not set, reports will carry no articles")
	}

	if cfg.Credentials.OpenAIAPIKey != "" {
		app.Forecaster = gateway.NewSuperforecaster(gateway.ForecastConfig{
			APIKey:  cfg.Credentials.OpenAIAPIKey,
			Model:   cfg.Gateways.LLM.Model,
			Timeout: time.Duration(cfg.Gateways.LLM.TimeoutSeconds) * time.Second,
		}, logger)
		logger.Debug().Str("model", cfg.Gateways.LLM.Model).Msg("Forecaster initialized")
	}

	if cfg.IsPaperMode() {
		app.Executor = gateway.NewPaperExecutor(logger)
		logger.Debug().Msg("Paper executor initialized")
	} else {
		app.Executor = gateway.NewClobExecutor(gateway.ExecutorConfig{
			BaseURL:    cfg.Gateways.Clob.BaseURL,
			PrivateKey: cfg.Credentials.WalletPrivateKey,
			Timeout:    time.Duration(cfg.Gateways.Clob.TimeoutSeconds) * time.Second,
		}, logger)
		logger.Debug().Msg("CLOB executor initialized")
	}

	dbPath := filepath.Join(config.DefaultConfigDir(), "agent.db")
	journal, err := store.NewSQLiteJournal(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open cycle journal, history will be unavailable")
	} else {
		app.Journal = journal
	}

	rootCmd := &cobra.Command{
		Use:   "agent",
		Short: "Polymarket agent - autonomous prediction market monitoring and trading",
		Long: `Polymarket agent monitors prediction markets approaching expiration and
autonomously selects at most one trade per scheduled cycle.

The 'run' command starts the scheduler (hourly expiration scan, weekly trade
cycle); 'scan' and 'trade' execute a single cycle immediately.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newMarketsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newMonitor builds the expiration monitor from app dependencies.
func (app *App) newMonitor() *monitor.Monitor {
	return monitor.New(app.MarketData, app.News, app.Logger,
		monitor.WithThreshold(app.Config.Monitor.ThresholdDays))
}

// newEngine builds the decision engine from app dependencies.
func (app *App) newEngine() *trader.Engine {
	return trader.New(app.MarketData, app.Forecaster, app.Executor, app.Logger,
		trader.WithMinEdge(app.Config.Trading.MinEdge),
		trader.WithMaxSize(app.Config.Trading.MaxPositionFraction))
}

// newDryRunEngine builds an engine that selects normally but routes
// execution to the paper executor.
func (app *App) newDryRunEngine() *trader.Engine {
	return trader.New(app.MarketData, app.Forecaster, gateway.NewPaperExecutor(app.Logger), app.Logger,
		trader.WithMinEdge(app.Config.Trading.MinEdge),
		trader.WithMaxSize(app.Config.Trading.MaxPositionFraction))
}
