// Package agent wires the monitor and decision engine onto the scheduler.
package agent

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"polymarket-agent/internal/logging"
	"polymarket-agent/internal/models"
	"polymarket-agent/internal/monitor"
	"polymarket-agent/internal/notify"
	"polymarket-agent/internal/scheduler"
	"polymarket-agent/internal/store"
	"polymarket-agent/internal/trader"
)

// Job names as they appear in the registry and the journal.
const (
	JobExpirationScan = "expiration_scan"
	JobOneBestTrade   = "one_best_trade"
)

// Agent owns the recurring jobs: the hourly expiration scan and the weekly
// one-best-trade cycle.
type Agent struct {
	monitor   *monitor.Monitor
	engine    *trader.Engine
	scheduler *scheduler.Scheduler
	reporter  *notify.Reporter
	journal   store.Journal // may be nil; journaling is best-effort
	logger    zerolog.Logger
}

// New creates an Agent and registers its jobs. tradeWeekday is the day of
// the weekly trade cycle.
func New(
	mon *monitor.Monitor,
	engine *trader.Engine,
	sched *scheduler.Scheduler,
	reporter *notify.Reporter,
	journal store.Journal,
	tradeWeekday time.Weekday,
	logger zerolog.Logger,
) (*Agent, error) {
	a := &Agent{
		monitor:   mon,
		engine:    engine,
		scheduler: sched,
		reporter:  reporter,
		journal:   journal,
		logger:    logger.With().Str("component", "agent").Logger(),
	}

	if err := sched.Register(JobOneBestTrade, scheduler.WeeklyOn(tradeWeekday), a.OneBestTrade); err != nil {
		return nil, err
	}
	if err := sched.Register(JobExpirationScan, scheduler.Hourly(), a.CheckAndReportExpiringMarkets); err != nil {
		return nil, err
	}

	return a, nil
}

// Run starts the scheduler loop and blocks until the context is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	for _, job := range a.scheduler.Jobs() {
		a.logger.Info().
			Str("job", job.Name).
			Str("cadence", job.Cadence).
			Time("next_run", job.NextRun).
			Msg("Scheduled")
	}
	return a.scheduler.Start(ctx)
}

// CheckAndReportExpiringMarkets runs one expiration scan and renders the
// report. A snapshot fetch failure ends the cycle with an empty result; the
// error is returned for the scheduler to log, never retried here.
func (a *Agent) CheckAndReportExpiringMarkets(ctx context.Context) error {
	start := time.Now()

	report, err := a.monitor.Scan(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Expiration scan aborted: market fetch failed")
		a.journalCycle(ctx, JobExpirationScan, models.CycleFailed, err.Error(), "")
		return err
	}

	a.reporter.ExpirationReport(report)

	detail := "nothing expiring"
	if !report.Empty() {
		detail = pluralMarkets(len(report.Items))
	}
	a.journalCycle(ctx, JobExpirationScan, models.CycleReported, detail, "")
	logging.LogCycle(a.logger, JobExpirationScan, string(models.CycleReported), detail, time.Since(start))
	return nil
}

// OneBestTrade runs one decision cycle. A failed execution ends the cycle;
// the next scheduled run is the only retry path.
func (a *Agent) OneBestTrade(ctx context.Context) error {
	start := time.Now()

	result, err := a.engine.OneBestTrade(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("Trade cycle aborted: market fetch failed")
		a.journalCycle(ctx, JobOneBestTrade, models.CycleFailed, err.Error(), "")
		return err
	}

	a.reporter.TradeCycle(result)

	marketID := ""
	if result.Trade != nil {
		marketID = result.Trade.MarketID
	}
	a.journalCycle(ctx, JobOneBestTrade, result.Outcome, result.Detail, marketID)
	logging.LogCycle(a.logger, JobOneBestTrade, string(result.Outcome), result.Detail, time.Since(start))
	return nil
}

// journalCycle appends a journal row. Journal failures are logged and
// swallowed so persistence problems never fail a cycle.
func (a *Agent) journalCycle(ctx context.Context, job string, outcome models.CycleOutcome, detail, marketID string) {
	if a.journal == nil {
		return
	}
	record := &models.CycleRecord{
		Job:       job,
		Outcome:   outcome,
		Detail:    detail,
		MarketID:  marketID,
		Timestamp: time.Now().UTC(),
	}
	if err := a.journal.AppendCycle(ctx, record); err != nil {
		a.logger.Warn().Err(err).Str("job", job).Msg("Failed to journal cycle")
	}
}

func pluralMarkets(n int) string {
	if n == 1 {
		return "1 market expiring"
	}
	return strconv.Itoa(n) + " markets expiring"
}
