// Package trader implements the one-best-trade decision cycle.
package trader

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	agerrors "polymarket-agent/internal/errors"
	"polymarket-agent/internal/gateway"
	"polymarket-agent/internal/logging"
	"polymarket-agent/internal/models"
)

// Defaults for the decision cycle.
const (
	// DefaultMinEdge is the minimum forecast-vs-price divergence worth
	// trading.
	DefaultMinEdge = 0.05
	// DefaultMaxSize caps position size as a fraction of the portfolio.
	DefaultMaxSize = 0.10
)

// CycleResult is the terminal outcome of one decision cycle.
type CycleResult struct {
	Outcome   models.CycleOutcome
	Trade     *models.TradeRecommendation // nil when Outcome == NO_ACTION
	Execution *gateway.ExecutionResult    // nil unless a submission happened
	Detail    string
}

// Engine selects and executes at most one trade per invocation.
type Engine struct {
	markets    gateway.MarketData
	forecaster gateway.Forecaster
	executor   gateway.Executor
	minEdge    float64
	maxSize    float64
	logger     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinEdge sets the minimum edge threshold.
func WithMinEdge(edge float64) Option {
	return func(e *Engine) {
		if edge > 0 {
			e.minEdge = edge
		}
	}
}

// WithMaxSize sets the position size cap.
func WithMaxSize(size float64) Option {
	return func(e *Engine) {
		if size > 0 && size <= 1 {
			e.maxSize = size
		}
	}
}

// New creates a decision engine.
func New(markets gateway.MarketData, forecaster gateway.Forecaster, executor gateway.Executor, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		markets:    markets,
		forecaster: forecaster,
		executor:   executor,
		minEdge:    DefaultMinEdge,
		maxSize:    DefaultMaxSize,
		logger:     logger.With().Str("component", "trader").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// candidate pairs a market with its forecast and computed edge.
type candidate struct {
	market   models.Market
	forecast *models.Forecast
	price    float64
	edge     float64
}

// OneBestTrade runs one decision cycle: fetch, filter, score, select,
// execute. It submits at most one order and never retries a failed
// submission; the next scheduled invocation is the only retry path.
func (e *Engine) OneBestTrade(ctx context.Context) (*CycleResult, error) {
	markets, err := e.markets.GetAllMarkets(ctx)
	if err != nil {
		return nil, agerrors.Wrap(err, "fetching markets")
	}

	tradeable, err := e.markets.FilterMarketsForTrading(ctx, markets)
	if err != nil {
		return nil, agerrors.Wrap(err, "filtering markets")
	}

	if len(tradeable) == 0 {
		e.logger.Info().Msg("No tradeable markets this cycle")
		return &CycleResult{
			Outcome: models.CycleNoAction,
			Detail:  "no tradeable markets",
		}, nil
	}

	best := e.selectBest(ctx, tradeable)
	if best == nil {
		return &CycleResult{
			Outcome: models.CycleNoAction,
			Detail:  "no candidate could be scored",
		}, nil
	}

	if best.edge < e.minEdge {
		e.logger.Info().
			Str("market_id", best.market.ID).
			Float64("edge", best.edge).
			Float64("min_edge", e.minEdge).
			Msg("Best edge below threshold, no action")
		return &CycleResult{
			Outcome: models.CycleNoAction,
			Detail:  "edge below threshold",
		}, nil
	}

	trade := e.buildRecommendation(best)

	result, err := e.executor.Execute(ctx, trade)
	if err != nil {
		// Hard invariant: a failed submission ends the cycle. No retry,
		// no re-entry; only the scheduler's next tick tries again.
		e.logger.Error().
			Str("market_id", trade.MarketID).
			Err(err).
			Msg("Trade execution failed")
		return &CycleResult{
			Outcome: models.CycleFailed,
			Trade:   trade,
			Detail:  err.Error(),
		}, nil
	}

	if result.Status != gateway.StatusExecuted {
		e.logger.Error().
			Str("market_id", trade.MarketID).
			Str("detail", result.Detail).
			Msg("Trade rejected")
		return &CycleResult{
			Outcome:   models.CycleFailed,
			Trade:     trade,
			Execution: result,
			Detail:    result.Detail,
		}, nil
	}

	logging.LogTrade(e.logger, trade.MarketID, string(trade.Side), trade.Outcome, trade.Size, trade.Edge)
	return &CycleResult{
		Outcome:   models.CycleExecuted,
		Trade:     trade,
		Execution: result,
		Detail:    "order " + result.OrderID,
	}, nil
}

// selectBest scores every candidate and returns the one with maximum edge.
// Ties break on higher forecast confidence, then higher 24h volume, so the
// selection is deterministic for a given snapshot.
func (e *Engine) selectBest(ctx context.Context, markets []models.Market) *candidate {
	var best *candidate

	for _, market := range markets {
		price := market.PrimaryPrice()
		if price <= 0 {
			continue
		}

		forecast, err := e.forecaster.GetForecast(ctx, "", market.Question, market.PrimaryOutcome())
		if err != nil {
			e.logger.Warn().
				Str("market_id", market.ID).
				Err(err).
				Msg("Forecast failed, skipping candidate")
			continue
		}

		c := &candidate{
			market:   market,
			forecast: forecast,
			price:    price,
			edge:     math.Abs(forecast.Probability - price),
		}
		if best == nil || better(c, best) {
			best = c
		}
	}

	return best
}

// better reports whether a beats b under the edge / confidence / volume
// ordering.
func better(a, b *candidate) bool {
	if a.edge != b.edge {
		return a.edge > b.edge
	}
	if a.forecast.Confidence != b.forecast.Confidence {
		return a.forecast.Confidence > b.forecast.Confidence
	}
	return a.market.Volume24h > b.market.Volume24h
}

// buildRecommendation turns the winning candidate into a sized trade.
// Size grows with edge and confidence but never exceeds the cap.
func (e *Engine) buildRecommendation(c *candidate) *models.TradeRecommendation {
	side := models.Sell
	if c.forecast.Probability > c.price {
		side = models.Buy
	}

	size := c.edge * c.forecast.Confidence
	if size > e.maxSize {
		size = e.maxSize
	}

	return &models.TradeRecommendation{
		MarketID:   c.market.ID,
		Question:   c.market.Question,
		Side:       side,
		Outcome:    c.market.PrimaryOutcome(),
		Size:       size,
		Confidence: c.forecast.Confidence,
		Edge:       c.edge,
		Price:      c.price,
		Rationale:  c.forecast.Rationale,
	}
}
