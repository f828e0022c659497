// Package gateway provides the external service interfaces the agent
// consumes and their production implementations.
package gateway

import (
	"context"

	"polymarket-agent/internal/models"
)

// MarketData supplies market snapshots and a tradeability filter.
type MarketData interface {
	// GetAllMarkets returns the current market snapshot.
	GetAllMarkets(ctx context.Context) ([]models.Market, error)
	// FilterMarketsForTrading reduces a snapshot to markets worth trading.
	// Volume and spread criteria live here, not in the decision engine.
	FilterMarketsForTrading(ctx context.Context, markets []models.Market) ([]models.Market, error)
}

// News supplies articles relevant to a keyword phrase.
type News interface {
	// GetArticles returns articles matching the keywords. An empty slice
	// means no matches; failures are returned as errors.
	GetArticles(ctx context.Context, keywords string) ([]models.Article, error)
}

// Forecaster returns a probability estimate for a market outcome.
type Forecaster interface {
	GetForecast(ctx context.Context, eventTitle, question, outcome string) (*models.Forecast, error)
}

// ExecutionResult reports the outcome of an order submission.
type ExecutionResult struct {
	Status  ExecutionStatus
	OrderID string
	Detail  string
}

// ExecutionStatus is the terminal status of an order submission.
type ExecutionStatus string

const (
	StatusExecuted ExecutionStatus = "executed"
	StatusFailed   ExecutionStatus = "failed"
)

// Executor submits a trade order and reports success or failure.
type Executor interface {
	Execute(ctx context.Context, trade *models.TradeRecommendation) (*ExecutionResult, error)
}
