package trader

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymarket-agent/internal/gateway"
	"polymarket-agent/internal/models"
)

type fakeMarketData struct {
	markets   []models.Market
	fetchErr  error
	filterErr error
}

func (f *fakeMarketData) GetAllMarkets(ctx context.Context) ([]models.Market, error) {
	return f.markets, f.fetchErr
}

func (f *fakeMarketData) FilterMarketsForTrading(ctx context.Context, markets []models.Market) ([]models.Market, error) {
	if f.filterErr != nil {
		return nil, f.filterErr
	}
	return markets, nil
}

// fakeForecaster answers by question, erroring for unknown ones.
type fakeForecaster struct {
	forecasts map[string]models.Forecast
}

func (f *fakeForecaster) GetForecast(ctx context.Context, eventTitle, question, outcome string) (*models.Forecast, error) {
	fc, ok := f.forecasts[question]
	if !ok {
		return nil, errors.New("no forecast available")
	}
	return &fc, nil
}

// fakeExecutor records every submission.
type fakeExecutor struct {
	calls  []*models.TradeRecommendation
	err    error
	result *gateway.ExecutionResult
}

func (f *fakeExecutor) Execute(ctx context.Context, trade *models.TradeRecommendation) (*gateway.ExecutionResult, error) {
	f.calls = append(f.calls, trade)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &gateway.ExecutionResult{Status: gateway.StatusExecuted, OrderID: "order-1"}, nil
}

func tradeableMarket(id, question, price string) models.Market {
	return models.Market{
		ID:               id,
		Question:         question,
		Active:           true,
		RawOutcomes:      `["Yes", "No"]`,
		RawOutcomePrices: `["` + price + `", "0.4"]`,
	}
}

func newTestEngine(md *fakeMarketData, fc *fakeForecaster, ex *fakeExecutor, opts ...Option) *Engine {
	return New(md, fc, ex, zerolog.Nop(), opts...)
}

func TestOneBestTrade_SelectsHighestEdge(t *testing.T) {
	// Edge 0.08 vs 0.03 with min edge 0.05: only the first qualifies.
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
		tradeableMarket("m2", "Will B happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will A happen?": {Probability: 0.58, Confidence: 0.9}, // edge 0.08
		"Will B happen?": {Probability: 0.53, Confidence: 0.9}, // edge 0.03
	}}
	ex := &fakeExecutor{}

	result, err := newTestEngine(md, fc, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleExecuted, result.Outcome)
	require.NotNil(t, result.Trade)
	assert.Equal(t, "m1", result.Trade.MarketID)
	assert.InDelta(t, 0.08, result.Trade.Edge, 1e-9)
	require.Len(t, ex.calls, 1, "exactly one submission per cycle")
}

func TestOneBestTrade_ExecutionFailureEndsCycle(t *testing.T) {
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will A happen?": {Probability: 0.60, Confidence: 0.8},
	}}
	ex := &fakeExecutor{err: errors.New("order book closed")}

	result, err := newTestEngine(md, fc, ex).OneBestTrade(context.Background())
	require.NoError(t, err, "a failed submission is a cycle outcome, not an engine error")

	assert.Equal(t, models.CycleFailed, result.Outcome)
	assert.Len(t, ex.calls, 1, "no retry after a failed submission")
}

func TestOneBestTrade_RejectedStatusIsFailure(t *testing.T) {
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will A happen?": {Probability: 0.60, Confidence: 0.8},
	}}
	ex := &fakeExecutor{result: &gateway.ExecutionResult{Status: gateway.StatusFailed, Detail: "rejected"}}

	result, err := newTestEngine(md, fc, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleFailed, result.Outcome)
	assert.Len(t, ex.calls, 1)
}

func TestOneBestTrade_NoTradeableMarkets(t *testing.T) {
	md := &fakeMarketData{}
	ex := &fakeExecutor{}

	result, err := newTestEngine(md, &fakeForecaster{}, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleNoAction, result.Outcome)
	assert.Equal(t, "no tradeable markets", result.Detail)
	assert.Nil(t, result.Trade)
	assert.Empty(t, ex.calls)
}

func TestOneBestTrade_EdgeBelowThresholdNoAction(t *testing.T) {
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will A happen?": {Probability: 0.53, Confidence: 0.9}, // edge 0.03
	}}
	ex := &fakeExecutor{}

	result, err := newTestEngine(md, fc, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleNoAction, result.Outcome)
	assert.Empty(t, ex.calls)
}

func TestOneBestTrade_ForecastFailureSkipsCandidate(t *testing.T) {
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"), // no forecast: skipped
		tradeableMarket("m2", "Will B happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will B happen?": {Probability: 0.60, Confidence: 0.7},
	}}
	ex := &fakeExecutor{}

	result, err := newTestEngine(md, fc, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleExecuted, result.Outcome)
	assert.Equal(t, "m2", result.Trade.MarketID)
}

func TestOneBestTrade_AllForecastsFailNoAction(t *testing.T) {
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
	}}
	ex := &fakeExecutor{}

	result, err := newTestEngine(md, &fakeForecaster{}, ex).OneBestTrade(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CycleNoAction, result.Outcome)
	assert.Empty(t, ex.calls)
}

func TestOneBestTrade_FetchErrorPropagates(t *testing.T) {
	md := &fakeMarketData{fetchErr: errors.New("gamma unreachable")}

	_, err := newTestEngine(md, &fakeForecaster{}, &fakeExecutor{}).OneBestTrade(context.Background())
	assert.Error(t, err)
}

func TestOneBestTrade_Sides(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		price       string
		side        models.Side
	}{
		{"forecast above price buys", 0.70, "0.50", models.Buy},
		{"forecast below price sells", 0.30, "0.50", models.Sell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := &fakeMarketData{markets: []models.Market{
				tradeableMarket("m1", "Will A happen?", tt.price),
			}}
			fc := &fakeForecaster{forecasts: map[string]models.Forecast{
				"Will A happen?": {Probability: tt.probability, Confidence: 0.9},
			}}

			result, err := newTestEngine(md, fc, &fakeExecutor{}).OneBestTrade(context.Background())
			require.NoError(t, err)
			require.NotNil(t, result.Trade)
			assert.Equal(t, tt.side, result.Trade.Side)
		})
	}
}

func TestOneBestTrade_SizeCapped(t *testing.T) {
	// Edge 0.45 at full confidence would size 0.45 uncapped.
	md := &fakeMarketData{markets: []models.Market{
		tradeableMarket("m1", "Will A happen?", "0.50"),
	}}
	fc := &fakeForecaster{forecasts: map[string]models.Forecast{
		"Will A happen?": {Probability: 0.95, Confidence: 1.0},
	}}

	result, err := newTestEngine(md, fc, &fakeExecutor{}).OneBestTrade(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Trade)
	assert.Equal(t, DefaultMaxSize, result.Trade.Size)
}

func TestBetter_TieBreaks(t *testing.T) {
	base := func() *candidate {
		return &candidate{
			market:   models.Market{Volume24h: 1000},
			forecast: &models.Forecast{Confidence: 0.5},
			edge:     0.10,
		}
	}

	higherEdge := base()
	higherEdge.edge = 0.12
	assert.True(t, better(higherEdge, base()))

	higherConfidence := base()
	higherConfidence.forecast = &models.Forecast{Confidence: 0.8}
	assert.True(t, better(higherConfidence, base()))

	higherVolume := base()
	higherVolume.market.Volume24h = 5000
	assert.True(t, better(higherVolume, base()))

	assert.False(t, better(base(), base()))
}

func TestProperty_SizeNeverExceedsCap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	engine := newTestEngine(&fakeMarketData{}, &fakeForecaster{}, &fakeExecutor{})

	properties.Property("size stays within (0, maxSize]", prop.ForAll(
		func(probability, price, confidence float64) bool {
			c := &candidate{
				market:   models.Market{ID: "m", Question: "q"},
				forecast: &models.Forecast{Probability: probability, Confidence: confidence},
				price:    price,
				edge:     abs(probability - price),
			}
			trade := engine.buildRecommendation(c)
			return trade.Size <= engine.maxSize && trade.Size >= 0
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0.01, 0.99),
		gen.Float64Range(0, 1),
	))

	properties.Property("side follows forecast-price sign", prop.ForAll(
		func(probability, price float64) bool {
			c := &candidate{
				market:   models.Market{ID: "m", Question: "q"},
				forecast: &models.Forecast{Probability: probability, Confidence: 0.5},
				price:    price,
				edge:     abs(probability - price),
			}
			trade := engine.buildRecommendation(c)
			if probability > price {
				return trade.Side == models.Buy
			}
			return trade.Side == models.Sell
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0.01, 0.99),
	))

	properties.TestingRun(t)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
