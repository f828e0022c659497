package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	agerrors "polymarket-agent/internal/errors"
	"polymarket-agent/internal/models"
)

// ExecutorConfig configures the live order executor.
type ExecutorConfig struct {
	BaseURL    string
	PrivateKey string // POLYGON_WALLET_PRIVATE_KEY, consumed by the order endpoint auth
	Timeout    time.Duration
}

// ClobExecutor submits orders to a CLOB order endpoint. It implements the
// Executor gateway.
type ClobExecutor struct {
	cfg        ExecutorConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClobExecutor creates a new live order executor.
func NewClobExecutor(cfg ExecutorConfig, logger zerolog.Logger) *ClobExecutor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &ClobExecutor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("gateway", "clob").Logger(),
	}
}

// orderRequest is the wire shape of an order submission.
type orderRequest struct {
	MarketID string  `json:"market_id"`
	Side     string  `json:"side"`
	Outcome  string  `json:"outcome"`
	Size     float64 `json:"size"`
	Price    float64 `json:"price"`
}

// orderResponse is the wire shape of an order submission result.
type orderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Detail  string `json:"detail"`
}

// Execute submits the trade once. There is no retry here: a failed
// submission is reported back and the next scheduled cycle is the only
// retry path.
func (e *ClobExecutor) Execute(ctx context.Context, trade *models.TradeRecommendation) (*ExecutionResult, error) {
	if e.cfg.BaseURL == "" || e.cfg.PrivateKey == "" {
		return nil, agerrors.ErrNotConfigured
	}

	payload, err := json.Marshal(orderRequest{
		MarketID: trade.MarketID,
		Side:     string(trade.Side),
		Outcome:  trade.Outcome,
		Size:     trade.Size,
		Price:    trade.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/order", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, agerrors.NewExecutionError(trade.MarketID, string(trade.Side), "submission failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, agerrors.NewExecutionError(trade.MarketID, string(trade.Side),
			fmt.Sprintf("order endpoint returned %d", resp.StatusCode), nil)
	}

	var decoded orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}

	result := &ExecutionResult{
		OrderID: decoded.OrderID,
		Detail:  decoded.Detail,
	}
	if decoded.Status == "executed" || decoded.Status == "matched" {
		result.Status = StatusExecuted
	} else {
		result.Status = StatusFailed
		if result.Detail == "" {
			result.Detail = "order status " + decoded.Status
		}
	}

	e.logger.Info().
		Str("market_id", trade.MarketID).
		Str("order_id", decoded.OrderID).
		Str("status", string(result.Status)).
		Msg("Order submitted")
	return result, nil
}

// PaperExecutor accepts every order without touching a live endpoint. It is
// the executor used in paper trading mode.
type PaperExecutor struct {
	logger zerolog.Logger
}

// NewPaperExecutor creates a paper trading executor.
func NewPaperExecutor(logger zerolog.Logger) *PaperExecutor {
	return &PaperExecutor{
		logger: logger.With().Str("gateway", "paper").Logger(),
	}
}

// Execute records the trade and reports success.
func (e *PaperExecutor) Execute(ctx context.Context, trade *models.TradeRecommendation) (*ExecutionResult, error) {
	e.logger.Info().
		Str("market_id", trade.MarketID).
		Str("side", string(trade.Side)).
		Str("outcome", trade.Outcome).
		Float64("size", trade.Size).
		Msg("Paper trade accepted")

	return &ExecutionResult{
		Status:  StatusExecuted,
		OrderID: fmt.Sprintf("PAPER-%d", time.Now().UnixNano()),
		Detail:  "paper trade, no order submitted",
	}, nil
}
