package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	agerrors "polymarket-agent/internal/errors"
	"polymarket-agent/internal/models"
)

const (
	// DefaultGammaBaseURL is the Polymarket Gamma API root.
	DefaultGammaBaseURL = "https://gamma-api.polymarket.com"

	// defaultPageSize is how many markets one page request asks for.
	defaultPageSize = 500
)

// GammaConfig configures the Gamma market data client.
type GammaConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MinVolume   float64 // 24h volume floor for tradeability
	MaxSpread   float64 // spread ceiling for tradeability
	MaxPages    int     // pagination cap per snapshot fetch
}

// DefaultGammaConfig returns sensible defaults for the Gamma client.
func DefaultGammaConfig() GammaConfig {
	return GammaConfig{
		BaseURL:   DefaultGammaBaseURL,
		Timeout:   30 * time.Second,
		MinVolume: 10000,
		MaxSpread: 0.10,
		MaxPages:  4,
	}
}

// GammaClient is the REST client for the Polymarket Gamma API. It implements
// the MarketData gateway.
type GammaClient struct {
	cfg        GammaConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGammaClient creates a new Gamma API client.
func NewGammaClient(cfg GammaConfig, logger zerolog.Logger) *GammaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGammaBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 4
	}
	return &GammaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("gateway", "gamma").Logger(),
	}
}

// GetAllMarkets returns the current snapshot of active, open markets.
func (g *GammaClient) GetAllMarkets(ctx context.Context) ([]models.Market, error) {
	var all []models.Market

	for page := 0; page < g.cfg.MaxPages; page++ {
		params := url.Values{}
		params.Set("active", "true")
		params.Set("closed", "false")
		params.Set("limit", strconv.Itoa(defaultPageSize))
		params.Set("offset", strconv.Itoa(page*defaultPageSize))

		markets, err := g.fetchMarkets(ctx, "/markets?"+params.Encode())
		if err != nil {
			return nil, agerrors.NewDataError("gamma", "get all markets", err)
		}

		all = append(all, markets...)
		if len(markets) < defaultPageSize {
			break
		}
	}

	g.logger.Debug().Int("count", len(all)).Msg("Fetched market snapshot")
	return all, nil
}

// FilterMarketsForTrading applies the volume and spread tradeability
// criteria to a snapshot.
func (g *GammaClient) FilterMarketsForTrading(ctx context.Context, markets []models.Market) ([]models.Market, error) {
	tradeable := make([]models.Market, 0, len(markets))
	for _, m := range markets {
		if !m.Active || m.Closed {
			continue
		}
		if m.Volume24h < g.cfg.MinVolume {
			continue
		}
		if m.Spread > g.cfg.MaxSpread {
			continue
		}
		if m.PrimaryPrice() <= 0 {
			continue
		}
		tradeable = append(tradeable, m)
	}

	g.logger.Debug().
		Int("in", len(markets)).
		Int("tradeable", len(tradeable)).
		Msg("Applied tradeability filter")
	return tradeable, nil
}

func (g *GammaClient) fetchMarkets(ctx context.Context, path string) ([]models.Market, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	g.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Gamma request")

	if resp.StatusCode != http.StatusOK {
		return nil, agerrors.NewGatewayError("gamma", resp.StatusCode, "unexpected status")
	}

	var markets []models.Market
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return markets, nil
}
