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
	"polymarket-agent/pkg/utils"
)

// DefaultNewsAPIBaseURL is the NewsAPI.org v2 root.
const DefaultNewsAPIBaseURL = "https://newsapi.org/v2"

// NewsConfig configures the NewsAPI client.
type NewsConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

// DefaultNewsConfig returns defaults for the NewsAPI client. The API key
// comes from configuration or the NEWSAPI_API_KEY environment variable.
func DefaultNewsConfig(apiKey string) NewsConfig {
	return NewsConfig{
		BaseURL:  DefaultNewsAPIBaseURL,
		APIKey:   apiKey,
		Timeout:  15 * time.Second,
		PageSize: 10,
	}
}

// NewsClient fetches articles from NewsAPI.org. It implements the News
// gateway.
type NewsClient struct {
	cfg        NewsConfig
	httpClient *http.Client
	retry      utils.RetryConfig
	logger     zerolog.Logger
}

// NewNewsClient creates a new NewsAPI client.
func NewNewsClient(cfg NewsConfig, logger zerolog.Logger) *NewsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNewsAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return &NewsClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retry:      utils.DefaultRetryConfig(),
		logger:     logger.With().Str("gateway", "newsapi").Logger(),
	}
}

// newsAPIResponse is the wire shape of a NewsAPI /everything response.
type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// GetArticles returns articles matching the keyword phrase, newest first.
// News is best-effort data, so the request is retried once on failure.
func (n *NewsClient) GetArticles(ctx context.Context, keywords string) ([]models.Article, error) {
	if n.cfg.APIKey == "" {
		return nil, agerrors.ErrNotConfigured
	}

	params := url.Values{}
	params.Set("q", keywords)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(n.cfg.PageSize))
	params.Set("language", "en")

	endpoint := n.cfg.BaseURL + "/everything?" + params.Encode()

	resp, err := utils.RetryWithResult(ctx, n.retry, func() (*newsAPIResponse, error) {
		return n.doGet(ctx, endpoint)
	})
	if err != nil {
		return nil, agerrors.NewDataError("newsapi", "get articles", err)
	}

	articles := make([]models.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, models.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}

	n.logger.Debug().
		Str("keywords", keywords).
		Int("count", len(articles)).
		Msg("Fetched articles")
	return articles, nil
}

func (n *NewsClient) doGet(ctx context.Context, endpoint string) (*newsAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.cfg.APIKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, agerrors.NewGatewayError("newsapi", resp.StatusCode, "unexpected status")
	}

	var decoded newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if decoded.Status != "ok" {
		return nil, agerrors.NewGatewayError("newsapi", 0, "status "+decoded.Status)
	}

	return &decoded, nil
}
