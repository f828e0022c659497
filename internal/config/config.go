// Package config provides configuration management for the agent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading     TradingConfig   `mapstructure:"trading"`
	Monitor     MonitorConfig   `mapstructure:"monitor"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Gateways    GatewayConfig   `mapstructure:"gateways"`
	Credentials Credentials     `mapstructure:"-"` // Loaded separately
}

// TradingConfig holds decision-cycle configuration.
type TradingConfig struct {
	Mode                string  `mapstructure:"mode"`     // "live", "paper"
	MinEdge             float64 `mapstructure:"min_edge"` // minimum forecast-vs-price divergence
	MaxPositionFraction float64 `mapstructure:"max_position_fraction"`
}

// MonitorConfig holds expiration-scan configuration.
type MonitorConfig struct {
	ThresholdDays int `mapstructure:"threshold_days"`
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	TradeWeekday string `mapstructure:"trade_weekday"` // weekday of the weekly trade cycle
}

// GatewayConfig holds external service endpoints and limits.
type GatewayConfig struct {
	Gamma GammaGatewayConfig `mapstructure:"gamma"`
	News  NewsGatewayConfig  `mapstructure:"news"`
	LLM   LLMGatewayConfig   `mapstructure:"llm"`
	Clob  ClobGatewayConfig  `mapstructure:"clob"`
}

// GammaGatewayConfig configures the Polymarket Gamma client.
type GammaGatewayConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MinVolume      float64 `mapstructure:"min_volume"`
	MaxSpread      float64 `mapstructure:"max_spread"`
}

// NewsGatewayConfig configures the NewsAPI client.
type NewsGatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	PageSize       int    `mapstructure:"page_size"`
}

// LLMGatewayConfig configures the forecast model.
type LLMGatewayConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ClobGatewayConfig configures the order execution endpoint.
type ClobGatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	NewsAPIKey       string `mapstructure:"newsapi_api_key"`
	WalletPrivateKey string `mapstructure:"polygon_wallet_private_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/polymarket-agent"
	}
	return filepath.Join(home, ".config", "polymarket-agent")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			// Template written; fall through with defaults.
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trading.mode", "paper")
	v.SetDefault("trading.min_edge", 0.05)
	v.SetDefault("trading.max_position_fraction", 0.10)
	v.SetDefault("monitor.threshold_days", 35)
	v.SetDefault("scheduler.trade_weekday", "Monday")
	v.SetDefault("gateways.gamma.base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("gateways.gamma.timeout_seconds", 30)
	v.SetDefault("gateways.gamma.min_volume", 10000.0)
	v.SetDefault("gateways.gamma.max_spread", 0.10)
	v.SetDefault("gateways.news.base_url", "https://newsapi.org/v2")
	v.SetDefault("gateways.news.timeout_seconds", 15)
	v.SetDefault("gateways.news.page_size", 10)
	v.SetDefault("gateways.llm.model", "gpt-4o-mini")
	v.SetDefault("gateways.llm.timeout_seconds", 60)
	v.SetDefault("gateways.clob.timeout_seconds", 30)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAIAPIKey = v
	}
	if v := os.Getenv("NEWSAPI_API_KEY"); v != "" {
		cfg.Credentials.NewsAPIKey = v
	}
	if v := os.Getenv("POLYGON_WALLET_PRIVATE_KEY"); v != "" {
		cfg.Credentials.WalletPrivateKey = v
	}
	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Trading.Mode = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.Mode != "" && c.Trading.Mode != "live" && c.Trading.Mode != "paper" {
		return fmt.Errorf("invalid trading mode: %s (must be 'live' or 'paper')", c.Trading.Mode)
	}
	if c.Trading.MinEdge < 0 || c.Trading.MinEdge > 1 {
		return fmt.Errorf("min_edge must be between 0 and 1")
	}
	if c.Trading.MaxPositionFraction <= 0 || c.Trading.MaxPositionFraction > 0.15 {
		return fmt.Errorf("max_position_fraction must be in (0, 0.15]")
	}
	if c.Monitor.ThresholdDays <= 0 {
		return fmt.Errorf("threshold_days must be positive")
	}
	if _, err := ParseWeekday(c.Scheduler.TradeWeekday); err != nil {
		return err
	}
	return nil
}

// IsPaperMode returns true if paper trading mode is enabled.
func (c *Config) IsPaperMode() bool {
	return c.Trading.Mode != "live"
}
