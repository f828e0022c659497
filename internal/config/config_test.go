package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FirstRunCreatesTemplates(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "config.toml"))
	assert.FileExists(t, filepath.Join(dir, "credentials.toml"))

	// First run proceeds on defaults.
	assert.Equal(t, "paper", cfg.Trading.Mode)
	assert.Equal(t, 0.05, cfg.Trading.MinEdge)
	assert.Equal(t, 0.10, cfg.Trading.MaxPositionFraction)
	assert.Equal(t, 35, cfg.Monitor.ThresholdDays)
	assert.Equal(t, "Monday", cfg.Scheduler.TradeWeekday)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Gateways.Gamma.BaseURL)
	assert.Equal(t, 60, cfg.Gateways.LLM.TimeoutSeconds)
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := `
[trading]
mode = "live"
min_edge = 0.07
max_position_fraction = 0.12

[monitor]
threshold_days = 21

[scheduler]
trade_weekday = "Friday"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configFile), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "live", cfg.Trading.Mode)
	assert.Equal(t, 0.07, cfg.Trading.MinEdge)
	assert.Equal(t, 0.12, cfg.Trading.MaxPositionFraction)
	assert.Equal(t, 21, cfg.Monitor.ThresholdDays)
	assert.Equal(t, "Friday", cfg.Scheduler.TradeWeekday)
	assert.False(t, cfg.IsPaperMode())
}

func TestLoad_ReadsCredentials(t *testing.T) {
	dir := t.TempDir()
	credentialsFile := `
openai_api_key = "sk-test"
newsapi_api_key = "news-test"
polygon_wallet_private_key = "0xkey"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte(credentialsFile), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Credentials.OpenAIAPIKey)
	assert.Equal(t, "news-test", cfg.Credentials.NewsAPIKey)
	assert.Equal(t, "0xkey", cfg.Credentials.WalletPrivateKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("TRADING_MODE", "live")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.Credentials.OpenAIAPIKey)
	assert.Equal(t, "live", cfg.Trading.Mode)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	configFile := `
[trading]
mode = "yolo"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(configFile), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Trading:   TradingConfig{Mode: "paper", MinEdge: 0.05, MaxPositionFraction: 0.10},
			Monitor:   MonitorConfig{ThresholdDays: 35},
			Scheduler: SchedulerConfig{TradeWeekday: "Monday"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"live mode", func(c *Config) { c.Trading.Mode = "live" }, false},
		{"unknown mode", func(c *Config) { c.Trading.Mode = "yolo" }, true},
		{"negative min edge", func(c *Config) { c.Trading.MinEdge = -0.1 }, true},
		{"min edge above one", func(c *Config) { c.Trading.MinEdge = 1.5 }, true},
		{"zero position cap", func(c *Config) { c.Trading.MaxPositionFraction = 0 }, true},
		{"position cap above hard limit", func(c *Config) { c.Trading.MaxPositionFraction = 0.2 }, true},
		{"position cap at hard limit", func(c *Config) { c.Trading.MaxPositionFraction = 0.15 }, false},
		{"zero threshold", func(c *Config) { c.Monitor.ThresholdDays = 0 }, true},
		{"bad weekday", func(c *Config) { c.Scheduler.TradeWeekday = "Someday" }, true},
		{"abbreviated weekday", func(c *Config) { c.Scheduler.TradeWeekday = "fri" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"Monday", time.Monday, false},
		{"monday", time.Monday, false},
		{"  MON  ", time.Monday, false},
		{"fri", time.Friday, false},
		{"Sunday", time.Sunday, false},
		{"Mondayish", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_TemplateNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	custom := `
[trading]
mode = "live"
`
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0600))

	_, err := Load(dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content))
}
