package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const configTemplate = `# polymarket-agent configuration

[trading]
# "paper" accepts trades locally; "live" submits to the order endpoint.
mode = "paper"
min_edge = 0.05
max_position_fraction = 0.10

[monitor]
threshold_days = 35

[scheduler]
trade_weekday = "Monday"

[gateways.gamma]
base_url = "https://gamma-api.polymarket.com"
timeout_seconds = 30
min_volume = 10000.0
max_spread = 0.10

[gateways.news]
base_url = "https://newsapi.org/v2"
timeout_seconds = 15
page_size = 10

[gateways.llm]
model = "gpt-4o-mini"
timeout_seconds = 60

[gateways.clob]
base_url = ""
timeout_seconds = 30
`

const credentialsTemplate = `# polymarket-agent credentials
# Environment variables OPENAI_API_KEY, NEWSAPI_API_KEY and
# POLYGON_WALLET_PRIVATE_KEY override these values.

openai_api_key = ""
newsapi_api_key = ""
polygon_wallet_private_key = ""
`

// createTemplateConfig writes a commented config template on first run.
func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate)
}

// createTemplateCredentials writes a credentials template on first run.
func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate)
}

func writeTemplate(configDir, name, content string) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// ParseWeekday parses a weekday name such as "Monday" or "mon".
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid weekday: %q", s)
	}
}
