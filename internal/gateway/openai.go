package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	agerrors "polymarket-agent/internal/errors"
	"polymarket-agent/internal/models"
)

// superforecasterPrompt frames the model as a calibrated forecaster. The
// response format is line-oriented so it can be parsed strictly.
const superforecasterPrompt = `You are a superforecaster estimating probabilities for prediction market outcomes.
Weigh base rates, recent developments, and time remaining until resolution.
Your response must be in the following exact format:
PROBABILITY: <number 0-1>
CONFIDENCE: <number 0-1>
RATIONALE: <your analysis in one paragraph>`

// ForecastConfig configures the LLM forecaster.
type ForecastConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// DefaultForecastConfig returns defaults for the forecaster.
func DefaultForecastConfig(apiKey string) ForecastConfig {
	return ForecastConfig{
		APIKey:  apiKey,
		Model:   openai.GPT4oMini,
		Timeout: 60 * time.Second,
	}
}

// Superforecaster implements the Forecaster gateway on top of the OpenAI
// chat completion API.
type Superforecaster struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewSuperforecaster creates a new OpenAI-backed forecaster.
func NewSuperforecaster(cfg ForecastConfig, logger zerolog.Logger) *Superforecaster {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Superforecaster{
		client:  openai.NewClient(cfg.APIKey),
		model:   model,
		timeout: timeout,
		logger:  logger.With().Str("gateway", "openai").Logger(),
	}
}

// GetForecast returns a probability estimate for the given outcome.
func (s *Superforecaster) GetForecast(ctx context.Context, eventTitle, question, outcome string) (*models.Forecast, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	userPrompt := s.buildPrompt(eventTitle, question, outcome)

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: superforecasterPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, agerrors.NewDataError("openai", "get forecast", err)
	}
	if len(resp.Choices) == 0 {
		return nil, agerrors.NewGatewayError("openai", 0, "no response choices")
	}

	s.logger.Debug().
		Str("question", question).
		Dur("duration", time.Since(start)).
		Msg("Forecast completion")

	forecast, err := parseForecastResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, agerrors.NewDataError("openai", "parse forecast", err)
	}
	return forecast, nil
}

func (s *Superforecaster) buildPrompt(eventTitle, question, outcome string) string {
	var sb strings.Builder
	if eventTitle != "" {
		sb.WriteString(fmt.Sprintf("Event: %s\n", eventTitle))
	}
	sb.WriteString(fmt.Sprintf("Question: %s\n", question))
	sb.WriteString(fmt.Sprintf("Outcome to estimate: %s\n", outcome))
	sb.WriteString("Estimate the probability that this outcome resolves YES.")
	return sb.String()
}

// parseForecastResponse parses the line-oriented LLM response.
func parseForecastResponse(response string) (*models.Forecast, error) {
	forecast := &models.Forecast{}
	var haveProbability bool

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "PROBABILITY:"):
			if _, err := fmt.Sscanf(strings.TrimPrefix(line, "PROBABILITY:"), "%f", &forecast.Probability); err == nil {
				haveProbability = true
			}
		case strings.HasPrefix(line, "CONFIDENCE:"):
			fmt.Sscanf(strings.TrimPrefix(line, "CONFIDENCE:"), "%f", &forecast.Confidence)
		case strings.HasPrefix(line, "RATIONALE:"):
			forecast.Rationale = strings.TrimSpace(strings.TrimPrefix(line, "RATIONALE:"))
		}
	}

	if !haveProbability {
		return nil, fmt.Errorf("response missing PROBABILITY line: %q", truncate(response, 120))
	}
	if forecast.Probability < 0 || forecast.Probability > 1 {
		return nil, fmt.Errorf("probability out of range: %f", forecast.Probability)
	}
	forecast.Confidence = clamp01(forecast.Confidence)
	return forecast, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
