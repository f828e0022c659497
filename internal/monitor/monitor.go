// Package monitor implements the expiring-markets scan.
package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"polymarket-agent/internal/gateway"
	"polymarket-agent/internal/logging"
	"polymarket-agent/internal/models"
)

// DefaultThresholdDays is the default expiration window in days.
const DefaultThresholdDays = 35

// defaultActionNote goes on every report item; the scan reports, it never
// acts on the markets it finds.
const defaultActionNote = "No automated action taken; review before expiry."

// Report is the result of one expiration scan.
type Report struct {
	Items         []models.ExpiringMarketReport
	Scanned       int       // active markets considered
	ThresholdDays int
	GeneratedAt   time.Time // the single UTC reference used for every comparison
}

// Empty reports whether nothing qualified in this scan.
func (r *Report) Empty() bool {
	return len(r.Items) == 0
}

// Monitor produces expiring-market reports from a market snapshot.
type Monitor struct {
	markets       gateway.MarketData
	news          gateway.News
	thresholdDays int
	now           func() time.Time
	logger        zerolog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithThreshold sets the expiration window in days.
func WithThreshold(days int) Option {
	return func(m *Monitor) {
		if days > 0 {
			m.thresholdDays = days
		}
	}
}

// WithClock injects the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor. The news gateway may be nil, in which case report
// items carry no articles.
func New(markets gateway.MarketData, news gateway.News, logger zerolog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		markets:       markets,
		news:          news,
		thresholdDays: DefaultThresholdDays,
		now:           time.Now,
		logger:        logger.With().Str("component", "monitor").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scan fetches the market snapshot and assembles the expiration report.
//
// The error return covers only the snapshot fetch; every per-market problem
// (unparseable end date, malformed odds, news failure) is contained at the
// record boundary and the scan continues.
func (m *Monitor) Scan(ctx context.Context) (*Report, error) {
	// Captured once so every market compares against the same instant.
	now := m.now().UTC()

	report := &Report{
		ThresholdDays: m.thresholdDays,
		GeneratedAt:   now,
	}

	markets, err := m.markets.GetAllMarkets(ctx)
	if err != nil {
		return nil, err
	}

	for _, market := range markets {
		if !market.Active {
			continue
		}
		report.Scanned++

		end, err := models.ParseEndDate(market.EndDate)
		if err != nil {
			m.logger.Warn().
				Str("market_id", market.ID).
				Str("end_date", market.EndDate).
				Err(err).
				Msg("Skipping market with unparseable end date")
			continue
		}

		days := wholeDaysBetween(now, end)
		if days < 0 || days > m.thresholdDays {
			continue
		}

		report.Items = append(report.Items, m.buildItem(ctx, market, days))
	}

	logging.LogReport(m.logger, report.Scanned, len(report.Items), m.thresholdDays)
	return report, nil
}

// buildItem assembles one report entry; odds and news failures degrade to
// empty lists rather than dropping the market.
func (m *Monitor) buildItem(ctx context.Context, market models.Market, days int) models.ExpiringMarketReport {
	odds, err := market.OutcomePrices()
	if err != nil {
		m.logger.Warn().
			Str("market_id", market.ID).
			Err(err).
			Msg("Malformed outcome prices, recording empty odds")
		odds = []float64{}
	}
	if odds == nil {
		odds = []float64{}
	}

	return models.ExpiringMarketReport{
		MarketID:       market.ID,
		Question:       market.Question,
		ExpirationDate: market.EndDate,
		DaysRemaining:  days,
		Odds:           odds,
		Articles:       m.fetchArticles(ctx, market.Question),
		ActionNote:     defaultActionNote,
	}
}

// fetchArticles fetches related news, capped at MaxReportArticles. Any
// failure yields an empty list for this market only.
func (m *Monitor) fetchArticles(ctx context.Context, question string) []models.Article {
	if m.news == nil {
		return []models.Article{}
	}

	articles, err := m.news.GetArticles(ctx, question)
	if err != nil {
		m.logger.Warn().
			Str("question", question).
			Err(err).
			Msg("News fetch failed, recording empty article list")
		return []models.Article{}
	}

	if len(articles) > models.MaxReportArticles {
		articles = articles[:models.MaxReportArticles]
	}
	return articles
}

// wholeDaysBetween returns the whole-day difference to - from, flooring
// toward negative infinity so an end date one hour in the past counts as
// day -1, not day 0.
func wholeDaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	days := d / (24 * time.Hour)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return int(days)
}
