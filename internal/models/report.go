package models

import "time"

// Article represents a news article related to a market question.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// MaxReportArticles caps how many articles a report item carries per market.
const MaxReportArticles = 3

// ExpiringMarketReport describes one market inside the expiration report.
type ExpiringMarketReport struct {
	MarketID       string    `json:"market_id"`
	Question       string    `json:"question"`
	ExpirationDate string    `json:"expiration_date"` // original string form
	DaysRemaining  int       `json:"days_remaining"`
	Odds           []float64 `json:"odds"`
	Articles       []Article `json:"articles"`
	ActionNote     string    `json:"action_note"`
}
