package models

import "time"

// Side represents the direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// TradeRecommendation is the single trade a decision cycle chose to submit.
type TradeRecommendation struct {
	MarketID   string  `json:"market_id"`
	Question   string  `json:"question"`
	Side       Side    `json:"side"`
	Outcome    string  `json:"outcome"`
	Size       float64 `json:"size"` // fraction of portfolio
	Confidence float64 `json:"confidence"`
	Edge       float64 `json:"edge"`
	Price      float64 `json:"price"` // market-implied price at decision time
	Rationale  string  `json:"rationale"`
}

// Forecast is an externally supplied probability estimate for a market
// outcome.
type Forecast struct {
	Probability float64 `json:"probability"` // 0-1
	Confidence  float64 `json:"confidence"`  // 0-1
	Rationale   string  `json:"rationale"`
}

// CycleOutcome is the terminal state of one scheduled cycle.
type CycleOutcome string

const (
	CycleNoAction CycleOutcome = "NO_ACTION"
	CycleExecuted CycleOutcome = "EXECUTED"
	CycleFailed   CycleOutcome = "FAILED"
	CycleReported CycleOutcome = "REPORTED"
)

// CycleRecord is one journal row describing a finished cycle.
type CycleRecord struct {
	ID        int64        `json:"id"`
	Job       string       `json:"job"`
	Outcome   CycleOutcome `json:"outcome"`
	Detail    string       `json:"detail"`
	MarketID  string       `json:"market_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
