// Package models defines the core data types shared across the agent.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Market represents a single Polymarket prediction market.
//
// The Gamma API delivers Outcomes and OutcomePrices as JSON arrays encoded
// inside JSON strings, so both carry the raw string alongside the decoded
// form. EndDate keeps the original string because the source format varies
// between markets.
type Market struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Description string  `json:"description,omitempty"`
	EndDate     string  `json:"endDate"`
	Active      bool    `json:"active"`
	Closed      bool    `json:"closed"`
	Volume24h   float64 `json:"volume24hr"`
	Liquidity   float64 `json:"liquidityNum"`
	Spread      float64 `json:"spread"`

	// Raw JSON-string fields that need secondary parsing.
	RawOutcomes      string `json:"outcomes"`
	RawOutcomePrices string `json:"outcomePrices"`
}

// Outcomes decodes the outcome labels from the raw Gamma field.
func (m *Market) Outcomes() ([]string, error) {
	if m.RawOutcomes == "" {
		return nil, nil
	}
	var outcomes []string
	if err := json.Unmarshal([]byte(m.RawOutcomes), &outcomes); err != nil {
		return nil, fmt.Errorf("decoding outcomes: %w", err)
	}
	return outcomes, nil
}

// OutcomePrices decodes the outcome prices from the raw Gamma field.
// The API encodes prices as an array of numeric strings; a plain numeric
// array is also accepted. Anything else is an error.
func (m *Market) OutcomePrices() ([]float64, error) {
	return ParseOutcomePrices(m.RawOutcomePrices)
}

// PrimaryPrice returns the price of the first outcome, or 0 when prices are
// missing or malformed.
func (m *Market) PrimaryPrice() float64 {
	prices, err := m.OutcomePrices()
	if err != nil || len(prices) == 0 {
		return 0
	}
	return prices[0]
}

// PrimaryOutcome returns the first outcome label, defaulting to "Yes".
func (m *Market) PrimaryOutcome() string {
	outcomes, err := m.Outcomes()
	if err != nil || len(outcomes) == 0 {
		return "Yes"
	}
	return outcomes[0]
}

// ParseOutcomePrices decodes an outcome-price payload into floats. Only a
// literal list of numeric values (or numeric strings, as Gamma encodes them)
// is accepted; any other shape is an error so the caller can fall back to an
// empty odds list.
func ParseOutcomePrices(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}

	var asStrings []string
	if err := json.Unmarshal([]byte(raw), &asStrings); err == nil {
		prices := make([]float64, 0, len(asStrings))
		for _, s := range asStrings {
			p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("non-numeric price %q: %w", s, err)
			}
			prices = append(prices, p)
		}
		return prices, nil
	}

	var asFloats []float64
	if err := json.Unmarshal([]byte(raw), &asFloats); err == nil {
		return asFloats, nil
	}

	return nil, fmt.Errorf("outcome prices are not a list of numbers: %q", raw)
}

// endDateLayouts are tried in order when the end date is not RFC 3339.
var endDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseEndDate normalizes a market end date into a UTC instant.
//
// A trailing 'Z' is an explicit UTC offset. A timestamp without any zone
// information is assumed UTC, so every value this returns is comparable
// against a UTC "now" without mixing aware and naive instants.
func ParseEndDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty end date")
	}

	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range endDateLayouts {
		// No zone in the layout: time.Parse yields UTC, which is the
		// assumption we want for naive timestamps.
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized end date format: %q", s)
}
