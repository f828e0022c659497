// Package notify renders operator-facing cycle summaries.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"polymarket-agent/internal/models"
	"polymarket-agent/internal/monitor"
	"polymarket-agent/internal/trader"
)

// Reporter writes human-readable cycle summaries for the operator. There is
// no separate alerting channel; the console is the surface.
type Reporter struct {
	w io.Writer

	header  *color.Color
	success *color.Color
	failure *color.Color
	warn    *color.Color
	dim     *color.Color
}

// NewReporter creates a Reporter writing to w. A nil writer defaults to
// stdout.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{
		w:       w,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
}

// ExpirationReport renders the expiring-markets report. An empty report is
// announced explicitly rather than silently skipped.
func (r *Reporter) ExpirationReport(report *monitor.Report) {
	if report.Empty() {
		r.dim.Fprintf(r.w, "No markets expiring within the next %d days (%d scanned).\n",
			report.ThresholdDays, report.Scanned)
		return
	}

	r.header.Fprintf(r.w, "--- Expiring Markets Report (%d of %d scanned, window %dd) ---\n",
		len(report.Items), report.Scanned, report.ThresholdDays)

	for _, item := range report.Items {
		fmt.Fprintln(r.w)
		fmt.Fprintf(r.w, "Market %s: %s\n", item.MarketID, item.Question)
		fmt.Fprintf(r.w, "  Expires: %s (in %d days)\n", item.ExpirationDate, item.DaysRemaining)
		if len(item.Odds) > 0 {
			fmt.Fprintf(r.w, "  Odds: %s\n", formatOdds(item.Odds))
		} else {
			r.warn.Fprintln(r.w, "  Odds: unavailable")
		}
		if len(item.Articles) > 0 {
			fmt.Fprintln(r.w, "  Relevant news:")
			for i, a := range item.Articles {
				fmt.Fprintf(r.w, "    %d. %s (%s) - %s\n",
					i+1, a.Title, a.URL, a.PublishedAt.Format("2006-01-02"))
			}
		} else {
			r.dim.Fprintln(r.w, "  Relevant news: no articles found")
		}
		r.dim.Fprintf(r.w, "  Action: %s\n", item.ActionNote)
	}

	r.header.Fprintln(r.w, "\n--- End of Report ---")
}

// TradeCycle renders the terminal outcome of one decision cycle.
func (r *Reporter) TradeCycle(result *trader.CycleResult) {
	switch result.Outcome {
	case models.CycleNoAction:
		r.dim.Fprintf(r.w, "Trade cycle: no action (%s).\n", result.Detail)
	case models.CycleExecuted:
		t := result.Trade
		r.success.Fprintf(r.w, "Trade executed: %s %s on market %s, size %.1f%% (edge %.3f).\n",
			t.Side, t.Outcome, t.MarketID, t.Size*100, t.Edge)
		if t.Rationale != "" {
			r.dim.Fprintf(r.w, "  Rationale: %s\n", t.Rationale)
		}
	case models.CycleFailed:
		r.failure.Fprintf(r.w, "Trade failed: %s.\n", result.Detail)
		r.dim.Fprintln(r.w, "  No retry this cycle; the next scheduled run will try again.")
	}
}

func formatOdds(odds []float64) string {
	parts := make([]string, len(odds))
	for i, o := range odds {
		parts[i] = fmt.Sprintf("%.3f", o)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
