package models

import "time"

// StageStatus reports how a pipeline stage finished.
type StageStatus string

const (
	StageOK       StageStatus = "ok"
	StageDegraded StageStatus = "degraded" // partial data, pipeline continued
	StageFailed   StageStatus = "failed"   // stage produced nothing
)

// StageResult records the outcome of one pipeline stage so the dashboard can
// show which parts of the analysis are available.
type StageResult struct {
	Name   string      `json:"name"`
	Status StageStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// Analysis is the complete output of one pipeline run. All fields are derived
// from the trade files and external market data, recomputed wholesale per run
// and held only in session memory.
type Analysis struct {
	RunAt time.Time `json:"run_at"`

	// Trades are split-adjusted, currency-converted, ascending by timestamp.
	Trades   []Trade               `json:"trades"`
	Holdings []Holding             `json:"holdings"`
	Splits   []SplitEvent          `json:"splits"`
	Prices   map[string][]PriceBar `json:"-"`
	Series   []ValuationPoint      `json:"series"`
	Xirr     map[string]float64    `json:"xirr"`
	Stages   []StageResult         `json:"stages"`
}

// PricesFor returns the price history for a symbol, or nil.
func (a *Analysis) PricesFor(symbol string) []PriceBar {
	if a == nil || a.Prices == nil {
		return nil
	}
	return a.Prices[symbol]
}

// LatestPrice returns the most recent close for a symbol, or 0 when no
// history is available.
func (a *Analysis) LatestPrice(symbol string) float64 {
	bars := a.PricesFor(symbol)
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}

// Symbols returns the distinct symbols across all trades, in first-seen order.
func (a *Analysis) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range a.Trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			out = append(out, t.Symbol)
		}
	}
	return out
}

// Overview is the headline summary shown at the top of the dashboard.
type Overview struct {
	RunAt          time.Time `json:"run_at"`
	HoldingCount   int       `json:"holding_count"`
	TradeCount     int       `json:"trade_count"`
	LatestValueUSD float64   `json:"latest_value_usd"`
	AverageXirrPct float64   `json:"average_xirr_pct"`
}

// NewsItem is a single news article or synthesized insight for a symbol.
type NewsItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
}
