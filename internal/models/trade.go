// Package models defines data structures for Folio
package models

import "time"

// Trade is a single normalized order row from a brokerage trade export.
// Quantity is signed: positive for buys, negative for sells. Proceeds carry
// the broker's sign convention (negative for buys, positive for sells).
// Immutable once parsed — the split adjuster returns new values rather than
// mutating in place.
type Trade struct {
	Symbol          string    `json:"symbol"`
	Currency        string    `json:"currency"`
	Timestamp       time.Time `json:"timestamp"`
	Quantity        float64   `json:"quantity"`
	TradePrice      float64   `json:"trade_price"`
	CommissionPrice float64   `json:"commission_price"`
	Proceeds        float64   `json:"proceeds"`

	// Currency triple, populated by the converter stage.
	PriceUSD float64 `json:"price_usd,omitempty"`
	PriceINR float64 `json:"price_inr,omitempty"`
	PriceSGD float64 `json:"price_sgd,omitempty"`
}

// Date returns the calendar day of the trade, truncated to UTC midnight.
func (t Trade) Date() time.Time {
	y, m, d := t.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Holding is a net open position in one (symbol, currency) group, recomputed
// wholesale from the trade set on every analysis run.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Currency      string  `json:"currency"`
	NetQuantity   float64 `json:"net_quantity"`
	AveragePrice  float64 `json:"average_price"` // quantity-weighted across all trades of the group
	TotalInvested float64 `json:"total_invested"`
}

// HoldingView is a Holding enriched with current market data for display.
type HoldingView struct {
	Holding
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
}

// SplitEvent is a stock split sourced from market data. Ratio is the factor
// by which the share count multiplies (2.0 for a 2-for-1 split).
type SplitEvent struct {
	Symbol        string    `json:"symbol"`
	EffectiveDate time.Time `json:"effective_date"`
	Ratio         float64   `json:"ratio"`
}

// PriceBar is a single daily close.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// SymbolHistory bundles the trailing price history and split events for one
// symbol as returned by the market-data client. Bars are ascending by date.
type SymbolHistory struct {
	Symbol string       `json:"symbol"`
	Bars   []PriceBar   `json:"bars"`
	Splits []SplitEvent `json:"splits,omitempty"`
}

// LatestClose returns the most recent close, or 0 if the history is empty.
func (h *SymbolHistory) LatestClose() float64 {
	if h == nil || len(h.Bars) == 0 {
		return 0
	}
	return h.Bars[len(h.Bars)-1].Close
}

// ValuationPoint is the portfolio's total value on one date, expressed in
// each supported display currency.
type ValuationPoint struct {
	Date     time.Time `json:"date"`
	ValueUSD float64   `json:"value_usd"`
	ValueINR float64   `json:"value_inr"`
	ValueSGD float64   `json:"value_sgd"`
}

// CurrencySummary aggregates trade activity per native currency.
type CurrencySummary struct {
	Currency      string  `json:"currency"`
	TotalProceeds float64 `json:"total_proceeds"`
	TradeCount    int     `json:"trade_count"`
}
