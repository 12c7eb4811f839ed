package analyzer

import (
	"sort"

	"github.com/folioview/folio/internal/models"
)

// Units of each currency per one US dollar. The dashboard uses a fixed
// table rather than a live FX feed; the rates only drive display projections.
var usdRates = map[string]float64{
	"USD": 1.0,
	"INR": 83.0,
	"SGD": 1.35,
}

// SupportedCurrencies lists the display currencies in a stable order.
func SupportedCurrencies() []string {
	out := make([]string, 0, len(usdRates))
	for c := range usdRates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// RateFor returns the units-per-USD rate for a currency code, or 1.0 for
// unrecognized codes so foreign trades degrade to face value instead of
// vanishing from totals.
func RateFor(currency string) float64 {
	if r, ok := usdRates[currency]; ok {
		return r
	}
	return 1.0
}

// ConvertCurrencies populates the (PriceUSD, PriceINR, PriceSGD) triple on
// every trade from its native trade price. The triple is internally
// consistent: converting any leg back through USD reproduces the others.
// The input slice is not mutated.
func ConvertCurrencies(trades []models.Trade) []models.Trade {
	converted := make([]models.Trade, len(trades))
	copy(converted, trades)

	for i := range converted {
		t := &converted[i]
		usd := t.TradePrice / RateFor(t.Currency)
		t.PriceUSD = usd
		t.PriceINR = usd * usdRates["INR"]
		t.PriceSGD = usd * usdRates["SGD"]
	}

	return converted
}

// SummarizeCurrencies aggregates trade counts and proceeds per native
// currency, sorted by currency code.
func SummarizeCurrencies(trades []models.Trade) []models.CurrencySummary {
	byCurrency := make(map[string]*models.CurrencySummary)
	for _, t := range trades {
		s, ok := byCurrency[t.Currency]
		if !ok {
			s = &models.CurrencySummary{Currency: t.Currency}
			byCurrency[t.Currency] = s
		}
		s.TotalProceeds += t.Proceeds
		s.TradeCount++
	}

	out := make([]models.CurrencySummary, 0, len(byCurrency))
	for _, s := range byCurrency {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Currency < out[j].Currency
	})
	return out
}
