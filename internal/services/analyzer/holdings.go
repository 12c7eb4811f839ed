// Package analyzer runs the trade analysis pipeline
package analyzer

import (
	"sort"

	"github.com/folioview/folio/internal/models"
)

// AggregateHoldings groups trades by (symbol, currency) and nets them into
// open positions. Fully closed groups (net quantity zero) are dropped.
// Output is sorted by symbol, then currency.
func AggregateHoldings(trades []models.Trade) []models.Holding {
	type key struct {
		symbol   string
		currency string
	}
	type acc struct {
		quantity   float64
		weightedPQ float64 // sum of price * quantity
	}

	groups := make(map[key]*acc)
	var order []key

	for _, t := range trades {
		k := key{symbol: t.Symbol, currency: t.Currency}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		g.quantity += t.Quantity
		g.weightedPQ += t.TradePrice * t.Quantity
	}

	holdings := make([]models.Holding, 0, len(order))
	for _, k := range order {
		g := groups[k]
		if g.quantity == 0 {
			continue
		}
		avg := g.weightedPQ / g.quantity
		holdings = append(holdings, models.Holding{
			Symbol:        k.symbol,
			Currency:      k.currency,
			NetQuantity:   g.quantity,
			AveragePrice:  avg,
			TotalInvested: g.quantity * avg,
		})
	}

	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].Symbol != holdings[j].Symbol {
			return holdings[i].Symbol < holdings[j].Symbol
		}
		return holdings[i].Currency < holdings[j].Currency
	})

	return holdings
}
