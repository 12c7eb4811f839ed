package analyzer

import (
	"math"

	"github.com/folioview/folio/internal/models"
)

// AdjustForSplits rewrites historical trades so that quantities and prices
// are comparable with post-split market data. For each split event, every
// trade of that symbol executed strictly before the effective date has its
// quantity multiplied by the ratio and its prices divided by it; proceeds
// are recomputed from the adjusted figures keeping the original sign.
// Events apply one after another against the running adjusted set. The
// input slice is not mutated.
func AdjustForSplits(trades []models.Trade, splits []models.SplitEvent) []models.Trade {
	adjusted := make([]models.Trade, len(trades))
	copy(adjusted, trades)

	for _, split := range splits {
		if split.Ratio <= 0 {
			continue
		}
		for i := range adjusted {
			t := &adjusted[i]
			if t.Symbol != split.Symbol {
				continue
			}
			if !t.Timestamp.Before(split.EffectiveDate) {
				continue
			}
			t.Quantity *= split.Ratio
			t.TradePrice /= split.Ratio
			t.CommissionPrice /= split.Ratio

			gross := t.Quantity * t.TradePrice
			t.Proceeds = math.Copysign(gross, t.Proceeds)
		}
	}

	return adjusted
}
