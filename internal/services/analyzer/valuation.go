package analyzer

import (
	"sort"
	"time"

	"github.com/folioview/folio/internal/models"
)

// BuildValuationSeries computes the portfolio's total daily value across the
// union of all price dates. Closes are forward-filled: a symbol with no
// quote on a given date uses its most recent prior close, and contributes
// nothing before its first quote. The USD total is projected into INR and
// SGD with the fixed rate table. Output is ascending with no duplicate
// dates; no price data at all yields an empty series.
func BuildValuationSeries(holdings []models.Holding, prices map[string][]models.PriceBar) []models.ValuationPoint {
	dateSet := make(map[time.Time]bool)
	for _, bars := range prices {
		for _, b := range bars {
			dateSet[b.Date] = true
		}
	}
	if len(dateSet) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	series := make([]models.ValuationPoint, 0, len(dates))
	for _, date := range dates {
		total := 0.0
		for _, h := range holdings {
			close := closeOn(prices[h.Symbol], date)
			if close == 0 {
				continue
			}
			total += h.NetQuantity * close / RateFor(h.Currency)
		}
		series = append(series, models.ValuationPoint{
			Date:     date,
			ValueUSD: total,
			ValueINR: total * RateFor("INR"),
			ValueSGD: total * RateFor("SGD"),
		})
	}

	return series
}

// closeOn returns the close on the given date, or the most recent prior
// close, or 0 when the date precedes all bars. Bars must be ascending.
func closeOn(bars []models.PriceBar, date time.Time) float64 {
	idx := sort.Search(len(bars), func(i int) bool {
		return bars[i].Date.After(date)
	})
	if idx == 0 {
		return 0
	}
	return bars[idx-1].Close
}
