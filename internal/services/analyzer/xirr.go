package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/folioview/folio/internal/models"
)

// cashFlow is a single dated flow for the XIRR solver.
// Negative = money out (buys), positive = money in (sells, terminal value).
type cashFlow struct {
	date   time.Time
	amount float64
}

// CalculateXIRR computes the annualized internal rate of return for one
// symbol's trades. Each trade's signed proceeds is one dated flow: buys
// carry negative proceeds (money out), sells positive (money in). When the
// net quantity is still positive, the current market value is appended as a
// terminal inflow at now. Returns the rate as a decimal fraction (0.12 for
// 12%). Symbols with fewer than two trades return (0, false); when the
// solver cannot find a root the simple return is used instead.
func CalculateXIRR(trades []models.Trade, latestClose float64, now time.Time) (float64, bool) {
	if len(trades) < 2 {
		return 0, false
	}

	flows := make([]cashFlow, 0, len(trades)+1)
	netQuantity := 0.0
	for _, t := range trades {
		flows = append(flows, cashFlow{date: t.Timestamp, amount: t.Proceeds})
		netQuantity += t.Quantity
	}

	if netQuantity > 0 && latestClose > 0 {
		flows = append(flows, cashFlow{date: now, amount: netQuantity * latestClose})
	}

	sort.Slice(flows, func(i, j int) bool {
		return flows[i].date.Before(flows[j].date)
	})

	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.amount < 0 {
			hasNeg = true
		}
		if f.amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return simpleReturn(flows), true
	}

	rate := solveXIRR(flows)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return simpleReturn(flows), true
	}

	return rate, true
}

// simpleReturn is the non-annualized fallback when the solver has nothing
// to work with: (inflows - outflows) / outflows, or 0 with no outflows.
func simpleReturn(flows []cashFlow) float64 {
	inflows, outflows := 0.0, 0.0
	for _, f := range flows {
		if f.amount < 0 {
			outflows -= f.amount
		} else {
			inflows += f.amount
		}
	}
	if outflows == 0 {
		return 0
	}
	return (inflows - outflows) / outflows
}

// solveXIRR uses Newton-Raphson to find the rate r such that NPV(r) = 0,
// where NPV(r) = sum of amount_i / (1 + r)^(years_i) and years_i counts
// days from the first flow over a 365-day year.
func solveXIRR(flows []cashFlow) float64 {
	const (
		maxIter = 100
		tol     = 1e-7
		minRate = -0.999
	)

	baseDate := flows[0].date

	years := make([]float64, len(flows))
	for i, f := range flows {
		days := f.date.Sub(baseDate).Hours() / 24
		years[i] = days / 365.0
	}

	// Start from the simple return when it is sane, else 10%.
	guess := 0.1
	if sr := simpleReturn(flows); sr > -0.9 && sr < 10 {
		guess = sr
	}

	rate := guess

	for iter := 0; iter < maxIter; iter++ {
		npv := 0.0
		dnpv := 0.0

		for i, f := range flows {
			y := years[i]
			base := 1 + rate
			if base <= 0 {
				rate = minRate
				base = 1 + rate
			}
			discount := math.Pow(base, y)
			if discount == 0 {
				continue
			}
			npv += f.amount / discount
			if y != 0 {
				dnpv -= y * f.amount / (discount * base)
			}
		}

		if math.Abs(npv) < tol {
			return rate
		}

		if dnpv == 0 {
			break
		}

		newRate := rate - npv/dnpv
		if newRate < minRate {
			newRate = minRate
		}
		if newRate > 100 {
			newRate = 100
		}

		rate = newRate
	}

	return bisectXIRR(flows, years)
}

// bisectXIRR is the fallback solver when Newton-Raphson fails to converge.
func bisectXIRR(flows []cashFlow, years []float64) float64 {
	const (
		maxIter = 200
		tol     = 1e-6
	)

	npvAt := func(rate float64) float64 {
		sum := 0.0
		for i, f := range flows {
			base := 1 + rate
			if base <= 0 {
				return math.NaN()
			}
			sum += f.amount / math.Pow(base, years[i])
		}
		return sum
	}

	lo, hi := -0.99, 10.0
	npvLo := npvAt(lo)
	npvHi := npvAt(hi)

	if math.IsNaN(npvLo) || math.IsNaN(npvHi) {
		return math.NaN()
	}
	if npvLo*npvHi > 0 {
		return math.NaN()
	}

	for iter := 0; iter < maxIter; iter++ {
		mid := (lo + hi) / 2
		npvMid := npvAt(mid)
		if math.IsNaN(npvMid) {
			return math.NaN()
		}
		if math.Abs(npvMid) < tol {
			return mid
		}
		if npvMid*npvLo < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}

	return (lo + hi) / 2
}
