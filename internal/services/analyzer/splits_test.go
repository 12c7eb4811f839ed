package analyzer

import (
	"testing"
	"time"

	"github.com/folioview/folio/internal/models"
)

func TestAdjustForSplits_TwoForOne(t *testing.T) {
	trades := []models.Trade{
		mkTrade("NVDA", "USD", time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC), 10, 100),
	}
	splits := []models.SplitEvent{
		{Symbol: "NVDA", EffectiveDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
	}

	adjusted := AdjustForSplits(trades, splits)

	a := adjusted[0]
	if a.Quantity != 20 {
		t.Errorf("expected quantity 20, got %.2f", a.Quantity)
	}
	if a.TradePrice != 50 {
		t.Errorf("expected price 50, got %.2f", a.TradePrice)
	}
	if !approx(a.Proceeds, -1000) {
		t.Errorf("expected proceeds -1000, got %.2f", a.Proceeds)
	}
}

func TestAdjustForSplits_PreservesNetInvestment(t *testing.T) {
	trades := []models.Trade{
		mkTrade("NVDA", "USD", time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC), 10, 100),
		mkTrade("NVDA", "USD", time.Date(2023, 9, 1, 10, 0, 0, 0, time.UTC), 4, 55),
	}
	splits := []models.SplitEvent{
		{Symbol: "NVDA", EffectiveDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
	}

	before := 0.0
	for _, tr := range trades {
		before += tr.Proceeds
	}

	adjusted := AdjustForSplits(trades, splits)

	after := 0.0
	for _, tr := range adjusted {
		after += tr.Proceeds
	}
	if !approx(before, after) {
		t.Errorf("expected net proceeds unchanged, before %.2f after %.2f", before, after)
	}

	// Post-split trade untouched.
	if adjusted[1].Quantity != 4 || adjusted[1].TradePrice != 55 {
		t.Errorf("expected post-split trade unchanged, got qty %.2f price %.2f",
			adjusted[1].Quantity, adjusted[1].TradePrice)
	}
}

func TestAdjustForSplits_SellKeepsPositiveProceeds(t *testing.T) {
	sell := mkTrade("NVDA", "USD", time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC), -10, 100)
	if sell.Proceeds <= 0 {
		t.Fatalf("test setup: sell proceeds should be positive, got %.2f", sell.Proceeds)
	}
	splits := []models.SplitEvent{
		{Symbol: "NVDA", EffectiveDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
	}

	adjusted := AdjustForSplits([]models.Trade{sell}, splits)

	if adjusted[0].Quantity != -20 {
		t.Errorf("expected quantity -20, got %.2f", adjusted[0].Quantity)
	}
	if !approx(adjusted[0].Proceeds, 1000) {
		t.Errorf("expected proceeds +1000, got %.2f", adjusted[0].Proceeds)
	}
}

func TestAdjustForSplits_OtherSymbolsUntouched(t *testing.T) {
	trades := []models.Trade{
		mkTrade("AAPL", "USD", time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC), 10, 100),
	}
	splits := []models.SplitEvent{
		{Symbol: "NVDA", EffectiveDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
	}

	adjusted := AdjustForSplits(trades, splits)

	if adjusted[0].Quantity != 10 || adjusted[0].TradePrice != 100 {
		t.Errorf("expected AAPL trade unchanged, got qty %.2f price %.2f",
			adjusted[0].Quantity, adjusted[0].TradePrice)
	}
}

func TestAdjustForSplits_DoesNotMutateInput(t *testing.T) {
	trades := []models.Trade{
		mkTrade("NVDA", "USD", time.Date(2023, 7, 1, 10, 0, 0, 0, time.UTC), 10, 100),
	}
	splits := []models.SplitEvent{
		{Symbol: "NVDA", EffectiveDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
	}

	AdjustForSplits(trades, splits)

	if trades[0].Quantity != 10 {
		t.Errorf("input mutated: quantity %.2f", trades[0].Quantity)
	}
}

func TestAdjustForSplits_SequentialEvents(t *testing.T) {
	trades := []models.Trade{
		mkTrade("TSLA", "USD", time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), 6, 120),
	}
	splits := []models.SplitEvent{
		{Symbol: "TSLA", EffectiveDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), Ratio: 2},
		{Symbol: "TSLA", EffectiveDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Ratio: 3},
	}

	adjusted := AdjustForSplits(trades, splits)

	if adjusted[0].Quantity != 36 {
		t.Errorf("expected quantity 36 after 2x then 3x, got %.2f", adjusted[0].Quantity)
	}
	if !approx(adjusted[0].TradePrice, 20) {
		t.Errorf("expected price 20, got %.4f", adjusted[0].TradePrice)
	}
}
