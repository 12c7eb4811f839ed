// Package news resolves per-symbol news through a chain of providers
package news

import (
	"context"
	"fmt"
	"time"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/interfaces"
	"github.com/folioview/folio/internal/models"
)

// MaxItems caps the number of items returned per symbol.
const MaxItems = 5

// Service implements NewsService. Providers are tried in order; the first
// that returns anything wins. When every provider comes back empty or
// failing, items are synthesized from the symbol's own price history, so
// callers always get something to render.
type Service struct {
	providers []interfaces.NewsProvider
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a news service over the given provider chain
func NewService(providers []interfaces.NewsProvider, logger *common.Logger) *Service {
	return &Service{
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source (testing only).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Latest returns up to MaxItems news items for a symbol. Provider errors
// are logged and swallowed; the result is never empty.
func (s *Service) Latest(ctx context.Context, symbol string, history []models.PriceBar) []models.NewsItem {
	for _, p := range s.providers {
		items, err := p.FetchNews(ctx, symbol, MaxItems)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", p.Name()).
				Str("symbol", symbol).
				Msg("News provider failed, trying next")
			continue
		}
		if len(items) > 0 {
			s.logger.Debug().
				Str("provider", p.Name()).
				Str("symbol", symbol).
				Int("items", len(items)).
				Msg("News resolved")
			if len(items) > MaxItems {
				items = items[:MaxItems]
			}
			return items
		}
	}

	s.logger.Debug().Str("symbol", symbol).Msg("All news providers empty, synthesizing")
	return s.synthesize(symbol, history)
}

// synthesize builds insight items from the symbol's own price history.
// With no history at all it falls back to generic overview items.
func (s *Service) synthesize(symbol string, history []models.PriceBar) []models.NewsItem {
	published := s.now().UTC().Format("2006-01-02 15:04")
	link := quoteLink(symbol)

	if len(history) == 0 {
		return []models.NewsItem{
			{
				Title:     fmt.Sprintf("%s: position overview", symbol),
				Summary:   fmt.Sprintf("No recent price data is available for %s. Check the symbol on your brokerage or market data provider for current quotes.", symbol),
				Published: published,
				Publisher: "Folio",
				Link:      link,
			},
		}
	}

	latest := history[len(history)-1].Close
	items := []models.NewsItem{
		{
			Title:     fmt.Sprintf("%s last closed at %.2f", symbol, latest),
			Summary:   fmt.Sprintf("Most recent close for %s was %.2f on %s.", symbol, latest, history[len(history)-1].Date.Format("2006-01-02")),
			Published: published,
			Publisher: "Folio",
			Link:      link,
		},
	}

	for _, window := range []struct {
		days  int
		label string
	}{
		{1, "day"},
		{7, "week"},
		{30, "month"},
	} {
		pct, ok := percentChange(history, window.days)
		if !ok {
			continue
		}
		direction := "up"
		if pct < 0 {
			direction = "down"
		}
		items = append(items, models.NewsItem{
			Title:     fmt.Sprintf("%s %s %.1f%% over the past %s", symbol, direction, abs(pct), window.label),
			Summary:   fmt.Sprintf("%s moved %.2f%% over the trailing %s based on daily closing prices.", symbol, pct, window.label),
			Published: published,
			Publisher: "Folio",
			Link:      link,
		})
		if len(items) >= MaxItems {
			break
		}
	}

	return items
}

// percentChange compares the latest close against the last close at least
// `days` calendar days earlier. Returns false when the history does not
// reach back that far.
func percentChange(history []models.PriceBar, days int) (float64, bool) {
	latest := history[len(history)-1]
	cutoff := latest.Date.AddDate(0, 0, -days)

	var base *models.PriceBar
	for i := range history {
		b := history[i]
		if b.Date.After(cutoff) {
			break
		}
		base = &history[i]
	}
	if base == nil || base.Close == 0 {
		return 0, false
	}
	return (latest.Close - base.Close) / base.Close * 100, true
}

func quoteLink(symbol string) string {
	return fmt.Sprintf("https://finance.yahoo.com/quote/%s", symbol)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
