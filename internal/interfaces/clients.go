// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/folioview/folio/internal/models"
)

// MarketDataClient provides trailing price history and split events per symbol.
type MarketDataClient interface {
	// GetSymbolHistory retrieves the trailing daily close history and split
	// events for a symbol. Bars are ascending by date.
	GetSymbolHistory(ctx context.Context, symbol string, days int) (*models.SymbolHistory, error)
}

// NewsProvider is one external news retrieval strategy. Providers are tried
// in order; the first non-empty result wins.
type NewsProvider interface {
	// Name identifies the provider in logs and stage results.
	Name() string

	// FetchNews retrieves up to limit news items for a symbol. An empty
	// result with nil error means the provider had nothing, not a failure.
	FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}
