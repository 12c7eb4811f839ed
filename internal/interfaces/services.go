package interfaces

import (
	"context"

	"github.com/folioview/folio/internal/models"
)

// AnalyzerService runs the full portfolio analysis pipeline.
type AnalyzerService interface {
	// Analyze ingests the given trade-export files and runs every pipeline
	// stage to completion. Missing external data degrades the result; only
	// the total absence of loadable trades is an error.
	Analyze(ctx context.Context, filePaths []string) (*models.Analysis, error)
}

// NewsService retrieves news for a symbol, degrading to synthesized insights
// built from local price history when every external provider comes up empty.
type NewsService interface {
	// Latest returns up to 5 items. It never fails and never returns an
	// empty list.
	Latest(ctx context.Context, symbol string, history []models.PriceBar) []models.NewsItem
}
