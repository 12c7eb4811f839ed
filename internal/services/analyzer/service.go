package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/ingest"
	"github.com/folioview/folio/internal/interfaces"
	"github.com/folioview/folio/internal/models"
)

// Service implements AnalyzerService. Each Analyze call runs the full
// pipeline from the trade files: load, fetch market data, adjust for
// splits, aggregate holdings, convert currencies, build the valuation
// series, compute per-symbol XIRR.
type Service struct {
	loader      *ingest.Loader
	market      interfaces.MarketDataClient
	logger      *common.Logger
	historyDays int
	pause       time.Duration
	now         func() time.Time
}

// NewService creates a new analyzer service
func NewService(market interfaces.MarketDataClient, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		loader:      ingest.NewLoader(logger),
		market:      market,
		logger:      logger,
		historyDays: config.Analysis.HistoryDays,
		pause:       config.Analysis.GetRequestPause(),
		now:         time.Now,
	}
}

// WithClock overrides the time source (testing only).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Analyze runs the pipeline against the given trade files. Only a complete
// absence of loadable trades is fatal; market data failures degrade the run and
// are reported through the stage results.
func (s *Service) Analyze(ctx context.Context, filePaths []string) (*models.Analysis, error) {
	runAt := s.now()
	analysis := &models.Analysis{
		RunAt:  runAt,
		Prices: make(map[string][]models.PriceBar),
		Xirr:   make(map[string]float64),
	}

	trades, err := s.loader.LoadTrades(filePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	analysis.Trades = trades
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "load",
		Status: models.StageOK,
		Detail: fmt.Sprintf("%d trades from %d files", len(trades), len(filePaths)),
	})

	s.logger.Info().Int("trades", len(trades)).Msg("Trades loaded, fetching market data")

	s.fetchMarketData(ctx, analysis)

	analysis.Trades = AdjustForSplits(analysis.Trades, analysis.Splits)
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "splits",
		Status: models.StageOK,
		Detail: fmt.Sprintf("%d split events applied", len(analysis.Splits)),
	})

	analysis.Holdings = AggregateHoldings(analysis.Trades)
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "holdings",
		Status: models.StageOK,
		Detail: fmt.Sprintf("%d open positions", len(analysis.Holdings)),
	})

	analysis.Trades = ConvertCurrencies(analysis.Trades)
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "currency",
		Status: models.StageOK,
	})

	analysis.Series = BuildValuationSeries(analysis.Holdings, analysis.Prices)
	valuationStatus := models.StageOK
	if len(analysis.Series) == 0 {
		valuationStatus = models.StageFailed
	}
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "valuation",
		Status: valuationStatus,
		Detail: fmt.Sprintf("%d daily points", len(analysis.Series)),
	})

	s.computeXIRR(analysis)

	s.logger.Info().
		Int("holdings", len(analysis.Holdings)).
		Int("series", len(analysis.Series)).
		Int("xirr", len(analysis.Xirr)).
		Msg("Analysis complete")

	return analysis, nil
}

// fetchMarketData retrieves price history and split events for every traded
// symbol, sequentially with a pause between requests. Per-symbol failures
// degrade the stage rather than aborting the run.
func (s *Service) fetchMarketData(ctx context.Context, analysis *models.Analysis) {
	symbols := analysis.Symbols()
	failed := 0

	for i, symbol := range symbols {
		if i > 0 && s.pause > 0 {
			select {
			case <-time.After(s.pause):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			failed += len(symbols) - i
			s.logger.Warn().Err(ctx.Err()).Msg("Market data fetch cancelled")
			break
		}

		history, err := s.market.GetSymbolHistory(ctx, symbol, s.historyDays)
		if err != nil {
			failed++
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch market data")
			continue
		}
		if len(history.Bars) > 0 {
			analysis.Prices[symbol] = history.Bars
		}
		analysis.Splits = append(analysis.Splits, history.Splits...)
	}

	status := models.StageOK
	switch {
	case failed == len(symbols) && len(symbols) > 0:
		status = models.StageFailed
	case failed > 0:
		status = models.StageDegraded
	}
	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "market-data",
		Status: status,
		Detail: fmt.Sprintf("%d/%d symbols fetched", len(symbols)-failed, len(symbols)),
	})
}

// computeXIRR fills the per-symbol XIRR map. Symbols with fewer than two
// trades are omitted.
func (s *Service) computeXIRR(analysis *models.Analysis) {
	now := s.now()
	bySymbol := make(map[string][]models.Trade)
	for _, t := range analysis.Trades {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	for symbol, trades := range bySymbol {
		rate, ok := CalculateXIRR(trades, analysis.LatestPrice(symbol), now)
		if !ok {
			continue
		}
		analysis.Xirr[symbol] = rate
	}

	analysis.Stages = append(analysis.Stages, models.StageResult{
		Name:   "xirr",
		Status: models.StageOK,
		Detail: fmt.Sprintf("%d symbols", len(analysis.Xirr)),
	})
}

// Ensure Service implements AnalyzerService
var _ interfaces.AnalyzerService = (*Service)(nil)
