package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/models"
	"github.com/folioview/folio/internal/services/analyzer"
	"github.com/folioview/folio/internal/services/session"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Session handlers ---

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	sess := s.app.Sessions.Create()
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         sess.ID,
		"created_at": sess.CreatedAt,
	})
}

func (s *Server) handleSessionAnalyze(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	sess, ok := s.requireSession(w, id)
	if !ok {
		return
	}

	analysis, err := s.app.Analyzer.Analyze(r.Context(), s.app.Config.TradeFiles)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	s.app.Sessions.SetAnalysis(sess.ID, analysis)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"run_at":   analysis.RunAt,
		"stages":   analysis.Stages,
		"overview": buildOverview(analysis),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, buildOverview(analysis))
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	views := make([]models.HoldingView, 0, len(analysis.Holdings))
	for _, h := range analysis.Holdings {
		view := models.HoldingView{Holding: h}
		if price := analysis.LatestPrice(h.Symbol); price > 0 {
			view.CurrentPrice = price
			view.CurrentValue = h.NetQuantity * price
			view.UnrealizedPL = view.CurrentValue - h.TotalInvested
			if h.TotalInvested != 0 {
				view.UnrealizedPLPct = view.UnrealizedPL / h.TotalInvested * 100
			}
		}
		views = append(views, view)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": views,
	})
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"series": analysis.Series,
	})
}

func (s *Server) handlePerformanceChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	currency := r.URL.Query().Get("currency")
	png, err := analyzer.RenderPerformanceChart(analysis.Series, currency)
	if err != nil {
		WriteError(w, http.StatusConflict, fmt.Sprintf("Chart unavailable: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// xirrEntry is one row of the XIRR table, rate as a fraction plus a
// display percentage.
type xirrEntry struct {
	Symbol  string  `json:"symbol"`
	Rate    float64 `json:"rate"`
	RatePct float64 `json:"rate_pct"`
}

func (s *Server) handleXirr(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	entries := make([]xirrEntry, 0, len(analysis.Xirr))
	for symbol, rate := range analysis.Xirr {
		entries = append(entries, xirrEntry{Symbol: symbol, Rate: rate, RatePct: rate * 100})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rate != entries[j].Rate {
			return entries[i].Rate > entries[j].Rate
		}
		return entries[i].Symbol < entries[j].Symbol
	})

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"xirr": entries,
	})
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	splits := analysis.Splits
	if splits == nil {
		splits = []models.SplitEvent{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"splits": splits,
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	symbol := r.URL.Query().Get("symbol")
	currency := r.URL.Query().Get("currency")

	trades := make([]models.Trade, 0, len(analysis.Trades))
	for _, t := range analysis.Trades {
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		if currency != "" && t.Currency != currency {
			continue
		}
		trades = append(trades, t)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
	})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, ok := s.requireAnalysis(w, id)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"currencies": analyzer.SummarizeCurrencies(analysis.Trades),
		"supported":  analyzer.SupportedCurrencies(),
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request, id, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sess, ok := s.requireSession(w, id)
	if !ok {
		return
	}
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol required")
		return
	}

	var history []models.PriceBar
	if sess.Analysis != nil {
		history = sess.Analysis.PricesFor(symbol)
	}

	items := s.app.News.Latest(r.Context(), symbol, history)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"news":   items,
	})
}

// --- helpers ---

// requireSession resolves a live session or writes a 404.
func (s *Server) requireSession(w http.ResponseWriter, id string) (*session.Session, bool) {
	sess, ok := s.app.Sessions.Get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "Session not found or expired")
		return nil, false
	}
	return sess, true
}

// requireAnalysis resolves a session that has completed an analyze run,
// writing 404 for missing sessions and 409 when analyze has not run yet.
func (s *Server) requireAnalysis(w http.ResponseWriter, id string) (*models.Analysis, bool) {
	sess, ok := s.requireSession(w, id)
	if !ok {
		return nil, false
	}
	if sess.Analysis == nil {
		WriteError(w, http.StatusConflict, "Analysis has not been run for this session")
		return nil, false
	}
	return sess.Analysis, true
}

// buildOverview derives the headline summary from an analysis.
func buildOverview(analysis *models.Analysis) models.Overview {
	o := models.Overview{
		RunAt:        analysis.RunAt,
		HoldingCount: len(analysis.Holdings),
		TradeCount:   len(analysis.Trades),
	}
	if len(analysis.Series) > 0 {
		o.LatestValueUSD = analysis.Series[len(analysis.Series)-1].ValueUSD
	}
	if len(analysis.Xirr) > 0 {
		sum := 0.0
		for _, rate := range analysis.Xirr {
			sum += rate
		}
		o.AverageXirrPct = sum / float64(len(analysis.Xirr)) * 100
	}
	return o
}
