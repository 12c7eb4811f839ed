package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Sessions
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)
	mux.HandleFunc("/api/sessions/", s.routeSessions)
}

// routeSessions dispatches /api/sessions/{id}/{resource} requests.
func (s *Server) routeSessions(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(rest, "/", 2)

	id := parts[0]
	if id == "" {
		WriteError(w, http.StatusNotFound, "Session ID required")
		return
	}

	resource := ""
	if len(parts) == 2 {
		resource = parts[1]
	}

	switch {
	case resource == "analyze":
		s.handleSessionAnalyze(w, r, id)
	case resource == "overview":
		s.handleOverview(w, r, id)
	case resource == "holdings":
		s.handleHoldings(w, r, id)
	case resource == "performance":
		s.handlePerformance(w, r, id)
	case resource == "performance/chart":
		s.handlePerformanceChart(w, r, id)
	case resource == "xirr":
		s.handleXirr(w, r, id)
	case resource == "splits":
		s.handleSplits(w, r, id)
	case resource == "trades":
		s.handleTrades(w, r, id)
	case resource == "currencies":
		s.handleCurrencies(w, r, id)
	case strings.HasPrefix(resource, "news/"):
		s.handleNews(w, r, id, strings.TrimPrefix(resource, "news/"))
	default:
		WriteError(w, http.StatusNotFound, "Unknown resource")
	}
}
