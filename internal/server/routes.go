package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)

	// Portfolios
	mux.HandleFunc("/api/portfolios", s.handlePortfolios)
	mux.HandleFunc("/api/accounts/combined", s.handleCombinedAccounts)

	// Changes and analysis
	mux.HandleFunc("/api/changes", s.handleChanges)
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
	mux.HandleFunc("/api/analysis/chart", s.handleAnalysisChart)
	mux.HandleFunc("/api/digest", s.handleDigest)

	// Debug
	mux.HandleFunc("/api/debug/parse-report", s.handleParseReport)

	// Admin
	mux.HandleFunc("/api/admin/cache/clear", s.requireAdmin(s.handleCacheClear))
}
