package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"version": common.GetVersion(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- Portfolio handlers ---

func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	accounts, err := s.app.PortfolioService.GetAccountPortfolios(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

func (s *Server) handleCombinedAccounts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	accounts, err := s.app.CombinedService.GetCombinedAccounts(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// --- Change and analysis handlers ---

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	alert, err := s.app.ChangeService.DetectChanges(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, alert)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.app.AnalysisService.AnalyzeModels(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleAnalysisChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.ReportService.RenderRankingChart(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	digest, err := s.app.ReportService.GenerateDigest(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, digest)
}

// --- Debug handlers ---

func (s *Server) handleParseReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	report, err := s.app.PortfolioService.GetParseReport(r.Context(), dateParam(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// --- Admin handlers ---

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	date := dateParam(r)
	if date == "" {
		s.app.Cache.ClearAll()
		s.logger.Info().Msg("Cache cleared")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"cleared": "all"})
		return
	}

	for _, op := range []string{"accounts", "all_models", "parse_report", "changes", "analysis", "emails"} {
		s.app.Cache.Clear(memcache.Key(op, date))
	}
	s.logger.Info().Str("date", date).Msg("Cache cleared for date")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"cleared": date})
}
