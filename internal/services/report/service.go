// Package report renders the daily portfolio digest.
package report

import (
	"context"
	"fmt"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/models"
)

// Service implements ReportService
type Service struct {
	combined interfaces.CombinedService
	changes  interfaces.ChangeService
	analysis interfaces.AnalysisService
	ai       interfaces.AIClient
	logger   *common.Logger
}

// NewService creates a new report service. The AI client may be nil, which
// disables commentary.
func NewService(
	combined interfaces.CombinedService,
	changes interfaces.ChangeService,
	analysis interfaces.AnalysisService,
	ai interfaces.AIClient,
	logger *common.Logger,
) *Service {
	return &Service{
		combined: combined,
		changes:  changes,
		analysis: analysis,
		ai:       ai,
		logger:   logger,
	}
}

// GenerateDigest assembles the date's combined accounts, change alert, and
// model analysis into one HTML digest.
func (s *Service) GenerateDigest(ctx context.Context, date string) (*models.Digest, error) {
	dateStr, _, err := common.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	accounts, err := s.combined.GetCombinedAccounts(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to load combined accounts for digest: %w", err)
	}
	alert, err := s.changes.DetectChanges(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to detect changes for digest: %w", err)
	}
	analysis, err := s.analysis.AnalyzeModels(ctx, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze models for digest: %w", err)
	}

	digest := &models.Digest{
		Date:    dateStr,
		Subject: digestSubject(dateStr, alert),
	}
	digest.Commentary = s.generateCommentary(ctx, alert, analysis)
	digest.HTMLBody = formatDigest(dateStr, accounts, alert, analysis, digest.Commentary)

	s.logger.Info().
		Str("date", dateStr).
		Int("accounts", len(accounts)).
		Bool("has_changes", alert.HasChanges).
		Msg("Generated daily digest")

	return digest, nil
}

// RenderRankingChart renders the date's model ranking as a PNG bar chart.
func (s *Service) RenderRankingChart(ctx context.Context, date string) ([]byte, error) {
	analysis, err := s.analysis.AnalyzeModels(ctx, date)
	if err != nil {
		return nil, err
	}
	return renderRankingChart(analysis)
}

func digestSubject(dateStr string, alert *models.ChangeAlert) string {
	if alert.HasChanges {
		return fmt.Sprintf("Portfolio Digest %s: %d change(s) detected", dateStr, alert.TotalChanges)
	}
	return fmt.Sprintf("Portfolio Digest %s: no changes", dateStr)
}

// generateCommentary asks the AI client for a short narrative. Best effort:
// a missing client or a generation failure produces an empty commentary, never
// a failed digest.
func (s *Service) generateCommentary(ctx context.Context, alert *models.ChangeAlert, analysis *models.ModelAnalysis) string {
	if s.ai == nil {
		return ""
	}
	commentary, err := s.ai.GenerateContent(ctx, commentaryPrompt(alert, analysis))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Commentary generation failed, digest continues without it")
		return ""
	}
	return commentary
}

func commentaryPrompt(alert *models.ChangeAlert, analysis *models.ModelAnalysis) string {
	var changeLines string
	for _, c := range alert.Changes {
		changeLines += fmt.Sprintf("- %s (%s): added %v, removed %v\n", c.ModelName, c.AccountName, c.AddedHoldings, c.RemovedHoldings)
	}
	if changeLines == "" {
		changeLines = "- none\n"
	}

	var topLines string
	for _, r := range analysis.TopPerformers {
		topLines += fmt.Sprintf("- #%d %s: 12m %s, YTD %s\n", r.Rank, r.Name, common.FormatSignedPct(r.Return12Month), common.FormatSignedPct(r.ReturnYTD))
	}

	return fmt.Sprintf(`You are a portfolio assistant writing a short morning note for %s.

Portfolio changes today:
%s
Top performing models:
%s
Write 2-3 sentences summarizing the day. Plain prose, no headings, no advice to buy or sell.`,
		alert.Date, changeLines, topLines)
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
