package interfaces

import (
	"context"

	"github.com/gmorrison/foliowatch/internal/models"
)

// PortfolioService assembles per-account portfolios from the day's emails.
// Dates are ISO YYYY-MM-DD; an empty date means today.
type PortfolioService interface {
	// GetAccountPortfolios returns one portfolio per mapped account for the
	// date, sorted by account name.
	GetAccountPortfolios(ctx context.Context, date string) ([]*models.AccountPortfolio, error)

	// GetAllModelHoldings returns every model row parsed from the date's
	// emails with no canonical-name filtering. Used by the analysis path.
	GetAllModelHoldings(ctx context.Context, date string) ([]*models.Holding, error)

	// GetParseReport returns the parse report for the date's emails.
	GetParseReport(ctx context.Context, date string) (*models.ParseReport, error)
}

// ChangeService detects day-over-day allocation changes.
type ChangeService interface {
	// DetectChanges compares the date against its previous trading day and
	// reports true additions and removals of securities. On a non-trading
	// day it returns a no-change alert without touching the mail source.
	DetectChanges(ctx context.Context, date string) (*models.ChangeAlert, error)
}

// CombinedService groups account portfolios by base account name across
// currency suffixes and attaches the day's change summaries.
type CombinedService interface {
	GetCombinedAccounts(ctx context.Context, date string) ([]*models.CombinedAccountPortfolio, error)
}

// AnalysisService ranks models and flags movers, underperformers, and
// unowned opportunities.
type AnalysisService interface {
	AnalyzeModels(ctx context.Context, date string) (*models.ModelAnalysis, error)
}

// ReportService renders the daily digest.
type ReportService interface {
	GenerateDigest(ctx context.Context, date string) (*models.Digest, error)

	// RenderRankingChart renders the model ranking bar chart as PNG bytes.
	RenderRankingChart(ctx context.Context, date string) ([]byte, error)
}
