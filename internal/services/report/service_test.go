package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/models"
)

type stubCombined struct {
	accounts []*models.CombinedAccountPortfolio
}

func (s *stubCombined) GetCombinedAccounts(ctx context.Context, date string) ([]*models.CombinedAccountPortfolio, error) {
	return s.accounts, nil
}

type stubChanges struct {
	alert *models.ChangeAlert
}

func (s *stubChanges) DetectChanges(ctx context.Context, date string) (*models.ChangeAlert, error) {
	return s.alert, nil
}

type stubAnalysis struct {
	analysis *models.ModelAnalysis
}

func (s *stubAnalysis) AnalyzeModels(ctx context.Context, date string) (*models.ModelAnalysis, error) {
	return s.analysis, nil
}

type stubAI struct {
	text string
	err  error
}

func (s *stubAI) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func fixtureAlert() *models.ChangeAlert {
	date := "2025-06-03"
	prev := "2025-06-02"
	return &models.ChangeAlert{
		Date:       date,
		HasChanges: true,
		Changes: []models.PortfolioChange{{
			ModelName:     "Glen S&P 100",
			AccountName:   "Glen RRSP $USD",
			AddedHoldings: []string{"NVDA (50%)"},
			Date:          date,
		}},
		TotalChanges:     1,
		AffectedAccounts: []string{"Glen RRSP $USD"},
		ComparisonDate:   &prev,
		Message:          "1 portfolio change(s) detected across 1 account(s)",
	}
}

func fixtureAnalysis() *models.ModelAnalysis {
	return &models.ModelAnalysis{
		Date:       "2025-06-03",
		ModelCount: 2,
		TopPerformers: []models.RankedModel{
			{Rank: 1, Name: "Alpha Core", Return12Month: 50, ReturnYTD: 20, IsOwned: false},
			{Rank: 2, Name: "Glen S&P 100", Return12Month: 31, ReturnYTD: 22, IsOwned: true},
		},
		Opportunities: []models.RankedModel{
			{Rank: 1, Name: "Alpha Core", Return12Month: 50},
		},
	}
}

func newTestService(ai *stubAI) *Service {
	combined := &stubCombined{accounts: []*models.CombinedAccountPortfolio{{
		BaseAccountName:         "Glen RRSP",
		Date:                    "2025-06-03",
		TotalValueAllCurrencies: 12500,
		Currencies: []models.CurrencyPortfolio{{
			Currency:   "USD",
			TotalValue: 12500,
			Models: []models.ModelData{{
				Name:        "1. Glen S&P 100",
				Performance: &models.PerformanceData{ReturnYTD: 22, Return12Month: 31},
			}},
		}},
	}}}

	svc := NewService(combined, &stubChanges{alert: fixtureAlert()}, &stubAnalysis{analysis: fixtureAnalysis()}, nil, common.NewSilentLogger())
	if ai != nil {
		svc.ai = ai
	}
	return svc
}

func TestGenerateDigest(t *testing.T) {
	svc := newTestService(nil)

	digest, err := svc.GenerateDigest(context.Background(), "2025-06-03")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-03", digest.Date)
	assert.Equal(t, "Portfolio Digest 2025-06-03: 1 change(s) detected", digest.Subject)
	assert.Empty(t, digest.Commentary, "no AI client means no commentary")

	body := digest.HTMLBody
	assert.Contains(t, body, "Portfolio Digest")
	assert.Contains(t, body, "Glen RRSP")
	assert.Contains(t, body, "$12,500.00")
	assert.Contains(t, body, "NVDA (50%)")
	assert.Contains(t, body, "Alpha Core")
	assert.Contains(t, body, "Top Performers")
}

func TestGenerateDigestWithCommentary(t *testing.T) {
	svc := newTestService(&stubAI{text: "A quiet session with one rotation."})

	digest, err := svc.GenerateDigest(context.Background(), "2025-06-03")
	require.NoError(t, err)

	assert.Equal(t, "A quiet session with one rotation.", digest.Commentary)
	assert.Contains(t, digest.HTMLBody, "A quiet session with one rotation.")
}

func TestGenerateDigestCommentaryFailureIsNonFatal(t *testing.T) {
	svc := newTestService(&stubAI{err: assert.AnError})

	digest, err := svc.GenerateDigest(context.Background(), "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, digest.Commentary)
	assert.NotEmpty(t, digest.HTMLBody)
}

func TestDigestSubjectNoChanges(t *testing.T) {
	subject := digestSubject("2025-06-07", &models.ChangeAlert{Date: "2025-06-07"})
	assert.Equal(t, "Portfolio Digest 2025-06-07: no changes", subject)
}

func TestFormatDigestEscapesContent(t *testing.T) {
	alert := &models.ChangeAlert{Date: "2025-06-03", Message: "No portfolio changes detected"}
	analysis := &models.ModelAnalysis{Date: "2025-06-03"}

	body := formatDigest("2025-06-03", nil, alert, analysis, `<script>alert("x")</script>`)
	assert.NotContains(t, body, `<script>`)
	assert.True(t, strings.Contains(body, "&lt;script&gt;"))
}
