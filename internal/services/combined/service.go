// Package combined groups per-account portfolios by base account name across
// currency suffixes.
package combined

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/models"
)

// currencySuffixRe matches a trailing currency designation like "$USD" or
// "$CAD" (case-insensitive) on an account name.
var currencySuffixRe = regexp.MustCompile(`(?i)\s+\$(?:USD|CAD)$`)

// Service implements CombinedService
type Service struct {
	portfolios interfaces.PortfolioService
	changes    interfaces.ChangeService
	logger     *common.Logger
}

// NewService creates a new combined account service
func NewService(portfolios interfaces.PortfolioService, changes interfaces.ChangeService, logger *common.Logger) *Service {
	return &Service{
		portfolios: portfolios,
		changes:    changes,
		logger:     logger,
	}
}

// BaseAccountName strips the trailing currency suffix from an account name.
// "Glen RRSP $USD" and "Glen RRSP $CAD" both reduce to "Glen RRSP".
func BaseAccountName(account string) string {
	return strings.TrimSpace(currencySuffixRe.ReplaceAllString(account, ""))
}

// Currency returns the account's currency designation, defaulting to USD
// when the name carries no suffix.
func Currency(account string) string {
	suffix := currencySuffixRe.FindString(account)
	if suffix == "" {
		return "USD"
	}
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(suffix), "$"))
}

// GetCombinedAccounts groups the date's account portfolios under base account
// names with one currency slice each, and attaches the day's change summary
// per base account.
func (s *Service) GetCombinedAccounts(ctx context.Context, date string) ([]*models.CombinedAccountPortfolio, error) {
	accounts, err := s.portfolios.GetAccountPortfolios(ctx, date)
	if err != nil {
		return nil, err
	}

	byBase := make(map[string]*models.CombinedAccountPortfolio)
	for _, acct := range accounts {
		base := BaseAccountName(acct.AccountName)
		combined, ok := byBase[base]
		if !ok {
			combined = &models.CombinedAccountPortfolio{
				BaseAccountName: base,
				Date:            acct.Date,
			}
			byBase[base] = combined
		}
		combined.Currencies = append(combined.Currencies, models.CurrencyPortfolio{
			Currency:   Currency(acct.AccountName),
			Models:     acct.Models,
			TotalValue: acct.TotalValue,
		})
		combined.TotalValueAllCurrencies += acct.TotalValue
	}

	result := make([]*models.CombinedAccountPortfolio, 0, len(byBase))
	for _, combined := range byBase {
		sort.Slice(combined.Currencies, func(i, j int) bool {
			return combined.Currencies[i].Currency < combined.Currencies[j].Currency
		})
		result = append(result, combined)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].BaseAccountName < result[j].BaseAccountName
	})

	s.attachChanges(ctx, date, result)
	return result, nil
}

// attachChanges annotates combined accounts with the day's change summary.
// Best effort: a change detection failure leaves the portfolios usable.
func (s *Service) attachChanges(ctx context.Context, date string, combined []*models.CombinedAccountPortfolio) {
	alert, err := s.changes.DetectChanges(ctx, date)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Change detection failed, returning combined accounts without change summaries")
		return
	}

	byBase := make(map[string]*models.ChangeSummary)
	for _, change := range alert.Changes {
		base := BaseAccountName(change.AccountName)
		summary, ok := byBase[base]
		if !ok {
			summary = &models.ChangeSummary{}
			byBase[base] = summary
		}
		summary.AddedHoldings = append(summary.AddedHoldings, change.AddedHoldings...)
		summary.RemovedHoldings = append(summary.RemovedHoldings, change.RemovedHoldings...)
		summary.HasChanges = summary.HasChanges || len(change.AddedHoldings) > 0 || len(change.RemovedHoldings) > 0
	}

	for _, c := range combined {
		if summary, ok := byBase[c.BaseAccountName]; ok {
			c.Changes = summary
		}
	}
}

// Ensure Service implements CombinedService
var _ interfaces.CombinedService = (*Service)(nil)
