// Package portfolio assembles per-account portfolios from the day's vendor
// emails and the model-account mapping sheet.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/extract"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/matching"
	"github.com/gmorrison/foliowatch/internal/models"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

// Service implements PortfolioService
type Service struct {
	mail   interfaces.MailClient
	sheets interfaces.SheetClient
	cache  interfaces.Cache
	logger *common.Logger
}

// NewService creates a new portfolio service
func NewService(
	mail interfaces.MailClient,
	sheets interfaces.SheetClient,
	cache interfaces.Cache,
	logger *common.Logger,
) *Service {
	return &Service{
		mail:   mail,
		sheets: sheets,
		cache:  cache,
		logger: logger,
	}
}

// dayAssembly is the cached result of one date's full assembly pass.
type dayAssembly struct {
	accounts []*models.AccountPortfolio
	report   *models.ParseReport
}

// GetAccountPortfolios returns one portfolio per mapped account for the date,
// sorted by account name.
func (s *Service) GetAccountPortfolios(ctx context.Context, date string) ([]*models.AccountPortfolio, error) {
	assembly, err := s.assembleDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return assembly.accounts, nil
}

// GetParseReport returns the parse report produced by the date's assembly.
func (s *Service) GetParseReport(ctx context.Context, date string) (*models.ParseReport, error) {
	assembly, err := s.assembleDay(ctx, date)
	if err != nil {
		return nil, err
	}
	return assembly.report, nil
}

func (s *Service) assembleDay(ctx context.Context, date string) (*dayAssembly, error) {
	dateStr, day, err := common.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	key := memcache.Key("accounts", dateStr)
	if cached, ok := s.cache.Get(key); ok {
		if assembly, ok := cached.(*dayAssembly); ok {
			return assembly, nil
		}
	}

	mappings, err := s.getMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get model-account mappings: %w", err)
	}

	canonical := make([]string, 0, len(mappings))
	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if _, ok := seen[m.Model]; ok {
			continue
		}
		seen[m.Model] = struct{}{}
		canonical = append(canonical, m.Model)
	}

	holdings, report, err := s.extractDay(ctx, dateStr, day, canonical)
	if err != nil {
		return nil, err
	}

	accounts := s.assembleAccounts(holdings, mappings, dateStr)
	assembly := &dayAssembly{accounts: accounts, report: report}
	s.cache.Set(key, assembly, memcache.TTLDerived)

	parsed, skipped, malformed := report.Counts()
	s.logger.Info().
		Str("date", dateStr).
		Int("accounts", len(accounts)).
		Int("parsed", parsed).
		Int("skipped", skipped).
		Int("malformed", malformed).
		Msg("Assembled account portfolios")

	return assembly, nil
}

// GetAllModelHoldings returns every model row from the date's emails with no
// canonical filtering. The analysis layer ranks across all vendor models, not
// just the owned ones.
func (s *Service) GetAllModelHoldings(ctx context.Context, date string) ([]*models.Holding, error) {
	dateStr, day, err := common.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	key := memcache.Key("all_models", dateStr)
	if cached, ok := s.cache.Get(key); ok {
		if holdings, ok := cached.([]*models.Holding); ok {
			return holdings, nil
		}
	}

	holdings, _, err := s.extractDay(ctx, dateStr, day, nil)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, holdings, memcache.TTLDerived)
	return holdings, nil
}

// extractDay fetches the date's emails and extracts holdings from each. An
// email without an HTML body falls back to its PDF statement attachment.
func (s *Service) extractDay(ctx context.Context, dateStr string, day time.Time, canonical []string) ([]*models.Holding, *models.ParseReport, error) {
	emails, err := s.fetchEmails(ctx, dateStr, day)
	if err != nil {
		return nil, nil, err
	}

	var holdings []*models.Holding
	report := &models.ParseReport{}

	for _, email := range emails {
		if email.HTMLBody == "" {
			holdings = append(holdings, s.extractFromStatements(email, canonical)...)
			continue
		}

		parsed, emailReport, err := extract.ExtractHoldings(email.HTMLBody, canonical)
		if err != nil {
			// Unparseable document, not just an odd table. Skip the email.
			s.logger.Warn().Err(err).Str("email", email.ID).Msg("Failed to parse email HTML")
			continue
		}
		holdings = append(holdings, parsed...)
		report.Merge(emailReport)
	}

	return holdings, report, nil
}

// extractFromStatements recovers model allocations from PDF statement
// attachments. Best effort: extraction failures are logged and skipped.
func (s *Service) extractFromStatements(email *models.Email, canonical []string) []*models.Holding {
	var holdings []*models.Holding
	for _, att := range email.Attachments {
		if !att.IsPDF() {
			continue
		}
		text, err := extract.StatementText(att.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("email", email.ID).Str("file", att.Filename).Msg("Failed to extract statement text")
			continue
		}
		for _, h := range extract.ParseStatementModels(text) {
			if matching.MatchesAny(h.Name, canonical) {
				holdings = append(holdings, h)
			}
		}
	}
	if len(holdings) > 0 {
		s.logger.Info().Str("email", email.ID).Int("models", len(holdings)).Msg("Recovered models from PDF statement")
	}
	return holdings
}

func (s *Service) fetchEmails(ctx context.Context, dateStr string, day time.Time) ([]*models.Email, error) {
	key := memcache.Key("emails", dateStr)
	if cached, ok := s.cache.Get(key); ok {
		if emails, ok := cached.([]*models.Email); ok {
			return emails, nil
		}
	}

	emails, err := s.mail.GetPortfolioEmails(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch portfolio emails for %s: %w", dateStr, err)
	}

	s.cache.Set(key, emails, memcache.TTLEmail)
	return emails, nil
}

func (s *Service) getMappings(ctx context.Context) ([]models.ModelAccountMapping, error) {
	const key = "mappings"
	if cached, ok := s.cache.Get(key); ok {
		if mappings, ok := cached.([]models.ModelAccountMapping); ok {
			return mappings, nil
		}
	}

	mappings, err := s.sheets.GetModelAccountMappings(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, mappings, memcache.TTLDerived)
	return mappings, nil
}

// assembleAccounts fans each extracted model out to every account whose
// mapping matches it. A model with no matching mapping is dropped with a
// warning; it never fails the batch.
func (s *Service) assembleAccounts(holdings []*models.Holding, mappings []models.ModelAccountMapping, dateStr string) []*models.AccountPortfolio {
	byAccount := make(map[string]*models.AccountPortfolio)

	for _, h := range holdings {
		matched := false
		for _, m := range mappings {
			if !matching.ModelsMatch(h.Name, m.Model) {
				continue
			}
			matched = true

			acct, ok := byAccount[m.Account]
			if !ok {
				acct = &models.AccountPortfolio{AccountName: m.Account, Date: dateStr}
				byAccount[m.Account] = acct
			}
			acct.Models = append(acct.Models, models.ModelData{
				Name:        h.Name,
				Symbol:      h.Symbol,
				Performance: h.Performance,
			})
			acct.TotalValue += h.Value
		}

		if !matched {
			s.logger.Warn().Str("model", h.Name).Msg("No account mapping found for model, dropping")
		}
	}

	accounts := make([]*models.AccountPortfolio, 0, len(byAccount))
	for _, acct := range byAccount {
		accounts = append(accounts, acct)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountName < accounts[j].AccountName
	})

	return accounts
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
