// Package changes detects day-over-day security-level portfolio changes.
package changes

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gmorrison/foliowatch/internal/calendar"
	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/extract"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/models"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

// Service implements ChangeService
type Service struct {
	portfolios interfaces.PortfolioService
	cache      interfaces.Cache
	logger     *common.Logger
}

// NewService creates a new change detection service
func NewService(portfolios interfaces.PortfolioService, cache interfaces.Cache, logger *common.Logger) *Service {
	return &Service{
		portfolios: portfolios,
		cache:      cache,
		logger:     logger,
	}
}

// DetectChanges compares the date's portfolios against the previous trading
// day's and reports security additions and removals per model per account. On
// a non-trading day it short-circuits with a no-change alert before touching
// the mail source.
func (s *Service) DetectChanges(ctx context.Context, date string) (*models.ChangeAlert, error) {
	dateStr, day, err := common.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	key := memcache.Key("changes", dateStr)
	if cached, ok := s.cache.Get(key); ok {
		if alert, ok := cached.(*models.ChangeAlert); ok {
			return alert, nil
		}
	}

	if !calendar.IsTradingDay(day) {
		alert := &models.ChangeAlert{
			Date:       dateStr,
			HasChanges: false,
			Changes:    []models.PortfolioChange{},
			Message:    calendar.NoChangeReason(day),
		}
		s.cache.Set(key, alert, memcache.TTLDerived)
		return alert, nil
	}

	prevDay, err := calendar.PreviousTradingDay(day)
	if err != nil {
		return nil, err
	}
	prevStr := prevDay.Format(calendar.DateFormat)

	// Both days must load. A partial comparison would report every holding
	// of the missing day as a change.
	var (
		wg                sync.WaitGroup
		today, yesterday  []*models.AccountPortfolio
		todayErr, prevErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		today, todayErr = s.portfolios.GetAccountPortfolios(ctx, dateStr)
	}()
	go func() {
		defer wg.Done()
		yesterday, prevErr = s.portfolios.GetAccountPortfolios(ctx, prevStr)
	}()
	wg.Wait()
	if todayErr != nil {
		return nil, fmt.Errorf("failed to load portfolios for %s: %w", dateStr, todayErr)
	}
	if prevErr != nil {
		return nil, fmt.Errorf("failed to load portfolios for %s: %w", prevStr, prevErr)
	}

	alert := s.compare(today, yesterday, dateStr, prevStr)
	s.cache.Set(key, alert, memcache.TTLDerived)

	s.logger.Info().
		Str("date", dateStr).
		Str("comparison_date", prevStr).
		Int("changes", alert.TotalChanges).
		Msg("Change detection complete")

	return alert, nil
}

func (s *Service) compare(today, yesterday []*models.AccountPortfolio, dateStr, prevStr string) *models.ChangeAlert {
	prevModels := indexModels(yesterday)
	todayModels := indexModels(today)

	var changes []models.PortfolioChange

	for _, acct := range today {
		for _, model := range acct.Models {
			curr := extract.SymbolSet(extract.ParseAllocations(holdingsText(model)))
			prev := map[string]extract.Allocation{}
			if prevModel, ok := prevModels[modelKey(acct.AccountName, model.Name)]; ok {
				prev = extract.SymbolSet(extract.ParseAllocations(holdingsText(prevModel)))
			}

			var added, removed []string
			for sym, alloc := range curr {
				if _, ok := prev[sym]; !ok {
					added = append(added, alloc.Raw)
				}
			}
			for sym, alloc := range prev {
				if _, ok := curr[sym]; !ok {
					removed = append(removed, alloc.Raw)
				}
			}
			if len(added) == 0 && len(removed) == 0 {
				continue
			}
			sort.Strings(added)
			sort.Strings(removed)
			changes = append(changes, models.PortfolioChange{
				ModelName:       model.Name,
				AccountName:     acct.AccountName,
				AddedHoldings:   added,
				RemovedHoldings: removed,
				Date:            dateStr,
			})
		}
	}

	// A model present yesterday but absent today is a full removal.
	for _, acct := range yesterday {
		for _, model := range acct.Models {
			if _, ok := todayModels[modelKey(acct.AccountName, model.Name)]; ok {
				continue
			}
			prev := extract.SymbolSet(extract.ParseAllocations(holdingsText(model)))
			if len(prev) == 0 {
				continue
			}
			removed := make([]string, 0, len(prev))
			for _, alloc := range prev {
				removed = append(removed, alloc.Raw)
			}
			sort.Strings(removed)
			changes = append(changes, models.PortfolioChange{
				ModelName:       model.Name,
				AccountName:     acct.AccountName,
				RemovedHoldings: removed,
				Date:            dateStr,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].AccountName != changes[j].AccountName {
			return changes[i].AccountName < changes[j].AccountName
		}
		return changes[i].ModelName < changes[j].ModelName
	})

	accounts := make(map[string]struct{})
	for _, c := range changes {
		accounts[c.AccountName] = struct{}{}
	}
	affected := make([]string, 0, len(accounts))
	for a := range accounts {
		affected = append(affected, a)
	}
	sort.Strings(affected)

	alert := &models.ChangeAlert{
		Date:             dateStr,
		HasChanges:       len(changes) > 0,
		TotalChanges:     len(changes),
		Changes:          changes,
		AffectedAccounts: affected,
		ComparisonDate:   &prevStr,
	}
	if alert.HasChanges {
		alert.Message = fmt.Sprintf("%d portfolio change(s) detected across %d account(s)", alert.TotalChanges, len(affected))
	} else {
		alert.Message = "No portfolio changes detected"
	}
	if alert.Changes == nil {
		alert.Changes = []models.PortfolioChange{}
	}
	return alert
}

// holdingsText returns the raw vendor holdings string carried on a model row.
func holdingsText(m models.ModelData) string {
	if m.Performance == nil {
		return ""
	}
	return m.Performance.Portfolio
}

func modelKey(account, model string) string {
	return account + "\x00" + model
}

func indexModels(accounts []*models.AccountPortfolio) map[string]models.ModelData {
	idx := make(map[string]models.ModelData)
	for _, acct := range accounts {
		for _, model := range acct.Models {
			idx[modelKey(acct.AccountName, model.Name)] = model
		}
	}
	return idx
}

// Ensure Service implements ChangeService
var _ interfaces.ChangeService = (*Service)(nil)
