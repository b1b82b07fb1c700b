// Package analysis ranks vendor models and flags movers and laggards.
package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/gmorrison/foliowatch/internal/calendar"
	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/extract"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/matching"
	"github.com/gmorrison/foliowatch/internal/models"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

const (
	topCount = 5

	// modelMoverPct flags a model whose final equity moved more than this
	// percentage against the previous trading day.
	modelMoverPct = 3.0

	// securityMoverPts flags a security whose allocation weight moved more
	// than this many percentage points day over day.
	securityMoverPts = 5.0

	// underperformPts and underperformFrac both must be exceeded before an
	// owned model counts as lagging the top performers.
	underperformPts  = 5.0
	underperformFrac = 0.10
)

// Service implements AnalysisService
type Service struct {
	portfolios interfaces.PortfolioService
	sheets     interfaces.SheetClient
	cache      interfaces.Cache
	logger     *common.Logger
}

// NewService creates a new analysis service
func NewService(
	portfolios interfaces.PortfolioService,
	sheets interfaces.SheetClient,
	cache interfaces.Cache,
	logger *common.Logger,
) *Service {
	return &Service{
		portfolios: portfolios,
		sheets:     sheets,
		cache:      cache,
		logger:     logger,
	}
}

// AnalyzeModels ranks all of the date's models by trailing 12-month return
// and derives top performers, unowned opportunities, day-over-day movers,
// and owned underperformers.
func (s *Service) AnalyzeModels(ctx context.Context, date string) (*models.ModelAnalysis, error) {
	dateStr, day, err := common.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	key := memcache.Key("analysis", dateStr)
	if cached, ok := s.cache.Get(key); ok {
		if analysis, ok := cached.(*models.ModelAnalysis); ok {
			return analysis, nil
		}
	}

	holdings, err := s.portfolios.GetAllModelHoldings(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	owned, err := s.ownedModels(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	ranked := rankModels(holdings, owned)

	analysis := &models.ModelAnalysis{
		Date:       dateStr,
		ModelCount: len(ranked),
	}

	for i, r := range ranked {
		if i >= topCount {
			break
		}
		analysis.TopPerformers = append(analysis.TopPerformers, r)
	}
	for _, r := range ranked {
		if len(analysis.Opportunities) >= topCount {
			break
		}
		if !r.IsOwned {
			analysis.Opportunities = append(analysis.Opportunities, r)
		}
	}
	analysis.Underperformers = underperformers(ranked)

	movers, err := s.dailyMovers(ctx, day, holdings)
	if err != nil {
		// Movers need yesterday's data; the ranking stands without them.
		s.logger.Warn().Err(err).Str("date", dateStr).Msg("Daily mover detection failed")
	} else {
		analysis.DailyMovers = movers
	}

	s.cache.Set(key, analysis, memcache.TTLDerived)

	s.logger.Info().
		Str("date", dateStr).
		Int("models", analysis.ModelCount).
		Int("movers", len(analysis.DailyMovers)).
		Int("underperformers", len(analysis.Underperformers)).
		Msg("Model analysis complete")

	return analysis, nil
}

// ownedModels returns the canonical owned-model names: the sheet's portfolio
// list unioned with every model actually held in today's accounts.
func (s *Service) ownedModels(ctx context.Context, dateStr string) ([]string, error) {
	names, err := s.sheets.GetPortfolioModels(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.portfolios.GetAccountPortfolios(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(names))
	owned := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		owned = append(owned, n)
	}
	for _, acct := range accounts {
		for _, m := range acct.Models {
			if _, ok := seen[m.Name]; ok {
				continue
			}
			seen[m.Name] = struct{}{}
			owned = append(owned, m.Name)
		}
	}
	return owned, nil
}

func rankModels(holdings []*models.Holding, owned []string) []models.RankedModel {
	ranked := make([]models.RankedModel, 0, len(holdings))
	for _, h := range holdings {
		if h.Performance == nil {
			continue
		}
		ranked = append(ranked, models.RankedModel{
			Name:          h.Name,
			Return12Month: h.Performance.Return12Month,
			ReturnYTD:     h.Performance.ReturnYTD,
			FinalEquity:   h.Performance.FinalEquity,
			IsOwned:       isOwned(h.Name, owned),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Return12Month != ranked[j].Return12Month {
			return ranked[i].Return12Month > ranked[j].Return12Month
		}
		return ranked[i].ReturnYTD > ranked[j].ReturnYTD
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func isOwned(name string, owned []string) bool {
	for _, o := range owned {
		if matching.ModelsMatch(name, o) {
			return true
		}
	}
	return false
}

// underperformers returns owned models trailing the top-five average
// 12-month return by both an absolute and a relative margin.
func underperformers(ranked []models.RankedModel) []models.RankedModel {
	n := topCount
	if len(ranked) < n {
		n = len(ranked)
	}
	if n == 0 {
		return nil
	}
	var sum float64
	for _, r := range ranked[:n] {
		sum += r.Return12Month
	}
	topAvg := sum / float64(n)

	var laggards []models.RankedModel
	for _, r := range ranked {
		if !r.IsOwned {
			continue
		}
		diff := topAvg - r.Return12Month
		if diff > underperformPts && diff > underperformFrac*math.Abs(topAvg) {
			laggards = append(laggards, r)
		}
	}
	return laggards
}

// dailyMovers compares today's models against the previous trading day and
// flags models whose equity moved sharply plus securities whose allocation
// weight shifted. Non-trading days have no comparison basis and yield none.
func (s *Service) dailyMovers(ctx context.Context, day time.Time, today []*models.Holding) ([]models.Mover, error) {
	if !calendar.IsTradingDay(day) {
		return nil, nil
	}
	prevDay, err := calendar.PreviousTradingDay(day)
	if err != nil {
		return nil, err
	}

	yesterday, err := s.portfolios.GetAllModelHoldings(ctx, prevDay.Format(calendar.DateFormat))
	if err != nil {
		return nil, err
	}

	prevByName := make(map[string]*models.Holding, len(yesterday))
	for _, h := range yesterday {
		if _, ok := prevByName[h.Name]; !ok {
			prevByName[h.Name] = h
		}
	}

	var movers []models.Mover
	for _, h := range today {
		prev, ok := prevByName[h.Name]
		if !ok || h.Performance == nil || prev.Performance == nil {
			continue
		}

		if prev.Performance.FinalEquity != 0 {
			changePct := (h.Performance.FinalEquity - prev.Performance.FinalEquity) / prev.Performance.FinalEquity * 100
			if math.Abs(changePct) > modelMoverPct {
				movers = append(movers, models.Mover{
					Kind:      models.MoverModel,
					ModelName: h.Name,
					ChangePct: changePct,
				})
			}
		}

		// Weight deltas only for symbols present both days; additions and
		// removals belong to change detection, not here.
		curr := extract.SymbolSet(extract.ParseAllocations(h.Performance.Portfolio))
		before := extract.SymbolSet(extract.ParseAllocations(prev.Performance.Portfolio))
		symbols := make([]string, 0, len(curr))
		for sym := range curr {
			if _, ok := before[sym]; ok {
				symbols = append(symbols, sym)
			}
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			delta := curr[sym].Weight - before[sym].Weight
			if math.Abs(delta) > securityMoverPts {
				movers = append(movers, models.Mover{
					Kind:               models.MoverSecurity,
					ModelName:          h.Name,
					Symbol:             sym,
					EstimatedChangePct: delta,
				})
			}
		}
	}
	return movers, nil
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
