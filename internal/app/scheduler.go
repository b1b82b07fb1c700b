package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
)

// scheduler primes the daily digest on a cron schedule so the first morning
// request hits a warm cache.
type scheduler struct {
	cron   *cron.Cron
	logger *common.Logger
}

func newScheduler(schedule string, reports interfaces.ReportService, logger *common.Logger) (*scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		start := time.Now()
		digest, err := reports.GenerateDigest(ctx, "")
		if err != nil {
			logger.Error().Err(err).Msg("Scheduled digest generation failed")
			return
		}
		logger.Info().
			Str("date", digest.Date).
			Dur("duration", time.Since(start)).
			Msg("Scheduled digest generated")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}

	return &scheduler{cron: c, logger: logger}, nil
}

func (s *scheduler) Start() {
	s.logger.Info().Msg("Digest scheduler started")
	s.cron.Start()
}

func (s *scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Digest scheduler stopped")
}
