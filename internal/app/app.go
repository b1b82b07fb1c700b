// Package app wires configuration, clients, and services into one core shared
// by the server binary and its tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/gmorrison/foliowatch/internal/clients/gemini"
	"github.com/gmorrison/foliowatch/internal/clients/gmail"
	"github.com/gmorrison/foliowatch/internal/clients/sheets"
	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/services/analysis"
	"github.com/gmorrison/foliowatch/internal/services/changes"
	"github.com/gmorrison/foliowatch/internal/services/combined"
	"github.com/gmorrison/foliowatch/internal/services/portfolio"
	"github.com/gmorrison/foliowatch/internal/services/report"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

// App holds all initialized clients and services.
type App struct {
	Config *common.Config
	Logger *common.Logger
	Cache  interfaces.Cache

	MailClient  interfaces.MailClient
	SheetClient interfaces.SheetClient
	AIClient    interfaces.AIClient

	PortfolioService interfaces.PortfolioService
	ChangeService    interfaces.ChangeService
	CombinedService  interfaces.CombinedService
	AnalysisService  interfaces.AnalysisService
	ReportService    interfaces.ReportService

	StartupTime time.Time

	scheduler *scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Local development convenience; a missing .env is not an error.
	godotenv.Load()

	binDir := getBinaryDir()

	// Config resolution: explicit path, FOLIOWATCH_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIOWATCH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "foliowatch.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/foliowatch.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	mailClient := gmail.NewClient(config.Clients.Gmail.AccessToken,
		gmail.WithBaseURL(config.Clients.Gmail.BaseURL),
		gmail.WithSenderQuery(config.Clients.Gmail.SenderQuery),
		gmail.WithLogger(logger),
		gmail.WithRateLimit(config.Clients.Gmail.RateLimit),
		gmail.WithTimeout(config.Clients.Gmail.GetTimeout()),
	)

	sheetClient, err := sheets.NewClient(config.Clients.Sheets.AccessToken, config.Clients.Sheets.SpreadsheetID,
		sheets.WithBaseURL(config.Clients.Sheets.BaseURL),
		sheets.WithRanges(config.Clients.Sheets.MappingRange, config.Clients.Sheets.ModelsRange),
		sheets.WithLogger(logger),
		sheets.WithRateLimit(config.Clients.Sheets.RateLimit),
		sheets.WithTimeout(config.Clients.Sheets.GetTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	var aiClient interfaces.AIClient
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client - commentary will be unavailable")
		} else {
			aiClient = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - commentary will be unavailable")
	}

	cache := memcache.New()

	portfolioService := portfolio.NewService(mailClient, sheetClient, cache, logger)
	changeService := changes.NewService(portfolioService, cache, logger)
	combinedService := combined.NewService(portfolioService, changeService, logger)
	analysisService := analysis.NewService(portfolioService, sheetClient, cache, logger)

	var digestAI interfaces.AIClient
	if config.Digest.Commentary {
		digestAI = aiClient
	}
	reportService := report.NewService(combinedService, changeService, analysisService, digestAI, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Cache:            cache,
		MailClient:       mailClient,
		SheetClient:      sheetClient,
		AIClient:         aiClient,
		PortfolioService: portfolioService,
		ChangeService:    changeService,
		CombinedService:  combinedService,
		AnalysisService:  analysisService,
		ReportService:    reportService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler launches the daily digest priming job.
func (a *App) StartScheduler() error {
	s, err := newScheduler(a.Config.Digest.Schedule, a.ReportService, a.Logger)
	if err != nil {
		return err
	}
	a.scheduler = s
	s.Start()
	return nil
}

// Close releases background resources.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
}
