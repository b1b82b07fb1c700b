// Package interfaces defines service and client contracts for Foliowatch
package interfaces

import (
	"context"
	"time"

	"github.com/gmorrison/foliowatch/internal/models"
)

// MailClient returns vendor portfolio-performance emails. Implementations
// filter server-side by sender/subject heuristics plus the date range.
type MailClient interface {
	// GetPortfolioEmails returns all matching emails with date in [from, to).
	GetPortfolioEmails(ctx context.Context, from, to time.Time) ([]*models.Email, error)
}

// SheetClient reads the model-account mapping sheet.
type SheetClient interface {
	// GetModelAccountMappings returns model to account rows (one model may
	// map to multiple accounts).
	GetModelAccountMappings(ctx context.Context) ([]models.ModelAccountMapping, error)

	// GetPortfolioModels returns the canonical list of owned model names.
	GetPortfolioModels(ctx context.Context) ([]string, error)
}

// AIClient generates commentary text. Optional: a nil client disables
// commentary without affecting any data path.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
