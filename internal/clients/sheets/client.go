// Package sheets provides a client for the Google Sheets values API, scoped
// to reading the model-account mapping sheet.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/models"
)

const (
	DefaultBaseURL      = "https://sheets.googleapis.com"
	DefaultTimeout      = 30 * time.Second
	DefaultRateLimit    = 5 // requests per second
	DefaultMappingRange = "Mappings!A:B"
	DefaultModelsRange  = "Models!A:A"
)

// Client implements the SheetClient interface
type Client struct {
	baseURL       string
	accessToken   string
	spreadsheetID string
	mappingRange  string
	modelsRange   string
	httpClient    *http.Client
	logger        *common.Logger
	limiter       *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRanges sets the mapping and models A1 ranges
func WithRanges(mappingRange, modelsRange string) ClientOption {
	return func(c *Client) {
		if mappingRange != "" {
			c.mappingRange = mappingRange
		}
		if modelsRange != "" {
			c.modelsRange = modelsRange
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Sheets client. The spreadsheet ID is required; a
// missing ID is a configuration failure raised at construction time.
func NewClient(accessToken, spreadsheetID string, opts ...ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	c := &Client{
		baseURL:       DefaultBaseURL,
		accessToken:   accessToken,
		spreadsheetID: spreadsheetID,
		mappingRange:  DefaultMappingRange,
		modelsRange:   DefaultModelsRange,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Sheets API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// getValues fetches one A1 range from the spreadsheet.
func (c *Client) getValues(ctx context.Context, a1Range string) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s", c.spreadsheetID, url.PathEscape(a1Range))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("range", a1Range).Msg("Sheets API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var vr valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return vr.Values, nil
}

// GetModelAccountMappings returns the mapping rows: column A model, column B
// account. Rows missing either column are skipped.
func (c *Client) GetModelAccountMappings(ctx context.Context) ([]models.ModelAccountMapping, error) {
	values, err := c.getValues(ctx, c.mappingRange)
	if err != nil {
		return nil, err
	}

	mappings := make([]models.ModelAccountMapping, 0, len(values))
	for _, row := range values {
		if len(row) < 2 {
			continue
		}
		model := strings.TrimSpace(row[0])
		account := strings.TrimSpace(row[1])
		if model == "" || account == "" {
			continue
		}
		mappings = append(mappings, models.ModelAccountMapping{Model: model, Account: account})
	}

	return mappings, nil
}

// GetPortfolioModels returns the owned-model name list from column A.
func (c *Client) GetPortfolioModels(ctx context.Context) ([]string, error) {
	values, err := c.getValues(ctx, c.modelsRange)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(row[0]); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// Ensure Client implements SheetClient
var _ interfaces.SheetClient = (*Client)(nil)
