// Package gmail provides a client for the Gmail REST API, scoped to fetching
// vendor portfolio-performance emails.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/interfaces"
	"github.com/gmorrison/foliowatch/internal/models"
)

const (
	DefaultBaseURL     = "https://gmail.googleapis.com"
	DefaultTimeout     = 30 * time.Second
	DefaultRateLimit   = 5 // requests per second
	DefaultSenderQuery = `from:"StockApp Systems"`
)

// Client implements the MailClient interface
type Client struct {
	baseURL     string
	accessToken string
	senderQuery string
	httpClient  *http.Client
	logger      *common.Logger
	limiter     *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSenderQuery sets the server-side search filter for vendor emails
func WithSenderQuery(query string) ClientOption {
	return func(c *Client) {
		c.senderQuery = query
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

// NewClient creates a new Gmail client
func NewClient(accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
		senderQuery: DefaultSenderQuery,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Gmail API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", path).Msg("Gmail API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetPortfolioEmails returns vendor emails with date in [from, to).
func (c *Client) GetPortfolioEmails(ctx context.Context, from, to time.Time) ([]*models.Email, error) {
	// Gmail's after/before operators take YYYY/MM/DD and are date-granular,
	// which matches the daily-batch model exactly.
	query := fmt.Sprintf("%s after:%s before:%s",
		c.senderQuery, from.Format("2006/01/02"), to.Format("2006/01/02"))

	var list listResponse
	path := "/gmail/v1/users/me/messages?q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}

	emails := make([]*models.Email, 0, len(list.Messages))
	for _, m := range list.Messages {
		email, err := c.getMessage(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch message %s: %w", m.ID, err)
		}
		emails = append(emails, email)
	}

	c.logger.Debug().Int("count", len(emails)).Str("query", query).Msg("Fetched portfolio emails")
	return emails, nil
}

type listResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
	Headers  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"headers"`
	Body struct {
		AttachmentID string `json:"attachmentId"`
		Data         string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

type messageResponse struct {
	ID           string      `json:"id"`
	InternalDate string      `json:"internalDate"` // epoch millis as string
	Payload      messagePart `json:"payload"`
}

// getMessage fetches one message in full and decodes its HTML body plus any
// PDF statement attachments.
func (c *Client) getMessage(ctx context.Context, id string) (*models.Email, error) {
	var msg messageResponse
	path := fmt.Sprintf("/gmail/v1/users/me/messages/%s?format=full", id)
	if err := c.get(ctx, path, &msg); err != nil {
		return nil, err
	}

	email := &models.Email{ID: msg.ID}

	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			email.Subject = h.Value
		case "From":
			email.From = h.Value
		}
	}

	if ms, err := strconv.ParseInt(msg.InternalDate, 10, 64); err == nil {
		email.Date = time.UnixMilli(ms)
	}

	if err := c.walkParts(ctx, msg.ID, msg.Payload, email); err != nil {
		return nil, err
	}

	return email, nil
}

// walkParts recurses through the MIME tree collecting the HTML body and PDF
// attachments.
func (c *Client) walkParts(ctx context.Context, msgID string, part messagePart, email *models.Email) error {
	if part.MimeType == "text/html" && email.HTMLBody == "" {
		body, err := decodeBody(part.Body.Data)
		if err != nil {
			return fmt.Errorf("failed to decode HTML body: %w", err)
		}
		email.HTMLBody = body
	}

	if part.Filename != "" && (part.MimeType == "application/pdf" || strings.HasSuffix(part.Filename, ".pdf")) {
		data, err := c.getAttachment(ctx, msgID, part.Body.AttachmentID)
		if err != nil {
			return err
		}
		email.Attachments = append(email.Attachments, models.Attachment{
			Filename: part.Filename,
			MIMEType: "application/pdf",
			Data:     data,
		})
	}

	for _, p := range part.Parts {
		if err := c.walkParts(ctx, msgID, p, email); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) getAttachment(ctx context.Context, msgID, attachmentID string) ([]byte, error) {
	var resp struct {
		Data string `json:"data"`
	}
	path := fmt.Sprintf("/gmail/v1/users/me/messages/%s/attachments/%s", msgID, attachmentID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return decodeBytes(resp.Data)
}

// decodeBody decodes Gmail's URL-safe base64 body data to a string.
func decodeBody(data string) (string, error) {
	b, err := decodeBytes(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeBytes(data string) ([]byte, error) {
	// Gmail emits unpadded URL-safe base64, but be tolerant of padding.
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(data)
}

// Ensure Client implements MailClient
var _ interfaces.MailClient = (*Client)(nil)
