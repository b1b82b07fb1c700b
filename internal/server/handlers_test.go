package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gmorrison/foliowatch/internal/app"
	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/models"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

// stubChanges serves a canned alert or error for the changes endpoint.
type stubChanges struct {
	alert *models.ChangeAlert
	err   error
}

func (s *stubChanges) DetectChanges(ctx context.Context, date string) (*models.ChangeAlert, error) {
	return s.alert, s.err
}

type stubPortfolios struct{}

func (s *stubPortfolios) GetAccountPortfolios(ctx context.Context, date string) ([]*models.AccountPortfolio, error) {
	return []*models.AccountPortfolio{{AccountName: "Glen RRSP $USD", Date: "2025-06-03"}}, nil
}

func (s *stubPortfolios) GetAllModelHoldings(ctx context.Context, date string) ([]*models.Holding, error) {
	return nil, nil
}

func (s *stubPortfolios) GetParseReport(ctx context.Context, date string) (*models.ParseReport, error) {
	return &models.ParseReport{}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	config := common.NewDefaultConfig()
	config.Auth.AdminUsername = "admin"
	config.Auth.AdminPasswordHash = string(hash)

	a := &app.App{
		Config:           config,
		Logger:           common.NewSilentLogger(),
		Cache:            memcache.New(),
		PortfolioService: &stubPortfolios{},
		ChangeService:    &stubChanges{alert: &models.ChangeAlert{Date: "2025-06-03", Message: "No portfolio changes detected"}},
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, common.GetVersion(), resp["version"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, common.GetVersion(), resp["version"])
}

func TestHandleChanges(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/changes?date=2025-06-03", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var alert models.ChangeAlert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&alert))
	assert.Equal(t, "2025-06-03", alert.Date)
	assert.Equal(t, "No portfolio changes detected", alert.Message)
}

func TestHandleChangesUpstreamTimeout(t *testing.T) {
	srv := newTestServer(t)
	srv.app.ChangeService = &stubChanges{err: fmt.Errorf("failed to fetch portfolio emails: request timeout")}

	req := httptest.NewRequest(http.MethodGet, "/api/changes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Retryable)
}

func TestHandleChangesInternalError(t *testing.T) {
	srv := newTestServer(t)
	srv.app.ChangeService = &stubChanges{err: fmt.Errorf("holiday table malformed")}

	req := httptest.NewRequest(http.MethodGet, "/api/changes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlePortfoliosMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolios", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestAuthLoginAndCacheClear(t *testing.T) {
	srv := newTestServer(t)

	// Wrong password rejected
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{
		"username": "admin", "password": "wrong",
	}))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid login returns a token
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{
		"username": "admin", "password": "correct-horse",
	}))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// Admin endpoint rejects anonymous calls
	req = httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// And accepts the issued token
	srv.app.Cache.Set("changes:2025-06-03", "stale", memcache.TTLDerived)
	req = httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, ok := srv.app.Cache.Get("changes:2025-06-03")
	assert.False(t, ok, "cache cleared")
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Correlation-ID"))
}
