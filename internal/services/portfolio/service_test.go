package portfolio

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmorrison/foliowatch/internal/common"
	"github.com/gmorrison/foliowatch/internal/models"
	"github.com/gmorrison/foliowatch/internal/storage/memcache"
)

const performanceEmail = `<html><body>
<table>
<tr><th>Name</th><th>Final Equity</th><th>Ret. YTD</th><th>Ret. 12Mo</th><th>Portfolio</th></tr>
<tr><td>1. Glen S&amp;P 100</td><td>$12,500.00</td><td>22%</td><td>31%</td><td>AAPL (60%) MSFT (40%)</td></tr>
<tr><td>2. Momentum Max</td><td>$9,800.00</td><td>-4%</td><td>8%</td><td>TSLA (100%)</td></tr>
</table>
</body></html>`

type stubMail struct {
	emails []*models.Email
	calls  atomic.Int32
}

func (s *stubMail) GetPortfolioEmails(ctx context.Context, from, to time.Time) ([]*models.Email, error) {
	s.calls.Add(1)
	return s.emails, nil
}

type stubSheets struct {
	mappings []models.ModelAccountMapping
}

func (s *stubSheets) GetModelAccountMappings(ctx context.Context) ([]models.ModelAccountMapping, error) {
	return s.mappings, nil
}

func (s *stubSheets) GetPortfolioModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newTestService() (*Service, *stubMail) {
	mail := &stubMail{emails: []*models.Email{
		{ID: "msg-1", Subject: "Daily Performance", HTMLBody: performanceEmail},
	}}
	sheets := &stubSheets{mappings: []models.ModelAccountMapping{
		{Model: "Glen S&P 100", Account: "Glen RRSP $USD"},
		{Model: "Glen S&P 100", Account: "Glen TFSA $CAD"},
	}}
	return NewService(mail, sheets, memcache.New(), common.NewSilentLogger()), mail
}

func TestGetAccountPortfoliosFanOut(t *testing.T) {
	svc, _ := newTestService()

	accounts, err := svc.GetAccountPortfolios(context.Background(), "2025-06-03")
	require.NoError(t, err)

	// One mapped model fans out to both of its accounts; the unmapped model
	// is filtered. Accounts come back sorted by name.
	require.Len(t, accounts, 2)
	assert.Equal(t, "Glen RRSP $USD", accounts[0].AccountName)
	assert.Equal(t, "Glen TFSA $CAD", accounts[1].AccountName)

	for _, acct := range accounts {
		require.Len(t, acct.Models, 1)
		m := acct.Models[0]
		assert.Equal(t, "1. Glen S&P 100", m.Name)
		require.NotNil(t, m.Performance)
		assert.Equal(t, "AAPL (60%) MSFT (40%)", m.Performance.Portfolio)
		assert.Equal(t, 12500.0, acct.TotalValue)
		assert.Equal(t, "2025-06-03", acct.Date)
	}
}

func TestGetAccountPortfoliosCachesEmails(t *testing.T) {
	svc, mail := newTestService()

	_, err := svc.GetAccountPortfolios(context.Background(), "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, int32(1), mail.calls.Load())

	_, err = svc.GetAccountPortfolios(context.Background(), "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, int32(1), mail.calls.Load(), "second call served from cache")

	_, err = svc.GetAllModelHoldings(context.Background(), "2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, int32(1), mail.calls.Load(), "all-models path reuses cached emails")
}

func TestGetAllModelHoldingsIsUnfiltered(t *testing.T) {
	svc, _ := newTestService()

	holdings, err := svc.GetAllModelHoldings(context.Background(), "2025-06-03")
	require.NoError(t, err)

	require.Len(t, holdings, 2)
	assert.Equal(t, "1. Glen S&P 100", holdings[0].Name)
	assert.Equal(t, "2. Momentum Max", holdings[1].Name)
	assert.Equal(t, 8.0, holdings[1].Performance.Return12Month)
}

func TestGetParseReport(t *testing.T) {
	svc, _ := newTestService()

	report, err := svc.GetParseReport(context.Background(), "2025-06-03")
	require.NoError(t, err)

	parsed, skipped, malformed := report.Counts()
	assert.Equal(t, 1, parsed)
	assert.Equal(t, 1, skipped, "unmapped model filtered during extraction")
	assert.Equal(t, 0, malformed)
}

func TestGetAccountPortfoliosNoEmails(t *testing.T) {
	mail := &stubMail{}
	sheets := &stubSheets{mappings: []models.ModelAccountMapping{
		{Model: "Glen S&P 100", Account: "Glen RRSP $USD"},
	}}
	svc := NewService(mail, sheets, memcache.New(), common.NewSilentLogger())

	accounts, err := svc.GetAccountPortfolios(context.Background(), "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, accounts, "a day without emails yields no portfolios, not an error")
}
