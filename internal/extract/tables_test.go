package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmorrison/foliowatch/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    models.TableKind
	}{
		{"holdings by symbol", []string{"symbol", "description", "change"}, models.TableHoldings},
		{"holdings by market value", []string{"security", "market value"}, models.TableHoldings},
		{"performance", []string{"name", "final equity", "ret. ytd", "portfolio"}, models.TablePerformance},
		{"performance two hits only", []string{"name", "portfolio", "notes"}, models.TableUnclassified},
		{"decorative", []string{"about", "contact"}, models.TableUnclassified},
		{"empty", nil, models.TableUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.headers))
		})
	}
}

const holdingsDoc = `<html><body>
<table><tr><td>Daily Portfolio Update</td></tr></table>
<table>
<tr><th>Symbol</th><th>Name</th><th>Quantity</th><th>Price</th><th>Value</th><th>Change</th><th>Change %</th></tr>
<tr><td>AAPL</td><td>Apple Inc</td><td>100</td><td>$201.50</td><td>$20,150.00</td><td>($120.00)</td><td>-0.59%</td></tr>
<tr><td>MSFT</td><td>Microsoft Corp</td><td>50</td><td>$430.00</td><td>$21,500.00</td><td>$85.00</td><td>0.40%</td></tr>
<tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func TestExtractHoldingsTable(t *testing.T) {
	holdings, report, err := ExtractHoldings(holdingsDoc, nil)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	h := holdings[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.Equal(t, "Apple Inc", h.Name)
	assert.Equal(t, 100.0, h.Quantity)
	assert.Equal(t, 201.50, h.Price)
	assert.Equal(t, 20150.0, h.Value)
	assert.Equal(t, -120.0, h.DayChange)
	assert.Equal(t, -0.59, h.DayChangePct)
	assert.Nil(t, h.Performance)

	require.Len(t, report.Tables, 2)
	assert.Equal(t, models.TableUnclassified, report.Tables[0].Kind)
	assert.Equal(t, "fewer than 2 rows", report.Tables[0].SkipReason)

	tr := report.Tables[1]
	assert.Equal(t, models.TableHoldings, tr.Kind)
	require.Len(t, tr.Rows, 3)
	assert.Equal(t, models.RowParsed, tr.Rows[0].Status)
	assert.Equal(t, models.RowSkipped, tr.Rows[2].Status)
	assert.Equal(t, "no symbol or name", tr.Rows[2].Reason)
}

const performanceDoc = `<html><body>
<table>
<tr><th>Name</th><th>Final Equity</th><th>Prob. Win</th><th>Ret. YTD</th><th>Ret. 1Mo</th><th>Ret. 12Mo</th><th>Sharpe</th><th>CAGR</th><th>Portfolio</th></tr>
<tr><td>1. Glen S&amp;P 100</td><td>$12,500.00</td><td>68%</td><td>22%</td><td>3.1%</td><td>31%</td><td>1.45</td><td>18.2%</td>
<td><span style="color: green">NVDA (30%)</span> AAPL (40%) MSFT (30%)</td></tr>
<tr><td>2. Momentum Max</td><td>$9,800.00</td><td>55%</td><td>-4%</td><td>-1.2%</td><td>8%</td><td>0.70</td><td>6.5%</td>
<td>TSLA (60%) AMD (40%)</td></tr>
</table>
</body></html>`

func TestExtractPerformanceTable(t *testing.T) {
	holdings, report, err := ExtractHoldings(performanceDoc, nil)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	h := holdings[0]
	assert.Equal(t, "1. Glen S&P 100", h.Name)
	assert.Equal(t, "Glen S&P 100", h.Symbol)
	require.NotNil(t, h.Performance)
	assert.Equal(t, 12500.0, h.Performance.FinalEquity)
	assert.Equal(t, 68.0, h.Performance.ProbabilityWin)
	assert.Equal(t, 22.0, h.Performance.ReturnYTD)
	assert.Equal(t, 3.1, h.Performance.Return1Month)
	assert.Equal(t, 31.0, h.Performance.Return12Month)
	assert.Equal(t, 1.45, h.Performance.SharpeRatio)
	assert.Equal(t, 18.2, h.Performance.CAGR)
	assert.Equal(t, "NVDA (30%) AAPL (40%) MSFT (30%)", h.Performance.Portfolio)

	// Value proxies in the absence of a price feed
	assert.Equal(t, 12500.0, h.Value)
	assert.Equal(t, 22.0, h.DayChangePct)

	// Only the span styled green counts
	assert.Equal(t, []string{"NVDA"}, h.Performance.GreenHoldings)
	assert.Empty(t, holdings[1].Performance.GreenHoldings)

	require.Len(t, report.Tables, 1)
	assert.Equal(t, models.TablePerformance, report.Tables[0].Kind)
}

func TestExtractHoldingsCanonicalFilter(t *testing.T) {
	holdings, report, err := ExtractHoldings(performanceDoc, []string{"Glen S&P 100"})
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "1. Glen S&P 100", holdings[0].Name)

	tr := report.Tables[0]
	require.Len(t, tr.Rows, 2)
	assert.Equal(t, models.RowParsed, tr.Rows[0].Status)
	assert.Equal(t, models.RowSkipped, tr.Rows[1].Status)
	assert.Equal(t, "model not in canonical list", tr.Rows[1].Reason)
}

func TestExtractSkipsTableWithoutNameColumnWhenFiltering(t *testing.T) {
	doc := `<table>
<tr><th>Symbol</th><th>Quantity</th><th>Price</th><th>Value</th></tr>
<tr><td>AAPL</td><td>100</td><td>$200.00</td><td>$20,000.00</td></tr>
</table>`

	// Unfiltered: the table parses fine
	holdings, _, err := ExtractHoldings(doc, nil)
	require.NoError(t, err)
	assert.Len(t, holdings, 1)

	// Filtered: no name column to match against, whole table skipped
	holdings, report, err := ExtractHoldings(doc, []string{"Glen S&P 100"})
	require.NoError(t, err)
	assert.Empty(t, holdings)
	require.Len(t, report.Tables, 1)
	assert.Equal(t, "no name column for model filtering", report.Tables[0].SkipReason)
}

func TestExtractGreenHoldingsFontColor(t *testing.T) {
	doc := `<table>
<tr><th>Name</th><th>Final Equity</th><th>Ret. YTD</th><th>Portfolio</th></tr>
<tr><td>1. Value Tilt</td><td>$10,000.00</td><td>5%</td>
<td><font color="#00FF00">PXT.TO (20%)</font> XOM (80%)</td></tr>
</table>`

	holdings, _, err := ExtractHoldings(doc, nil)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, []string{"PXT.TO"}, holdings[0].Performance.GreenHoldings)
}

func TestParseReportCounts(t *testing.T) {
	_, report, err := ExtractHoldings(holdingsDoc, nil)
	require.NoError(t, err)

	parsed, skipped, malformed := report.Counts()
	assert.Equal(t, 2, parsed)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, malformed)
}
