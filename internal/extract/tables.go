package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gmorrison/foliowatch/internal/matching"
	"github.com/gmorrison/foliowatch/internal/models"
)

// Header keywords that classify a table as a plain holdings table. One hit is
// enough: these words rarely appear together outside position tables.
var holdingsKeywords = []string{"symbol", "quantity", "price", "value", "shares", "position", "market value"}

// Header keywords for model-performance tables. At least perfThreshold must
// hit: single-keyword overlap ("name", "portfolio") is too common in
// decorative tables to trust alone.
var performanceKeywords = []string{"final equity", "ret. ytd", "ret. 1mo", "sharpe", "cagr", "portfolio", "name"}

const perfThreshold = 3

// nameColumnTerms are accepted headers for the model-name column, required
// when canonical filtering is requested.
var nameColumnTerms = []string{"name", "model", "fund name", "security name"}

// ExtractHoldings scans an HTML document for holdings and performance tables
// and returns the typed rows plus a parse report covering every table and row
// encountered. When canonical is non-empty, rows whose model name matches no
// canonical name are skipped, and tables without a recognizable name column
// are skipped entirely. An error is returned only when the document cannot be
// parsed at all.
func ExtractHoldings(htmlDoc string, canonical []string) ([]*models.Holding, *models.ParseReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	var holdings []*models.Holding
	report := &models.ParseReport{}

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		tr := models.TableReport{Index: i, Kind: models.TableUnclassified}

		rows := table.Find("tr")
		if rows.Length() < 2 {
			// Decorative/layout table. Expected, not an error.
			tr.SkipReason = "fewer than 2 rows"
			report.Tables = append(report.Tables, tr)
			return
		}

		headers := headerTexts(rows.First())
		tr.Headers = headers

		kind := classify(headers)
		tr.Kind = kind
		if kind == models.TableUnclassified {
			tr.SkipReason = "headers match neither holdings nor performance keywords"
			report.Tables = append(report.Tables, tr)
			return
		}

		nameIdx := headerIndex(headers, nameColumnTerms...)
		if len(canonical) > 0 && nameIdx < 0 {
			tr.SkipReason = "no name column for model filtering"
			report.Tables = append(report.Tables, tr)
			return
		}

		rows.Slice(1, rows.Length()).Each(func(j int, row *goquery.Selection) {
			rr := RowReport(j)
			cells := cellTexts(row)

			if len(canonical) > 0 {
				name := cellAt(cells, nameIdx)
				if !matching.MatchesAny(name, canonical) {
					rr.Status = models.RowSkipped
					rr.Reason = "model not in canonical list"
					tr.Rows = append(tr.Rows, rr)
					return
				}
			}

			var h *models.Holding
			var reason string
			switch kind {
			case models.TableHoldings:
				h, reason = parseHoldingsRow(headers, cells)
			case models.TablePerformance:
				h, reason = parsePerformanceRow(headers, cells, row)
			}

			if h == nil {
				rr.Status = models.RowSkipped
				rr.Reason = reason
				tr.Rows = append(tr.Rows, rr)
				return
			}

			rr.Status = models.RowParsed
			rr.Symbol = h.Symbol
			tr.Rows = append(tr.Rows, rr)
			holdings = append(holdings, h)
		})

		report.Tables = append(report.Tables, tr)
	})

	return holdings, report, nil
}

// RowReport returns a fresh row report for the given data-row index.
func RowReport(index int) models.RowReport {
	return models.RowReport{Index: index}
}

// Classify exposes header classification for tests and diagnostics.
func Classify(headers []string) models.TableKind {
	return classify(headers)
}

func classify(headers []string) models.TableKind {
	joined := strings.ToLower(strings.Join(headers, " "))

	for _, kw := range holdingsKeywords {
		if strings.Contains(joined, kw) {
			return models.TableHoldings
		}
	}

	hits := 0
	for _, kw := range performanceKeywords {
		if strings.Contains(joined, kw) {
			hits++
		}
	}
	if hits >= perfThreshold {
		return models.TablePerformance
	}

	return models.TableUnclassified
}

// headerTexts extracts the first row's cell texts, lower-cased and trimmed.
func headerTexts(row *goquery.Selection) []string {
	var headers []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.ToLower(CleanText(cell.Text())))
	})
	return headers
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, CleanText(cell.Text()))
	})
	return cells
}

// headerIndex returns the index of the first header containing any search
// term, scanning terms in order so earlier terms win.
func headerIndex(headers []string, terms ...string) int {
	for _, term := range terms {
		for i, h := range headers {
			if strings.Contains(h, term) {
				return i
			}
		}
	}
	return -1
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
