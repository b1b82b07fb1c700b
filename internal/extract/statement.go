package extract

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/gmorrison/foliowatch/internal/matching"
	"github.com/gmorrison/foliowatch/internal/models"
)

// StatementText extracts plain text from a PDF statement attachment. Used as
// a fallback when a vendor email arrives without an HTML body.
func StatementText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open statement PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract statement text: %w", err)
	}

	text, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("failed to read statement text: %w", err)
	}
	return string(text), nil
}

// modelLineRe matches a numbered model heading like "1. Glen S&P 100" in
// statement text.
var modelLineRe = regexp.MustCompile(`^\d+\.\s+\S`)

// ParseStatementModels recovers model allocations from statement text. Lines
// shaped like numbered model headings open a model; subsequent allocation
// tokens accumulate into its holdings string until the next heading. Only the
// allocation text survives the PDF round trip, so the resulting performance
// blocks carry the portfolio string and nothing else.
func ParseStatementModels(text string) []*models.Holding {
	var holdings []*models.Holding
	var current *models.Holding
	var lines []string

	flush := func() {
		if current == nil {
			return
		}
		current.Performance.Portfolio = strings.Join(lines, "\n")
		if current.Performance.Portfolio != "" {
			holdings = append(holdings, current)
		}
		current = nil
		lines = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := CleanText(raw)
		if line == "" {
			continue
		}

		if modelLineRe.MatchString(line) && len(ParseAllocations(line)) == 0 {
			flush()
			current = &models.Holding{
				Symbol:      matching.StripNumberPrefix(line),
				Name:        line,
				Performance: &models.PerformanceData{},
			}
			continue
		}

		if current != nil {
			for _, a := range ParseAllocations(line) {
				lines = append(lines, a.Raw)
			}
		}
	}
	flush()

	return holdings
}
