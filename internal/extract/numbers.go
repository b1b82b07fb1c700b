// Package extract turns vendor email HTML into typed holdings records. The
// vendor controls the markup, so everything here is best-effort: rows and
// tables that don't match the expected shape are reported and skipped, never
// escalated as errors.
package extract

import (
	"html"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer("$", "", ",", "", "(", "", ")", "", "%", "", "+", "")

// ParseNumber converts vendor numeric text to a float. Currency symbols,
// thousands separators, parentheses, and percent signs are stripped; a value
// is negative when the original text contained "(" or a leading "-".
// Unparseable text yields 0. Percentages keep their bare value (22, not 0.22)
// so reports round-trip against the source format.
func ParseNumber(text string) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}

	neg := strings.Contains(t, "(") || strings.HasPrefix(t, "-")

	clean := strings.TrimSpace(numberCleaner.Replace(t))
	clean = strings.TrimPrefix(clean, "-")

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}

// CleanText decodes HTML entities and collapses runs of whitespace. Vendor
// HTML encodes ampersands in fund names ("S&amp;P"), so decoding must happen
// before any name comparison or storage.
func CleanText(s string) string {
	decoded := html.UnescapeString(s)
	return strings.Join(strings.Fields(decoded), " ")
}
