package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// greenHoldings collects allocation symbols rendered green inside the
// portfolio cell at the given column index. The vendor marks newly traded
// positions with green text, either via an inline style or a legacy font
// color attribute, so both are checked on the cell and all its descendants.
func greenHoldings(row *goquery.Selection, portfolioIdx int) []string {
	cell := row.Find("td, th").Eq(portfolioIdx)
	if cell.Length() == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var symbols []string

	collect := func(text string) {
		for _, a := range ParseAllocations(text) {
			if _, ok := seen[a.Symbol]; ok {
				continue
			}
			seen[a.Symbol] = struct{}{}
			symbols = append(symbols, a.Symbol)
		}
	}

	if isGreen(cell) {
		collect(CleanText(cell.Text()))
	}

	cell.Find("*").Each(func(_ int, el *goquery.Selection) {
		if isGreen(el) {
			collect(CleanText(el.Text()))
		}
	})

	return symbols
}

// isGreen reports whether the element's inline style or color attribute
// indicates green text: color:green, #00ff00, #008000, or any CSS color
// value containing "green".
func isGreen(el *goquery.Selection) bool {
	if style, ok := el.Attr("style"); ok && styleIsGreen(style) {
		return true
	}
	if color, ok := el.Attr("color"); ok && colorIsGreen(color) {
		return true
	}
	return false
}

func styleIsGreen(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	for _, decl := range strings.Split(s, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || !strings.HasSuffix(name, "color") {
			continue
		}
		if colorIsGreen(value) {
			return true
		}
	}
	return false
}

func colorIsGreen(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "#00ff00" || v == "#008000" || strings.Contains(v, "green")
}
