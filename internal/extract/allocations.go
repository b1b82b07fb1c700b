package extract

import "regexp"

// allocationRe matches one "SYMBOL (NN%)" token in a holdings string. The
// symbol class includes "." for exchange-suffixed tickers like "PXT.TO".
var allocationRe = regexp.MustCompile(`([A-Z.]+)\s*\((\d+)%\)`)

// Allocation is one parsed token of a vendor holdings string. Raw preserves
// the exact matched text so reports reproduce the source encoding verbatim.
type Allocation struct {
	Symbol string
	Weight float64
	Raw    string
}

// ParseAllocations extracts all allocation tokens from a holdings string.
func ParseAllocations(text string) []Allocation {
	matches := allocationRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	allocs := make([]Allocation, 0, len(matches))
	for _, m := range matches {
		allocs = append(allocs, Allocation{
			Symbol: m[1],
			Weight: ParseNumber(m[2]),
			Raw:    m[0],
		})
	}
	return allocs
}

// SymbolSet indexes allocations by symbol, first occurrence winning.
// Change detection compares these sets and ignores the weights, so pure
// percentage rebalancing produces no delta.
func SymbolSet(allocs []Allocation) map[string]Allocation {
	set := make(map[string]Allocation, len(allocs))
	for _, a := range allocs {
		if _, ok := set[a.Symbol]; !ok {
			set[a.Symbol] = a
		}
	}
	return set
}
