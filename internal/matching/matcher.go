// Package matching resolves model names across the inconsistent conventions
// used by the vendor emails and the mapping sheet. Strategies run in a fixed
// order; the first hit wins. This is a heuristic: substring containment can
// mis-pair short names ("Growth" vs "Aggressive Growth") and that ambiguity is
// an accepted risk of the source data.
package matching

import (
	"regexp"
	"strings"
)

// numberPrefixRe matches a leading ordinal like "1. " or "12. " that the
// vendor prepends to model names in some tables.
var numberPrefixRe = regexp.MustCompile(`^\d+\.\s*`)

// StripNumberPrefix removes a leading "<digits>. " prefix from a model name.
func StripNumberPrefix(name string) string {
	return numberPrefixRe.ReplaceAllString(name, "")
}

// ExactFold reports case-insensitive equality after trimming whitespace.
func ExactFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ContainsFold reports case-insensitive substring containment in either
// direction. Handles "1. Glen S&P 100" against "Glen S&P 100".
func ContainsFold(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// PrefixStrippedFold reports case-insensitive equality after stripping a
// leading number prefix from both sides.
func PrefixStrippedFold(a, b string) bool {
	return ExactFold(StripNumberPrefix(strings.TrimSpace(a)), StripNumberPrefix(strings.TrimSpace(b)))
}

// ModelsMatch applies the strategy cascade: exact, containment, then
// prefix-stripped equality.
func ModelsMatch(candidate, canonical string) bool {
	if ExactFold(candidate, canonical) {
		return true
	}
	if ContainsFold(candidate, canonical) {
		return true
	}
	return PrefixStrippedFold(candidate, canonical)
}

// MatchesAny reports whether the candidate matches any canonical name. An
// empty canonical list disables filtering and accepts everything; the
// all-models analysis path relies on this.
func MatchesAny(candidate string, canonical []string) bool {
	if len(canonical) == 0 {
		return true
	}
	for _, c := range canonical {
		if ModelsMatch(candidate, c) {
			return true
		}
	}
	return false
}
