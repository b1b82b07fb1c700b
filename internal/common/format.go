package common

import (
	"fmt"
	"strings"
)

// FormatMoney formats a value as dollars with thousands separators.
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := "$" + sb.String() + "." + parts[1]
	if neg {
		return "-" + out
	}
	return out
}

// FormatSignedMoney is FormatMoney with an explicit plus on gains.
func FormatSignedMoney(v float64) string {
	if v > 0 {
		return "+" + FormatMoney(v)
	}
	return FormatMoney(v)
}

// FormatPct formats a bare percentage value (22, not 0.22).
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatSignedPct is FormatPct with an explicit plus on gains.
func FormatSignedPct(v float64) string {
	if v > 0 {
		return "+" + FormatPct(v)
	}
	return FormatPct(v)
}
