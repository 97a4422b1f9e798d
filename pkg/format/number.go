// Package format renders figures for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-flags/internal/flags"
)

// Amount returns an amount with thousands separators and two decimals (e.g., "-1,234.56").
func Amount(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + groupThousands(fmt.Sprintf("%.2f", math.Abs(amount)))
}

// Ratio returns a ratio with four decimals (e.g., "0.0250").
func Ratio(ratio float64) string {
	return fmt.Sprintf("%.4f", ratio)
}

// Metric formats m as an amount or a ratio and marks missing data.
func Metric(m flags.Metric, isAmount bool) string {
	var s string
	if isAmount {
		s = Amount(m.Float64())
	} else {
		s = Ratio(m.Float64())
	}
	if m.IsMissing() {
		s += " (missing)"
	}
	return s
}

// FlagClass returns a lower-case CSS class for a flag, e.g. "green".
func FlagClass(f flags.Flag) string {
	return strings.ToLower(strings.ReplaceAll(f.String(), "_", "-"))
}

func groupThousands(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
