// Package format renders prices. Amounts are GBP minor units (pence).
package format

import (
	"fmt"
	"strings"
)

// FmtGBP formats pence as pounds with a thousands separator and two decimals.
// Example: FmtGBP(2199) => "£21.99"
func FmtGBP(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	s := "£" + thousandSep(minor/100) + "." + fmt.Sprintf("%02d", minor%100)
	if neg {
		return "-" + s
	}
	return s
}

// Major renders minor units as a plain two-decimal figure, e.g. 6000 => "60.00".
// schema.org offers use it for their prices.
func Major(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	s := fmt.Sprintf("%d.%02d", minor/100, minor%100)
	if neg {
		return "-" + s
	}
	return s
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
