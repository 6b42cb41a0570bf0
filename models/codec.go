package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// atoi reads a normalised numeric cell. Fractions are truncated; junk is 0.
func atoi(s string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// day trims a stored date to its YYYY-MM-DD part.
func day(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
