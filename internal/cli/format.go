// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatMoney formats an amount with a dollar sign, thousands separators and
// cents. e.g., -1234.5 -> "-$1,234.50"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupDigits(whole) + "." + frac
}

// FormatMoneyShort formats an amount with K/M/B suffixes for narrow columns.
// e.g., 1234 -> "$1.2K", -2500000 -> "-$2.5M"
func FormatMoneyShort(d decimal.Decimal) string {
	f := d.InexactFloat64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	switch {
	case f >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, f/1_000_000_000)
	case f >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, f/1_000_000)
	case f >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, f/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, f)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + groupDigits(strconv.FormatInt(n, 10)[1:])
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value that is already a percentage.
// e.g., 51.29 -> "+51.3%"
func FormatPercent(p decimal.Decimal) string {
	s := p.StringFixed(1) + "%"
	if p.Round(1).IsPositive() {
		return "+" + s
	}
	return s
}

// FormatRate formats an annual fraction as a percentage.
// e.g., 0.199 -> "19.9%"
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(decimalHundred).StringFixed(1) + "%"
}

// FormatFactor formats a scenario multiplier. e.g., 1.1 -> "×1.10"
func FormatFactor(f decimal.Decimal) string {
	return "×" + f.StringFixed(2)
}

// FormatDelta formats simulated - current with an explicit sign.
func FormatDelta(current, simulated decimal.Decimal) string {
	delta := simulated.Sub(current)
	if delta.Round(2).IsNegative() {
		return FormatMoney(delta)
	}
	return "+" + FormatMoney(delta)
}

// FormatMonths formats a month count. e.g., 27 -> "2y 3m", 8 -> "8m"
func FormatMonths(n int) string {
	if n <= 0 {
		return "0m"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dm", months)
	case months == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dm", years, months)
	}
}

// OrDash returns s, or a dash placeholder for empty cells.
func OrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
