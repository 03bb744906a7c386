// Package format renders amounts and dates for display: Colombian pesos,
// Spanish month names and masked card numbers.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var monthNamesShort = [12]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// Currency renders an amount as Colombian pesos, no decimals, dot-separated
// thousands: 1234567 -> "$ 1.234.567".
func Currency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return "-$ " + groupThousands(-n)
	}
	return "$ " + groupThousands(n)
}

// Number renders a plain number with dot-separated thousands.
func Number(value float64) string {
	n := int64(math.Round(value))
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// Percentage renders a rounded percentage, signed for positive values.
func Percentage(value float64, showSign bool) string {
	sign := ""
	if showSign && value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%d%%", sign, int(math.Round(value)))
}

// CardNumber masks all but the last four digits.
func CardNumber(lastFour string) string {
	if lastFour == "" {
		return "•••• •••• •••• ••••"
	}
	return "•••• •••• •••• " + lastFour
}

// Month returns the Spanish month name for a 1-based month, or "" if out of range.
func Month(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// MonthShort returns the abbreviated Spanish month name.
func MonthShort(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesShort[month-1]
}

// Date renders DD/MM/YYYY.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateLong renders "9 de Marzo, 2025".
func DateLong(t time.Time) string {
	return fmt.Sprintf("%d de %s, %d", t.Day(), Month(int(t.Month())), t.Year())
}

// RelativeTime describes how long ago a date was, in Spanish, falling back
// to the short date past a month.
func RelativeTime(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Hoy"
	case days == 1:
		return "Ayer"
	case days < 7:
		return fmt.Sprintf("Hace %d días", days)
	case days < 30:
		return fmt.Sprintf("Hace %d semanas", days/7)
	default:
		return Date(t)
	}
}
