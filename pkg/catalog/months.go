package catalog

import (
	"strconv"
	"strings"
)

var monthNames = [12]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthName returns the Turkish name for a 1-based month number, or ""
// when the number is out of range.
func MonthName(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return monthNames[n-1]
}

// FormatMonths renders the month tokens of a release period for display:
// ["03"] becomes "Mart", ["02" "03"] becomes "Şubat-Mart". A token that is
// not a month number is kept as-is.
func FormatMonths(months []string) string {
	if len(months) == 0 {
		return ""
	}
	names := make([]string, len(months))
	for i, m := range months {
		if n, err := strconv.Atoi(strings.TrimSpace(m)); err == nil && MonthName(n) != "" {
			names[i] = MonthName(n)
		} else {
			names[i] = m
		}
	}
	return strings.Join(names, "-")
}
