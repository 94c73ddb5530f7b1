package utils

import (
	"fmt"
	"time"
)

// FormatCount formats an integer with Indian digit grouping, used for row
// counts in run summaries.
func FormatCount(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}
	formatted := formatIndianNumber(fmt.Sprintf("%d", n))
	if negative {
		return "-" + formatted
	}
	return formatted
}

// formatIndianNumber groups an integer string in the Indian numbering
// system: last three digits, then groups of two.
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatKB formats a byte count in kilobytes with one decimal.
func FormatKB(bytes int64) string {
	return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
}

// FormatDuration renders a duration compactly, e.g. "2h15m" or "45s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour {
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if d >= time.Minute {
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
