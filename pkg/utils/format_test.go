package utils

import (
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{100000, "1,00,000"},
		{14500000000, "14,50,00,00,000"},
		{-123456, "-1,23,456"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.n); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseFlexibleDate(t *testing.T) {
	want := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2025-01-15", "15-01-2025", "15/01/2025"} {
		got, err := ParseFlexibleDate(input)
		if err != nil {
			t.Errorf("ParseFlexibleDate(%q): %v", input, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseFlexibleDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseFlexibleDate("Jan 15 2025"); err == nil {
		t.Error("unsupported layout must fail")
	}
}
