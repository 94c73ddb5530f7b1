// Package models defines the core data structures for bhav copy data.
package models

import "time"

// Record is one normalized end-of-day row for one symbol/series on one date.
// The natural key is (Date, Symbol, Series); a later ingestion of the same
// key overwrites every non-key field. Pointer fields are nullable and render
// as empty CSV cells.
type Record struct {
	Date        Date     `csv:"date"`
	Symbol      string   `csv:"symbol"`
	Series      string   `csv:"series"`
	Open        *float64 `csv:"open"`
	High        *float64 `csv:"high"`
	Low         *float64 `csv:"low"`
	Close       *float64 `csv:"close"`
	LastPrice   *float64 `csv:"last_price"`
	PrevClose   *float64 `csv:"prev_close"`
	Volume      *int64   `csv:"volume"`
	Turnover    *float64 `csv:"turnover"`
	TotalTrades *int64   `csv:"total_trades"`
	ISIN        *string  `csv:"isin"`
}

// Columns is the canonical artifact column order.
var Columns = []string{
	"date", "symbol", "series",
	"open", "high", "low", "close", "last_price", "prev_close",
	"volume", "turnover", "total_trades", "isin",
}

// Date is a calendar date without a time component. It marshals as
// YYYY-MM-DD in CSV and JSON.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar date in the given location.
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is after other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekday reports whether the date falls Monday through Friday.
func (d Date) IsWeekday() bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Compact renders the date as YYYYMMDD, the form embedded in file names
// and the modern archive URL.
func (d Date) Compact() string {
	return d.Time().Format("20060102")
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// ParseCompactDate parses a YYYYMMDD date string.
func ParseCompactDate(s string) (Date, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// MarshalCSV renders the date for gocsv.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV parses the date for gocsv.
func (d *Date) UnmarshalCSV(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON renders the date as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a JSON date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HistoryBar is one OHLCV point returned by the read API.
type HistoryBar struct {
	Date   Date     `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *int64   `json:"volume"`
}
