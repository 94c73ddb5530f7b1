package bhav

import (
	"strconv"
	"strings"

	"nse-bhav/internal/models"
)

// Table is a raw parsed delimited table: one header row plus data rows.
// Header cells are expected to be whitespace-trimmed by the parser.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Normalize maps a raw table to canonical records using the column mapping
// implied by the target date's schema variant.
//
// Only columns present in both the raw table and the mapping contribute;
// everything else is silently ignored, which is what lets one function
// handle both the 13-column and 34-column inputs without branching on row
// shape. Canonical fields with no source column become nulls. The date
// field is always forced to the supplied target date, discarding any
// date-like value in the raw data.
func Normalize(t Table, date models.Date) []models.Record {
	colMap := SchemaFor(date).ColumnMap()

	// canonical field name -> column index in the raw table
	index := make(map[string]int, len(colMap))
	for i, header := range t.Headers {
		if canonical, ok := colMap[header]; ok {
			if _, seen := index[canonical]; !seen {
				index[canonical] = i
			}
		}
	}

	records := make([]models.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		cell := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := models.Record{
			Date:        date,
			Symbol:      strings.ToUpper(cell("symbol")),
			Series:      strings.ToUpper(cell("series")),
			Open:        parseFloat(cell("open")),
			High:        parseFloat(cell("high")),
			Low:         parseFloat(cell("low")),
			Close:       parseFloat(cell("close")),
			LastPrice:   parseFloat(cell("last_price")),
			PrevClose:   parseFloat(cell("prev_close")),
			Volume:      parseInt(cell("volume")),
			Turnover:    parseFloat(cell("turnover")),
			TotalTrades: parseInt(cell("total_trades")),
			ISIN:        parseString(cell("isin")),
		}
		records = append(records, rec)
	}

	return records
}

// parseFloat parses a decimal cell; empty or malformed values become null.
func parseFloat(s string) *float64 {
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseInt parses an integer cell; a decimal-looking value is truncated
// (the UDiFF feed occasionally renders counts as "123.0").
func parseInt(s string) *int64 {
	if s == "" || s == "-" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int64(f)
	return &v
}

func parseString(s string) *string {
	if s == "" || s == "-" {
		return nil
	}
	return &s
}
