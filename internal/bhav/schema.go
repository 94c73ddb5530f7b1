// Package bhav implements fetching and normalization of NSE bhav copy
// archives across the two historical CSV formats.
//
// NSE changed the published file schema on 2024-07-08 (SEBI circular 62424):
// dates before the cutover use the legacy 13-column CSV, dates on or after
// it use the 34-column UDiFF CSV. Both normalize to one canonical record
// shape keyed by (date, symbol, series).
package bhav

import (
	"time"

	"nse-bhav/internal/models"
)

// Schema identifies which upstream column layout applies for a date.
type Schema int

const (
	// SchemaLegacy is the pre-cutover 13-column CSV with upper-snake-case
	// English headers.
	SchemaLegacy Schema = iota
	// SchemaModern is the UDiFF 34-column CSV with abbreviated mixed-case
	// headers, in force from the cutover date onward.
	SchemaModern
)

// CutoverDate is the first trading day published in the UDiFF format.
// It is a fixed property of the exchange, not configurable.
var CutoverDate = models.NewDate(2024, time.July, 8)

// InceptionDate is the first day of NSE equity trading.
var InceptionDate = models.NewDate(1994, time.November, 3)

// SchemaFor resolves the schema variant for a target date. The cutover
// date itself is modern.
func SchemaFor(d models.Date) Schema {
	if d.Before(CutoverDate) {
		return SchemaLegacy
	}
	return SchemaModern
}

func (s Schema) String() string {
	if s == SchemaLegacy {
		return "legacy (pre-July 2024, 13-column CSV)"
	}
	return "UDiFF (post-July 2024, 34-column CSV)"
}

// legacyColumns maps legacy headers to canonical field names.
var legacyColumns = map[string]string{
	"SYMBOL":      "symbol",
	"SERIES":      "series",
	"OPEN":        "open",
	"HIGH":        "high",
	"LOW":         "low",
	"CLOSE":       "close",
	"LAST":        "last_price",
	"PREVCLOSE":   "prev_close",
	"TOTTRDQTY":   "volume",
	"TOTTRDVAL":   "turnover",
	"TIMESTAMP":   "date",
	"TOTALTRADES": "total_trades",
	"ISIN":        "isin",
}

// modernColumns maps UDiFF headers to canonical field names. The 34-column
// file carries more columns than these; anything unmapped is ignored.
var modernColumns = map[string]string{
	"TckrSymb":        "symbol",
	"SctySrs":         "series",
	"OpnPric":         "open",
	"HghPric":         "high",
	"LwPric":          "low",
	"ClsPric":         "close",
	"LastPric":        "last_price",
	"PrvsClsgPric":    "prev_close",
	"TtlTradgVol":     "volume",
	"TtlTrfVal":       "turnover",
	"TradDt":          "date",
	"TtlNbOfTxsExctd": "total_trades",
	"ISIN":            "isin",
}

// ColumnMap returns the raw-header to canonical-name mapping for the
// schema variant. The mapping is partial-tolerant: headers absent from the
// raw table are simply never matched, and unmapped raw headers are ignored.
func (s Schema) ColumnMap() map[string]string {
	if s == SchemaLegacy {
		return legacyColumns
	}
	return modernColumns
}
