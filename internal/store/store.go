// Package store provides data persistence for bhav copy records.
package store

import (
	"context"

	"nse-bhav/internal/models"
)

// DataStore is the durable store for canonical records. Implementations
// must make UpsertRecords last-write-wins on the (date, symbol, series)
// natural key and atomic per call.
type DataStore interface {
	// UpsertRecords merges one artifact's records into the store as one
	// unit of work and returns the number of rows staged.
	UpsertRecords(ctx context.Context, records []models.Record) (int, error)
	// Symbols lists distinct symbols for one series code, sorted.
	Symbols(ctx context.Context, series string) ([]string, error)
	// History returns ascending OHLCV bars for a (symbol, series) pair in
	// the inclusive date range.
	History(ctx context.Context, symbol, series string, from, to models.Date) ([]models.HistoryBar, error)
	Close() error
}
