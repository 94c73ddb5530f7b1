package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"nse-bhav/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the bhav_copy relation and its indexes. Prices and
// turnover carry two decimal places; the natural key is the primary key.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bhav_copy (
		date         TEXT    NOT NULL,
		symbol       TEXT    NOT NULL,
		series       TEXT    NOT NULL,
		open         NUMERIC(12,2),
		high         NUMERIC(12,2),
		low          NUMERIC(12,2),
		close        NUMERIC(12,2),
		last_price   NUMERIC(12,2),
		prev_close   NUMERIC(12,2),
		volume       INTEGER,
		turnover     NUMERIC(20,2),
		total_trades INTEGER,
		isin         TEXT,
		PRIMARY KEY (date, symbol, series)
	);

	CREATE INDEX IF NOT EXISTS idx_bhav_symbol_series ON bhav_copy(symbol, series);
	CREATE INDEX IF NOT EXISTS idx_bhav_series ON bhav_copy(series);
	`

	_, err := s.db.Exec(schema)
	return err
}

// stagingDDL creates the connection-scoped staging table. TEMP tables in
// SQLite are visible only to their connection, which scopes staging to one
// unit of work as long as the whole load runs on a single *sql.Conn.
const stagingDDL = `
	CREATE TEMP TABLE IF NOT EXISTS bhav_staging (
		date         TEXT,
		symbol       TEXT,
		series       TEXT,
		open         NUMERIC(12,2),
		high         NUMERIC(12,2),
		low          NUMERIC(12,2),
		close        NUMERIC(12,2),
		last_price   NUMERIC(12,2),
		prev_close   NUMERIC(12,2),
		volume       INTEGER,
		turnover     NUMERIC(20,2),
		total_trades INTEGER,
		isin         TEXT
	)
`

const stagingInsert = `
	INSERT INTO bhav_staging
		(date, symbol, series, open, high, low, close, last_price,
		 prev_close, volume, turnover, total_trades, isin)
	VALUES (?, ?, ?, ROUND(?, 2), ROUND(?, 2), ROUND(?, 2), ROUND(?, 2),
		ROUND(?, 2), ROUND(?, 2), ?, ROUND(?, 2), ?, ?)
`

const mergeSQL = `
	INSERT INTO bhav_copy
		(date, symbol, series, open, high, low, close, last_price,
		 prev_close, volume, turnover, total_trades, isin)
	SELECT
		date, symbol, series, open, high, low, close, last_price,
		prev_close, volume, turnover, total_trades, isin
	FROM bhav_staging
	ON CONFLICT (date, symbol, series) DO UPDATE SET
		open         = excluded.open,
		high         = excluded.high,
		low          = excluded.low,
		close        = excluded.close,
		last_price   = excluded.last_price,
		prev_close   = excluded.prev_close,
		volume       = excluded.volume,
		turnover     = excluded.turnover,
		total_trades = excluded.total_trades,
		isin         = excluded.isin
`

// UpsertRecords stages all records on one connection and merges them into
// bhav_copy with last-write-wins semantics. Staging rows, the merge and
// the staging cleanup share one transaction, so either both the
// staging-load and the merge apply or neither does, and a failed artifact
// never leaks staged rows into a later load.
func (s *SQLiteStore) UpsertRecords(ctx context.Context, records []models.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, stagingDDL); err != nil {
		return 0, fmt.Errorf("failed to create staging table: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stagingInsert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare staging insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.Date.String(), rec.Symbol, rec.Series,
			nullFloat(rec.Open), nullFloat(rec.High), nullFloat(rec.Low), nullFloat(rec.Close),
			nullFloat(rec.LastPrice), nullFloat(rec.PrevClose),
			nullInt(rec.Volume), nullFloat(rec.Turnover), nullInt(rec.TotalTrades),
			nullString(rec.ISIN),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to stage record %s/%s/%s: %w", rec.Date, rec.Symbol, rec.Series, err)
		}
	}

	if _, err := tx.ExecContext(ctx, mergeSQL); err != nil {
		return 0, fmt.Errorf("failed to merge staging rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bhav_staging"); err != nil {
		return 0, fmt.Errorf("failed to clear staging table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(records), nil
}

// Symbols retrieves all distinct symbols for one series, sorted.
func (s *SQLiteStore) Symbols(ctx context.Context, series string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT symbol FROM bhav_copy WHERE series = ? ORDER BY symbol ASC
	`, series)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// History retrieves ascending OHLCV bars for a symbol and series in the
// inclusive date range.
func (s *SQLiteStore) History(ctx context.Context, symbol, series string, from, to models.Date) ([]models.HistoryBar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, open, high, low, close, volume
		FROM bhav_copy
		WHERE symbol = ? AND series = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, symbol, series, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var bars []models.HistoryBar
	for rows.Next() {
		var dateStr string
		var open, high, low, closePrice sql.NullFloat64
		var volume sql.NullInt64

		if err := rows.Scan(&dateStr, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan history bar: %w", err)
		}

		date, err := models.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", dateStr, err)
		}

		bars = append(bars, models.HistoryBar{
			Date:   date,
			Open:   floatPtr(open),
			High:   floatPtr(high),
			Low:    floatPtr(low),
			Close:  floatPtr(closePrice),
			Volume: intPtr(volume),
		})
	}

	return bars, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
