package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nse-bhav/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }
func sptr(v string) *string   { return &v }

func sampleRecord(date models.Date, symbol string, closePrice float64) models.Record {
	return models.Record{
		Date:      date,
		Symbol:    symbol,
		Series:    "EQ",
		Open:      fptr(closePrice - 10),
		High:      fptr(closePrice + 5),
		Low:       fptr(closePrice - 15),
		Close:     fptr(closePrice),
		LastPrice: fptr(closePrice),
		PrevClose: fptr(closePrice - 8),
		Volume:    iptr(100000),
		Turnover:  fptr(closePrice * 100000),
		ISIN:      sptr("INE000A01001"),
	}
}

func TestUpsertAndHistory(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d1 := models.NewDate(2025, time.January, 6)
	d2 := models.NewDate(2025, time.January, 7)

	n, err := st.UpsertRecords(ctx, []models.Record{
		sampleRecord(d1, "RELIANCE", 1280.10),
		sampleRecord(d2, "RELIANCE", 1290.55),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 2 {
		t.Errorf("got %d rows, want 2", n)
	}

	bars, err := st.History(ctx, "RELIANCE", "EQ", d1, d2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Date != d1 || bars[1].Date != d2 {
		t.Errorf("bars out of order: %v %v", bars[0].Date, bars[1].Date)
	}
	if bars[1].Close == nil || *bars[1].Close != 1290.55 {
		t.Errorf("got close %v, want 1290.55", bars[1].Close)
	}
}

func TestUpsertLastWriteWins(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d := models.NewDate(2025, time.January, 6)

	if _, err := st.UpsertRecords(ctx, []models.Record{sampleRecord(d, "TCS", 3500.00)}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := st.UpsertRecords(ctx, []models.Record{sampleRecord(d, "TCS", 3600.00)}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	bars, err := st.History(ctx, "TCS", "EQ", d, d)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want exactly 1 after re-load", len(bars))
	}
	if *bars[0].Close != 3600.00 {
		t.Errorf("got close %v, want the later value 3600.00", *bars[0].Close)
	}
}

func TestUpsertRoundsToTwoDecimals(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d := models.NewDate(2025, time.January, 6)
	rec := sampleRecord(d, "INFY", 1500.005)
	rec.Close = fptr(1500.005)

	if _, err := st.UpsertRecords(ctx, []models.Record{rec}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	bars, err := st.History(ctx, "INFY", "EQ", d, d)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if *bars[0].Close != 1500.01 {
		t.Errorf("got close %v, want rounded 1500.01", *bars[0].Close)
	}
}

func TestUpsertNullFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d := models.NewDate(2025, time.January, 6)
	rec := models.Record{Date: d, Symbol: "NEWLIST", Series: "EQ"}

	if _, err := st.UpsertRecords(ctx, []models.Record{rec}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	bars, err := st.History(ctx, "NEWLIST", "EQ", d, d)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Open != nil || bars[0].Close != nil || bars[0].Volume != nil {
		t.Errorf("null columns must come back as nil pointers: %+v", bars[0])
	}
}

func TestUpsertEmptyBatch(t *testing.T) {
	st := newTestStore(t)

	n, err := st.UpsertRecords(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty upsert: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d rows, want 0", n)
	}
}

func TestSymbols(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d := models.NewDate(2025, time.January, 6)
	be := sampleRecord(d, "SOMESME", 100)
	be.Series = "BE"

	_, err := st.UpsertRecords(ctx, []models.Record{
		sampleRecord(d, "TCS", 3500),
		sampleRecord(d, "RELIANCE", 1280),
		sampleRecord(d.AddDays(1), "RELIANCE", 1290),
		be,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	symbols, err := st.Symbols(ctx, "EQ")
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	want := []string{"RELIANCE", "TCS"}
	if len(symbols) != len(want) {
		t.Fatalf("got %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("got %v, want sorted distinct %v", symbols, want)
			break
		}
	}

	beSymbols, err := st.Symbols(ctx, "BE")
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	if len(beSymbols) != 1 || beSymbols[0] != "SOMESME" {
		t.Errorf("got %v, want [SOMESME]", beSymbols)
	}
}

func TestHistoryRangeBounds(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	d1 := models.NewDate(2025, time.January, 6)
	d2 := models.NewDate(2025, time.January, 7)
	d3 := models.NewDate(2025, time.January, 8)

	_, err := st.UpsertRecords(ctx, []models.Record{
		sampleRecord(d1, "SBIN", 780),
		sampleRecord(d2, "SBIN", 785),
		sampleRecord(d3, "SBIN", 790),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	bars, err := st.History(ctx, "SBIN", "EQ", d2, d2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(bars) != 1 || bars[0].Date != d2 {
		t.Errorf("inclusive single-day range got %v", bars)
	}
}
