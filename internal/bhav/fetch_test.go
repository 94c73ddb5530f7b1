package bhav

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nse-bhav/internal/models"
)

// zipBody builds a single-entry ZIP archive holding csvContent.
func zipBody(t *testing.T, name, csvContent string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := w.Write([]byte(csvContent)); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func newTestFetcher(serverURL string, timeout time.Duration) *Fetcher {
	return NewFetcher(FetcherConfig{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: serverURL,
	})
}

func TestFetchHappyPath(t *testing.T) {
	csvContent := "SYMBOL,SERIES,OPEN,CLOSE\nRELIANCE,EQ,2900.00,2940.25\nTCS,EQ,3500.00,3520.00\n"
	body := zipBody(t, "cm02JAN2023bhav.csv", csvContent)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("User-Agent") == "" || !strings.Contains(r.Header.Get("User-Agent"), "Mozilla") {
			t.Errorf("expected a browser user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write(body)
	}))
	defer server.Close()

	date := models.NewDate(2023, time.January, 2)
	outcome := newTestFetcher(server.URL, 5*time.Second).Fetch(context.Background(), date)

	if outcome.Status != StatusData {
		t.Fatalf("got status %v (%s), want data", outcome.Status, outcome.Reason)
	}
	if gotPath != ArchivePath(date) {
		t.Errorf("requested %q, want %q", gotPath, ArchivePath(date))
	}
	if len(outcome.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(outcome.Records))
	}
	if outcome.RawRows != 2 {
		t.Errorf("got raw rows %d, want 2", outcome.RawRows)
	}
	if outcome.Records[0].Date != date {
		t.Errorf("got date %s, want %s", outcome.Records[0].Date, date)
	}
}

func TestFetchNotFoundIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	outcome := newTestFetcher(server.URL, 5*time.Second).
		Fetch(context.Background(), models.NewDate(2023, time.January, 1))

	if outcome.Status != StatusNoData {
		t.Fatalf("got status %v, want no-data", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "HTTP 404") {
		t.Errorf("reason %q should mention HTTP 404", outcome.Reason)
	}
}

func TestFetchServerErrorIsNoData(t *testing.T) {
	// any non-200 is treated as not-published, matching the archive host's
	// habit of answering holidays with assorted error codes
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	outcome := newTestFetcher(server.URL, 5*time.Second).
		Fetch(context.Background(), models.NewDate(2023, time.January, 2))

	if outcome.Status != StatusNoData {
		t.Fatalf("got status %v, want no-data", outcome.Status)
	}
}

func TestFetchCorruptArchiveIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>access denied</html>"))
	}))
	defer server.Close()

	outcome := newTestFetcher(server.URL, 5*time.Second).
		Fetch(context.Background(), models.NewDate(2023, time.January, 2))

	if outcome.Status != StatusTransientError {
		t.Fatalf("got status %v, want transient-error", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "bad ZIP") {
		t.Errorf("reason %q should mention bad ZIP", outcome.Reason)
	}
}

func TestFetchTimeoutIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	outcome := newTestFetcher(server.URL, 50*time.Millisecond).
		Fetch(context.Background(), models.NewDate(2023, time.January, 2))

	if outcome.Status != StatusTransientError {
		t.Fatalf("got status %v, want transient-error", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "timed out") {
		t.Errorf("reason %q should mention a timeout", outcome.Reason)
	}
	if strings.Contains(outcome.Reason, "after 0s") {
		t.Errorf("reason %q should report the elapsed time, not a zero duration", outcome.Reason)
	}
}

func TestFetchContextDeadlineIsTransient(t *testing.T) {
	// a caller may bound the request with a context deadline instead of a
	// client timeout; the reason still reports the observed elapsed time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{
		Client:  &http.Client{},
		BaseURL: server.URL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome := fetcher.Fetch(ctx, models.NewDate(2023, time.January, 2))

	if outcome.Status != StatusTransientError {
		t.Fatalf("got status %v, want transient-error", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "timed out") {
		t.Errorf("reason %q should mention a timeout", outcome.Reason)
	}
	if strings.Contains(outcome.Reason, "after 0s") {
		t.Errorf("reason %q should report the elapsed time, not a zero duration", outcome.Reason)
	}
}

func TestFetchConnectionRefusedIsTransient(t *testing.T) {
	// a closed server produces a connection error, not a timeout
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	outcome := newTestFetcher(url, 5*time.Second).
		Fetch(context.Background(), models.NewDate(2023, time.January, 2))

	if outcome.Status != StatusTransientError {
		t.Fatalf("got status %v, want transient-error", outcome.Status)
	}
}

func TestParseArchiveEmptyZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Close()

	_, err := parseArchive(buf.Bytes())
	if err == nil {
		t.Fatal("expected an error for an archive with no entries")
	}
	if !strings.Contains(err.Error(), "no entries") {
		t.Errorf("error %q should mention no entries", err)
	}
}
