package bhav

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/models"
)

// DefaultTimeout bounds one archive download.
const DefaultTimeout = 30 * time.Second

// browserHeaders mimic a desktop browser. The NSE archive host rejects
// generic automated user agents.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/zip,*/*",
	"Accept-Language": "en-IN,en;q=0.5",
	"Referer":         "https://www.nseindia.com/",
}

// FetcherConfig configures a Fetcher. Zero values select defaults.
type FetcherConfig struct {
	Client  *http.Client
	BaseURL string
	Logger  zerolog.Logger
}

// Fetcher retrieves and parses one day's bhav copy archive. It holds an
// explicit transport handle scoped to one run; there is no process-wide
// session state.
type Fetcher struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		client:  client,
		baseURL: baseURL,
		logger:  cfg.Logger,
	}
}

// Fetch downloads, unzips and parses the bhav copy for the given date.
// Every failure path returns a typed outcome; raw transport or parse
// errors never escape this boundary.
func (f *Fetcher) Fetch(ctx context.Context, date models.Date) Outcome {
	url := ArchiveURL(f.baseURL, date)
	log := f.logger.With().Str("date", date.String()).Logger()
	log.Debug().Str("url", url).Stringer("format", SchemaFor(date)).Msg("Fetching bhav copy")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TransientOutcome(fmt.Sprintf("building request: %v", err))
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return TransientOutcome(fmt.Sprintf("request timed out after %s", time.Since(start).Round(time.Millisecond)))
		}
		return TransientOutcome(fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NoDataOutcome(fmt.Sprintf("HTTP %d, skipped (holiday / weekend / not yet published)", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return TransientOutcome(fmt.Sprintf("request timed out after %s", time.Since(start).Round(time.Millisecond)))
		}
		return TransientOutcome(fmt.Sprintf("reading response: %v", err))
	}
	log.Debug().
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Archive downloaded")

	table, err := parseArchive(body)
	if err != nil {
		return TransientOutcome(err.Error())
	}

	records := Normalize(table, date)
	return DataOutcome(records, len(table.Rows))
}

// parseArchive opens the body as a single-file ZIP and parses the first
// entry as a delimited table with whitespace-trimmed headers.
func parseArchive(body []byte) (Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return Table{}, fmt.Errorf("%w, server returned unexpected content", apperrors.ErrBadArchive)
	}
	if len(zr.File) == 0 {
		return Table{}, fmt.Errorf("%w, archive contains no entries", apperrors.ErrBadArchive)
	}

	entry, err := zr.File[0].Open()
	if err != nil {
		return Table{}, fmt.Errorf("%w, cannot open %s", apperrors.ErrBadArchive, zr.File[0].Name)
	}
	defer entry.Close()

	reader := csv.NewReader(entry)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing CSV: %v", err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("parsing CSV: file is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return Table{Headers: headers, Rows: rows[1:]}, nil
}

// isTimeout reports whether err is a deadline or timeout failure.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "Client.Timeout")
}
