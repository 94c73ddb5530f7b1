// Package ingest drives the fetch loop across all candidate dates and
// routes normalized records to an output sink.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"nse-bhav/internal/bhav"
	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/models"
)

// OutputMode selects how successful frames become artifacts.
type OutputMode int

const (
	// PerDay writes one artifact per successful date.
	PerDay OutputMode = iota
	// Merged concatenates all frames into one artifact after the run.
	Merged
)

// Request is a resolved ingestion plan: the ordered candidate dates plus
// routing options. Dates must be ascending; order is significant for
// merged output and partial-result reporting.
type Request struct {
	Dates        []models.Date
	Mode         OutputMode
	SeriesFilter string
	// TodayMode marks a single-date "today" query, which changes failure
	// semantics: no-data is actionable rather than benign.
	TodayMode bool
}

// Fetcher is the fetch boundary the runner drives, one date at a time.
type Fetcher interface {
	Fetch(ctx context.Context, date models.Date) bhav.Outcome
}

// Skip records one date that produced no rows and why.
type Skip struct {
	Date   models.Date
	Reason string
}

// Summary aggregates a run's outcome counters.
type Summary struct {
	Candidates int
	Succeeded  int
	Skipped    []Skip
	RawRows    int
	Records    int
}

// Runner executes an ingestion request strictly sequentially: one HTTP
// request in flight at a time, each date fully resolved before the next.
type Runner struct {
	fetcher Fetcher
	sink    Sink
	logger  zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(fetcher Fetcher, sink Sink, logger zerolog.Logger) *Runner {
	return &Runner{fetcher: fetcher, sink: sink, logger: logger}
}

// Run attempts every candidate date in order and finalizes the sink.
//
// No-data and transient-error dates are recorded as skips and processing
// continues; the exception is a today-mode request, whose sole candidate
// yielding no data fails the run with a TodayUnavailableError. The summary
// reports how many dates yielded data, so callers can detect zero-success
// runs without inspecting errors.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	summary := &Summary{Candidates: len(req.Dates)}

	for i, date := range req.Dates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		log := r.logger.With().
			Str("date", date.String()).
			Int("attempt", i+1).
			Int("of", len(req.Dates)).
			Logger()

		start := time.Now()
		outcome := r.fetcher.Fetch(ctx, date)

		switch outcome.Status {
		case bhav.StatusData:
			records := outcome.Records
			if req.SeriesFilter != "" {
				before := len(records)
				records = FilterSeries(records, req.SeriesFilter)
				log.Debug().
					Str("series", strings.ToUpper(req.SeriesFilter)).
					Int("before", before).
					Int("after", len(records)).
					Msg("Series filter applied")
			}
			if err := r.sink.Put(date, records); err != nil {
				return summary, apperrors.Wrapf(err, "routing records for %s", date)
			}
			summary.Succeeded++
			summary.RawRows += outcome.RawRows
			summary.Records += len(records)
			log.Info().
				Int("rows", len(records)).
				Dur("duration", time.Since(start)).
				Msg("Bhav copy fetched")

		case bhav.StatusNoData:
			if req.TodayMode {
				return summary, apperrors.NewTodayUnavailableError(date.String(), outcome.Reason)
			}
			summary.Skipped = append(summary.Skipped, Skip{Date: date, Reason: outcome.Reason})
			log.Info().Str("reason", outcome.Reason).Msg("No data, skipped")

		case bhav.StatusTransientError:
			summary.Skipped = append(summary.Skipped, Skip{Date: date, Reason: outcome.Reason})
			log.Warn().Str("reason", outcome.Reason).Msg("Fetch failed, skipped")
		}
	}

	if err := r.sink.Finalize(req.Dates); err != nil {
		return summary, err
	}

	return summary, nil
}

// FilterSeries keeps only records whose series matches the filter,
// case-insensitively.
func FilterSeries(records []models.Record, series string) []models.Record {
	want := strings.ToUpper(strings.TrimSpace(series))
	filtered := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if strings.ToUpper(rec.Series) == want {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
