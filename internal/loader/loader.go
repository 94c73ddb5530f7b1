// Package loader bulk-loads canonical bhav artifacts into the durable
// store, one transaction per file.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/logging"
	"nse-bhav/internal/models"
	"nse-bhav/internal/store"
)

// artifactName matches bhav_YYYYMMDD.csv and bhav_YYYYMMDD_to_YYYYMMDD.csv.
var artifactName = regexp.MustCompile(`^bhav_(\d{8})(?:_to_(\d{8}))?\.csv$`)

// StartDate extracts the start date embedded in an artifact file name.
func StartDate(name string) (models.Date, bool) {
	m := artifactName.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return models.Date{}, false
	}
	d, err := models.ParseCompactDate(m[1])
	if err != nil {
		return models.Date{}, false
	}
	return d, true
}

// EndDate extracts the end date from a merged-range artifact name.
// Single-day artifacts have no end date.
func EndDate(name string) (models.Date, bool) {
	m := artifactName.FindStringSubmatch(filepath.Base(name))
	if m == nil || m[2] == "" {
		return models.Date{}, false
	}
	d, err := models.ParseCompactDate(m[2])
	if err != nil {
		return models.Date{}, false
	}
	return d, true
}

// FileResult records the outcome for one artifact.
type FileResult struct {
	Name string
	Rows int
	Err  error
}

// Advisory flags a merged artifact whose span overlaps the --since bound
// but whose start date precedes it. The file is skipped, never silently
// dropped: the operator should lower the bound to include it.
type Advisory struct {
	File  string
	Start models.Date
	End   models.Date
}

func (a Advisory) String() string {
	return fmt.Sprintf("%s spans %s to %s but starts before the date bound; re-run with --since %s to include it",
		a.File, a.Start, a.End, a.Start)
}

// Result summarizes a batch load.
type Result struct {
	Files      []FileResult
	Processed  int
	Rows       int
	Errors     int
	Advisories []Advisory
}

// Loader loads artifacts into a store handle scoped to the batch.
type Loader struct {
	store  store.DataStore
	logger zerolog.Logger
}

// New creates a Loader.
func New(st store.DataStore, logger zerolog.Logger) *Loader {
	return &Loader{store: st, logger: logger}
}

// LoadDir loads every bhav_*.csv artifact under dir, in ascending order of
// the start date embedded in the file name. A non-zero since excludes
// artifacts starting before it. A failure in one artifact is recorded and
// the batch continues with the remaining files.
func (l *Loader) LoadDir(ctx context.Context, dir string, since models.Date) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	type candidate struct {
		name  string
		start models.Date
	}

	var candidates []candidate
	result := &Result{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		start, ok := StartDate(entry.Name())
		if !ok {
			continue
		}
		if !since.IsZero() && start.Before(since) {
			if end, hasEnd := EndDate(entry.Name()); hasEnd && !end.Before(since) {
				adv := Advisory{File: entry.Name(), Start: start, End: end}
				result.Advisories = append(result.Advisories, adv)
				l.logger.Warn().Str("file", entry.Name()).Msg(adv.String())
			}
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), start: start})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start == candidates[j].start {
			return candidates[i].name < candidates[j].name
		}
		return candidates[i].start.Before(candidates[j].start)
	})

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows, err := l.LoadFile(ctx, filepath.Join(dir, c.name))
		fr := FileResult{Name: c.name, Rows: rows, Err: err}
		result.Files = append(result.Files, fr)
		logging.LogUpsert(l.logger, c.name, rows, err)

		if err != nil {
			result.Errors++
			continue
		}
		result.Processed++
		result.Rows += rows
	}

	return result, nil
}

// LoadFile parses one artifact and upserts it as a single unit of work.
// Canonical columns absent from the file become nulls, not errors.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, apperrors.NewLoadError(filepath.Base(path), err)
	}
	defer f.Close()

	var records []models.Record
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return 0, apperrors.NewLoadError(filepath.Base(path), err)
	}

	rows, err := l.store.UpsertRecords(ctx, records)
	if err != nil {
		return 0, apperrors.NewLoadError(filepath.Base(path), err)
	}
	return rows, nil
}
