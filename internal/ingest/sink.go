package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/models"
)

// Sink receives normalized frames in ascending date order and decides how
// they become artifacts on disk.
type Sink interface {
	// Put accepts one day's records.
	Put(date models.Date, records []models.Record) error
	// Finalize runs after every candidate date has been attempted. The
	// full candidate list is passed so merged artifacts can embed the
	// requested range in their name.
	Finalize(dates []models.Date) error
}

// ArtifactName returns the canonical artifact file name for a date range.
// Single dates yield bhav_YYYYMMDD.csv, ranges bhav_YYYYMMDD_to_YYYYMMDD.csv.
func ArtifactName(first, last models.Date) string {
	if first == last {
		return fmt.Sprintf("bhav_%s.csv", first.Compact())
	}
	return fmt.Sprintf("bhav_%s_to_%s.csv", first.Compact(), last.Compact())
}

// writeArtifact writes records as a canonical CSV artifact.
func writeArtifact(path string, records []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DirSink writes one artifact per successful date.
type DirSink struct {
	Dir string

	// Written collects the paths produced, in write order.
	Written []string
}

// NewDirSink creates a per-day sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// Put writes bhav_YYYYMMDD.csv for the date.
func (s *DirSink) Put(date models.Date, records []models.Record) error {
	path := filepath.Join(s.Dir, ArtifactName(date, date))
	if err := writeArtifact(path, records); err != nil {
		return err
	}
	s.Written = append(s.Written, path)
	return nil
}

// Finalize is a no-op for per-day output.
func (s *DirSink) Finalize([]models.Date) error {
	return nil
}

// MergeSink accumulates frames and writes one combined artifact covering
// the whole requested range. Nothing is persisted until Finalize, so an
// aborted run leaves no partial merged output.
type MergeSink struct {
	Dir string

	frames  [][]models.Record
	path    string
	records int
}

// NewMergeSink creates a merging sink rooted at dir.
func NewMergeSink(dir string) *MergeSink {
	return &MergeSink{Dir: dir}
}

// Put queues one day's records for the merge.
func (s *MergeSink) Put(date models.Date, records []models.Record) error {
	s.frames = append(s.frames, records)
	s.records += len(records)
	return nil
}

// Finalize concatenates all queued frames in fetch order and writes the
// merged artifact. A merge with zero successful dates is a terminal
// failure: there is nothing to write.
func (s *MergeSink) Finalize(dates []models.Date) error {
	if len(s.frames) == 0 {
		return apperrors.ErrNothingToMerge
	}
	if len(dates) == 0 {
		return apperrors.ErrNothingToMerge
	}

	merged := make([]models.Record, 0, s.records)
	for _, frame := range s.frames {
		merged = append(merged, frame...)
	}

	s.path = filepath.Join(s.Dir, ArtifactName(dates[0], dates[len(dates)-1]))
	return writeArtifact(s.path, merged)
}

// Path returns the merged artifact path, set after Finalize succeeds.
func (s *MergeSink) Path() string {
	return s.path
}

// Records returns all queued records in fetch order, for run summaries.
func (s *MergeSink) Records() []models.Record {
	all := make([]models.Record, 0, s.records)
	for _, frame := range s.frames {
		all = append(all, frame...)
	}
	return all
}
