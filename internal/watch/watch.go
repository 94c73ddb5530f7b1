// Package watch runs scheduled today-mode downloads after market close.
package watch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/ingest"
	"nse-bhav/internal/models"
	"nse-bhav/pkg/utils"
)

// Daemon fetches today's bhav copy on a cron schedule. Each trigger is an
// independent today-mode run; a day with no published data is logged and
// the daemon keeps running.
type Daemon struct {
	fetcher   ingest.Fetcher
	outputDir string
	series    string
	schedule  string
	logger    zerolog.Logger
}

// NewDaemon creates a Daemon. schedule is a cron expression evaluated in
// IST, since that is the exchange's publishing clock.
func NewDaemon(fetcher ingest.Fetcher, outputDir, series, schedule string, logger zerolog.Logger) *Daemon {
	return &Daemon{
		fetcher:   fetcher,
		outputDir: outputDir,
		series:    series,
		schedule:  schedule,
		logger:    logger,
	}
}

// Run registers the schedule and blocks until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(utils.IndiaLocation))

	_, err := c.AddFunc(d.schedule, func() {
		if err := d.RunOnce(ctx); err != nil {
			var today *apperrors.TodayUnavailableError
			if apperrors.As(err, &today) {
				d.logger.Warn().Msg(err.Error())
				return
			}
			d.logger.Error().Err(err).Msg("Scheduled download failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", d.schedule, err)
	}

	c.Start()
	d.logger.Info().Str("schedule", d.schedule).Msg("Watch daemon started")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce performs one today-mode download into the output directory.
func (d *Daemon) RunOnce(ctx context.Context) error {
	today := models.Today(utils.IndiaLocation)
	runner := ingest.NewRunner(d.fetcher, ingest.NewDirSink(d.outputDir), d.logger)

	summary, err := runner.Run(ctx, ingest.Request{
		Dates:        []models.Date{today},
		Mode:         ingest.PerDay,
		SeriesFilter: d.series,
		TodayMode:    true,
	})
	if err != nil {
		return err
	}

	d.logger.Info().
		Str("date", today.String()).
		Int("records", summary.Records).
		Msg("Scheduled download complete")
	return nil
}
