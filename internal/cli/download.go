package cli

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nse-bhav/internal/bhav"
	apperrors "nse-bhav/internal/errors"
	"nse-bhav/internal/ingest"
	"nse-bhav/internal/models"
	"nse-bhav/internal/plan"
	"nse-bhav/pkg/utils"
)

// downloadFlags collects the download command's flag values.
type downloadFlags struct {
	today     bool
	yesterday bool
	days      int
	date      string
	from      string
	to        string
	all       bool

	outputDir string
	merge     bool
	series    string
	yes       bool
}

func newDownloadCmd(app *App) *cobra.Command {
	flags := &downloadFlags{}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download bhav copy archives for one or more dates",
		Long: `Download NSE bhav copy archives, normalize them to the canonical
schema and write them as bhav_*.csv artifacts.

Candidate dates exclude weekends only; exchange holidays are discovered
at fetch time and skipped. Today's data is typically published after
4-5 PM IST.`,
		Example: `  nsebhav download --today
  nsebhav download --yesterday --series EQ
  nsebhav download --days 5 --merge
  nsebhav download --date 2025-01-15
  nsebhav download --from 2025-01-01 --to 2025-03-31 --merge
  nsebhav download --all --yes -o /data/nse --quiet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.today, "today", false, "download today's bhav copy")
	cmd.Flags().BoolVar(&flags.yesterday, "yesterday", false, "download the previous calendar day's bhav copy")
	cmd.Flags().IntVar(&flags.days, "days", 0, "last N trading-day candidates (weekdays up to today)")
	cmd.Flags().StringVar(&flags.date, "date", "", "a specific date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.from, "from", "", "start of a date range (combine with --to)")
	cmd.Flags().StringVar(&flags.to, "to", "", "end date for --from range (default: today)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "all available data since NSE inception (very slow)")

	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "directory to save CSV artifacts")
	cmd.Flags().BoolVarP(&flags.merge, "merge", "m", false, "combine all dates into a single CSV artifact")
	cmd.Flags().StringVar(&flags.series, "series", "", "filter by trading series, e.g. EQ, BE, SM")
	cmd.Flags().BoolVar(&flags.yes, "yes", false, "confirm the full-history download without prompting")

	cmd.MarkFlagsMutuallyExclusive("today", "yesterday", "days", "date", "from", "all")
	cmd.MarkFlagsOneRequired("today", "yesterday", "days", "date", "from", "all")

	return cmd
}

// resolveDates expands the selected mode into candidate dates and a
// human-readable mode description.
func resolveDates(flags *downloadFlags, today models.Date) ([]models.Date, string, error) {
	switch {
	case flags.today:
		return plan.Single(today), "today", nil

	case flags.yesterday:
		return plan.Single(today.AddDays(-1)), "yesterday", nil

	case flags.days != 0:
		if flags.days < 1 {
			return nil, "", fmt.Errorf("--days must be a positive integer")
		}
		return plan.LastN(flags.days, today),
			fmt.Sprintf("last %d trading-day candidates", flags.days), nil

	case flags.date != "":
		t, err := utils.ParseFlexibleDate(flags.date)
		if err != nil {
			return nil, "", err
		}
		d := models.DateOf(t)
		return plan.Single(d), fmt.Sprintf("specific date %s", d), nil

	case flags.from != "":
		t, err := utils.ParseFlexibleDate(flags.from)
		if err != nil {
			return nil, "", err
		}
		from := models.DateOf(t)
		to := today
		if flags.to != "" {
			tt, err := utils.ParseFlexibleDate(flags.to)
			if err != nil {
				return nil, "", err
			}
			to = models.DateOf(tt)
		}
		if from.After(to) {
			return nil, "", apperrors.Wrapf(apperrors.ErrInvalidRange, "--from %s --to %s", from, to)
		}
		return plan.Range(from, to), fmt.Sprintf("range %s to %s", from, to), nil

	case flags.all:
		return plan.FullHistory(today),
			fmt.Sprintf("all data since %s", bhav.InceptionDate), nil
	}

	return nil, "", fmt.Errorf("no date selection given")
}

func runDownload(cmd *cobra.Command, app *App, flags *downloadFlags) error {
	output := NewOutput(cmd)
	today := models.Today(utils.IndiaLocation)

	dates, modeDesc, err := resolveDates(flags, today)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		return fmt.Errorf("the selected range contains no weekdays")
	}

	estimate := plan.EstimateRun(len(dates))
	if flags.all && !flags.yes {
		return fmt.Errorf(
			"full history means ~%s candidate dates (%s to %s, est. %s); re-run with --yes to confirm",
			utils.FormatCount(int64(estimate.Candidates)), bhav.InceptionDate, today,
			utils.FormatDuration(estimate.Duration))
	}

	outputDir := flags.outputDir
	if outputDir == "" {
		outputDir = app.Config.Download.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// A single date always goes through the merge path so the run summary
	// stats are computed either way.
	merge := flags.merge || len(dates) == 1

	printPlan(output, dates, modeDesc, merge, flags.series, outputDir)

	if flags.today && !utils.EODLikelyPublished(time.Now()) {
		output.Info("EOD data is usually published after 4-5 PM IST; today's file may not be up yet")
	}

	if estimate.Large() {
		output.Warning("Large plan: %s candidate dates, est. %s; holidays will be skipped silently",
			utils.FormatCount(int64(estimate.Candidates)), utils.FormatDuration(estimate.Duration))
	}

	fetcher := bhav.NewFetcher(bhav.FetcherConfig{
		Client: &http.Client{Timeout: app.Config.Download.RequestTimeout},
		Logger: app.Logger,
	})

	var sink ingest.Sink
	var mergeSink *ingest.MergeSink
	if merge {
		mergeSink = ingest.NewMergeSink(outputDir)
		sink = mergeSink
	} else {
		sink = ingest.NewDirSink(outputDir)
	}

	runner := ingest.NewRunner(fetcher, sink, app.Logger)
	summary, err := runner.Run(cmd.Context(), ingest.Request{
		Dates:        dates,
		Mode:         outputMode(merge),
		SeriesFilter: flags.series,
		TodayMode:    flags.today,
	})
	if err != nil {
		return err
	}

	printSummary(output, summary, mergeSink, outputDir)
	return nil
}

func outputMode(merge bool) ingest.OutputMode {
	if merge {
		return ingest.Merged
	}
	return ingest.PerDay
}

func printPlan(output *Output, dates []models.Date, modeDesc string, merge bool, series, outputDir string) {
	output.Bold("NSE Bhav Copy Downloader")
	output.Printf("  Mode:           %s\n", modeDesc)
	if len(dates) == 1 {
		output.Printf("  Date:           %s (%s)\n", dates[0], dates[0].Weekday())
	} else {
		output.Printf("  Date range:     %s to %s\n", dates[0], dates[len(dates)-1])
		output.Printf("  Candidates:     %d weekdays\n", len(dates))
	}
	if merge {
		output.Printf("  Output mode:    single merged file\n")
	} else {
		output.Printf("  Output mode:    one file per day\n")
	}
	output.Printf("  Series filter:  %s\n", orNone(strings.ToUpper(series)))
	output.Printf("  Output dir:     %s\n", outputDir)
	output.Println()
}

func printSummary(output *Output, summary *ingest.Summary, mergeSink *ingest.MergeSink, outputDir string) {
	output.Println()
	output.Bold("Summary")
	output.Printf("  Candidate dates:  %d\n", summary.Candidates)
	output.Printf("  Trading days got: %d\n", summary.Succeeded)
	output.Printf("  Skipped:          %d\n", len(summary.Skipped))

	for _, skip := range summary.Skipped {
		output.Dim("    %s  (%s)", skip.Date, skip.Reason)
	}

	if mergeSink != nil {
		records := mergeSink.Records()
		output.Printf("  Total records:    %s\n", utils.FormatCount(int64(len(records))))
		printRecordStats(output, records)
		if path := mergeSink.Path(); path != "" {
			if info, err := os.Stat(path); err == nil {
				output.Printf("  Output file:      %s (%s)\n", path, utils.FormatKB(info.Size()))
			} else {
				output.Printf("  Output file:      %s\n", path)
			}
		}
	} else {
		output.Printf("  Output dir:       %s\n", outputDir)
	}
}

// printRecordStats prints symbol, series and price aggregates for a
// merged run, mirroring what operators eyeball after a range download.
func printRecordStats(output *Output, records []models.Record) {
	if len(records) == 0 {
		return
	}

	symbols := make(map[string]struct{})
	seriesCounts := make(map[string]int)
	var minClose, maxClose float64
	haveClose := false

	for _, rec := range records {
		symbols[rec.Symbol] = struct{}{}
		seriesCounts[rec.Series]++
		if rec.Close != nil {
			if !haveClose || *rec.Close < minClose {
				minClose = *rec.Close
			}
			if !haveClose || *rec.Close > maxClose {
				maxClose = *rec.Close
			}
			haveClose = true
		}
	}

	output.Printf("  Unique symbols:   %s\n", utils.FormatCount(int64(len(symbols))))

	names := make([]string, 0, len(seriesCounts))
	for name := range seriesCounts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, seriesCounts[name]))
	}
	output.Printf("  Series breakdown: %s\n", strings.Join(parts, "  "))

	if haveClose {
		output.Printf("  Close range:      %.2f - %.2f\n", minClose, maxClose)
	}
}
