package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nse-bhav/internal/bhav"
	"nse-bhav/internal/watch"
)

func newWatchCmd(app *App) *cobra.Command {
	var (
		schedule  string
		series    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a daemon that downloads today's data on a schedule",
		Long: `Run in the foreground and fetch today's bhav copy whenever the cron
schedule fires. The schedule is evaluated in IST; the default fires at
18:30 on weekdays, after the exchange publishes EOD data.`,
		Example: `  nsebhav watch
  nsebhav watch --schedule "0 19 * * 1-5" --series EQ`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schedule == "" {
				schedule = app.Config.Watch.Schedule
			}
			if series == "" {
				series = app.Config.Watch.Series
			}
			if outputDir == "" {
				outputDir = app.Config.Download.OutputDir
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return err
			}

			fetcher := bhav.NewFetcher(bhav.FetcherConfig{
				Client: &http.Client{Timeout: app.Config.Download.RequestTimeout},
				Logger: app.Logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			daemon := watch.NewDaemon(fetcher, outputDir, series, schedule, app.Logger)
			return daemon.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule in IST (default: configured schedule)")
	cmd.Flags().StringVar(&series, "series", "", "filter by trading series (default: configured filter)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to save CSV artifacts")

	return cmd
}
