package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nse-bhav/internal/loader"
	"nse-bhav/internal/models"
	"nse-bhav/internal/store"
	"nse-bhav/pkg/utils"
)

func newLoadCmd(app *App) *cobra.Command {
	var (
		inputDir string
		dbPath   string
		since    string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load CSV artifacts into the local database",
		Long: `Load bhav_*.csv artifacts into the SQLite store, one transaction per
file. Re-loading the same file is safe: rows are upserted on
(date, symbol, series) and later loads overwrite earlier values.`,
		Example: `  nsebhav load
  nsebhav load -i /data/nse --db /data/nse/bhav.db
  nsebhav load --since 2025-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if inputDir == "" {
				inputDir = app.Config.Download.OutputDir
			}
			if dbPath == "" {
				dbPath = app.Config.Database.Path
			}

			var sinceDate models.Date
			if since != "" {
				t, err := utils.ParseFlexibleDate(since)
				if err != nil {
					return err
				}
				sinceDate = models.DateOf(t)
			}

			st, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := loader.New(st, app.Logger).LoadDir(cmd.Context(), inputDir, sinceDate)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Load Summary")
			output.Printf("  Input dir:        %s\n", inputDir)
			output.Printf("  Database:         %s\n", dbPath)
			output.Printf("  Files processed:  %d\n", result.Processed)
			output.Printf("  Rows upserted:    %s\n", utils.FormatCount(int64(result.Rows)))
			output.Printf("  Files failed:     %d\n", result.Errors)

			if len(result.Files) > 0 {
				output.Println()
				table := NewTable(output, "FILE", "ROWS", "STATUS")
				for _, fr := range result.Files {
					status := "ok"
					if fr.Err != nil {
						status = fr.Err.Error()
					}
					table.AddRow(fr.Name, utils.FormatCount(int64(fr.Rows)), status)
				}
				table.Render()
			}
			for _, adv := range result.Advisories {
				output.Warning("  %s", adv)
			}

			if result.Errors > 0 {
				return fmt.Errorf("%d of %d artifacts failed to load", result.Errors, result.Errors+result.Processed)
			}
			if result.Processed == 0 && len(result.Advisories) == 0 {
				output.Info("No matching artifacts found in %s", inputDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "directory containing bhav_*.csv artifacts (default: download output dir)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: configured database path)")
	cmd.Flags().StringVar(&since, "since", "", "only load artifacts starting on or after this date")

	return cmd
}
