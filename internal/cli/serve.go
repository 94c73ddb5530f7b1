package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nse-bhav/internal/api"
	"nse-bhav/internal/store"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored history over HTTP",
		Long: `Start the read API over the local database.

Endpoints:
  GET /api/symbols?series=EQ
  GET /api/history?symbol=RELIANCE&series=EQ&from=2025-01-01&to=2025-06-30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.API.Addr
			}
			if dbPath == "" {
				dbPath = app.Config.Database.Path
			}

			st, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return api.NewServer(st, addr, app.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: configured API address)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: configured database path)")

	return cmd
}
