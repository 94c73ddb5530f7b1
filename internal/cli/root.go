package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nse-bhav/internal/config"
	"nse-bhav/internal/logging"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies. Store and transport handles are
// opened inside the commands that need them, scoped to one run.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "nsebhav",
		Short: "NSE bhav copy downloader, loader and read API",
		Long: `nsebhav downloads NSE end-of-day bhav copy data, normalizes both the
legacy (pre-July 2024) and UDiFF CSV formats to one canonical schema,
loads the artifacts into a local store, and serves the stored history
over a small HTTP API.

Canonical columns: date, symbol, series, open, high, low, close,
last_price, prev_close, volume, turnover, total_trades, isin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configDir, _ := cmd.Flags().GetString("config"); configDir != "" {
				reloaded, err := config.Load(configDir)
				if err != nil {
					return err
				}
				app.Config = reloaded
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				logging.SetQuietLevel()
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/nse-bhav)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress all output except errors")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newDownloadCmd(app))
	rootCmd.AddCommand(newLoadCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("nsebhav v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Download")
			output.Printf("  Output dir:      %s\n", app.Config.Download.OutputDir)
			output.Printf("  Request timeout: %s\n", app.Config.Download.RequestTimeout)
			output.Println()
			output.Bold("Database")
			output.Printf("  Path:            %s\n", app.Config.Database.Path)
			output.Println()
			output.Bold("API")
			output.Printf("  Address:         %s\n", app.Config.API.Addr)
			output.Println()
			output.Bold("Watch")
			output.Printf("  Schedule:        %s\n", app.Config.Watch.Schedule)
			output.Printf("  Series:          %s\n", orNone(app.Config.Watch.Series))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
