// Package cmd provides CLI commands for bn-excel-mapper.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/config"
	"github.com/bridgenote-apps/bn-excel-mapper/pkg/pathutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bn-excel-mapper",
	Short: "Convert a ledger export into a double-entry journal workbook",
	Long: `bn-excel-mapper converts a ledger export workbook ("target") into a
journal workbook ready for import, translating raw account codes through a
mapping table ("mapper").

It supports:
- Grouping ledger lines into journals by date, journal number and voucher
- Keeping only journals that touch an expense (6xxx) account
- Splitting each journal into sorted debit and credit legs
- Recording every run in a local SQLite history

Example:
  bn-excel-mapper convert --target ~/ledger.xlsx --mapper ~/mapper.xlsx
  bn-excel-mapper stats`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug || os.Getenv("DEBUG") == "true")
	},
}

func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadPaths loads configuration and builds the path resolver from it.
// A non-empty outputDir overrides the configured one. The returned config
// carries the resolved output directory and history database path.
func loadPaths(outputDir string) (*config.Config, *pathutil.PathResolver, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	// DEBUG may come from the .env file, which is read after flags.
	if cfg.Debug && !debug {
		setupLogging(true)
	}

	resolver, err := pathutil.New(pathutil.Config{
		OutputDir:    cfg.Output.Dir,
		DatabasePath: cfg.Output.HistoryDB,
	})
	if err != nil {
		return nil, nil, err
	}
	cfg.Output.Dir = resolver.GetOutputDir()
	cfg.Output.HistoryDB = resolver.GetDatabasePath()

	slog.Debug("Resolved paths",
		"home", resolver.GetHomeDir(),
		"output_dir", cfg.Output.Dir,
		"history_db", cfg.Output.HistoryDB,
	)

	return cfg, resolver, nil
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
