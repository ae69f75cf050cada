package cmd

import (
	"fmt"
	"log/slog"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/db"
	"github.com/spf13/cobra"
)

var recentRuns int

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display conversion history statistics",
	Long: `Display statistics about past conversions.

Shows:
- Total number of runs, journals and rows written
- Total number of unresolved legs and the most frequent unmapped codes
- The most recent runs

Example:
  bn-excel-mapper stats
  bn-excel-mapper stats --recent 10`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&recentRuns, "recent", 5, "Number of recent runs to list")
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, _, err := loadPaths("")
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate("output.historyDb"), "invalid configuration")

	dbPath := cfg.Output.HistoryDB
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewRunHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	codes, err := history.TopUnresolvedCodes(5)
	exitOnError(err, "failed to get unresolved codes")

	runs, err := history.ListRuns(recentRuns)
	exitOnError(err, "failed to list runs")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Conversion Statistics ===")
	fmt.Fprintf(out, "Total runs:            %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "Total journals:        %d\n", stats.TotalJournals)
	fmt.Fprintf(out, "Total rows:            %d\n", stats.TotalRows)
	fmt.Fprintf(out, "Unresolved legs:       %d\n", stats.TotalUnresolved)

	if stats.LastRun.Valid {
		fmt.Fprintf(out, "Last run:              %s\n", stats.LastRun.String)
	} else {
		fmt.Fprintf(out, "Last run:              (never)\n")
	}

	if len(codes) > 0 {
		fmt.Fprintln(out, "\n=== Most Frequent Unmapped Codes ===")
		for _, c := range codes {
			fmt.Fprintf(out, "%-20s %d\n", c.Code, c.Count)
		}
	}

	if len(runs) > 0 {
		fmt.Fprintln(out, "\n=== Recent Runs ===")
		for _, r := range runs {
			fmt.Fprintf(out, "%s  journals=%d rows=%d  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), r.Journals, r.RowCount, r.OutputPath)
		}
	}

	fmt.Fprintln(out)

	slog.Info("Statistics displayed successfully")
}
