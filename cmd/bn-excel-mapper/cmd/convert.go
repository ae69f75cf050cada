package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/converter"
	"github.com/bridgenote-apps/bn-excel-mapper/pkg/db"
	"github.com/bridgenote-apps/bn-excel-mapper/pkg/pathutil"
	"github.com/bridgenote-apps/bn-excel-mapper/pkg/workbook"
	"github.com/spf13/cobra"
)

var (
	targetPath    string
	mapperPath    string
	outputDir     string
	accountPrefix string
	dryRun        bool
	noHistory     bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a ledger export into a journal workbook",
	Long: `Convert a ledger export workbook into a journal workbook.

This command:
1. Reads the first sheet of the target and mapper workbooks
2. Groups ledger lines into journals by date, journal number and voucher
3. Keeps journals with at least one account starting with the prefix
4. Builds debit and credit legs and resolves their accounts
5. Writes <target>_Mapper_Result_<timestamp>.xlsx to the output directory
6. Records the run in the SQLite history

Unmapped accounts are written as "N/A: <codes>" with sub-account "N/A".
The mapper may also be a YAML file (.yaml/.yml).

Example:
  bn-excel-mapper convert --target ~/ledger.xlsx --mapper ~/mapper.xlsx
  bn-excel-mapper convert --mapper ~/mapping.yaml --dry-run`,
	Run: runConvert,
}

func init() {
	// Flags
	convertCmd.Flags().StringVar(&targetPath, "target", "", "Ledger export workbook (default ~/target.xlsx)")
	convertCmd.Flags().StringVar(&mapperPath, "mapper", "", "Mapping workbook or YAML file (default ~/mapper.xlsx)")
	convertCmd.Flags().StringVar(&outputDir, "output-dir", "", "Result directory (default ~/Downloads)")
	convertCmd.Flags().StringVar(&accountPrefix, "prefix", "", "Account prefix selecting journals (default 6)")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (print the table, no file writes)")
	convertCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history database")
}

// convertJob holds the resolved inputs of one conversion.
type convertJob struct {
	TargetPath    string
	MapperPath    string
	AccountPrefix string
	DryRun        bool
	NoHistory     bool
}

func runConvert(cmd *cobra.Command, args []string) {
	cfg, resolver, err := loadPaths(outputDir)
	exitOnError(err, "failed to load configuration")

	// Flags override the configuration; anything still unset gets its default.
	cfg.Input.TargetPath = firstNonEmpty(targetPath, cfg.Input.TargetPath, resolver.DefaultTargetPath())
	cfg.Input.MapperPath = firstNonEmpty(mapperPath, cfg.Input.MapperPath, resolver.DefaultMapperPath())
	cfg.Mapping.AccountPrefix = firstNonEmpty(accountPrefix, cfg.Mapping.AccountPrefix, converter.DefaultAccountPrefix)
	exitOnError(cfg.Validate("input.targetPath", "input.mapperPath", "mapping.accountPrefix"), "invalid configuration")

	job := convertJob{
		TargetPath:    cfg.Input.TargetPath,
		MapperPath:    cfg.Input.MapperPath,
		AccountPrefix: cfg.Mapping.AccountPrefix,
		DryRun:        dryRun,
		NoHistory:     noHistory,
	}

	slog.Info("Starting conversion",
		"target", job.TargetPath,
		"mapper", job.MapperPath,
		"prefix", job.AccountPrefix,
		"dry_run", job.DryRun,
	)

	outputPath, result, err := convert(job, resolver, time.Now(), cmd.OutOrStdout())
	exitOnError(err, "conversion failed")

	if job.DryRun {
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created journal workbook (%s)\n", outputPath)
	if n := len(result.Unresolved); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d leg(s) have unmapped accounts; search for %q\n", n, converter.UnresolvedPrefix)
	}
}

// convert runs one conversion. Nothing is written unless every input row
// converts; in dry-run mode the table is printed to out instead.
func convert(job convertJob, resolver *pathutil.PathResolver, now time.Time, out io.Writer) (string, *converter.Result, error) {
	if err := resolver.RequireFiles(job.TargetPath, job.MapperPath); err != nil {
		return "", nil, err
	}

	mapper, err := workbook.OpenMapper(job.MapperPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load mapper: %w", err)
	}
	slog.Debug("Loaded mapper", "entries", mapper.Len())

	lines, err := workbook.ReadTarget(job.TargetPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load target: %w", err)
	}
	slog.Info("Loaded target", "lines", len(lines))

	result := converter.NewConverter(mapper, job.AccountPrefix).Execute(lines)
	slog.Info("Mapped journals",
		"journals", result.Journals,
		"skipped", result.Skipped,
		"rows", len(result.Table.Rows),
		"unresolved_legs", len(result.Unresolved),
	)

	if job.DryRun {
		fmt.Fprintf(out, "[DRY RUN] Would write %s\n", resolver.GetResultPath(job.TargetPath, now))
		if err := printTable(out, result.Table); err != nil {
			return "", nil, err
		}
		return "", result, nil
	}

	if err := resolver.EnsureDir(resolver.GetOutputDir()); err != nil {
		return "", nil, err
	}

	outputPath := resolver.GetResultPath(job.TargetPath, now)
	if err := workbook.WriteTable(outputPath, result.Table); err != nil {
		return "", nil, fmt.Errorf("failed to write result: %w", err)
	}
	slog.Info("Wrote result", "path", outputPath)

	if !job.NoHistory {
		// The workbook is already written; a history failure is not fatal.
		if err := recordRun(resolver.GetDatabasePath(), job, outputPath, result); err != nil {
			slog.Warn("Failed to record run history", "error", err)
		}
	}

	return outputPath, result, nil
}

func recordRun(dbPath string, job convertJob, outputPath string, result *converter.Result) error {
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	legs := make([]db.UnresolvedLeg, 0, len(result.Unresolved))
	for _, u := range result.Unresolved {
		leg := db.UnresolvedLeg{
			UnitNo:  u.UnitNo,
			Voucher: u.Voucher,
			Side:    u.Side.String(),
			Codes:   u.Codes,
		}
		if len(u.Rows) > 0 {
			leg.Row = slices.Min(u.Rows)
		}
		legs = append(legs, leg)
	}

	_, err = db.NewRunHistory(conn).RecordRun(db.RunRecord{
		TargetPath: job.TargetPath,
		MapperPath: job.MapperPath,
		OutputPath: outputPath,
		Journals:   result.Journals,
		Skipped:    result.Skipped,
		RowCount:   len(result.Table.Rows),
	}, legs)
	return err
}

func printTable(out io.Writer, table *converter.Table) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, record := range table.Records() {
		fmt.Fprintln(w, strings.Join(record, "\t"))
	}
	return w.Flush()
}

// Helper functions

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
