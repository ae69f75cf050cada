// Package pathutil provides centralized path management for input workbooks,
// result files and the run history database.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrMissingFile indicates that an input path does not resolve to a readable file.
var ErrMissingFile = errors.New("file does not exist")

// ResultSuffix is inserted between the target name and the timestamp.
const ResultSuffix = "_Mapper_Result_"

// PathResolver manages paths for inputs, results, and the history database.
type PathResolver struct {
	homeDir      string
	outputDir    string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// HomeDir is the user's home directory; resolved from the OS when empty
	HomeDir string
	// OutputDir is where result workbooks are written (e.g., ~/Downloads)
	OutputDir string
	// DatabasePath is the path to the SQLite database file for run history
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If OutputDir is empty, it defaults to {HomeDir}/Downloads
// If DatabasePath is empty, it defaults to {HomeDir}/.bn-excel-mapper/history.db
func New(config Config) (*PathResolver, error) {
	homeDir := config.HomeDir
	if homeDir == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		homeDir = dir
	}

	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(homeDir, "Downloads")
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(homeDir, ".bn-excel-mapper", "history.db")
	}

	return &PathResolver{
		homeDir:      homeDir,
		outputDir:    outputDir,
		databasePath: dbPath,
	}, nil
}

// GetHomeDir returns the home directory.
func (p *PathResolver) GetHomeDir() string {
	return p.homeDir
}

// GetOutputDir returns the result directory.
func (p *PathResolver) GetOutputDir() string {
	return p.outputDir
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// DefaultTargetPath returns the target workbook used when none is given.
// Example: ~/target.xlsx
func (p *PathResolver) DefaultTargetPath() string {
	return filepath.Join(p.homeDir, "target.xlsx")
}

// DefaultMapperPath returns the mapper workbook used when none is given.
// Example: ~/mapper.xlsx
func (p *PathResolver) DefaultMapperPath() string {
	return filepath.Join(p.homeDir, "mapper.xlsx")
}

// GetResultPath returns the result file path for a target workbook.
// Example: ~/Downloads/ledger_Mapper_Result_20240131093000.xlsx
func (p *PathResolver) GetResultPath(targetPath string, now time.Time) string {
	name := filepath.Base(targetPath)
	for _, ext := range []string{".xlsx", ".xls"} {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}

	filename := fmt.Sprintf("%s%s%s.xlsx", name, ResultSuffix, now.Format("20060102150405"))
	return filepath.Join(p.outputDir, filename)
}

// RequireFiles checks that every path is an existing regular file.
// All missing paths are reported together.
func (p *PathResolver) RequireFiles(paths ...string) error {
	var errs []error
	for _, path := range paths {
		if !p.FileExists(path) || p.IsDir(path) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingFile, path))
		}
	}
	return errors.Join(errs...)
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// IsDir checks if a path is a directory.
func (p *PathResolver) IsDir(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
