package pathutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	p, err := New(Config{HomeDir: "/home/user"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name     string
		result   string
		expected string
	}{
		{"output dir", p.GetOutputDir(), filepath.Join("/home/user", "Downloads")},
		{"database", p.GetDatabasePath(), filepath.Join("/home/user", ".bn-excel-mapper", "history.db")},
		{"target", p.DefaultTargetPath(), filepath.Join("/home/user", "target.xlsx")},
		{"mapper", p.DefaultMapperPath(), filepath.Join("/home/user", "mapper.xlsx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result != tt.expected {
				t.Errorf("got %q, expected %q", tt.result, tt.expected)
			}
		})
	}
}

func TestGetResultPath(t *testing.T) {
	p, err := New(Config{HomeDir: "/home/user", OutputDir: "/out"})
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 31, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		target   string
		expected string
	}{
		{"/data/ledger.xlsx", "ledger_Mapper_Result_20240131093000.xlsx"},
		{"/data/ledger.xls", "ledger_Mapper_Result_20240131093000.xlsx"},
		{"/data/ledger.csv", "ledger.csv_Mapper_Result_20240131093000.xlsx"},
		{"ledger.v2.xlsx", "ledger.v2_Mapper_Result_20240131093000.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			result := p.GetResultPath(tt.target, now)
			if result != filepath.Join("/out", tt.expected) {
				t.Errorf("GetResultPath(%q) = %q, expected %q", tt.target, result, tt.expected)
			}
		})
	}
}

func TestRequireFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "target.xlsx")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := New(Config{HomeDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	if err := p.RequireFiles(existing); err != nil {
		t.Errorf("RequireFiles(existing) error = %v", err)
	}

	missing := filepath.Join(dir, "mapper.xlsx")
	err = p.RequireFiles(existing, missing, dir)
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("RequireFiles() error = %v, expected ErrMissingFile", err)
	}
	if !strings.Contains(err.Error(), missing) || !strings.Contains(err.Error(), dir) {
		t.Errorf("RequireFiles() error = %q, expected both paths reported", err)
	}
}
