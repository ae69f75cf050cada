package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromEnvFile(t *testing.T) {
	for _, key := range []string{"MAPPER_TARGET_PATH", "MAPPER_MAPPING_PATH", "MAPPER_OUTPUT_DIR", "MAPPER_HISTORY_DB", "MAPPER_ACCOUNT_PREFIX", "DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "MAPPER_TARGET_PATH=/data/target.xlsx\nMAPPER_OUTPUT_DIR=/data/out\nDEBUG=true\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.TargetPath != "/data/target.xlsx" {
		t.Errorf("TargetPath = %q, expected /data/target.xlsx", cfg.Input.TargetPath)
	}
	if cfg.Output.Dir != "/data/out" {
		t.Errorf("Output.Dir = %q, expected /data/out", cfg.Output.Dir)
	}
	if cfg.Input.MapperPath != "" {
		t.Errorf("MapperPath = %q, expected empty", cfg.Input.MapperPath)
	}
	if cfg.Mapping.AccountPrefix != "" {
		t.Errorf("AccountPrefix = %q, expected empty", cfg.Mapping.AccountPrefix)
	}
	if !cfg.Debug {
		t.Error("Debug = false, expected true")
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("Load() with missing file returned nil error")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Input:   InputConfig{TargetPath: "t.xlsx"},
		Output:  OutputConfig{Dir: "  "},
		Mapping: MappingConfig{AccountPrefix: "6"},
	}

	tests := []struct {
		name     string
		required []string
		wantErr  string
	}{
		{"all present", []string{"input.targetPath", "mapping.accountPrefix"}, ""},
		{"missing mapper", []string{"input.targetPath", "input.mapperPath"}, "input.mapperPath"},
		{"unknown field", []string{"input.nope"}, "unknown configuration field"},
		{"blank output dir", []string{"output.dir"}, "output.dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cfg.Validate(tt.required...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, expected nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}
