// Package config provides configuration management for the journal mapper.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Input   InputConfig
	Output  OutputConfig
	Mapping MappingConfig
	Debug   bool
}

// InputConfig represents the default input files.
type InputConfig struct {
	TargetPath string
	MapperPath string
}

// OutputConfig represents where results and run history go.
type OutputConfig struct {
	Dir       string
	HistoryDB string
}

// MappingConfig represents journal selection settings.
type MappingConfig struct {
	AccountPrefix string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
// Unset values stay empty and are defaulted by the command that uses them.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Input: InputConfig{
			TargetPath: os.Getenv("MAPPER_TARGET_PATH"),
			MapperPath: os.Getenv("MAPPER_MAPPING_PATH"),
		},
		Output: OutputConfig{
			Dir:       os.Getenv("MAPPER_OUTPUT_DIR"),
			HistoryDB: os.Getenv("MAPPER_HISTORY_DB"),
		},
		Mapping: MappingConfig{
			AccountPrefix: os.Getenv("MAPPER_ACCOUNT_PREFIX"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that every required field is set. Whitespace-only values
// count as missing. Fields are named by dotted path, e.g. "input.targetPath".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, path := range required {
		var value string
		switch path {
		case "input.targetPath":
			value = c.Input.TargetPath
		case "input.mapperPath":
			value = c.Input.MapperPath
		case "output.dir":
			value = c.Output.Dir
		case "output.historyDb":
			value = c.Output.HistoryDB
		case "mapping.accountPrefix":
			value = c.Mapping.AccountPrefix
		default:
			return fmt.Errorf("unknown configuration field: %s", path)
		}

		if strings.TrimSpace(value) == "" {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables", strings.Join(missing, ", "))
	}

	return nil
}
