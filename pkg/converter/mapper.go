// Package converter turns grouped ledger lines into double-entry journal rows.
package converter

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bridgenote-apps/bn-excel-mapper/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// UnresolvedPrefix marks an account that has no mapping entry.
const UnresolvedPrefix = "N/A: "

// UnresolvedSubAccount is rendered when no sub-account could be resolved.
const UnresolvedSubAccount = "N/A"

// MappingFile represents a YAML mapping file.
//
//	mappings:
//	  - code: "601"
//	    account: "Travel"
//	    sub_account: "Domestic"
type MappingFile struct {
	Mappings []ledger.MappingEntry `yaml:"mappings"`
}

// Mapper resolves raw account codes to mapped (account, sub-account) pairs.
// Entries are searched in table order; the first match wins.
type Mapper struct {
	entries []ledger.MappingEntry
	index   map[string]int // code -> position of its first entry
}

// NewMapper creates a Mapper over the given entries.
// Later entries repeating a code are shadowed by the first one.
func NewMapper(entries []ledger.MappingEntry) *Mapper {
	m := &Mapper{
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}
	for i, entry := range entries {
		if m.HasMapping(entry.Code) {
			slog.Warn("Duplicate mapping code, keeping the first entry",
				"code", entry.Code,
				"account", entry.Account,
			)
			continue
		}
		m.index[entry.Code] = i
	}
	return m
}

// LoadMappingYAML creates a Mapper from a YAML mapping file.
func LoadMappingYAML(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var file MappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, entry := range file.Mappings {
		if strings.TrimSpace(entry.Code) == "" {
			return nil, &MalformedRowError{
				Sheet:  path,
				Row:    i + 1,
				Column: "code",
				Reason: "empty account code",
			}
		}
	}

	return NewMapper(file.Mappings), nil
}

// Resolve returns the mapping of the first entry whose code is in codes.
// When nothing matches, account is "N/A: " followed by the codes and
// subAccount is nil.
func (m *Mapper) Resolve(codes []string) (account string, subAccount *string) {
	first := -1
	for _, code := range codes {
		if i, ok := m.index[code]; ok && (first < 0 || i < first) {
			first = i
		}
	}

	if first < 0 {
		return UnresolvedPrefix + strings.Join(codes, ", "), nil
	}
	sub := m.entries[first].SubAccount
	return m.entries[first].Account, &sub
}

// HasMapping checks if a mapping exists for a code.
func (m *Mapper) HasMapping(code string) bool {
	_, ok := m.index[code]
	return ok
}

// Len returns the number of mapping entries.
func (m *Mapper) Len() int {
	return len(m.entries)
}
