// Package export writes the report of theme variables a generation used.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the report is written when no path is configured.
const DefaultPath = ".themevars/used.json"

// Record describes one used variable.
type Record struct {
	Category     string `json:"category" toml:"category"`
	Name         string `json:"name" toml:"name"`
	VariableName string `json:"variableName" toml:"variableName"`
	DefaultValue string `json:"defaultValue" toml:"defaultValue"`
}

type recordKey struct {
	category string
	name     string
}

// Set is an insertion-ordered set of records keyed by category and name.
type Set struct {
	seen    map[recordKey]bool
	records []Record
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[recordKey]bool)}
}

// Add inserts r unless a record with the same category and name exists.
// It reports whether r was added.
func (s *Set) Add(r Record) bool {
	key := recordKey{category: r.Category, name: r.Name}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.records = append(s.records, r)
	return true
}

// Records returns the records in insertion order.
func (s *Set) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.records)
}

type tomlReport struct {
	Variables []Record `toml:"variables"`
}

// Write stores records at path, creating parent directories. Files ending in
// .toml are written as TOML, everything else as indented JSON.
func Write(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(tomlReport{Variables: records})
	} else {
		data, err = json.MarshalIndent(records, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var report tomlReport
		if err := toml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("decoding report: %w", err)
		}
		return report.Variables, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return records, nil
}
