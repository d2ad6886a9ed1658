package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user-supplied report file
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML report content.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report YAML: %w", err)
	}
	return &r, nil
}

// Save writes the report to disk as YAML.
func Save(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // report needs to be readable
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
