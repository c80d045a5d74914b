package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a filter conformance scenario.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario covers.
	Description string `yaml:"description"`

	// Schema is the directory of CUE declaration files, relative to the
	// scenario file when loaded with LoadScenario.
	Schema string `yaml:"schema"`

	// Data lists the instances to insert, in order. Role players must be
	// listed before the relations that reference them.
	Data []Row `yaml:"data"`

	// Queries are evaluated in order against the loaded data.
	Queries []Query `yaml:"queries"`
}

// Row is one instance. Attrs is keyed by field name; a value may be a
// scalar or a list. Roles maps role names to player row IDs.
type Row struct {
	ID    string              `yaml:"id"`
	Type  string              `yaml:"type"`
	Attrs map[string]any      `yaml:"attrs,omitempty"`
	Roles map[string][]string `yaml:"roles,omitempty"`
}

// Query is one filter. Where lookups are applied in order through chained
// Where calls.
type Query struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Where []Lookup `yaml:"where,omitempty"`

	// Expect lists the matching row IDs in insertion order.
	Expect []string `yaml:"expect,omitempty"`

	// Error is the expected error label instead of matches: an error code
	// such as SCHEMA or TYPE_MISMATCH, or DELEGATED for like patterns.
	Error string `yaml:"error,omitempty"`
}

// Lookup is a keyword lookup key and its value.
type Lookup struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// LoadScenario reads and validates a scenario file. Unknown fields are
// rejected. The schema path is resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Schema == "" {
		return fmt.Errorf("schema directory is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema directory not found: %s", s.Schema)
	}
	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	ids := make(map[string]bool, len(s.Data))
	for i, row := range s.Data {
		if row.ID == "" || row.Type == "" {
			return fmt.Errorf("data[%d]: id and type are required", i)
		}
		if ids[row.ID] {
			return fmt.Errorf("data[%d]: duplicate id %q", i, row.ID)
		}
		for role, players := range row.Roles {
			for _, p := range players {
				if !ids[p] {
					return fmt.Errorf("data[%d].roles.%s: %q is not declared earlier", i, role, p)
				}
			}
		}
		ids[row.ID] = true
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" || q.Type == "" {
			return fmt.Errorf("queries[%d]: name and type are required", i)
		}
		if names[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		names[q.Name] = true
		if q.Error != "" && len(q.Expect) > 0 {
			return fmt.Errorf("queries[%d]: expect and error are exclusive", i)
		}
		for j, l := range q.Where {
			if l.Key == "" {
				return fmt.Errorf("queries[%d].where[%d]: key is required", i, j)
			}
		}
	}
	return nil
}
