package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/typebridge/internal/ir"
)

// snapshot is the canonical form of a result compared with golden files.
func snapshot(name string, result *Result) map[string]any {
	queries := make([]any, len(result.Queries))
	for i, q := range result.Queries {
		entry := map[string]any{
			"name":    q.Name,
			"type":    q.Type,
			"matches": append([]string{}, q.Matches...),
		}
		if q.Fragment != "" {
			entry["fragment"] = q.Fragment
			entry["fingerprint"] = q.Fingerprint
		}
		if q.Error != "" {
			entry["error"] = q.Error
		}
		queries[i] = entry
	}
	return map[string]any{
		"scenario": name,
		"define":   append([]string{}, result.Define...),
		"queries":  queries,
	}
}

// Snapshot renders result as the canonical JSON stored in golden files.
func Snapshot(name string, result *Result) ([]byte, error) {
	return ir.MarshalCanonical(snapshot(name, result))
}

// RunWithGolden runs a scenario and compares its canonical snapshot with
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
