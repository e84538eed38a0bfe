package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/condsel/internal/canonical"
)

// Snapshot captures every case outcome of a scenario execution.
type Snapshot struct {
	Scenario string    `json:"scenario"`
	Outcomes []Outcome `json:"outcomes"`
}

// MarshalSnapshot serializes a result as canonical JSON so snapshots compare
// byte for byte.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	return canonical.Marshal(Snapshot{
		Scenario: scenarioName,
		Outcomes: result.Outcomes,
	})
}

// RunWithGolden executes a scenario and compares its outcomes against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if outcomes don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
