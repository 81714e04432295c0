package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// TraceSnapshot captures the step outcomes and scene journal of a scenario
// execution. Floats are left out so snapshots are stable across platforms.
type TraceSnapshot struct {
	ScenarioName string
	Steps        []StepOutcome
	Trace        []scene.JournalEntry
}

// Canonical converts the snapshot to an IRObject for canonical JSON.
func (s *TraceSnapshot) Canonical() ir.IRObject {
	steps := make(ir.IRArray, len(s.Steps))
	for i, o := range s.Steps {
		obj := ir.IRObject{
			"index": ir.IRInt(o.Index),
			"kind":  ir.IRString(o.Kind),
		}
		if o.Handle != "" {
			obj["handle"] = ir.IRString(o.Handle)
		}
		if o.Topology != "" {
			obj["topology"] = ir.IRString(o.Topology)
		}
		if o.Code != "" {
			obj["code"] = ir.IRString(o.Code)
		}
		steps[i] = obj
	}

	trace := make(ir.IRArray, len(s.Trace))
	for i, e := range s.Trace {
		trace[i] = e.Canonical()
	}

	return ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"steps":         steps,
		"trace":         trace,
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
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

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
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

// Snapshot renders a result as canonical JSON.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Steps:        result.Steps,
		Trace:        result.Trace,
	}
	return ir.MarshalCanonical(snapshot.Canonical())
}
