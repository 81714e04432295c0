package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// Scenario defines a rig scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strict makes builds report non-joint endpoints as NOT_JOINT.
	Strict bool `yaml:"strict,omitempty"`

	// Fixture is the scene the steps run against.
	Fixture scene.Fixture `yaml:"fixture"`

	// Steps run in order. Each step sets exactly one action.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final scene and the step outcomes.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one rig operation.
type Step struct {
	Build    *BuildStep    `yaml:"build,omitempty"`
	Spline   *SplineStep   `yaml:"spline,omitempty"`
	Rig      *RigStep      `yaml:"rig,omitempty"`
	FKFromIK *FKFromIKStep `yaml:"fk_from_ik,omitempty"`
	IKFromFK *IKFromFKStep `yaml:"ik_from_fk,omitempty"`
}

// Step kinds.
const (
	StepBuild    = "build"
	StepSpline   = "spline"
	StepRig      = "rig"
	StepFKFromIK = "fk_from_ik"
	StepIKFromFK = "ik_from_fk"
)

// Kind names the action the step sets, or "" when it sets none or several.
func (s Step) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (s Step) kinds() []string {
	var out []string
	if s.Build != nil {
		out = append(out, StepBuild)
	}
	if s.Spline != nil {
		out = append(out, StepSpline)
	}
	if s.Rig != nil {
		out = append(out, StepRig)
	}
	if s.FKFromIK != nil {
		out = append(out, StepFKFromIK)
	}
	if s.IKFromFK != nil {
		out = append(out, StepIKFromFK)
	}
	return out
}

// BuildStep rigs start..end with the topology its joint count selects.
type BuildStep struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// SplineStep rigs start..end with a Spline handle driven by Curve.
type SplineStep struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Curve string `yaml:"curve"`
}

// RigStep builds from a rig definition, as compiled CUE rigs do.
type RigStep struct {
	Name         string  `yaml:"name"`
	Start        string  `yaml:"start"`
	End          string  `yaml:"end"`
	Topology     string  `yaml:"topology,omitempty"`
	Curve        string  `yaml:"curve,omitempty"`
	SoftDistance float64 `yaml:"soft_distance,omitempty"`
}

// ChainSpec converts the step to the definition Builder.BuildFromSpec takes.
func (r RigStep) ChainSpec() (ir.ChainSpec, error) {
	spec := ir.ChainSpec{
		Name:         r.Name,
		Start:        r.Start,
		End:          r.End,
		Curve:        r.Curve,
		SoftDistance: r.SoftDistance,
	}
	if r.Topology != "" {
		topo, err := ir.ParseTopology(r.Topology)
		if err != nil {
			return ir.ChainSpec{}, err
		}
		spec.Topology = &topo
	}
	return spec, nil
}

// FKFromIKStep snaps the FK nodes onto the IK nodes.
type FKFromIKStep struct {
	FK []string `yaml:"fk"`
	IK []string `yaml:"ik"`
}

// IKFromFKStep moves the IK controls onto the FK pose.
type IKFromFKStep struct {
	FK            []string `yaml:"fk"`
	StartEffector string   `yaml:"start_effector"`
	EndEffector   string   `yaml:"end_effector"`
	Pole          string   `yaml:"pole,omitempty"`
}

// Assertion validates the final scene or a step outcome.
type Assertion struct {
	// Type selects the check; see the Assert constants.
	Type string `yaml:"type"`

	// Handle is the ikHandle name (topology).
	Handle string `yaml:"handle,omitempty"`

	// Expect is the expected topology name (topology).
	Expect string `yaml:"expect,omitempty"`

	// Node is a node name (node_exists, world_translation).
	Node string `yaml:"node,omitempty"`

	// NodeType filters node_count; empty counts every node.
	NodeType string `yaml:"node_type,omitempty"`

	// Count is the expected number of nodes (node_count).
	Count *int `yaml:"count,omitempty"`

	// Src and Dst are "node.attr" plugs (connected).
	Src string `yaml:"src,omitempty"`
	Dst string `yaml:"dst,omitempty"`

	// Plug is a "node.attr" plug (attr_equals).
	Plug string `yaml:"plug,omitempty"`

	// Value is the expected attribute value (attr_equals) or [x, y, z]
	// (world_translation).
	Value any `yaml:"value,omitempty"`

	// Tolerance bounds world_translation comparisons. Defaults to
	// DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Step is the step index and Code the expected error code (error).
	Step *int  `yaml:"step,omitempty"`
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertTopology         = "topology"
	AssertNodeExists       = "node_exists"
	AssertNodeCount        = "node_count"
	AssertConnected        = "connected"
	AssertAttrEquals       = "attr_equals"
	AssertWorldTranslation = "world_translation"
	AssertError            = "error"
)

// DefaultTolerance is the world_translation tolerance when none is given.
const DefaultTolerance = 1e-6

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML content.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if err := s.Fixture.Validate(); err != nil {
		return fmt.Errorf("fixture: %w", err)
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	kinds := step.kinds()
	switch len(kinds) {
	case 0:
		return fmt.Errorf("steps[%d]: no action set", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: exactly one action allowed, got %v", index, kinds)
	}

	switch {
	case step.Build != nil:
		if step.Build.Start == "" || step.Build.End == "" {
			return fmt.Errorf("steps[%d]: build needs start and end", index)
		}
	case step.Spline != nil:
		if step.Spline.Start == "" || step.Spline.End == "" || step.Spline.Curve == "" {
			return fmt.Errorf("steps[%d]: spline needs start, end and curve", index)
		}
	case step.Rig != nil:
		if step.Rig.Name == "" || step.Rig.Start == "" || step.Rig.End == "" {
			return fmt.Errorf("steps[%d]: rig needs name, start and end", index)
		}
		if _, err := step.Rig.ChainSpec(); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	case step.FKFromIK != nil:
		if len(step.FKFromIK.FK) == 0 || len(step.FKFromIK.IK) == 0 {
			return fmt.Errorf("steps[%d]: fk_from_ik needs fk and ik lists", index)
		}
	case step.IKFromFK != nil:
		if step.IKFromFK.StartEffector == "" || step.IKFromFK.EndEffector == "" {
			return fmt.Errorf("steps[%d]: ik_from_fk needs start_effector and end_effector", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTopology:
		if a.Handle == "" || a.Expect == "" {
			return fmt.Errorf("assertions[%d]: handle and expect are required for topology", index)
		}
		if _, err := ir.ParseTopology(a.Expect); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertNodeExists:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for node_exists", index)
		}
	case AssertNodeCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for node_count", index)
		}
	case AssertConnected:
		if _, _, err := splitPlug(a.Src); err != nil {
			return fmt.Errorf("assertions[%d]: src: %w", index, err)
		}
		if _, _, err := splitPlug(a.Dst); err != nil {
			return fmt.Errorf("assertions[%d]: dst: %w", index, err)
		}
	case AssertAttrEquals:
		if _, _, err := splitPlug(a.Plug); err != nil {
			return fmt.Errorf("assertions[%d]: plug: %w", index, err)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for attr_equals", index)
		}
	case AssertWorldTranslation:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for world_translation", index)
		}
		if _, err := vec3Of(a.Value); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertError:
		if a.Step == nil || *a.Step < 0 || *a.Step >= steps {
			return fmt.Errorf("assertions[%d]: step must index one of the %d steps", index, steps)
		}
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
