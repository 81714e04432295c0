package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// AssertionContext provides the scene assertions read from.
type AssertionContext struct {
	Scene scene.Scene
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertTopology:
		return assertTopology(actx, a)
	case AssertNodeExists:
		return assertNodeExists(actx, a)
	case AssertNodeCount:
		return assertNodeCount(actx, a)
	case AssertConnected:
		return assertConnected(actx, a)
	case AssertAttrEquals:
		return assertAttrEquals(actx, a)
	case AssertWorldTranslation:
		return assertWorldTranslation(actx, a)
	case AssertError:
		return assertStepError(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTopology follows the handle's ikSolver connection back to the
// solver node and maps its type to a topology.
func assertTopology(actx *AssertionContext, a Assertion) error {
	handle, err := lookup(actx, a.Handle)
	if err != nil {
		return err
	}
	conns, err := actx.Scene.Connections(actx.Ctx, handle)
	if err != nil {
		return err
	}

	for _, c := range conns {
		if c.Dst != scene.P(handle, "ikSolver") {
			continue
		}
		typ, err := actx.Scene.NodeType(actx.Ctx, c.Src.Node)
		if err != nil {
			return err
		}
		topo, ok := ir.TopologyForSolverType(typ)
		if !ok {
			return &AssertionError{Type: AssertTopology, Expected: a.Expect, Actual: "solver of type " + typ}
		}
		if topo.String() != a.Expect {
			return &AssertionError{Type: AssertTopology, Expected: a.Expect, Actual: topo.String()}
		}
		return nil
	}
	return &AssertionError{Type: AssertTopology, Expected: a.Expect, Actual: a.Handle + " has no solver"}
}

func assertNodeExists(actx *AssertionContext, a Assertion) error {
	_, ok, err := actx.Scene.Lookup(actx.Ctx, a.Node)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{Type: AssertNodeExists, Expected: "node " + a.Node, Actual: "not found"}
	}
	return nil
}

func assertNodeCount(actx *AssertionContext, a Assertion) error {
	nodes, err := actx.Scene.ListNodes(actx.Ctx, a.NodeType)
	if err != nil {
		return err
	}
	if len(nodes) != *a.Count {
		what := "nodes"
		if a.NodeType != "" {
			what = a.NodeType + " nodes"
		}
		return &AssertionError{
			Type:     AssertNodeCount,
			Expected: fmt.Sprintf("%d %s", *a.Count, what),
			Actual:   fmt.Sprintf("%d", len(nodes)),
		}
	}
	return nil
}

func assertConnected(actx *AssertionContext, a Assertion) error {
	src, err := plugOf(actx, a.Src)
	if err != nil {
		return err
	}
	dst, err := plugOf(actx, a.Dst)
	if err != nil {
		return err
	}

	conns, err := actx.Scene.Connections(actx.Ctx, src.Node)
	if err != nil {
		return err
	}
	for _, c := range conns {
		if c.Src == src && c.Dst == dst {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertConnected,
		Expected: a.Src + " -> " + a.Dst,
		Actual:   "no such connection",
	}
}

func assertAttrEquals(actx *AssertionContext, a Assertion) error {
	p, err := plugOf(actx, a.Plug)
	if err != nil {
		return err
	}
	want, err := ir.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("attr_equals value: %w", err)
	}
	got, err := actx.Scene.Attr(actx.Ctx, p)
	if err != nil {
		return &AssertionError{Type: AssertAttrEquals, Expected: formatValue(want), Actual: err.Error()}
	}
	if !ir.Equal(got, want) {
		return &AssertionError{Type: AssertAttrEquals, Expected: formatValue(want), Actual: formatValue(got)}
	}
	return nil
}

func assertWorldTranslation(actx *AssertionContext, a Assertion) error {
	id, err := lookup(actx, a.Node)
	if err != nil {
		return err
	}
	want, err := vec3Of(a.Value)
	if err != nil {
		return err
	}
	got, err := actx.Scene.Translation(actx.Ctx, id, scene.SpaceWorld)
	if err != nil {
		return err
	}

	tol := a.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	for i := range 3 {
		if !scalar.EqualWithinAbs(got[i], want[i], tol) {
			return &AssertionError{
				Type:     AssertWorldTranslation,
				Expected: fmt.Sprintf("%s at %v (tolerance %g)", a.Node, want, tol),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	}
	return nil
}

func assertStepError(result *Result, a Assertion) error {
	idx := *a.Step
	if idx >= len(result.Steps) {
		return &AssertionError{Type: AssertError, Expected: fmt.Sprintf("step %d", idx), Actual: "step did not run"}
	}
	o := result.Steps[idx]
	if !o.Failed() {
		return &AssertionError{Type: AssertError, Expected: a.Code, Actual: "step succeeded"}
	}
	if o.Code != a.Code {
		return &AssertionError{Type: AssertError, Expected: a.Code, Actual: o.Code + ": " + o.Err}
	}
	return nil
}

func lookup(actx *AssertionContext, name string) (scene.NodeID, error) {
	id, ok, err := actx.Scene.Lookup(actx.Ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("node %q: %w", name, scene.ErrNodeNotFound)
	}
	return id, nil
}

// plugOf resolves a "node.attr" plug by node name.
func plugOf(actx *AssertionContext, s string) (scene.Plug, error) {
	node, attr, err := splitPlug(s)
	if err != nil {
		return scene.Plug{}, err
	}
	id, err := lookup(actx, node)
	if err != nil {
		return scene.Plug{}, err
	}
	return scene.P(id, attr), nil
}

// splitPlug splits "node.attr" at the first dot; attr may itself contain
// dots, as in "h.springAngleBias[0].springAngleBias_Position".
func splitPlug(s string) (string, string, error) {
	node, attr, ok := strings.Cut(s, ".")
	if !ok || node == "" || attr == "" {
		return "", "", fmt.Errorf("plug %q: want node.attr", s)
	}
	return node, attr, nil
}

// vec3Of reads a YAML [x, y, z] list.
func vec3Of(v any) (mgl64.Vec3, error) {
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("value must be [x, y, z], got %v", v)
	}
	var out mgl64.Vec3
	for i, elem := range list {
		switch n := elem.(type) {
		case int:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return mgl64.Vec3{}, fmt.Errorf("value[%d]: expected number, got %T", i, elem)
		}
	}
	return out, nil
}

func formatValue(v ir.IRValue) string {
	b, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
