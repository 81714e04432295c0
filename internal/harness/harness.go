package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/rig"
	"github.com/roach88/ikrig/internal/scene"
	"github.com/roach88/ikrig/internal/testutil"
)

// Error codes for failures that are not rig.RigErrors.
const (
	CodeDegenerate          = "DEGENERATE_GEOMETRY"
	CodeInvalidSoftDistance = "INVALID_SOFT_DISTANCE"
	CodeNodeNotFound        = "NODE_NOT_FOUND"
	CodeError               = "ERROR"
)

// Harness is the scenario execution engine.
// It runs one scenario against one fresh scene.
type Harness struct {
	scene   *scene.Memory
	clock   *testutil.DeterministicClock
	builder *rig.Builder
	syncer  *rig.Synchronizer
	logger  *slog.Logger
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger routes rig logs to logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Create a fresh in-memory scene with deterministic ids and clock
//  2. Populate the fixture
//  3. Execute steps, recording each outcome
//  4. Evaluate assertions and flag unexpected step failures
//
// An error is returned only when the scenario cannot run at all.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	clock := testutil.NewDeterministicClock()
	sc := scene.NewMemory(
		scene.WithIDGenerator(scene.NewSequentialGenerator("n")),
		scene.WithClock(clock),
	)

	h := &Harness{
		scene:   sc,
		clock:   clock,
		builder: rig.NewBuilder(sc, rig.WithLogger(o.logger), rig.WithStrict(scenario.Strict)),
		syncer:  rig.NewSynchronizer(sc, rig.WithLogger(o.logger)),
		logger:  o.logger,
	}

	ctx := context.Background()
	if _, err := scenario.Fixture.Populate(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to populate fixture: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		mark := h.clock.Last()
		outcome := h.executeStep(ctx, i, step)
		result.AddStep(outcome)
		h.logger.Info("scenario step completed",
			"scenario", scenario.Name,
			"step", i,
			"kind", outcome.Kind,
			"handle", outcome.Handle,
			"code", outcome.Code,
			"mutations", h.clock.Since(mark),
		)
	}

	actx := &AssertionContext{Scene: sc, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	for _, errMsg := range unexpectedFailures(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	trace, err := sc.Journal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.Trace = trace
	return result, nil
}

// executeStep runs one step. Failures land in the outcome, never in a
// returned error.
func (h *Harness) executeStep(ctx context.Context, index int, step Step) StepOutcome {
	outcome := StepOutcome{Index: index, Kind: step.Kind()}

	handle, err := h.dispatch(ctx, step)
	if err != nil {
		outcome.Code = codeFor(err)
		outcome.Err = err.Error()
		return outcome
	}
	if handle != nil {
		name, err := h.scene.Name(ctx, handle.Node)
		if err != nil {
			outcome.Code = codeFor(err)
			outcome.Err = err.Error()
			return outcome
		}
		outcome.Handle = name
		outcome.Topology = handle.Topology.String()
	}
	return outcome
}

func (h *Harness) dispatch(ctx context.Context, step Step) (*rig.IKHandle, error) {
	switch {
	case step.Build != nil:
		ids, err := h.resolve(ctx, step.Build.Start, step.Build.End)
		if err != nil {
			return nil, err
		}
		return h.builder.Build(ctx, ids[0], ids[1])

	case step.Spline != nil:
		ids, err := h.resolve(ctx, step.Spline.Start, step.Spline.End, step.Spline.Curve)
		if err != nil {
			return nil, err
		}
		return h.builder.BuildSpline(ctx, ids[0], ids[1], ids[2])

	case step.Rig != nil:
		spec, err := step.Rig.ChainSpec()
		if err != nil {
			return nil, err
		}
		return h.builder.BuildFromSpec(ctx, spec)

	case step.FKFromIK != nil:
		fk, err := h.resolve(ctx, step.FKFromIK.FK...)
		if err != nil {
			return nil, err
		}
		ik, err := h.resolve(ctx, step.FKFromIK.IK...)
		if err != nil {
			return nil, err
		}
		return nil, h.syncer.ForwardToInverse(ctx, fk, ik)

	case step.IKFromFK != nil:
		s := step.IKFromFK
		fk, err := h.resolve(ctx, s.FK...)
		if err != nil {
			return nil, err
		}
		effectors, err := h.resolve(ctx, s.StartEffector, s.EndEffector)
		if err != nil {
			return nil, err
		}
		var pole *scene.NodeID
		if s.Pole != "" {
			ids, err := h.resolve(ctx, s.Pole)
			if err != nil {
				return nil, err
			}
			pole = &ids[0]
		}
		return nil, h.syncer.InverseToForward(ctx, fk, effectors[0], effectors[1], pole)
	}
	return nil, fmt.Errorf("step sets no action")
}

// resolve maps node names to ids.
func (h *Harness) resolve(ctx context.Context, names ...string) ([]scene.NodeID, error) {
	ids := make([]scene.NodeID, len(names))
	for i, name := range names {
		id, ok, err := h.scene.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, rig.NewMissingNodeError(name)
		}
		ids[i] = id
	}
	return ids, nil
}

// codeFor classifies a step error.
func codeFor(err error) string {
	if code, ok := rig.CodeOf(err); ok {
		return string(code)
	}
	switch {
	case errors.Is(err, ikmath.ErrDegenerateGeometry):
		return CodeDegenerate
	case errors.Is(err, ikmath.ErrInvalidSoftDistance):
		return CodeInvalidSoftDistance
	case errors.Is(err, scene.ErrNodeNotFound):
		return CodeNodeNotFound
	default:
		return CodeError
	}
}

// unexpectedFailures reports failed steps no error assertion expects.
func unexpectedFailures(result *Result, assertions []Assertion) []string {
	expected := make(map[int]bool)
	for _, a := range assertions {
		if a.Type == AssertError && a.Step != nil {
			expected[*a.Step] = true
		}
	}

	var errs []string
	for _, o := range result.Steps {
		if o.Failed() && !expected[o.Index] {
			errs = append(errs, fmt.Sprintf("step %d (%s) failed unexpectedly: %s", o.Index, o.Kind, o.Err))
		}
	}
	return errs
}
