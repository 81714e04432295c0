package rigspec

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ikrig/internal/ir"
)

// knownFields are the fields a rig definition may carry.
var knownFields = map[string]bool{
	"start":         true,
	"end":           true,
	"topology":      true,
	"curve":         true,
	"soft_distance": true,
}

// CompileChain parses a CUE value into a ChainSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the rig struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rig: arm: { start: "a", end: "c" }`)
//	spec, err := CompileChain(v.LookupPath(cue.ParsePath("rig.arm")))
func CompileChain(v cue.Value) (*ir.ChainSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ChainSpec{}

	// Rig name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{Field: "rig", Message: "rig definition must be a struct", Pos: v.Pos()}
	}
	for iter.Next() {
		if !knownFields[iter.Label()] {
			return nil, &CompileError{
				Field:   iter.Label(),
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if spec.Start, err = requiredString(v, "start"); err != nil {
		return nil, err
	}
	if spec.End, err = requiredString(v, "end"); err != nil {
		return nil, err
	}

	if topoVal := v.LookupPath(cue.ParsePath("topology")); topoVal.Exists() {
		s, err := topoVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		topo, err := ir.ParseTopology(s)
		if err != nil {
			return nil, &CompileError{Field: "topology", Message: err.Error(), Pos: topoVal.Pos()}
		}
		spec.Topology = &topo
	}

	if curveVal := v.LookupPath(cue.ParsePath("curve")); curveVal.Exists() {
		if spec.Curve, err = curveVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if softVal := v.LookupPath(cue.ParsePath("soft_distance")); softVal.Exists() {
		if spec.SoftDistance, err = softVal.Float64(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	return spec, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
