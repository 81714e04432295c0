package rigspec

import (
	"fmt"
	"regexp"

	"github.com/roach88/ikrig/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrRigNameInvalid       = "E101" // rig name is not an identifier
	ErrEndpointEmpty        = "E102" // start or end is empty
	ErrEndpointsEqual       = "E103" // start and end name the same node
	ErrSplineWithoutCurve   = "E104" // spline topology without a curve
	ErrCurveWithoutSpline   = "E105" // curve given for a non-spline topology
	ErrSoftDistanceNegative = "E106" // soft_distance < 0
	ErrDuplicateEndJoint    = "E107" // two rigs drive the same end joint
)

var rigNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a rig definition validation error.
type ValidationError struct {
	Rig     string `json:"rig"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] rig.%s.%s: %s", e.Code, e.Rig, e.Field, e.Message)
}

// Validate checks one compiled rig definition.
// Returns all errors found (does not fail-fast).
func Validate(spec ir.ChainSpec) []ValidationError {
	var errs []ValidationError
	add := func(field, code, msg string) {
		errs = append(errs, ValidationError{Rig: spec.Name, Field: field, Message: msg, Code: code})
	}

	if !rigNamePattern.MatchString(spec.Name) {
		add("name", ErrRigNameInvalid, fmt.Sprintf("%q is not a valid rig name", spec.Name))
	}
	if spec.Start == "" {
		add("start", ErrEndpointEmpty, "start must not be empty")
	}
	if spec.End == "" {
		add("end", ErrEndpointEmpty, "end must not be empty")
	}
	if spec.Start != "" && spec.Start == spec.End {
		add("end", ErrEndpointsEqual, "start and end must be different joints")
	}

	isSpline := spec.Topology != nil && *spec.Topology == ir.Spline
	if isSpline && spec.Curve == "" {
		add("curve", ErrSplineWithoutCurve, "spline topology requires a curve")
	}
	if !isSpline && spec.Curve != "" {
		add("curve", ErrCurveWithoutSpline, "curve is only used by the spline topology")
	}
	if spec.SoftDistance < 0 {
		add("soft_distance", ErrSoftDistanceNegative, "soft_distance must be >= 0")
	}
	return errs
}

// ValidateAll checks every definition and the rules spanning them.
func ValidateAll(specs []ir.ChainSpec) []ValidationError {
	var errs []ValidationError
	owner := make(map[string]string, len(specs))
	for _, spec := range specs {
		errs = append(errs, Validate(spec)...)
		if spec.End == "" {
			continue
		}
		if prev, ok := owner[spec.End]; ok {
			errs = append(errs, ValidationError{
				Rig:     spec.Name,
				Field:   "end",
				Message: fmt.Sprintf("end joint %q is already driven by rig %q", spec.End, prev),
				Code:    ErrDuplicateEndJoint,
			})
			continue
		}
		owner[spec.End] = spec.Name
	}
	return errs
}
