package rig

import (
	"errors"
	"fmt"

	"github.com/roach88/ikrig/internal/scene"
)

// RigError represents a precondition failure during rig construction or pose
// matching.
//
// RigError includes structured fields for diagnostics.
type RigError struct {
	// Code identifies the error category.
	Code RigErrorCode

	// Message is a human-readable description.
	Message string

	// Node identifies the offending node, when there is one.
	Node scene.NodeID

	// Details contains additional context.
	Details map[string]string
}

// RigErrorCode categorizes rig errors.
type RigErrorCode string

const (
	// ErrCodeDisjointChain indicates the start joint is not an ancestor of the end joint.
	ErrCodeDisjointChain RigErrorCode = "DISJOINT_CHAIN"

	// ErrCodeLengthMismatch indicates FK and IK node lists differ in length.
	ErrCodeLengthMismatch RigErrorCode = "LENGTH_MISMATCH"

	// ErrCodeNotJoint indicates a chain endpoint is not a joint (strict mode only).
	ErrCodeNotJoint RigErrorCode = "NOT_JOINT"

	// ErrCodeNotCurve indicates the Spline driver is not a curve.
	ErrCodeNotCurve RigErrorCode = "NOT_CURVE"

	// ErrCodeMissingNode indicates a named node does not exist.
	ErrCodeMissingNode RigErrorCode = "MISSING_NODE"

	// ErrCodeSolverConflict indicates the canonical solver name is taken by a
	// node of another type.
	ErrCodeSolverConflict RigErrorCode = "SOLVER_CONFLICT"
)

// Error implements the error interface.
func (e *RigError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the RigErrorCode carried by err, if any.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) (RigErrorCode, bool) {
	var re *RigError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

func hasCode(err error, code RigErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsDisjointChain returns true if the error is a disjoint chain error.
func IsDisjointChain(err error) bool {
	return hasCode(err, ErrCodeDisjointChain)
}

// IsLengthMismatch returns true if the error is a length mismatch error.
func IsLengthMismatch(err error) bool {
	return hasCode(err, ErrCodeLengthMismatch)
}

// IsNotJoint returns true if the error is a not-a-joint error.
func IsNotJoint(err error) bool {
	return hasCode(err, ErrCodeNotJoint)
}

// IsNotCurve returns true if the error is a not-a-curve error.
func IsNotCurve(err error) bool {
	return hasCode(err, ErrCodeNotCurve)
}

// IsMissingNode returns true if the error is a missing node error.
func IsMissingNode(err error) bool {
	return hasCode(err, ErrCodeMissingNode)
}

// IsSolverConflict returns true if the error is a solver name conflict.
func IsSolverConflict(err error) bool {
	return hasCode(err, ErrCodeSolverConflict)
}

// NewDisjointChainError creates a RigError for a start joint that is not in
// the end joint's joint ancestry.
func NewDisjointChainError(start, end scene.NodeID) *RigError {
	return &RigError{
		Code:    ErrCodeDisjointChain,
		Message: "start joint is not an ancestor of end joint",
		Node:    start,
		Details: map[string]string{
			"start": string(start),
			"end":   string(end),
		},
	}
}

// NewLengthMismatchError creates a RigError for FK/IK lists of different
// lengths.
func NewLengthMismatchError(fk, ik int) *RigError {
	return &RigError{
		Code:    ErrCodeLengthMismatch,
		Message: fmt.Sprintf("fk has %d nodes, ik has %d", fk, ik),
		Details: map[string]string{
			"fk": fmt.Sprintf("%d", fk),
			"ik": fmt.Sprintf("%d", ik),
		},
	}
}

// NewNotJointError creates a RigError for a chain endpoint of the wrong type.
func NewNotJointError(node scene.NodeID, nodeType string) *RigError {
	return &RigError{
		Code:    ErrCodeNotJoint,
		Message: fmt.Sprintf("expected %s, got %s", scene.TypeJoint, nodeType),
		Node:    node,
	}
}

// NewNotCurveError creates a RigError for a Spline driver of the wrong type.
func NewNotCurveError(node scene.NodeID, nodeType string) *RigError {
	return &RigError{
		Code:    ErrCodeNotCurve,
		Message: fmt.Sprintf("expected %s, got %s", scene.TypeNurbsCurve, nodeType),
		Node:    node,
	}
}

// NewMissingNodeError creates a RigError for a name that does not resolve.
func NewMissingNodeError(name string) *RigError {
	return &RigError{
		Code:    ErrCodeMissingNode,
		Message: fmt.Sprintf("no node named %q", name),
		Details: map[string]string{"name": name},
	}
}

// NewSolverConflictError creates a RigError for a node holding a solver's
// canonical name without being that solver.
func NewSolverConflictError(node scene.NodeID, want, got string) *RigError {
	return &RigError{
		Code:    ErrCodeSolverConflict,
		Message: fmt.Sprintf("expected %s, got %s", want, got),
		Node:    node,
	}
}
