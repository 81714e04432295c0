package harness

import "github.com/roach88/ikrig/internal/scene"

// StepOutcome is what one scenario step did.
type StepOutcome struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`

	// Handle is the created handle's name. Empty when the step failed, was
	// a sync step, or named a non-joint endpoint.
	Handle   string `json:"handle,omitempty"`
	Topology string `json:"topology,omitempty"`

	// Code classifies a failure; Err holds its message.
	Code string `json:"code,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Failed reports whether the step returned an error.
func (o StepOutcome) Failed() bool {
	return o.Code != ""
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held and no step failed
	// unexpectedly.
	Pass bool `json:"pass"`

	Steps []StepOutcome `json:"steps"`

	// Trace is the scene journal after the last step.
	Trace []scene.JournalEntry `json:"trace"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutcome{},
		Trace:  []scene.JournalEntry{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step outcome.
func (r *Result) AddStep(o StepOutcome) {
	r.Steps = append(r.Steps, o)
}
