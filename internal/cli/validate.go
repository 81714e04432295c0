package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/rigspec"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Rigs   []string                  `json:"rigs,omitempty"`
	Errors []rigspec.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rigs-dir>",
		Short: "Validate rig definitions without building",
		Long: `Compile and check the CUE rig definitions in a directory without touching
a scene. Reports every problem found, not just the first.

Exit codes:
  0 - All definitions are valid
  1 - One or more definitions are invalid
  2 - Command error (directory not found, no CUE files)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, rigsDir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadRigs(rigsDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	f.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, rigsDir)

	res := ValidationResult{}
	for _, spec := range loadResult.Rigs {
		res.Rigs = append(res.Rigs, spec.Name)
	}
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			res.Errors = append(res.Errors, rigspec.ValidationError{
				Rig:     loadErr.Rig,
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
		}
	}
	res.Errors = append(res.Errors, rigspec.ValidateAll(loadResult.Rigs)...)
	res.Valid = len(res.Errors) == 0

	if f.IsJSON() {
		if err := f.Success(res, ""); err != nil {
			return err
		}
	} else {
		fmt.Fprint(f.Writer, formatValidationText(res))
	}
	if !res.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(res.Errors)))
	}
	return nil
}

func formatValidationText(res ValidationResult) string {
	var b strings.Builder
	if res.Valid {
		fmt.Fprintf(&b, "✓ %d rig(s) valid\n", len(res.Rigs))
		return b.String()
	}
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "✗ %s\n", e.Error())
	}
	fmt.Fprintf(&b, "\n%d error(s)\n", len(res.Errors))
	return b.String()
}
