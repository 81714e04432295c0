package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern on the file name)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run rigging scenarios",
		Long: `Run YAML rigging scenarios. Each scenario populates an in-memory scene
from its fixture, runs its build and sync steps and checks its assertions.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  ikrig test ./scenarios
  ikrig test ./scenarios --filter "arm_*"
  ikrig test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenario files matching this glob")
	return cmd
}

func runTest(opts *TestOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", dir), nil)
	}

	paths, err := harness.FindScenarios(dir)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeScanError, err.Error(), nil)
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return f.Fail(ExitCommandError, ErrCodeBadInput, fmt.Sprintf("invalid filter %q: %v", opts.Filter, err), nil)
		}
		kept := paths[:0]
		for _, p := range paths {
			if ok, _ := filepath.Match(opts.Filter, filepath.Base(p)); ok {
				kept = append(kept, p)
			}
		}
		paths = kept
	}
	if len(paths) == 0 {
		return f.Fail(ExitCommandError, ErrCodeNoFiles, fmt.Sprintf("no scenarios found in %s", dir), nil)
	}
	f.VerboseLog("Running %d scenario(s) from %s", len(paths), dir)

	res := harness.RunSuite(paths, harness.WithLogger(opts.Logger(cmd)))

	if f.IsJSON() {
		if err := f.Success(res, ""); err != nil {
			return err
		}
	} else {
		fmt.Fprint(f.Writer, formatTestText(res))
	}
	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", res.Failed))
	}
	return nil
}

func formatTestText(res *harness.SuiteResult) string {
	var b strings.Builder
	for _, s := range res.Scenarios {
		name := s.Scenario
		if name == "" {
			name = filepath.Base(s.Path)
		}
		if s.Pass {
			fmt.Fprintf(&b, "✓ %s\n", name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n", res.Passed, res.Failed, res.Total)
	return b.String()
}
