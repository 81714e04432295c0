package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/rig"
	"github.com/roach88/ikrig/internal/rigspec"
	"github.com/roach88/ikrig/internal/scene"
)

// BuiltRig is one rig definition's outcome.
type BuiltRig struct {
	Rig      string `json:"rig"`
	RigID    string `json:"rig_id"`
	Handle   string `json:"handle,omitempty"`
	Effector string `json:"effector,omitempty"`
	Solver   string `json:"solver,omitempty"`
	Topology string `json:"topology,omitempty"`
	Joints   int    `json:"joints,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"` // endpoint was not a joint
	Code     string `json:"code,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BuildResult is the result of `build`.
type BuildResult struct {
	Rigs   []BuiltRig `json:"rigs"`
	Built  int        `json:"built"`
	Failed int        `json:"failed"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build <rigs-dir>",
		Short: "Build IK handles from CUE rig definitions",
		Long: `Compile the CUE rig definitions in a directory and build each one on the
scene database. All rigs share one solver per topology.

Rigs without soft_distance take the configured default.

Exit codes:
  0 - All rigs built (or skipped)
  1 - A definition is invalid or a rig failed to build
  2 - Command error (invalid paths, database not found, etc.)

Examples:
  ikrig build ./rigs --db scene.db
  ikrig build ./rigs --db scene.db --strict --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, args[0], cmd)
		},
	}
}

func runBuild(opts *RootOptions, rigsDir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := context.Background()

	loadResult, loadErrors := LoadRigs(rigsDir, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			exit := ExitFailure
			if loadResult == nil {
				exit = ExitCommandError
			}
			return f.Fail(exit, loadErr.Code, loadErr.Error(), nil)
		}
		return f.Fail(ExitFailure, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}
	if verrs := rigspec.ValidateAll(loadResult.Rigs); len(verrs) > 0 {
		return f.Fail(ExitFailure, verrs[0].Code, verrs[0].Error(), verrs)
	}

	st, err := openScene(opts, false)
	if err != nil {
		return err
	}
	defer st.Close()

	builder := rig.NewBuilder(st,
		rig.WithLogger(opts.Logger(cmd)),
		rig.WithStrict(opts.Config.Strict),
	)

	res := BuildResult{Rigs: make([]BuiltRig, 0, len(loadResult.Rigs))}
	for _, spec := range loadResult.Rigs {
		if spec.SoftDistance == 0 {
			spec.SoftDistance = opts.Config.SoftDistance
		}
		out := buildOne(ctx, builder, st, spec)
		if out.Code != "" {
			res.Failed++
		} else if !out.Skipped {
			res.Built++
		}
		res.Rigs = append(res.Rigs, out)
	}

	if f.IsJSON() {
		if err := f.Success(res, ""); err != nil {
			return err
		}
	} else {
		fmt.Fprint(f.Writer, formatBuildText(res))
	}
	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d rig(s) failed to build", res.Failed))
	}
	return nil
}

// buildOne builds a single rig, folding any failure into the outcome.
func buildOne(ctx context.Context, b *rig.Builder, s scene.Scene, spec ir.ChainSpec) BuiltRig {
	out := BuiltRig{Rig: spec.Name}
	id, err := ir.RigID(spec)
	if err != nil {
		out.Code, out.Error = ErrCodeGeneric, err.Error()
		return out
	}
	out.RigID = id

	fail := func(err error) BuiltRig {
		out.Code = ErrCodeSceneFailed
		if code, ok := rig.CodeOf(err); ok {
			out.Code = string(code)
		}
		out.Error = err.Error()
		return out
	}

	h, err := b.BuildFromSpec(ctx, spec)
	if err != nil {
		return fail(err)
	}
	if h == nil {
		out.Skipped = true
		return out
	}

	names, err := nodeNames(ctx, s, []scene.NodeID{h.Node, h.Effector, h.Solver})
	if err != nil {
		return fail(err)
	}
	out.Handle, out.Effector, out.Solver = names[0], names[1], names[2]
	out.Topology = h.Topology.String()
	out.Joints = len(h.Chain)
	return out
}

func formatBuildText(res BuildResult) string {
	var sb strings.Builder
	for _, r := range res.Rigs {
		switch {
		case r.Code != "":
			fmt.Fprintf(&sb, "✗ %s: [%s] %s\n", r.Rig, r.Code, r.Error)
		case r.Skipped:
			fmt.Fprintf(&sb, "- %s: skipped (endpoint is not a joint)\n", r.Rig)
		default:
			fmt.Fprintf(&sb, "✓ %s: %s %s (%d joints)\n", r.Rig, r.Topology, r.Handle, r.Joints)
		}
	}
	fmt.Fprintf(&sb, "\n%d built, %d failed\n", res.Built, res.Failed)
	return sb.String()
}
