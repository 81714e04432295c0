package cli

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/ikmath"
)

// TwoBoneOutput is the result of `solve twobone`.
type TwoBoneOutput struct {
	Root          [3]float64  `json:"root"`
	Mid           [3]float64  `json:"mid"`
	End           [3]float64  `json:"end"`
	RootMatrix    [16]float64 `json:"root_matrix"`
	MidMatrix     [16]float64 `json:"mid_matrix"`
	EndMatrix     [16]float64 `json:"end_matrix"`
	StartAngle    float64     `json:"start_angle"`
	EndAngle      float64     `json:"end_angle"`
	Hyperextended bool        `json:"hyperextended"`
}

// SoftOutput is the result of `solve soft`.
type SoftOutput struct {
	SoftEndPoint [3]float64 `json:"soft_end_point"`
	StretchScale float64    `json:"stretch_scale"`
	Distance     float64    `json:"distance"`
}

// PoleOutput is the result of `solve pole`.
type PoleOutput struct {
	PoleVector [3]float64 `json:"pole_vector"`
}

// NewSolveCommand creates the solve command group. Solves are pure and need
// no scene.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run the analytic solvers on raw positions",
	}
	cmd.AddCommand(newSolveTwoBoneCommand(rootOpts))
	cmd.AddCommand(newSolveSoftCommand(rootOpts))
	cmd.AddCommand(newSolvePoleCommand(rootOpts))
	return cmd
}

func newSolveTwoBoneCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		start, end, pole       string
		startLength, endLength float64
		twist                  float64
	)

	cmd := &cobra.Command{
		Use:   "twobone",
		Short: "Solve a 2-bone chain",
		Long: `Solve a 2-bone chain analytically.

Positions are x,y,z. Twist is in degrees about the aim axis.

Examples:
  ikrig solve twobone --start 0,0,0 --end 6,0,0 --pole 0,-1,0 --start-length 5 --end-length 5
  ikrig solve twobone --start 0,0,0 --end 12,0,0 --pole 0,-1,0 --start-length 5 --end-length 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			vecs, err := parseVecs(start, end, pole)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
			}

			sol, err := ikmath.SolveTwoBone(ikmath.TwoBoneInput{
				StartPoint:  vecs[0],
				EndPoint:    vecs[1],
				PoleVector:  vecs[2],
				StartLength: startLength,
				EndLength:   endLength,
				Twist:       mgl64.DegToRad(twist),
			})
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
			}

			out := TwoBoneOutput{
				Root:          ikmath.Translation(sol.Root),
				Mid:           ikmath.Translation(sol.Mid),
				End:           ikmath.Translation(sol.End),
				RootMatrix:    sol.Root,
				MidMatrix:     sol.Mid,
				EndMatrix:     sol.End,
				StartAngle:    sol.StartAngle,
				EndAngle:      sol.EndAngle,
				Hyperextended: sol.Hyperextended,
			}
			text := fmt.Sprintf("root: %s\nmid:  %s\nend:  %s\nangles: start=%.6g end=%.6g (radians)",
				formatVec(out.Root), formatVec(out.Mid), formatVec(out.End), out.StartAngle, out.EndAngle)
			if out.Hyperextended {
				text += "\nhyperextended: chain laid out straight"
			}
			return f.Success(out, text)
		},
	}

	cmd.Flags().StringVar(&start, "start", "0,0,0", "start point x,y,z")
	cmd.Flags().StringVar(&end, "end", "", "target point x,y,z")
	cmd.Flags().StringVar(&pole, "pole", "0,-1,0", "pole vector x,y,z")
	cmd.Flags().Float64Var(&startLength, "start-length", 0, "first segment length")
	cmd.Flags().Float64Var(&endLength, "end-length", 0, "second segment length")
	cmd.Flags().Float64Var(&twist, "twist", 0, "twist about the aim axis, degrees")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("start-length")
	_ = cmd.MarkFlagRequired("end-length")
	return cmd
}

func newSolveSoftCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		start, end                string
		chainLength, softDistance float64
	)

	cmd := &cobra.Command{
		Use:   "soft",
		Short: "Compute the soft IK end point and stretch",
		Long: `Compute the soft IK falloff for a chain reaching from start to end.

A soft distance of 0 disables softening. When unset, soft_distance from the
config is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			vecs, err := parseVecs(start, end)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
			}
			if !cmd.Flags().Changed("soft-distance") {
				softDistance = rootOpts.Config.SoftDistance
			}

			res, err := ikmath.SoftIK(vecs[0], vecs[1], chainLength, softDistance)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
			}

			out := SoftOutput{
				SoftEndPoint: res.SoftEndPoint,
				StretchScale: res.StretchScale,
				Distance:     res.Distance,
			}
			text := fmt.Sprintf("soft end: %s\nstretch:  %.6g\ndistance: %.6g",
				formatVec(out.SoftEndPoint), out.StretchScale, out.Distance)
			return f.Success(out, text)
		},
	}

	cmd.Flags().StringVar(&start, "start", "0,0,0", "chain start x,y,z")
	cmd.Flags().StringVar(&end, "end", "", "target x,y,z")
	cmd.Flags().Float64Var(&chainLength, "chain-length", 0, "sum of segment lengths")
	cmd.Flags().Float64Var(&softDistance, "soft-distance", 0, "soft region length")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("chain-length")
	return cmd
}

func newSolvePoleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pole <x,y,z> <x,y,z> <x,y,z>...",
		Short: "Compute the pole vector of a chain pose",
		Long: `Compute the unit pole vector from the first three positions of a chain.

Example:
  ikrig solve pole 0,0,0 3,-4,0 6,0,0`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			points, err := parseVecs(args...)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeBadInput, err.Error(), nil)
			}

			v, err := ikmath.PoleVector(points)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
			}
			out := PoleOutput{PoleVector: v}
			return f.Success(out, "pole: "+formatVec(out.PoleVector))
		},
	}
}

func parseVecs(specs ...string) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(specs))
	for i, s := range specs {
		v, err := parseVec3(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatVec(v [3]float64) string {
	parts := make([]string, 3)
	for i, c := range v {
		parts[i] = fmt.Sprintf("%.6g", c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
