package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/rig"
)

// ClassifyResult is the result of `classify`.
type ClassifyResult struct {
	Topology string   `json:"topology"`
	Chain    []string `json:"chain"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <start> <end>",
		Short: "Report the chain and topology between two joints",
		Long: `Walk the joint ancestry from end to start and report the chain and the
IK topology its joint count selects.

Exit codes:
  0 - Chain classified
  1 - Disjoint chain or missing node
  2 - Command error`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runClassify(opts *RootOptions, startName, endName string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := context.Background()

	st, err := openScene(opts, false)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := resolveNames(ctx, st, startName, endName)
	if err != nil {
		return failRig(f, err)
	}

	cls, err := rig.NewClassifier(st).Classify(ctx, ids[0], ids[1])
	if err != nil {
		return failRig(f, err)
	}
	chain, err := nodeNames(ctx, st, cls.Chain)
	if err != nil {
		return failRig(f, err)
	}

	res := ClassifyResult{Topology: cls.Topology.String(), Chain: chain}
	return f.Success(res, fmt.Sprintf("%s: %s", res.Topology, strings.Join(chain, " -> ")))
}
