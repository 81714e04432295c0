package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ikrig/internal/rig"
	"github.com/roach88/ikrig/internal/scene"
)

// SyncResult is the result of `sync fk` and `sync ik`.
type SyncResult struct {
	Direction string   `json:"direction"`
	Moved     []string `json:"moved"`
}

// NewSyncCommand creates the sync command group.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Match FK and IK poses",
	}
	cmd.AddCommand(newSyncFKCommand(rootOpts))
	cmd.AddCommand(newSyncIKCommand(rootOpts))
	return cmd
}

func newSyncFKCommand(rootOpts *RootOptions) *cobra.Command {
	var fk, ik []string

	cmd := &cobra.Command{
		Use:   "fk",
		Short: "Snap FK nodes onto the IK pose",
		Long: `Copy each IK node's world rotation and translation onto the FK node at the
same position in the list. FK nodes keep their scale.

Example:
  ikrig sync fk --fk fk_shoulder,fk_elbow,fk_wrist --ik ik_shoulder,ik_elbow,ik_wrist --db scene.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := context.Background()

			st, err := openScene(rootOpts, false)
			if err != nil {
				return err
			}
			defer st.Close()

			fkIDs, err := resolveNames(ctx, st, fk...)
			if err != nil {
				return failRig(f, err)
			}
			ikIDs, err := resolveNames(ctx, st, ik...)
			if err != nil {
				return failRig(f, err)
			}

			syncer := rig.NewSynchronizer(st, rig.WithLogger(rootOpts.Logger(cmd)))
			if err := syncer.ForwardToInverse(ctx, fkIDs, ikIDs); err != nil {
				return failRig(f, err)
			}

			res := SyncResult{Direction: "fk", Moved: fk}
			return f.Success(res, fmt.Sprintf("Matched %d FK node(s) to IK", len(fk)))
		},
	}

	cmd.Flags().StringSliceVar(&fk, "fk", nil, "FK nodes, root to tip")
	cmd.Flags().StringSliceVar(&ik, "ik", nil, "IK nodes, root to tip")
	_ = cmd.MarkFlagRequired("fk")
	_ = cmd.MarkFlagRequired("ik")
	return cmd
}

func newSyncIKCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		fk               []string
		startEff, endEff string
		pole             string
	)

	cmd := &cobra.Command{
		Use:   "ik",
		Short: "Move IK controls onto the FK pose",
		Long: `Translate the start and end effectors onto the first and last FK nodes,
keeping their rotation and scale. With --pole and at least three FK nodes the
pole control is placed off the middle FK node along the pose's pole vector.

Example:
  ikrig sync ik --fk fk_shoulder,fk_elbow,fk_wrist --start-effector shoulder_ctl --end-effector hand_ctl --pole elbow_pole --db scene.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := context.Background()

			st, err := openScene(rootOpts, false)
			if err != nil {
				return err
			}
			defer st.Close()

			fkIDs, err := resolveNames(ctx, st, fk...)
			if err != nil {
				return failRig(f, err)
			}
			effs, err := resolveNames(ctx, st, startEff, endEff)
			if err != nil {
				return failRig(f, err)
			}
			moved := []string{startEff, endEff}

			var poleID *scene.NodeID
			if pole != "" {
				ids, err := resolveNames(ctx, st, pole)
				if err != nil {
					return failRig(f, err)
				}
				poleID = &ids[0]
				moved = append(moved, pole)
			}

			syncer := rig.NewSynchronizer(st, rig.WithLogger(rootOpts.Logger(cmd)))
			if err := syncer.InverseToForward(ctx, fkIDs, effs[0], effs[1], poleID); err != nil {
				return failRig(f, err)
			}

			res := SyncResult{Direction: "ik", Moved: moved}
			return f.Success(res, fmt.Sprintf("Matched IK controls to %d FK node(s)", len(fk)))
		},
	}

	cmd.Flags().StringSliceVar(&fk, "fk", nil, "FK nodes, root to tip")
	cmd.Flags().StringVar(&startEff, "start-effector", "", "control snapped to the first FK node")
	cmd.Flags().StringVar(&endEff, "end-effector", "", "control snapped to the last FK node")
	cmd.Flags().StringVar(&pole, "pole", "", "pole control (optional)")
	_ = cmd.MarkFlagRequired("fk")
	_ = cmd.MarkFlagRequired("start-effector")
	_ = cmd.MarkFlagRequired("end-effector")
	return cmd
}
