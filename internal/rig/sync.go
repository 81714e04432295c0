package rig

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/scene"
)

type translationSnap struct {
	node scene.NodeID
	to   mgl64.Vec3
}

// Synchronizer matches FK and IK poses.
type Synchronizer struct {
	scene  scene.Scene
	logger *slog.Logger
}

// NewSynchronizer creates a synchronizer over s.
func NewSynchronizer(s scene.Scene, opts ...Option) *Synchronizer {
	o := applyOptions(opts)
	return &Synchronizer{scene: s, logger: o.logger}
}

// ForwardToInverse snaps each FK node onto the matching IK node's world
// rotation and translation. FK nodes keep their scale.
//
// The lists must have equal length; a LENGTH_MISMATCH RigError is returned
// before anything is written.
func (s *Synchronizer) ForwardToInverse(ctx context.Context, fk, ik []scene.NodeID) error {
	if len(fk) != len(ik) {
		return NewLengthMismatchError(len(fk), len(ik))
	}

	targets := make([]mgl64.Mat4, len(ik))
	for i, id := range ik {
		m, err := s.scene.WorldMatrix(ctx, id)
		if err != nil {
			return fmt.Errorf("fk from ik: %w", err)
		}
		targets[i] = m
	}

	// Root to tip, so each child resolves against its parent's new pose.
	for i, id := range fk {
		if err := s.scene.SetMatrix(ctx, id, targets[i], true); err != nil {
			return fmt.Errorf("fk from ik: %w", err)
		}
	}

	s.logger.Debug("fk matched to ik", "nodes", len(fk))
	return nil
}

// InverseToForward moves the effectors onto the first and last FK nodes,
// translation only. With a non-nil pole and at least three FK nodes, the
// pole is placed off the middle FK node along the chain's pole vector at a
// distance of the chain length.
func (s *Synchronizer) InverseToForward(ctx context.Context, fk []scene.NodeID, startEffector, endEffector scene.NodeID, pole *scene.NodeID) error {
	if len(fk) == 0 {
		return NewLengthMismatchError(0, 2)
	}

	points := make([]mgl64.Vec3, len(fk))
	for i, id := range fk {
		p, err := s.scene.Translation(ctx, id, scene.SpaceWorld)
		if err != nil {
			return fmt.Errorf("ik from fk: %w", err)
		}
		points[i] = p
	}

	var (
		polePos   mgl64.Vec3
		placePole bool
	)
	if pole != nil {
		polePos, placePole = s.polePosition(points)
	}

	snaps := []translationSnap{
		{startEffector, points[0]},
		{endEffector, points[len(points)-1]},
	}
	if placePole {
		snaps = append(snaps, translationSnap{*pole, polePos})
	}

	for _, snap := range snaps {
		if err := s.translateTo(ctx, snap.node, snap.to); err != nil {
			return fmt.Errorf("ik from fk: %w", err)
		}
	}

	s.logger.Debug("ik matched to fk", "nodes", len(fk), "pole", placePole)
	return nil
}

// polePosition returns where the pole control goes for the FK pose, or
// false when the pose has no bend plane.
func (s *Synchronizer) polePosition(points []mgl64.Vec3) (mgl64.Vec3, bool) {
	if len(points) < 3 {
		s.logger.Debug("pole left in place: chain has fewer than three nodes", "nodes", len(points))
		return mgl64.Vec3{}, false
	}

	first, mid, last := points[0], points[len(points)/2], points[len(points)-1]
	dir, err := ikmath.PoleVector([]mgl64.Vec3{first, mid, last})
	if err != nil {
		s.logger.Warn("pole left in place: fk pose is straight", "error", err)
		return mgl64.Vec3{}, false
	}

	chainLength := mid.Sub(first).Len() + last.Sub(mid).Len()
	return mid.Add(dir.Mul(chainLength)), true
}

// translateTo keeps the node's world rotation and scale.
func (s *Synchronizer) translateTo(ctx context.Context, id scene.NodeID, to mgl64.Vec3) error {
	world, err := s.scene.WorldMatrix(ctx, id)
	if err != nil {
		return err
	}
	return s.scene.SetMatrix(ctx, id, ikmath.WithTranslation(world, to), false)
}
