package rig

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ikmath"
	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// Handle and effector plugs wired by every build.
const (
	attrTranslate          = "translate"
	attrOffsetParentMatrix = "offsetParentMatrix"
	attrHandlePath         = "handlePath"
	attrEndEffector        = "endEffector"
	attrMessage            = "message"
	attrIKSolver           = "ikSolver"
	attrStartJoint         = "startJoint"
	attrStickiness         = "stickiness"
	attrInCurve            = "inCurve"
	attrSoftDistance       = "softDistance"

	// curveWorldSpace is the curve output driving a Spline handle.
	curveWorldSpace = "worldSpace[0]"
)

// IKHandle describes a rig created by Builder.
type IKHandle struct {
	Node     scene.NodeID
	Effector scene.NodeID
	Solver   scene.NodeID
	Topology ir.Topology
	Chain    Chain

	// RestPoleVector is set for Spring handles.
	RestPoleVector mgl64.Vec3
}

// Builder creates IK handles on a scene.
type Builder struct {
	scene      scene.Scene
	classifier *Classifier
	registry   *Registry
	logger     *slog.Logger
	strict     bool
}

// NewBuilder creates a builder over s. Without WithRegistry the builder owns
// a fresh registry.
func NewBuilder(s scene.Scene, opts ...Option) *Builder {
	o := applyOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = NewRegistry(s)
	}
	return &Builder{
		scene:      s,
		classifier: NewClassifier(s),
		registry:   reg,
		logger:     o.logger,
		strict:     o.strict,
	}
}

// Registry returns the solver registry used by the builder.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// buildPlan is everything read from the scene before the first mutation.
type buildPlan struct {
	topo      ir.Topology
	chain     Chain
	endName   string
	endParent scene.NodeID
	handleMat mgl64.Mat4
	restPole  mgl64.Vec3
	curve     scene.NodeID
	soft      float64
}

// Build rigs the chain from start to end with the topology its joint count
// selects. A nil handle and nil error mean the request named a non-joint
// node and nothing was created.
func (b *Builder) Build(ctx context.Context, start, end scene.NodeID) (*IKHandle, error) {
	return b.build(ctx, start, end, nil, "", 0)
}

// BuildSpline rigs the chain from start to end with a Spline handle driven
// by curve.
func (b *Builder) BuildSpline(ctx context.Context, start, end, curve scene.NodeID) (*IKHandle, error) {
	spline := ir.Spline
	return b.build(ctx, start, end, &spline, curve, 0)
}

// BuildFromSpec resolves a compiled rig definition by node name and builds
// it. An explicit topology overrides the joint-count selection. A positive
// soft distance is stored on the handle as a softDistance attribute.
func (b *Builder) BuildFromSpec(ctx context.Context, spec ir.ChainSpec) (*IKHandle, error) {
	if spec.SoftDistance < 0 {
		return nil, fmt.Errorf("rig %q: %w", spec.Name, ikmath.ErrInvalidSoftDistance)
	}

	start, err := b.resolve(ctx, spec.Start)
	if err != nil {
		return nil, fmt.Errorf("rig %q: %w", spec.Name, err)
	}
	end, err := b.resolve(ctx, spec.End)
	if err != nil {
		return nil, fmt.Errorf("rig %q: %w", spec.Name, err)
	}

	var curve scene.NodeID
	if spec.Topology != nil && *spec.Topology == ir.Spline {
		if spec.Curve == "" {
			return nil, fmt.Errorf("rig %q: spline topology needs a curve", spec.Name)
		}
		if curve, err = b.resolve(ctx, spec.Curve); err != nil {
			return nil, fmt.Errorf("rig %q: %w", spec.Name, err)
		}
	}

	h, err := b.build(ctx, start, end, spec.Topology, curve, spec.SoftDistance)
	if err != nil || h == nil {
		return h, err
	}

	b.logger.Info("rig built from definition",
		"rig", spec.Name,
		"topology", h.Topology.String(),
		"joints", len(h.Chain),
	)
	return h, nil
}

func (b *Builder) resolve(ctx context.Context, name string) (scene.NodeID, error) {
	id, ok, err := b.scene.Lookup(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", NewMissingNodeError(name)
	}
	return id, nil
}

func (b *Builder) build(ctx context.Context, start, end scene.NodeID, override *ir.Topology, curve scene.NodeID, soft float64) (*IKHandle, error) {
	ok, err := b.checkJoints(ctx, start, end)
	if err != nil || !ok {
		return nil, err
	}

	plan, err := b.plan(ctx, start, end, override, curve)
	if err != nil {
		return nil, err
	}
	plan.soft = soft

	h, err := b.apply(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", plan.endName, err)
	}

	b.logger.Debug("ik handle created",
		"handle", h.Node,
		"topology", h.Topology.String(),
		"joints", len(h.Chain),
	)
	return h, nil
}

// checkJoints reports whether both endpoints are joints. A non-joint is an
// error only in strict mode.
func (b *Builder) checkJoints(ctx context.Context, nodes ...scene.NodeID) (bool, error) {
	for _, id := range nodes {
		typ, err := b.scene.NodeType(ctx, id)
		if err != nil {
			return false, fmt.Errorf("build: %w", err)
		}
		if typ == scene.TypeJoint {
			continue
		}
		if b.strict {
			return false, NewNotJointError(id, typ)
		}
		b.logger.Debug("skipping rig: endpoint is not a joint", "node", id, "type", typ)
		return false, nil
	}
	return true, nil
}

// plan reads and validates everything the build needs.
func (b *Builder) plan(ctx context.Context, start, end scene.NodeID, override *ir.Topology, curve scene.NodeID) (buildPlan, error) {
	cls, err := b.classifier.Classify(ctx, start, end)
	if err != nil {
		if IsDisjointChain(err) {
			b.logger.Warn("cannot rig disjoint chain", "start", start, "end", end)
		}
		return buildPlan{}, err
	}

	p := buildPlan{topo: cls.Topology, chain: cls.Chain, curve: curve}
	if override != nil {
		p.topo = *override
	}

	if p.endName, err = b.scene.Name(ctx, end); err != nil {
		return buildPlan{}, err
	}
	if p.endParent, err = b.scene.Parent(ctx, end); err != nil {
		return buildPlan{}, err
	}

	endWorld, err := b.scene.WorldMatrix(ctx, end)
	if err != nil {
		return buildPlan{}, err
	}
	startWorld, err := b.scene.WorldMatrix(ctx, start)
	if err != nil {
		return buildPlan{}, err
	}

	switch p.topo {
	case ir.SingleChain:
		p.handleMat = ikmath.ComposeRotationTranslation(startWorld, endWorld)
	case ir.Spring:
		p.handleMat = endWorld
		p.restPole, err = ikmath.RestPoleVector(
			ikmath.Translation(startWorld),
			ikmath.Translation(endWorld),
			startWorld.Col(2).Vec3(),
		)
		if err != nil {
			return buildPlan{}, fmt.Errorf("spring rest pose: %w", err)
		}
	case ir.Spline:
		p.handleMat = endWorld
		if curve == "" {
			return buildPlan{}, fmt.Errorf("spline topology needs a curve")
		}
		typ, err := b.scene.NodeType(ctx, curve)
		if err != nil {
			return buildPlan{}, fmt.Errorf("spline curve: %w", err)
		}
		if typ != scene.TypeNurbsCurve {
			return buildPlan{}, NewNotCurveError(curve, typ)
		}
	default:
		p.handleMat = endWorld
	}
	return p, nil
}

// apply performs the scene mutations of a validated plan.
func (b *Builder) apply(ctx context.Context, p buildPlan) (*IKHandle, error) {
	solver, err := b.registry.Get(ctx, p.topo)
	if err != nil {
		return nil, err
	}

	effName, err := b.uniqueName(ctx, p.endName+"_effector")
	if err != nil {
		return nil, err
	}
	handleName, err := b.uniqueName(ctx, p.endName+"_ikHandle")
	if err != nil {
		return nil, err
	}

	eff, err := b.scene.CreateNode(ctx, scene.TypeEffector, effName, p.endParent)
	if err != nil {
		return nil, err
	}
	handle, err := b.scene.CreateNode(ctx, scene.TypeIKHandle, handleName, "")
	if err != nil {
		return nil, err
	}

	start, end := p.chain.Start(), p.chain.End()
	links := []scene.Connection{
		{Src: scene.P(end, attrTranslate), Dst: scene.P(eff, attrTranslate)},
		{Src: scene.P(end, attrOffsetParentMatrix), Dst: scene.P(eff, attrOffsetParentMatrix)},
		{Src: scene.P(eff, attrHandlePath), Dst: scene.P(handle, attrEndEffector)},
		{Src: scene.P(solver.Node, attrMessage), Dst: scene.P(handle, attrIKSolver)},
		{Src: scene.P(start, attrMessage), Dst: scene.P(handle, attrStartJoint)},
	}
	if p.topo == ir.Spline {
		links = append(links, scene.Connection{Src: scene.P(p.curve, curveWorldSpace), Dst: scene.P(handle, attrInCurve)})
	}
	for _, l := range links {
		if err := b.scene.Connect(ctx, l.Src, l.Dst); err != nil {
			return nil, err
		}
	}

	if err := b.scene.SetMatrix(ctx, handle, p.handleMat, false); err != nil {
		return nil, err
	}

	h := &IKHandle{
		Node:     handle,
		Effector: eff,
		Solver:   solver.Node,
		Topology: p.topo,
		Chain:    p.chain,
	}

	switch p.topo {
	case ir.SingleChain:
		if err := b.scene.SetAttr(ctx, scene.P(handle, attrStickiness), ir.IRInt(1)); err != nil {
			return nil, err
		}
	case ir.Spring:
		if err := b.configureSpring(ctx, handle, p.chain, p.restPole); err != nil {
			return nil, err
		}
		h.RestPoleVector = p.restPole
	}

	if p.soft > 0 {
		if err := b.scene.AddAttr(ctx, handle, scene.AttrDef{Name: attrSoftDistance, Type: scene.AttrDouble}); err != nil {
			return nil, err
		}
		if err := b.scene.SetAttr(ctx, scene.P(handle, attrSoftDistance), ir.IRFloat(p.soft)); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// uniqueName returns base, or base with the lowest numeric suffix not yet
// taken.
func (b *Builder) uniqueName(ctx context.Context, base string) (string, error) {
	name := base
	for i := 1; ; i++ {
		_, taken, err := b.scene.Lookup(ctx, name)
		if err != nil {
			return "", err
		}
		if !taken {
			return name, nil
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}
