package rig

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// Spring handle attributes.
const (
	AttrRestPoleVector       = "restPoleVector"
	AttrRestPoleVectorCached = "restPoleVectorCached"
	AttrSpringAngleBias      = "springAngleBias"
	AttrBiasPosition         = "springAngleBias_Position"
	AttrBiasFloatValue       = "springAngleBias_FloatValue"
	AttrBiasInterp           = "springAngleBias_Interp"

	AttrPreferredRotation  = "preferredRotation"
	AttrPreferredAngleSkip = "preferredAngleSkip"
)

// Interpolation modes of the angle-bias curve.
const (
	InterpNone   = 0
	InterpLinear = 1
	InterpSmooth = 2
	InterpSpline = 3
)

// springBiasDefaults are the two control points of a fresh angle-bias curve.
var springBiasDefaults = []struct {
	position float64
	value    float64
}{
	{0, 0.5},
	{1, 0.5},
}

func springAttrDefs() []scene.AttrDef {
	return []scene.AttrDef{
		{Name: AttrRestPoleVector, Type: scene.AttrDouble3, Hidden: true},
		{Name: AttrRestPoleVectorCached, Type: scene.AttrInt, Hidden: true, Default: ir.IRInt(0)},
		{
			Name:  AttrSpringAngleBias,
			Type:  scene.AttrCompound,
			Multi: true,
			Children: []scene.AttrDef{
				{Name: AttrBiasPosition, Type: scene.AttrDouble},
				{Name: AttrBiasFloatValue, Type: scene.AttrDouble},
				{Name: AttrBiasInterp, Type: scene.AttrEnum},
			},
		},
	}
}

// configureSpring declares the Spring attributes on the handle, caches the
// rest pole, seeds the angle-bias curve and switches the chain's joints to
// Euler-preferred rotation.
func (b *Builder) configureSpring(ctx context.Context, handle scene.NodeID, chain Chain, restPole mgl64.Vec3) error {
	for _, def := range springAttrDefs() {
		if err := b.scene.AddAttr(ctx, handle, def); err != nil {
			return err
		}
	}

	if err := b.scene.SetAttr(ctx, scene.P(handle, AttrRestPoleVector), ir.Vec3(restPole)); err != nil {
		return err
	}
	if err := b.scene.SetAttr(ctx, scene.P(handle, AttrRestPoleVectorCached), ir.IRInt(1)); err != nil {
		return err
	}

	for i, entry := range springBiasDefaults {
		pos := scene.P(handle, scene.ElementPlug(AttrSpringAngleBias, i, AttrBiasPosition))
		values := []struct {
			plug scene.Plug
			v    ir.IRValue
		}{
			{pos, ir.IRFloat(entry.position)},
			{scene.P(handle, scene.ElementPlug(AttrSpringAngleBias, i, AttrBiasFloatValue)), ir.IRFloat(entry.value)},
			{scene.P(handle, scene.ElementPlug(AttrSpringAngleBias, i, AttrBiasInterp)), ir.IRInt(InterpSpline)},
		}
		for _, kv := range values {
			if err := b.scene.SetAttr(ctx, kv.plug, kv.v); err != nil {
				return err
			}
		}
		if err := b.scene.LockAttr(ctx, pos, true); err != nil {
			return err
		}
	}

	// Start joint: Euler preferred on every channel.
	if err := b.preferEuler(ctx, chain.Start()); err != nil {
		return err
	}
	for _, j := range chain.Intermediate() {
		if err := b.preferEuler(ctx, j, "x", "y"); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) preferEuler(ctx context.Context, joint scene.NodeID, skip ...string) error {
	if err := b.scene.SetAttr(ctx, scene.P(joint, AttrPreferredRotation), ir.IRString("euler")); err != nil {
		return err
	}
	return b.scene.SetAttr(ctx, scene.P(joint, AttrPreferredAngleSkip), ir.Strings(skip...))
}
