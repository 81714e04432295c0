package store

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/ikrig/internal/ir"
	"github.com/roach88/ikrig/internal/scene"
)

// marshalMatrix stores a matrix as a canonical JSON array of 16 numbers,
// column-major as mgl64 lays it out.
func marshalMatrix(m mgl64.Mat4) (string, error) {
	arr := make(ir.IRArray, len(m))
	for i, f := range m {
		arr[i] = ir.IRFloat(f)
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal matrix: %w", err)
	}
	return string(data), nil
}

func unmarshalMatrix(data string) (mgl64.Mat4, error) {
	v, err := ir.UnmarshalIRValue([]byte(data))
	if err != nil {
		return mgl64.Mat4{}, fmt.Errorf("unmarshal matrix: %w", err)
	}
	arr, ok := v.(ir.IRArray)
	if !ok || len(arr) != 16 {
		return mgl64.Mat4{}, fmt.Errorf("unmarshal matrix: expected 16 numbers")
	}
	var m mgl64.Mat4
	for i, elem := range arr {
		f, err := ir.AsFloat(elem)
		if err != nil {
			return mgl64.Mat4{}, fmt.Errorf("unmarshal matrix [%d]: %w", i, err)
		}
		m[i] = f
	}
	return m, nil
}

// marshalValue converts an attribute value to canonical JSON TEXT.
func marshalValue(v ir.IRValue) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

func unmarshalValue(data string) (ir.IRValue, error) {
	v, err := ir.UnmarshalIRValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}

// marshalDef stores the declaration without its default, which lives in its
// own column so it round-trips through the IRValue codec.
func marshalDef(def scene.AttrDef) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("marshal attr def: %w", err)
	}
	return string(data), nil
}

func unmarshalDef(data string, defaultValue *string) (scene.AttrDef, error) {
	var def scene.AttrDef
	if err := json.Unmarshal([]byte(data), &def); err != nil {
		return scene.AttrDef{}, fmt.Errorf("unmarshal attr def: %w", err)
	}
	if defaultValue != nil {
		v, err := unmarshalValue(*defaultValue)
		if err != nil {
			return scene.AttrDef{}, err
		}
		def.Default = v
	}
	return def, nil
}
