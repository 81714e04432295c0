package ir

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRFloat(0.5)
	var _ IRValue = IRBool(true)
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{
		"zebra":  IRString("z"),
		"apple":  IRString("a"),
		"banana": IRString("b"),
	}
	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestIRObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := IRObject{
		"a":  IRInt(1),
		"A":  IRInt(2),
		"aa": IRInt(3),
		"aA": IRInt(4),
		"Aa": IRInt(5),
		"AA": IRInt(6),
	}
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestUnmarshalIRValue_NumberKinds(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`{"i": 3, "f": 0.5, "e": 1e2, "arr": [1, 2.5]}`))
	require.NoError(t, err)

	obj := v.(IRObject)
	assert.Equal(t, IRInt(3), obj["i"])
	assert.Equal(t, IRFloat(0.5), obj["f"])
	assert.Equal(t, IRFloat(100), obj["e"])
	assert.Equal(t, IRArray{IRInt(1), IRFloat(2.5)}, obj["arr"])
}

func TestUnmarshalIRValue_Null(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, IRNull{}, v)
}

func TestIRObjectJSONRoundTrip(t *testing.T) {
	obj := IRObject{
		"restPoleVector": Vec3(mgl64.Vec3{0, -1, 0.25}),
		"cached":         IRInt(1),
		"skip":           Strings("x", "y"),
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"cached":1,"restPoleVector":[0,-1,0.25],"skip":["x","y"]}`, string(data))

	var back IRObject
	require.NoError(t, json.Unmarshal(data, &back))
	// 0 and -1 come back as ints; AsVec3 accepts both.
	vec, err := AsVec3(back["restPoleVector"])
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, -1, 0.25}, vec)
}

func TestAsVec3_Errors(t *testing.T) {
	_, err := AsVec3(IRArray{IRFloat(1), IRFloat(2)})
	assert.Error(t, err)

	_, err = AsVec3(IRArray{IRFloat(1), IRString("x"), IRFloat(2)})
	assert.Error(t, err)

	_, err = AsVec3(IRString("nope"))
	assert.Error(t, err)
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"n":    1,
		"f":    1.5,
		"list": []any{"a", true},
	})
	require.NoError(t, err)
	assert.Equal(t, IRObject{
		"n":    IRInt(1),
		"f":    IRFloat(1.5),
		"list": IRArray{IRString("a"), IRBool(true)},
	}, v)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IRArray{IRFloat(1)}, IRArray{IRFloat(1)}))
	assert.True(t, Equal(IRFloat(1), IRInt(1)), "canonical forms match")
	assert.False(t, Equal(IRString("1"), IRInt(1)))
}
