package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigID_Stable(t *testing.T) {
	spec := ChainSpec{Name: "arm_L", Start: "shoulder_L", End: "wrist_L"}

	id1, err := RigID(spec)
	require.NoError(t, err)
	id2, err := RigID(spec)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestRigID_ChangesWithContent(t *testing.T) {
	base := ChainSpec{Name: "leg", Start: "hip", End: "ankle"}
	spring := Spring

	variants := []ChainSpec{
		{Name: "leg", Start: "hip", End: "toe"},
		{Name: "leg", Start: "hip", End: "ankle", Topology: &spring},
		{Name: "leg", Start: "hip", End: "ankle", SoftDistance: 0.25},
		{Name: "leg", Start: "hip", End: "ankle", Curve: "crv"},
	}

	baseID := MustRigID(base)
	seen := map[string]bool{baseID: true}
	for _, v := range variants {
		id := MustRigID(v)
		assert.False(t, seen[id], "collision for %+v", v)
		seen[id] = true
	}
}

func TestHashWithDomain_Separates(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainRig, data), hashWithDomain(DomainJournal, data))
}

func TestJournalDigest(t *testing.T) {
	a := []IRObject{{"op": IRString("create_node"), "node": IRString("j1")}}
	b := []IRObject{{"op": IRString("create_node"), "node": IRString("j2")}}

	da, err := JournalDigest(a)
	require.NoError(t, err)
	db, err := JournalDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)

	again, err := JournalDigest(a)
	require.NoError(t, err)
	assert.Equal(t, da, again)
}
