package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "float", Float.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "bool", Bool.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestByName(t *testing.T) {
	t.Parallel()
	for name, want := range Primitives {
		kind, ok := ByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, kind)
		assert.Equal(t, name, kind.String())
	}
	_, ok := ByName(NameUnknown)
	assert.False(t, ok)
	_, ok = ByName("number")
	assert.False(t, ok)
}

func TestConflict(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b     Kind
		conflict bool
	}{
		{Int, Int, false},
		{Int, Float, true},
		{String, Bool, true},
		{Bool, Bool, false},
		{Unknown, Int, false},
		{String, Unknown, false},
		{Unknown, Unknown, false},
	}
	for i, tc := range cases {
		assert.Equal(t, tc.conflict, Conflict(tc.a, tc.b), "[%v] %s vs %s", i, tc.a, tc.b)
	}
	assert.False(t, Comparable(Unknown, Unknown))
	assert.True(t, Comparable(Float, Float))
}
