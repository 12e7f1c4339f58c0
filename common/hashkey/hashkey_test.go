package hashkey_test

import (
	"testing"

	"github.com/badke/saberrender/common/hashkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsPure(t *testing.T) {
	a := hashkey.New("render.gbuffer")
	b := hashkey.New("render.gbuffer")

	require.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestNewStaticMatchesNew(t *testing.T) {
	assert.Equal(t, hashkey.New("foo").Hash(), hashkey.NewStatic("foo").Hash())
}

func TestDistinctStringsDiffer(t *testing.T) {
	a := hashkey.New("a")
	b := hashkey.New("b")
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestFnv1aKnownVector(t *testing.T) {
	// FNV-1a 64-bit of the empty string is the offset basis.
	assert.Equal(t, uint64(14695981039346656037), hashkey.New("").Hash())
}

func TestZeroValue(t *testing.T) {
	var z hashkey.HashKey
	assert.True(t, z.IsZero())
	assert.False(t, hashkey.New("x").IsZero())
}

func TestUsableAsMapKeyViaHash(t *testing.T) {
	m := map[uint64]string{}
	m[hashkey.New("k").Hash()] = "v"
	assert.Equal(t, "v", m[hashkey.New("k").Hash()])
}
