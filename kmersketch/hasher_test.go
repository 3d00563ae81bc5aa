package kmersketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmSeahashHasherDeterministic(t *testing.T) {
	h := newFarmSeahashHasher(1, 1<<20)
	key := []byte("a-kmer-key")

	var a, b [4]uint32
	h.rowIndices(key, a[:])
	h.rowIndices(key, b[:])
	assert.Equal(t, a, b)
}

func TestFarmSeahashHasherRowsDiffer(t *testing.T) {
	h := newFarmSeahashHasher(1, 1<<20)
	var dst [4]uint32
	h.rowIndices([]byte("another-kmer-key"), dst[:])

	seen := map[uint32]int{}
	for _, v := range dst {
		seen[v]++
	}
	assert.Greater(t, len(seen), 1, "double hashing should spread rows across distinct buckets for most keys")
}

func TestFarmSeahashHasherRespectsWidth(t *testing.T) {
	h := newFarmSeahashHasher(5, 97)
	var dst [8]uint32
	for _, key := range [][]byte{[]byte("x"), []byte("y"), []byte("a longer key entirely")} {
		h.rowIndices(key, dst[:])
		for _, v := range dst {
			assert.Less(t, v, uint32(97))
		}
	}
}

func TestHighwayRowHasherDeterministic(t *testing.T) {
	h, err := newHighwayRowHasher(7, 4, 1<<16)
	require.NoError(t, err)

	key := []byte("a-kmer-key")
	var a, b [4]uint32
	h.rowIndices(key, a[:])
	h.rowIndices(key, b[:])
	assert.Equal(t, a, b)
}

func TestHighwayRowHasherReuseAcrossKeys(t *testing.T) {
	h, err := newHighwayRowHasher(7, 4, 1<<16)
	require.NoError(t, err)

	var first, second [4]uint32
	h.rowIndices([]byte("key-one"), first[:])
	h.rowIndices([]byte("key-two"), second[:])
	assert.NotEqual(t, first, second, "reused row hashers must reset state between keys")
}

func TestDeriveHighwayKeyVariesByRowAndSeed(t *testing.T) {
	k0 := deriveHighwayKey(1, 0)
	k1 := deriveHighwayKey(1, 1)
	assert.NotEqual(t, k0, k1, "distinct rows must get distinct keys for the same seed")

	k0Other := deriveHighwayKey(2, 0)
	assert.NotEqual(t, k0, k0Other, "distinct seeds must get distinct keys for the same row")
}

func TestNewHighwayRowHasherRowsIndependent(t *testing.T) {
	h, err := newHighwayRowHasher(42, 4, 1<<20)
	require.NoError(t, err)

	var dst [4]uint32
	h.rowIndices([]byte("independence-check"), dst[:])
	seen := map[uint32]int{}
	for _, v := range dst {
		seen[v]++
	}
	assert.Greater(t, len(seen), 1, "independently-keyed rows should rarely collide on all indices for one key")
}
