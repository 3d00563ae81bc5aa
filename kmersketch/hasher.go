package kmersketch

import (
	"encoding/binary"
	"hash"

	farm "github.com/dgryski/go-farm"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"

	"blainsmith.com/go/seahash"
)

// HashFamily selects the hash family a Sketch uses to map keys to row
// indices. The sketch's contract only requires a deterministic,
// independent-per-row mapping; the family is otherwise an implementation
// choice.
type HashFamily int

const (
	// FarmSeahash double-hashes with farmhash and seahash. It is the
	// default: both hashes are cheap, allocation-free, and already used
	// elsewhere in this codebase for sharding (farmhash) and bucket
	// selection (seahash).
	FarmSeahash HashFamily = iota
	// HighwayHash uses one independently-keyed HighwayHash instance per
	// row.
	HighwayHash
)

// rowHasher computes D independent bucket indices in [0, width) for a key.
type rowHasher interface {
	rowIndices(key []byte, dst []uint32)
}

// farmSeahashHasher implements double hashing: h_i = (h1 + i*h2) mod width,
// where h1 is a seeded farmhash and h2 is seahash forced odd so it is
// coprime to a power-of-two width, the same two-hash-family
// technique fusion/kmer_index.go and encoding/bamprovider/concurrentmap.go
// each use singly for their own sharding.
type farmSeahashHasher struct {
	seed  uint64
	width uint64
}

func newFarmSeahashHasher(seed uint64, width int) *farmSeahashHasher {
	return &farmSeahashHasher{seed: seed, width: uint64(width)}
}

func (h *farmSeahashHasher) rowIndices(key []byte, dst []uint32) {
	h1 := farm.Hash64WithSeed(key, h.seed)
	h2 := seahash.Sum64(key) | 1
	for i := range dst {
		dst[i] = uint32((h1 + uint64(i)*h2) % h.width)
	}
}

// highwayRowHasher uses one independently-keyed HighwayHash hash.Hash64 per
// row, reused across calls via Reset/Write/Sum64 the same way
// cmd/bio-pamtool/checksum.go reuses a single seahash.Hash64 across records.
type highwayRowHasher struct {
	rows  []hash.Hash64
	width uint64
}

func newHighwayRowHasher(seed uint64, depth, width int) (*highwayRowHasher, error) {
	rows := make([]hash.Hash64, depth)
	for i := range rows {
		key := deriveHighwayKey(seed, i)
		h, err := highwayhash.New64(key[:])
		if err != nil {
			return nil, errors.Wrap(err, "kmersketch: deriving highwayhash row key")
		}
		rows[i] = h
	}
	return &highwayRowHasher{rows: rows, width: uint64(width)}, nil
}

func (h *highwayRowHasher) rowIndices(key []byte, dst []uint32) {
	for i, row := range h.rows {
		row.Reset()
		_, _ = row.Write(key) // hash.Hash.Write never returns an error.
		dst[i] = uint32(row.Sum64() % h.width)
	}
}

// deriveHighwayKey expands a 64-bit seed and a row number into a
// HighwayHash-sized (32-byte) key, deterministically and without a
// cryptographic KDF: each 8-byte chunk is an independent farmhash of the
// seed, seeded by the chunk and row index.
func deriveHighwayKey(seed uint64, row int) [highwayhash.Size]byte {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)

	var key [highwayhash.Size]byte
	for chunk := 0; chunk*8 < highwayhash.Size; chunk++ {
		v := farm.Hash64WithSeed(seedBytes[:], uint64(row)*0x9E3779B97F4A7C15+uint64(chunk))
		binary.LittleEndian.PutUint64(key[chunk*8:], v)
	}
	return key
}
