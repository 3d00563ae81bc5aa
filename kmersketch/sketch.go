package kmersketch

import "math/rand"

// maxInlineRows bounds the size of the on-stack row-index buffer Increment
// and Get use for the common case. A Sketch with more rows than this falls
// back to a heap-allocated buffer; realistic depths (the count-min
// literature rarely goes past single digits) never hit it.
const maxInlineRows = 16

// Sketch is a width x depth matrix of single-byte log counters (see
// logcounter.go) addressed by per-row hashed indices, implementing a
// count-min sketch with the conservative-update rule: of the D counters a
// key addresses, only those currently at the row-minimum are ever
// candidates for a probabilistic increment.
//
// A Sketch is not safe for concurrent Increment calls, and Increment must
// not race with Get. Concurrent Get calls are safe with the FarmSeahash
// family; with HighwayHash, Get reuses the sketch's per-row hash.Hash64
// state, so concurrent Get calls race on that state.
type Sketch struct {
	width, depth int
	counters     []uint8 // depth*width, row-major.
	hasher       rowHasher
	rng          *rand.Rand
}

// NewSketch constructs an empty width x depth sketch. It fails with a
// *ParamError if width or depth is zero (or negative), and wraps any error
// from constructing the requested hash family.
func NewSketch(opts Opts) (*Sketch, error) {
	if opts.Width <= 0 {
		return nil, paramErrorf("NewSketch: width must be > 0, got %d", opts.Width)
	}
	if opts.Depth <= 0 {
		return nil, paramErrorf("NewSketch: depth must be > 0, got %d", opts.Depth)
	}

	var hasher rowHasher
	switch opts.HashFamily {
	case HighwayHash:
		hh, err := newHighwayRowHasher(opts.Seed, opts.Depth, opts.Width)
		if err != nil {
			return nil, err
		}
		hasher = hh
	default:
		hasher = newFarmSeahashHasher(opts.Seed, opts.Width)
	}

	return &Sketch{
		width:    opts.Width,
		depth:    opts.Depth,
		counters: make([]uint8, opts.Width*opts.Depth),
		hasher:   hasher,
		rng:      rand.New(rand.NewSource(int64(opts.Seed))),
	}, nil
}

// Width returns the sketch's column count.
func (s *Sketch) Width() int { return s.width }

// Depth returns the sketch's row count.
func (s *Sketch) Depth() int { return s.depth }

func (s *Sketch) cellIndex(row int, col uint32) int {
	return row*s.width + int(col)
}

// Increment applies the conservative-update rule amount times: each
// attempt computes the row minimum m across the key's D addressed
// counters, then offers a probabilistic log-counter increment (§ the
// increment rule in logcounter.go) to every row currently decoding to m,
// leaving rows strictly above m untouched. This is applied once per unit
// of amount, so a repeated key's counters only ever grow, never jump by
// more than the log-counter curve allows for a single unit.
func (s *Sketch) Increment(key []byte, amount int) {
	var inline [maxInlineRows]uint32
	idx := inline[:s.depth]
	if s.depth > maxInlineRows {
		idx = make([]uint32, s.depth)
	}
	s.hasher.rowIndices(key, idx)

	for n := 0; n < amount; n++ {
		m := decodeLogCounter(255)
		for i, col := range idx {
			if v := decodeLogCounter(s.counters[s.cellIndex(i, col)]); v < m {
				m = v
			}
		}
		for i, col := range idx {
			ci := s.cellIndex(i, col)
			if decodeLogCounter(s.counters[ci]) == m {
				s.counters[ci] = incrementLogCounter(s.counters[ci], s.rng)
			}
		}
	}
}

// Get returns the row-minimum point estimate for key, rounded to the
// nearest integer. Keys never ingested return exactly 0.
func (s *Sketch) Get(key []byte) uint64 {
	var inline [maxInlineRows]uint32
	idx := inline[:s.depth]
	if s.depth > maxInlineRows {
		idx = make([]uint32, s.depth)
	}
	s.hasher.rowIndices(key, idx)

	min := decodeLogCounter(255)
	for i, col := range idx {
		if v := decodeLogCounter(s.counters[s.cellIndex(i, col)]); v < min {
			min = v
		}
	}
	return uint64(min + 0.5)
}
