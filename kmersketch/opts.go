package kmersketch

// Opts collects the parameters needed to construct a Sketch. There is no
// notion of a partially-valid Opts; NewSketch validates the whole value at
// once.
type Opts struct {
	// Width is the number of columns (buckets) per row. Must be > 0.
	Width int
	// Depth is the number of independent rows. Must be > 0.
	Depth int
	// Seed derives the per-row hash keys. Two sketches built with the same
	// Opts (including Seed) hash identically.
	Seed uint64
	// HashFamily selects the row-hashing implementation. The zero value is
	// FarmSeahash.
	HashFamily HashFamily
}

// DefaultOpts is a reasonable starting configuration: a million-bucket,
// four-row sketch, matching the scale fusion.DefaultOpts documents for its
// own kmer length and gene-table parameters.
var DefaultOpts = Opts{
	Width:      1 << 20,
	Depth:      4,
	Seed:       0x5ead5ead,
	HashFamily: FarmSeahash,
}
