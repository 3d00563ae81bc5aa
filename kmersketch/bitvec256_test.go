package kmersketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encode builds a BitVec256 for a short ACGT string the naive way, for use
// as a test oracle independent of the streaming Ingest/Query code path.
func encode(t *testing.T, seq string) BitVec256 {
	t.Helper()
	var b BitVec256
	for i := 0; i < len(seq); i++ {
		code, ok := baseCode(seq[i])
		require.True(t, ok, "seq %q has a non-ACGT base", seq)
		b.OrAt(code, i)
	}
	return b
}

func TestBitVec256RevCompInvolution(t *testing.T) {
	for _, seq := range []string{"A", "ACGT", "GATTACA", "TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT"} {
		k := len(seq)
		src := encode(t, seq)
		var rc, back BitVec256
		src.RevComp(&rc, k)
		rc.RevComp(&back, k)
		assert.Equal(t, src, back, "revcomp(revcomp(w)) != w for %q", seq)
	}
}

func TestBitVec256RevCompKnownValue(t *testing.T) {
	// revcomp("ACGT") == "ACGT" (it's a palindrome under complement+reverse).
	k := 4
	src := encode(t, "ACGT")
	var rc BitVec256
	src.RevComp(&rc, k)
	assert.Equal(t, src, rc)

	// revcomp("AAAA") == "TTTT".
	src2 := encode(t, "AAAA")
	want := encode(t, "TTTT")
	var rc2 BitVec256
	src2.RevComp(&rc2, k)
	assert.Equal(t, want, rc2)
}

func TestBitVec256Min(t *testing.T) {
	a := encode(t, "AAAA")
	b := encode(t, "TTTT")
	assert.Same(t, &a, Min(&a, &b))
	assert.Same(t, &a, Min(&b, &a)) // ties/ordering: a < b so Min(b,a) still returns the smaller value, a

	c := encode(t, "AAAA")
	assert.Same(t, &a, Min(&a, &c)) // equal values: ties return the first argument
}

func TestBitVec256LshiftAndMaskClearsHighBits(t *testing.T) {
	var b BitVec256
	for i := 0; i < 4; i++ {
		b.OrLow(3)
		b.Lshift()
	}
	// b now holds 4 bases ("TTTT") at positions 0..3, shifted once too far.
	b.Rshift2()
	k := 4
	b.LshiftAndMask(k)
	// After one more shift-and-mask, the window is still k bases wide; bits
	// at position >= 2k must be zero.
	mask := (uint64(1) << (uint(k) * 2)) - 1
	assert.Zero(t, b.w[0]&^mask)
	assert.Zero(t, b.w[1])
	assert.Zero(t, b.w[2])
	assert.Zero(t, b.w[3])
}

func TestBitVec256Bytes(t *testing.T) {
	b := encode(t, "ACGT")
	bs := b.Bytes()
	assert.Len(t, bs, 32)
	// Round-trips through the same BitVec256 value should produce an
	// identical byte representation.
	b2 := encode(t, "ACGT")
	assert.Equal(t, bs, b2.Bytes())
}
