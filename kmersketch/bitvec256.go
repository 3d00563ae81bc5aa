// Package kmersketch implements a canonical-kmer engine and a log-counter
// count-min sketch for approximating k-mer frequencies over DNA sequences
// that are too large to count exactly.
package kmersketch

import "encoding/binary"

// BitVec256 is a packed 256-bit value representing a DNA window of up to 127
// bases, two bits per base (A=0, C=1, G=2, T=3). It is laid out as four
// 64-bit limbs in little-endian order: w[0] holds the lowest-order 64 bits.
//
// BitVec256 is a pure value. Methods take pointer receivers purely for
// performance (avoiding copies of the 32-byte value on every call); callers
// never need to track BitVec256 lifetime beyond the k-mer it represents.
type BitVec256 struct {
	w [4]uint64
}

// Clear resets b to the all-zero window.
func (b *BitVec256) Clear() {
	*b = BitVec256{}
}

// OrLow ors v into bits [0,2) of b. The caller must ensure those bits were
// zero; v must be in [0,3].
func (b *BitVec256) OrLow(v uint8) {
	b.w[0] |= uint64(v)
}

// OrAt ors v into the bit pair at base position i (bits 2i, 2i+1). The
// caller must ensure those bits were zero; i must be in [0,128), v in [0,3].
func (b *BitVec256) OrAt(v uint8, i int) {
	bit := uint(i) * 2
	b.w[bit/64] |= uint64(v) << (bit % 64)
}

// Lshift shifts b left by 2 bits across all four limbs, discarding the top
// two bits. It does not mask the result to any k, unlike LshiftAndMask; it
// is used only during the initial fill of a window, where a subsequent
// Rshift2 restores the correct alignment.
func (b *BitVec256) Lshift() {
	b.w[3] = (b.w[3] << 2) | (b.w[2] >> 62)
	b.w[2] = (b.w[2] << 2) | (b.w[1] >> 62)
	b.w[1] = (b.w[1] << 2) | (b.w[0] >> 62)
	b.w[0] <<= 2
}

// Rshift2 shifts b right by 2 bits across all four limbs.
func (b *BitVec256) Rshift2() {
	b.w[0] = (b.w[0] >> 2) | (b.w[1] << 62)
	b.w[1] = (b.w[1] >> 2) | (b.w[2] << 62)
	b.w[2] = (b.w[2] >> 2) | (b.w[3] << 62)
	b.w[3] >>= 2
}

// LshiftAndMask shifts b left by 2 bits and then clears every bit at
// position >= 2k, producing a valid length-k window. Used on every
// streaming step after the initial window fill.
func (b *BitVec256) LshiftAndMask(k int) {
	b.Lshift()
	b.maskTo(k)
}

// maskTo clears every bit of b at position >= 2k.
func (b *BitVec256) maskTo(k int) {
	bits := uint(k) * 2
	word := bits / 64
	off := bits % 64
	for i := int(word) + 1; i < len(b.w); i++ {
		b.w[i] = 0
	}
	if int(word) < len(b.w) {
		if off == 0 {
			b.w[word] = 0
		} else {
			b.w[word] &= (uint64(1) << off) - 1
		}
	}
}

// RevComp writes into dst the reverse complement of the length-k window in
// b: for each i in [0,k), the base at source position i is written
// complemented (XOR 3) to destination position k-1-i. dst must be zero
// (freshly Cleared) before the call; k must be >= 1.
//
// This is a two-cursor sweep: one cursor advances low-to-high through the
// source, the other descends high-to-low through the destination, so no
// per-position division is needed.
func (b *BitVec256) RevComp(dst *BitVec256, k int) {
	loWord, loOff := 0, uint(0)
	hiBit := uint(k-1) * 2
	hiWord, hiOff := int(hiBit/64), hiBit%64
	for {
		base := (b.w[loWord] >> loOff) & 3
		dst.w[hiWord] |= (base ^ 3) << hiOff
		if loOff == 62 {
			loOff = 0
			loWord++
		} else {
			loOff += 2
		}
		if hiOff == 0 {
			if hiWord == 0 {
				break
			}
			hiWord--
			hiOff = 62
		} else {
			hiOff -= 2
		}
	}
}

// Min returns whichever of a, b has the smaller unsigned 256-bit value,
// comparing limb-high (w[3]) to limb-low (w[0]). Ties return a.
func Min(a, b *BitVec256) *BitVec256 {
	for i := len(a.w) - 1; i >= 0; i-- {
		if a.w[i] < b.w[i] {
			return a
		}
		if a.w[i] > b.w[i] {
			return b
		}
	}
	return a
}

// Bytes returns b's 32-byte little-endian representation, suitable as a
// Sketch key. Unused high bits (position >= 2k for whatever k this window
// represents) are included verbatim, so callers must only compare/hash
// BitVec256 values produced for the same k.
func (b *BitVec256) Bytes() [32]byte {
	var out [32]byte
	for i, limb := range b.w {
		binary.LittleEndian.PutUint64(out[i*8:], limb)
	}
	return out
}
