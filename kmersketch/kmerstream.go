package kmersketch

import "github.com/grailbio/base/log"

// MaxK is the largest k-mer length this package supports: 2*MaxK must fit
// in a BitVec256's 256 bits, and 127 leaves room for the one extra 2-bit
// Lshift the seed phase makes before its Rshift2 without losing the top base.
const MaxK = 127

// baseCode maps an ASCII DNA base to its 2-bit encoding. ok is false for any
// byte outside {A,C,G,T,a,c,g,t} (ambiguous here meaning outside the DNA
// alphabet).
func baseCode(ch byte) (code uint8, ok bool) {
	switch ch {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't':
		return 3, true
	}
	return 0, false
}

func validateK(k int) error {
	if k < 1 || k > MaxK {
		return paramErrorf("k must be in [1,%d], got %d", MaxK, k)
	}
	return nil
}

// kmerStream carries the forward and reverse-complement windows across a
// single Ingest or Query call. Carrying both, rather than deriving one from
// the other on every step, is the faster streaming design: each slide step
// is an O(1) update to both windows instead of an O(k) recomputation.
type kmerStream struct {
	forward, reverse BitVec256
}

// canonical returns the canonical (lexicographically smaller) form of the
// current forward/reverse window pair, as a Sketch key.
func (ks *kmerStream) canonical() [32]byte {
	return Min(&ks.forward, &ks.reverse).Bytes()
}

// Ingest slides every valid, non-ambiguous k-mer window of sequence into
// sketch and returns the number of windows added. Windows containing a
// base outside {A,C,G,T,a,c,g,t} are skipped entirely: ingestion resumes
// at the base immediately after the ambiguous one. It fails with a
// *ParamError if k is outside [1, MaxK]; it never mutates sequence.
func Ingest(sketch *Sketch, k int, sequence []byte) (int, error) {
	if err := validateK(k); err != nil {
		return 0, err
	}
	ks := &kmerStream{}
	readLen := len(sequence)
	added := 0
	i := 0
	for i < readLen {
		start := i
		ks.forward.Clear()
		ambiguous := -1
		for ; i < start+k; i++ {
			if i >= readLen {
				return added, nil
			}
			b, ok := baseCode(sequence[i])
			if !ok {
				ambiguous = i - start
				break
			}
			ks.forward.OrLow(b)
			ks.forward.Lshift()
		}
		if ambiguous >= 0 {
			i = start + ambiguous + 1
			continue
		}
		ks.forward.Rshift2()
		ks.reverse.Clear()
		ks.forward.RevComp(&ks.reverse, k)
		sketch.Increment(sliceOf(ks.canonical()), 1)
		added++

		for ; i < readLen; i++ {
			b, ok := baseCode(sequence[i])
			if !ok {
				break
			}
			ks.forward.LshiftAndMask(k)
			ks.forward.OrLow(b)
			ks.reverse.Rshift2()
			ks.reverse.OrAt(b^3, k-1)
			sketch.Increment(sliceOf(ks.canonical()), 1)
			added++
		}
	}
	return added, nil
}

// Query slides every k-mer window of sequence against sketch, writing one
// count per window into out and returning how many were written. Every
// k-mer window containing an ambiguous base writes -1 at its output
// position, and only those windows: no more, no fewer. It fails with a
// *ParamError if k is outside [1, MaxK]. Writing past the end of out is an
// internal programming error and is fatal (log.Panicf), never a silent
// overrun.
func Query(sketch *Sketch, k int, sequence []byte, out []int64) (int, error) {
	if err := validateK(k); err != nil {
		return 0, err
	}
	ks := &kmerStream{}
	readLen := len(sequence)
	written := 0

	emit := func(v int64) {
		if written >= len(out) {
			log.Panicf("kmersketch: query wrote past output buffer (capacity %d)", len(out))
		}
		out[written] = v
		written++
	}

	i := 0
	for readLen-i >= k {
		start := i
		ks.forward.Clear()
		ambiguous := -1
		for ; i < start+k; i++ {
			b, ok := baseCode(sequence[i])
			if !ok {
				ambiguous = i - start
				break
			}
			ks.forward.OrLow(b)
			ks.forward.Lshift()
		}
		if ambiguous >= 0 {
			for j := 0; j <= ambiguous && start+j+k <= readLen; j++ {
				emit(-1)
			}
			i = start + ambiguous + 1
			continue
		}
		ks.forward.Rshift2()
		ks.reverse.Clear()
		ks.forward.RevComp(&ks.reverse, k)
		emit(int64(sketch.Get(sliceOf(ks.canonical()))))

		phase2Ambiguous := false
		for ; i < readLen; i++ {
			b, ok := baseCode(sequence[i])
			if !ok {
				phase2Ambiguous = true
				break
			}
			ks.forward.LshiftAndMask(k)
			ks.forward.OrLow(b)
			ks.reverse.Rshift2()
			ks.reverse.OrAt(b^3, k-1)
			emit(int64(sketch.Get(sliceOf(ks.canonical()))))
		}
		if !phase2Ambiguous {
			return written, nil
		}
		for j := 0; j < k && i+j < readLen; j++ {
			emit(-1)
		}
		i++
	}
	return written, nil
}

// sliceOf returns arr as a []byte, for passing a canonical key to
// Sketch.Increment/Get without a named intermediate variable at each call
// site.
func sliceOf(arr [32]byte) []byte {
	return arr[:]
}
