package main

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"
)

// namedSeq is one named sequence, read from a FASTA or FASTQ file or taken
// from a positional argument.
type namedSeq struct {
	name string
	seq  string
}

// readFasta reads every named sequence out of r, in file order. It holds the
// whole file in memory, which is fine at the scale this driver targets
// (single reference/query sequences, not genome-scale FASTA); see
// encoding/fasta.New for the indexed, streaming-friendly alternative this
// driver deliberately does not need.
func readFasta(r *bufio.Reader) ([]namedSeq, error) {
	var (
		out  []namedSeq
		name string
		body strings.Builder
	)
	flush := func() {
		if name != "" {
			out = append(out, namedSeq{name: name, seq: body.String()})
		}
		body.Reset()
	}
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if strings.HasPrefix(line, ">") {
				flush()
				name = strings.Fields(line[1:])[0]
			} else {
				body.WriteString(line)
			}
		}
		if err != nil {
			break
		}
	}
	flush()
	if len(out) == 0 {
		return nil, errors.New("no sequences found in FASTA input")
	}
	return out, nil
}

// readFastq reads every read out of r, in file order, keeping the ID (without
// its leading '@') as the name and the sequence field. The "+" separator line
// is only checked for its prefix, and quality strings are ignored: this
// driver only ever queries the sequence field.
func readFastq(r *bufio.Reader) ([]namedSeq, error) {
	var out []namedSeq
	for {
		idLine, err := r.ReadString('\n')
		idLine = strings.TrimRight(idLine, "\r\n")
		if idLine == "" {
			if err != nil {
				break
			}
			continue
		}
		if !strings.HasPrefix(idLine, "@") {
			return nil, errors.Errorf("malformed FASTQ: expected '@' line, got %q", idLine)
		}
		seqLine, serr := r.ReadString('\n')
		plusLine, perr := r.ReadString('\n')
		qualLine, qerr := r.ReadString('\n')
		if serr != nil || perr != nil {
			return nil, errors.New("truncated FASTQ record")
		}
		seqLine = strings.TrimRight(seqLine, "\r\n")
		plusLine = strings.TrimRight(plusLine, "\r\n")
		_ = qualLine
		if !strings.HasPrefix(plusLine, "+") {
			return nil, errors.Errorf("malformed FASTQ: expected '+' separator, got %q", plusLine)
		}
		out = append(out, namedSeq{name: strings.TrimPrefix(idLine, "@"), seq: seqLine})
		if qerr != nil {
			break
		}
		if err != nil {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no reads found in FASTQ input")
	}
	return out, nil
}

// reverseComplementASCII returns the reverse complement of an ASCII DNA
// sequence, for the driver's "-show-revcomp" output column. It is not on the
// sketch's ingest/query hot path, which reverse-complements packed 2-bit
// windows directly in BitVec256.
func reverseComplementASCII(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		var rc byte
		switch seq[len(seq)-1-i] {
		case 'A', 'a':
			rc = 'T'
		case 'C', 'c':
			rc = 'G'
		case 'G', 'g':
			rc = 'C'
		case 'T', 't':
			rc = 'A'
		default:
			rc = 'N'
		}
		out[i] = rc
	}
	return string(out)
}
