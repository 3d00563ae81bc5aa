// Command bio-kmer-sketch ingests a reference sequence's k-mers into a
// count-min sketch and reports approximate per-window counts for one or more
// query sequences.
//
// Usage, positional form (matches the original test driver exactly):
//
//	bio-kmer-sketch k W D ref [query...]
//
// k, W and D are the k-mer length, sketch width and sketch depth. ref is
// ingested once; each query argument is then queried window-by-window and
// its counts are printed space-separated on their own output line, with the
// query's reverse complement appended as a third column when -show-revcomp
// is set.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/grailbio/kmersketch"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [flags] k W D ref [query...]

Ingests ref's k-mers into a count-min sketch, then reports each query
sequence's approximate per-window counts.

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage

	opts := kmersketch.DefaultOpts
	var (
		refFastaPath   string
		queryFastaPath string
		queryFastqPath string
		seed           uint64
		hashFamily     string
		outPath        string
		showRevcomp    bool
	)
	flag.StringVar(&refFastaPath, "ref-fasta", "", "Read the reference sequence from this FASTA file instead of the positional argument (uses the first sequence).")
	flag.StringVar(&queryFastaPath, "query-fasta", "", "Read query sequences from this FASTA file instead of positional arguments (every sequence is queried).")
	flag.StringVar(&queryFastqPath, "query-fastq", "", "Stream query sequences from this FASTQ file instead of positional arguments.")
	flag.Uint64Var(&seed, "seed", uint64(kmersketch.DefaultOpts.Seed), "Sketch hash seed, overriding Opts.Seed.")
	flag.StringVar(&hashFamily, "hash-family", "farm-seahash", "Hash family for row selection: farm-seahash or highway.")
	flag.StringVar(&outPath, "out", "", "Write results to this path instead of stdout.")
	flag.BoolVar(&showRevcomp, "show-revcomp", false, "Print each query sequence's reverse complement alongside its counts.")
	flag.Parse()

	opts.Seed = seed
	switch hashFamily {
	case "farm-seahash":
		opts.HashFamily = kmersketch.FarmSeahash
	case "highway":
		opts.HashFamily = kmersketch.HighwayHash
	default:
		log.Fatalf("bio-kmer-sketch: unknown -hash-family %q (want farm-seahash or highway)", hashFamily)
	}

	args := flag.Args()
	if len(args) < 3 {
		usage()
		os.Exit(1)
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		log.Fatalf("bio-kmer-sketch: bad k argument %q: %v", args[0], err)
	}
	width, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("bio-kmer-sketch: bad W argument %q: %v", args[1], err)
	}
	depth, err := strconv.Atoi(args[2])
	if err != nil {
		log.Fatalf("bio-kmer-sketch: bad D argument %q: %v", args[2], err)
	}
	opts.Width, opts.Depth = width, depth
	args = args[3:]

	ctx := context.Background()

	var refSeq string
	if refFastaPath != "" {
		seqs, err := readNamedSeqs(ctx, refFastaPath, readFasta)
		if err != nil {
			log.Fatalf("bio-kmer-sketch: reading -ref-fasta %q: %v", refFastaPath, err)
		}
		refSeq = seqs[0].seq
	} else {
		if len(args) < 1 {
			usage()
			os.Exit(1)
		}
		refSeq = args[0]
		args = args[1:]
	}

	var queries []namedSeq
	switch {
	case queryFastaPath != "":
		queries, err = readNamedSeqs(ctx, queryFastaPath, readFasta)
	case queryFastqPath != "":
		queries, err = readNamedSeqs(ctx, queryFastqPath, readFastq)
	default:
		for i, q := range args {
			queries = append(queries, namedSeq{name: strconv.Itoa(i), seq: q})
		}
	}
	if err != nil {
		log.Fatalf("bio-kmer-sketch: reading query input: %v", err)
	}
	if len(queries) == 0 {
		log.Fatal("bio-kmer-sketch: no query sequences given")
	}

	sketch, err := kmersketch.NewSketch(opts)
	if err != nil {
		log.Fatalf("bio-kmer-sketch: %v", err)
	}
	if _, err := kmersketch.Ingest(sketch, k, []byte(refSeq)); err != nil {
		log.Fatalf("bio-kmer-sketch: ingesting reference: %v", err)
	}

	out, closeOut, err := openOutput(ctx, outPath)
	if err != nil {
		log.Fatalf("bio-kmer-sketch: opening -out %q: %v", outPath, err)
	}
	defer closeOut()

	w := bufio.NewWriter(out)
	defer w.Flush()
	for _, q := range queries {
		if err := runQuery(w, sketch, k, q, showRevcomp); err != nil {
			log.Fatalf("bio-kmer-sketch: querying %q: %v", q.name, err)
		}
	}
}

func runQuery(w io.Writer, sketch *kmersketch.Sketch, k int, q namedSeq, showRevcomp bool) error {
	n := len(q.seq) - k + 1
	if n < 0 {
		n = 0
	}
	counts := make([]int64, n)
	if _, err := kmersketch.Query(sketch, k, []byte(q.seq), counts); err != nil {
		return err
	}
	fields := make([]string, len(counts))
	for i, c := range counts {
		fields[i] = strconv.FormatInt(c, 10)
	}
	if showRevcomp {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", q.name, strings.Join(fields, " "), reverseComplementASCII(q.seq))
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", q.name, strings.Join(fields, " "))
	return err
}

func readNamedSeqs(ctx context.Context, path string, parse func(*bufio.Reader) ([]namedSeq, error)) ([]namedSeq, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close(ctx)
	seqs, err := parse(bufio.NewReader(f.Reader(ctx)))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return seqs, nil
}

func openOutput(ctx context.Context, path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return f.Writer(ctx), func() {
		if err := f.Close(ctx); err != nil {
			log.Printf("bio-kmer-sketch: closing -out: %v", err)
		}
	}, nil
}
