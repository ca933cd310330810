// Command hashstat loads newline separated keys into a hashtab.Table and
// reports how they spread over the buckets.
//
// Usage:
//
//	hashstat [-hash xxh3|xxhash] [-seed N] [-sorted] [-v] [file]
//
// Keys are read from file, or from stdin when no file is given. Blank
// lines are skipped and repeated keys are counted once.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/jcalabro/hashtab"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "hashstat:", err)
		os.Exit(1)
	}
}

var hashFuncs = map[string]hashtab.HashFunc{
	"xxh3":   hashtab.XXH3,
	"xxhash": hashtab.XXHash,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hashstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	hashName := fs.String("hash", "xxh3", "hash function: xxh3 or xxhash")
	seed := fs.Uint64("seed", 0, "hash seed (random when not given)")
	sorted := fs.Bool("sorted", false, "print the loaded keys in sorted order")
	verbose := fs.Bool("v", false, "log bucket resizes to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fn, ok := hashFuncs[*hashName]
	if !ok {
		return fmt.Errorf("unknown hash function %q", *hashName)
	}

	var seedSet bool
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	opts := []hashtab.Option{hashtab.WithHashFunc(fn)}
	seedDesc := "random"
	if seedSet {
		if *seed > math.MaxUint32 {
			return fmt.Errorf("seed %d does not fit in 32 bits", *seed)
		}
		opts = append(opts, hashtab.WithSeed(uint32(*seed)))
		seedDesc = strconv.FormatUint(*seed, 10)
	}
	if *verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, hashtab.WithLogger(logger))
	}

	in := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	t := hashtab.New[int](nil, opts...)
	defer t.Free()

	dups, err := load(t, in)
	if err != nil {
		return err
	}

	s := t.Stats()
	fmt.Fprintf(stdout, "hash:          %s\n", *hashName)
	fmt.Fprintf(stdout, "seed:          %s\n", seedDesc)
	fmt.Fprintf(stdout, "keys:          %d\n", s.Elems)
	fmt.Fprintf(stdout, "duplicates:    %d\n", dups)
	fmt.Fprintf(stdout, "buckets:       %d\n", s.Buckets)
	fmt.Fprintf(stdout, "empty buckets: %d\n", s.EmptyBuckets)
	fmt.Fprintf(stdout, "longest chain: %d\n", s.LongestChain)
	fmt.Fprintf(stdout, "load factor:   %.3f\n", s.LoadFactor())

	if !*sorted {
		return nil
	}
	return t.ForEachSorted(func(line int, name string) error {
		_, err := fmt.Fprintf(stdout, "%d\t%s\n", line, name)
		return err
	})
}

// load adds every non-blank line of r to t, keyed by the line and holding
// its 1-based line number. It returns the number of repeated keys.
func load(t *hashtab.Table[int], r io.Reader) (int, error) {
	var dups, line int
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		key := sc.Text()
		if key == "" {
			continue
		}
		if err := t.Add(key, line); err != nil {
			if !errors.Is(err, hashtab.ErrDuplicateKey) {
				return dups, err
			}
			dups++
		}
	}
	return dups, sc.Err()
}
