// Package engine computes per key min/mean/max over a measurements buffer.
//
// The buffer is cut into line aligned chunks, four per worker. Each chunk is
// scanned into its own table by one goroutine, tables are passed to a single
// merger over a channel, and the merged result is rendered once all scans
// have finished.
package engine

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/miku/onebrc/chunk"
	"github.com/miku/onebrc/fixed"
	"github.com/miku/onebrc/mapfile"
	"github.com/miku/onebrc/summary"
	"github.com/miku/onebrc/table"
)

// chunksPerWorker over-partitions the input, so that workers finishing early
// pick up more work.
const chunksPerWorker = 4

// Options tune a run. The zero value is the fast default.
type Options struct {
	// Workers is the number of concurrent scans, runtime.NumCPU() if zero.
	Workers int
	// Strict compares full keys in the per worker tables, instead of
	// trusting fingerprints alone.
	Strict bool
	// Hash names the fingerprint function, see table.Hashers.
	Hash string
	// Table names the per worker table, see table.Backends.
	Table string
	// Capacity presizes per worker tables.
	Capacity int
	// Unchecked skips value validation. Malformed values then yield
	// unspecified numbers instead of an error.
	Unchecked bool
	// Logf receives progress messages, if set.
	Logf func(format string, args ...any)
}

func (o Options) validate() error {
	if !slices.Contains(table.Hashers, o.Hash) && o.Hash != "" {
		return fmt.Errorf("unknown hash: %q", o.Hash)
	}
	if !slices.Contains(table.Backends, o.Table) && o.Table != "" {
		return fmt.Errorf("unknown table: %q", o.Table)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Aggregate runs with default options and returns the rendered summary.
func Aggregate(input []byte) ([]byte, error) {
	return AggregateWith(input, Options{})
}

// AggregateWith returns the rendered summary of input.
func AggregateWith(input []byte, opts Options) ([]byte, error) {
	f, err := Summarize(input, opts)
	if err != nil {
		return nil, err
	}
	return f.AppendTo(nil), nil
}

// AggregateFile maps the file at path and returns its rendered summary.
func AggregateFile(path string, opts Options) ([]byte, error) {
	f, err := mapfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	opts.logf("mapped %s, %d bytes", path, f.Len())
	return AggregateWith(f.Bytes(), opts)
}

// Summarize scans input in parallel and returns the merged result. A single
// trailing newline is ignored. Any malformed record fails the whole run.
func Summarize(input []byte, opts Options) (*summary.Final, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if n := len(input); n > 0 && input[n-1] == '\n' {
		input = input[:n-1]
	}
	var (
		started = time.Now()
		workers = opts.workers()
		chunks  = chunk.Split(input, chunksPerWorker*workers)
		final   = summary.New()
		resultC = make(chan table.Table)
		done    = make(chan bool)
		g       errgroup.Group
	)
	opts.logf("%d bytes, %d workers, %d chunks", len(input), workers, len(chunks))
	go merger(final, resultC, done)
	g.SetLimit(workers)
	for _, c := range chunks {
		g.Go(func() error {
			t, err := scan(c, opts)
			if err != nil {
				return err
			}
			resultC <- t
			return nil
		})
	}
	err := g.Wait()
	close(resultC)
	<-done
	if err != nil {
		return nil, err
	}
	opts.logf("%d keys in %s", final.Len(), time.Since(started))
	return final, nil
}

// merger folds tables into final until resultC is closed.
func merger(final *summary.Final, resultC chan table.Table, done chan bool) {
	for t := range resultC {
		final.Merge(t)
	}
	done <- true
}

// scan aggregates every record of data into a new table. The table keeps
// references into data.
func scan(data []byte, opts Options) (table.Table, error) {
	t, err := table.New(table.Options{
		Strict:   opts.Strict,
		Backend:  opts.Table,
		Capacity: opts.Capacity,
	})
	if err != nil {
		return nil, err
	}
	h, err := table.NewHasher(opts.Hash)
	if err != nil {
		return nil, err
	}
	lines := chunk.NewLines(data)
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		key, value, err := chunk.Cut(line)
		if err != nil {
			return nil, err
		}
		if !opts.Unchecked && !fixed.Valid(value) {
			return nil, fmt.Errorf("%w: %q", fixed.ErrValue, line)
		}
		t.Upsert(h.Sum64(key), key, fixed.Parse(value))
	}
	return t, nil
}
