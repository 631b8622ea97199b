// Package table holds the per worker aggregation tables.
//
// A table maps a 64-bit key fingerprint to a running Aggregate and the first
// key seen with that fingerprint. By default the fingerprint is the only
// equality test: two distinct keys with the same fingerprint are merged into
// one entry. Options.Strict compares the key bytes as well, at the cost of a
// comparison per record.
package table

import (
	"fmt"
)

// DefaultCapacity is the number of distinct keys a table holds before it
// grows.
const DefaultCapacity = 1024

// Table accumulates values per key. Keys passed to Upsert are retained, not
// copied, and must stay valid for the lifetime of the table.
type Table interface {
	// Upsert adds v to the aggregate for fp, creating it with key as the
	// representative key when fp has not been seen.
	Upsert(fp uint64, key []byte, v int64)
	// Each calls fn for every entry, in no particular order.
	Each(fn func(key []byte, a *Aggregate))
	// Len returns the number of entries.
	Len() int
}

// Options selects the table implementation.
type Options struct {
	Strict   bool
	Backend  string // "open" (default) or "swiss"
	Capacity int    // DefaultCapacity if zero
}

// Backends lists the names accepted in Options.Backend.
var Backends = []string{"open", "swiss"}

// New returns an empty table.
func New(opts Options) (Table, error) {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	switch opts.Backend {
	case "", "open":
		return NewOpen(capacity, opts.Strict), nil
	case "swiss":
		return NewSwiss(capacity, opts.Strict), nil
	default:
		return nil, fmt.Errorf("unknown table: %q", opts.Backend)
	}
}
