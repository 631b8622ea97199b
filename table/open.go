package table

import (
	"bytes"
	"math/bits"
)

type openEntry struct {
	fp  uint64
	key []byte
	agg Aggregate // Count == 0 marks a free slot
}

// Open is an open addressing table with linear probing. The slot of a
// fingerprint is taken from its high bits.
type Open struct {
	entries []openEntry
	mask    uint64
	shift   uint
	n       int
	strict  bool
}

// NewOpen returns a table that holds capacity entries before growing.
func NewOpen(capacity int, strict bool) *Open {
	t := &Open{strict: strict}
	t.rehash(slotsFor(capacity))
	return t
}

// slotsFor returns the power of two slot count keeping capacity entries
// below the 3/4 load limit.
func slotsFor(capacity int) int {
	want := max(capacity, 1)*4/3 + 1
	return max(1<<bits.Len(uint(want-1)), 8)
}

func (t *Open) rehash(size int) {
	old := t.entries
	t.entries = make([]openEntry, size)
	t.mask = uint64(size - 1)
	t.shift = uint(64 - bits.TrailingZeros(uint(size)))
	for i := range old {
		if e := &old[i]; e.agg.Count > 0 {
			t.place(*e)
		}
	}
}

// place stores e in the first free slot of its probe sequence.
func (t *Open) place(e openEntry) {
	for i := e.fp >> t.shift; ; i = (i + 1) & t.mask {
		if t.entries[i].agg.Count == 0 {
			t.entries[i] = e
			return
		}
	}
}

func (t *Open) Upsert(fp uint64, key []byte, v int64) {
	for i := fp >> t.shift; ; i = (i + 1) & t.mask {
		e := &t.entries[i]
		if e.agg.Count == 0 {
			*e = openEntry{fp: fp, key: key, agg: NewAggregate(v)}
			t.n++
			if 4*t.n >= 3*len(t.entries) {
				t.rehash(2 * len(t.entries))
			}
			return
		}
		if e.fp == fp && (!t.strict || bytes.Equal(e.key, key)) {
			e.agg.Add(v)
			return
		}
	}
}

func (t *Open) Each(fn func(key []byte, a *Aggregate)) {
	for i := range t.entries {
		if e := &t.entries[i]; e.agg.Count > 0 {
			fn(e.key, &e.agg)
		}
	}
}

func (t *Open) Len() int { return t.n }
