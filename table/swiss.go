package table

import (
	"bytes"

	"github.com/dolthub/swiss"
)

type swissEntry struct {
	key  []byte
	agg  Aggregate
	next *swissEntry // strict mode only: other keys sharing the fingerprint
}

// Swiss is a table backed by a SwissTable map from fingerprint to entry.
type Swiss struct {
	m      *swiss.Map[uint64, *swissEntry]
	n      int
	strict bool
}

// NewSwiss returns a table sized for capacity entries.
func NewSwiss(capacity int, strict bool) *Swiss {
	return &Swiss{
		m:      swiss.NewMap[uint64, *swissEntry](uint32(capacity)),
		strict: strict,
	}
}

func (t *Swiss) Upsert(fp uint64, key []byte, v int64) {
	e, ok := t.m.Get(fp)
	if !ok {
		t.m.Put(fp, &swissEntry{key: key, agg: NewAggregate(v)})
		t.n++
		return
	}
	if !t.strict {
		e.agg.Add(v)
		return
	}
	for {
		if bytes.Equal(e.key, key) {
			e.agg.Add(v)
			return
		}
		if e.next == nil {
			e.next = &swissEntry{key: key, agg: NewAggregate(v)}
			t.n++
			return
		}
		e = e.next
	}
}

func (t *Swiss) Each(fn func(key []byte, a *Aggregate)) {
	t.m.Iter(func(_ uint64, e *swissEntry) bool {
		for ; e != nil; e = e.next {
			fn(e.key, &e.agg)
		}
		return false
	})
}

func (t *Swiss) Len() int { return t.n }
