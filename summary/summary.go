// Package summary merges per worker tables by key text and renders the final
// result.
package summary

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/miku/onebrc/fixed"
	"github.com/miku/onebrc/table"
)

// Final holds the merged aggregates keyed by the exact key text. Keys are
// copied on insertion, so a Final does not reference any input buffer.
type Final struct {
	data map[string]*table.Aggregate
}

// New returns an empty Final.
func New() *Final {
	return &Final{data: make(map[string]*table.Aggregate)}
}

// Merge folds every entry of t into f.
func (f *Final) Merge(t table.Table) {
	t.Each(func(key []byte, a *table.Aggregate) {
		if v, ok := f.data[string(key)]; ok {
			v.Merge(a)
			return
		}
		c := *a
		f.data[string(key)] = &c
	})
}

// Get returns the aggregate for key.
func (f *Final) Get(key string) (table.Aggregate, bool) {
	v, ok := f.data[key]
	if !ok {
		return table.Aggregate{}, false
	}
	return *v, true
}

// Len returns the number of keys.
func (f *Final) Len() int { return len(f.data) }

// Keys returns all keys in byte order.
func (f *Final) Keys() []string {
	keys := maps.Keys(f.data)
	slices.Sort(keys)
	return keys
}

// AppendTo renders {key=min/avg/max, ...} followed by a newline.
func (f *Final) AppendTo(dst []byte) []byte {
	dst = append(dst, '{')
	for i, k := range f.Keys() {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = append(dst, k...)
		dst = append(dst, '=')
		dst = AppendAggregate(dst, f.data[k])
	}
	return append(dst, "}\n"...)
}

func (f *Final) String() string {
	return string(f.AppendTo(nil))
}

// AppendAggregate renders min/avg/max of a, with the mean rounded half away
// from zero to one decimal.
func AppendAggregate(dst []byte, a *table.Aggregate) []byte {
	dst = fixed.Append(dst, a.Min)
	dst = append(dst, '/')
	dst = fixed.Append(dst, fixed.Mean(a.Sum, a.Count))
	dst = append(dst, '/')
	return fixed.Append(dst, a.Max)
}
