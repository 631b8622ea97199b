package table

// Aggregate, as there is no need to keep all numbers around, we can compute
// them on the fly. All values are scaled by ten.
type Aggregate struct {
	Min   int64
	Max   int64
	Sum   int64
	Count uint64
}

// NewAggregate returns the aggregate of a single value.
func NewAggregate(v int64) Aggregate {
	return Aggregate{Min: v, Max: v, Sum: v, Count: 1}
}

func (a *Aggregate) Add(v int64) {
	a.Min = min(a.Min, v)
	a.Max = max(a.Max, v)
	a.Sum += v
	a.Count++
}

func (a *Aggregate) Merge(o *Aggregate) {
	a.Min = min(a.Min, o.Min)
	a.Max = max(a.Max, o.Max)
	a.Sum += o.Sum
	a.Count += o.Count
}
