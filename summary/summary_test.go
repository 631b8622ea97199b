package summary

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/miku/onebrc/table"
)

type record struct {
	key string
	v   int64
}

func build(t *testing.T, records []record) table.Table {
	t.Helper()
	tbl, err := table.New(table.Options{})
	if err != nil {
		t.Fatal(err)
	}
	h, _ := table.NewHasher("")
	for _, r := range records {
		key := []byte(r.key)
		tbl.Upsert(h.Sum64(key), key, r.v)
	}
	return tbl
}

func snapshot(f *Final) map[string]table.Aggregate {
	m := make(map[string]table.Aggregate)
	for _, k := range f.Keys() {
		m[k], _ = f.Get(k)
	}
	return m
}

func TestSingleValueRoundTrip(t *testing.T) {
	for _, v := range []int64{-999, -100, -5, -1, 0, 1, 53, 198, 999} {
		a := table.NewAggregate(v)
		s := string(AppendAggregate(nil, &a))
		want := fmt.Sprintf("%[1]s/%[1]s/%[1]s", formatTenths(v))
		if s != want {
			t.Errorf("got %q, want %q", s, want)
		}
	}
}

func formatTenths(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}

func TestFormat(t *testing.T) {
	f := New()
	f.Merge(build(t, []record{{"A", 10}, {"B", 20}, {"A", 30}}))
	if got, want := f.String(), "{A=1.0/2.0/3.0, B=2.0/2.0/2.0}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := New().String(); got != "{}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestKeysByteOrder(t *testing.T) {
	f := New()
	f.Merge(build(t, []record{
		{"東京", 1}, {"Zürich", 1}, {"Ürümqi", 1}, {"abc", 1}, {"Abc", 1}, {"ab", 1}, {"São Paulo", 1},
	}))
	want := []string{"Abc", "São Paulo", "Zürich", "ab", "abc", "Ürümqi", "東京"}
	if got := f.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMergeCopiesKeys(t *testing.T) {
	buf := []byte("Hamburg")
	tbl, _ := table.New(table.Options{})
	tbl.Upsert(1, buf, 120)
	f := New()
	f.Merge(tbl)
	copy(buf, "XXXXXXX")
	if _, ok := f.Get("Hamburg"); !ok {
		t.Fatalf("key changed with its source buffer: %q", f.Keys())
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"Hamburg", "Bulawayo", "Palembang", "St. John's", "Cracow", "Bridgetown", "Istanbul"}
	parts := make([][]record, 6)
	for i := range parts {
		for j := 0; j < 200; j++ {
			parts[i] = append(parts[i], record{keys[rng.Intn(len(keys))], int64(rng.Intn(1999) - 999)})
		}
	}
	var want map[string]table.Aggregate
	for trial := 0; trial < 10; trial++ {
		f := New()
		for _, i := range rng.Perm(len(parts)) {
			f.Merge(build(t, parts[i]))
		}
		got := snapshot(f)
		if want == nil {
			want = got
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: merge result depends on order", trial)
		}
	}
	var total uint64
	for _, a := range want {
		total += a.Count
	}
	if total != 6*200 {
		t.Fatalf("got %d records, want %d", total, 6*200)
	}
}

func TestMergeCombinesAggregates(t *testing.T) {
	f := New()
	f.Merge(build(t, []record{{"A", 10}, {"A", -20}}))
	f.Merge(build(t, []record{{"A", 35}, {"B", 1}}))
	a, ok := f.Get("A")
	if !ok {
		t.Fatal("missing A")
	}
	want := table.Aggregate{Min: -20, Max: 35, Sum: 25, Count: 3}
	if a != want {
		t.Fatalf("got %+v, want %+v", a, want)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
}
