// Package basic is the straightforward way to summarize measurements: read
// line by line, split, parse with strconv and keep a map. It is slow, but
// easy to trust, and serves as a reference for the parallel engine.
//
// data:
//
// Tamale;27.5
// Bergen;9.6
// Lodwar;37.1
// Whitehorse;-3.8
// Ouarzazate;19.1
package basic

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/miku/onebrc/chunk"
	"github.com/miku/onebrc/fixed"
)

// Measurements, as there is no need to keep all numbers around, we can compute
// them on the fly. Values are tenths.
type Measurements struct {
	Min   int64
	Max   int64
	Sum   int64
	Count int64
}

func (m *Measurements) Add(v int64) {
	if v > m.Max {
		m.Max = v
	} else if v < m.Min {
		m.Min = v
	}
	m.Sum = m.Sum + v
	m.Count++
}

// Summarize reads records from r and returns {key=min/avg/max, ...}.
func Summarize(r io.Reader) (string, error) {
	var (
		data = make(map[string]*Measurements)
		br   = bufio.NewReader(r)
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if line == "" && err == io.EOF {
			break
		}
		line = strings.TrimSuffix(line, "\n")
		name, value, ok := strings.Cut(line, ";")
		if !ok {
			return "", fmt.Errorf("%w: %q", chunk.ErrSeparator, line)
		}
		// ParseFloat alone would take "1e1", "+1.0" or "NaN".
		if !fixed.Valid([]byte(value)) {
			return "", fmt.Errorf("%w: %q", fixed.ErrValue, line)
		}
		temp, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return "", fmt.Errorf("%w: %q", fixed.ErrValue, line)
		}
		v := int64(math.Round(temp * 10))
		if _, ok := data[name]; !ok {
			data[name] = &Measurements{
				Min:   v,
				Max:   v,
				Sum:   v,
				Count: 1,
			}
		} else {
			data[name].Add(v)
		}
		if err == io.EOF {
			break
		}
	}
	keys := maps.Keys(data)
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		m := data[k]
		avg := math.Round(float64(m.Sum)/float64(m.Count)) / 10
		if avg == 0 {
			avg = 0 // no "-0.0"
		}
		fmt.Fprintf(&sb, "%s=%s/%.1f/%s", k, fixed.Format(m.Min), avg, fixed.Format(m.Max))
	}
	sb.WriteString("}\n")
	return sb.String(), nil
}
