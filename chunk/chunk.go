// Package chunk cuts a measurements buffer into records, and into line aligned
// pieces that can be processed independently.
//
// data:
//
// Tamale;27.5
// Bergen;9.6
// Lodwar;37.1
package chunk

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrSeparator is returned for a record without a ';'.
var ErrSeparator = errors.New("expected a semicolon")

// Lines iterates over the newline separated records of a buffer. The zero
// value is an exhausted iterator.
type Lines struct {
	buf []byte
	pos int
}

// NewLines returns an iterator positioned at the start of buf.
func NewLines(buf []byte) Lines {
	return Lines{buf: buf}
}

// Next returns the next record without its trailing newline. The last record
// does not need to be terminated.
func (l *Lines) Next() ([]byte, bool) {
	if l.pos >= len(l.buf) {
		return nil, false
	}
	rest := l.buf[l.pos:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		l.pos += i + 1
		return rest[:i], true
	}
	l.pos = len(l.buf)
	return rest, true
}

// Cut splits a record at its first semicolon.
func Cut(line []byte) (key, value []byte, err error) {
	i := bytes.IndexByte(line, ';')
	if i < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrSeparator, line)
	}
	return line[:i], line[i+1:], nil
}

// Split partitions buf into at most n contiguous pieces. Every piece except
// the last one ends right after a newline, so no record is ever cut in two.
// The pieces concatenate back to buf. Fewer pieces are returned when buf does
// not contain enough line breaks.
func Split(buf []byte, n int) [][]byte {
	if len(buf) == 0 || n <= 0 {
		return nil
	}
	var (
		size   = max(len(buf)/n, 1)
		chunks = make([][]byte, 0, n)
	)
	for start := 0; start < len(buf); {
		end := min(start+size, len(buf))
		if i := bytes.IndexByte(buf[end:], '\n'); i >= 0 {
			end += i + 1
		} else {
			end = len(buf)
		}
		chunks = append(chunks, buf[start:end])
		start = end
	}
	return chunks
}
