// Package mapfile exposes a file as a read only byte slice, memory mapped
// where the platform allows it. The contents are checked to be valid UTF-8
// before they are handed out.
package mapfile

import (
	"errors"
	"fmt"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/miku/onebrc/chunk"
)

// ErrNotUTF8 is returned for files that are not valid UTF-8.
var ErrNotUTF8 = errors.New("not valid UTF-8")

// File is a mapped file. Bytes must not be used after Close.
type File struct {
	data  []byte
	close func() error
}

// Open maps the file at path and validates its contents.
func Open(path string) (*File, error) {
	data, closeFn, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	if !Valid(data) {
		_ = closeFn()
		return nil, fmt.Errorf("%s: %w", path, ErrNotUTF8)
	}
	return &File{data: data, close: closeFn}, nil
}

// Bytes returns the file contents. The slice must not be modified.
func (f *File) Bytes() []byte { return f.data }

// Len returns the file size.
func (f *File) Len() int { return len(f.data) }

// Close releases the mapping.
func (f *File) Close() error {
	if f.close == nil {
		return nil
	}
	err := f.close()
	f.close, f.data = nil, nil
	return err
}

// Valid reports whether data is valid UTF-8. Large inputs are checked in
// parallel, cut at newlines, which never occur inside a multi-byte sequence.
func Valid(data []byte) bool {
	const minParallel = 1 << 20
	if len(data) < minParallel {
		return utf8.Valid(data)
	}
	var g errgroup.Group
	for _, c := range chunk.Split(data, runtime.NumCPU()) {
		g.Go(func() error {
			if !utf8.Valid(c) {
				return ErrNotUTF8
			}
			return nil
		})
	}
	return g.Wait() == nil
}
