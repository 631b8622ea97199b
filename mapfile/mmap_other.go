//go:build !unix

package mapfile

import (
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// mapFile copies the mapping into memory, since mmap.ReaderAt does not
// expose its backing slice.
func mapFile(path string) ([]byte, func() error, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, func() error { return nil }, nil
}
