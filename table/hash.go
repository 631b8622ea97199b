package table

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// suffix is hashed after the bytes of every key.
const suffix = 0xff

var suffixBytes = []byte{suffix}

// Hasher computes key fingerprints. A Hasher may keep state between calls and
// must not be shared between goroutines.
type Hasher interface {
	Sum64(key []byte) uint64
}

// Hashers lists the names accepted by NewHasher.
var Hashers = []string{"fx", "xxh3", "xxhash"}

// NewHasher returns a fresh hasher by name. The empty name selects fx.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "fx":
		return fx{}, nil
	case "xxh3":
		return &xxh3Hasher{h: xxh3.New()}, nil
	case "xxhash":
		return &xxhashHasher{d: xxhash.New()}, nil
	default:
		return nil, fmt.Errorf("unknown hash: %q", name)
	}
}

// fx is a word at a time multiplicative hash, cheap for short keys. A zero
// word leaves a zero state unchanged, so the key length is folded into the
// final word; otherwise "\x01" and "\x01\x00\x00\x00" would always collide.
type fx struct{}

const fxSeed = 0x517cc1b727220a95

func fxAdd(h, w uint64) uint64 {
	return (bits.RotateLeft64(h, 5) ^ w) * fxSeed
}

func (fx) Sum64(key []byte) uint64 {
	var (
		h uint64
		n = uint64(len(key))
	)
	for len(key) >= 8 {
		h = fxAdd(h, binary.LittleEndian.Uint64(key))
		key = key[8:]
	}
	if len(key) >= 4 {
		h = fxAdd(h, uint64(binary.LittleEndian.Uint32(key)))
		key = key[4:]
	}
	for _, c := range key {
		h = fxAdd(h, uint64(c))
	}
	return fxAdd(h, n<<8|suffix)
}

type xxh3Hasher struct {
	h *xxh3.Hasher
}

func (x *xxh3Hasher) Sum64(key []byte) uint64 {
	x.h.Reset()
	_, _ = x.h.Write(key)
	_, _ = x.h.Write(suffixBytes)
	return x.h.Sum64()
}

type xxhashHasher struct {
	d *xxhash.Digest
}

func (x *xxhashHasher) Sum64(key []byte) uint64 {
	x.d.Reset()
	_, _ = x.d.Write(key)
	_, _ = x.d.Write(suffixBytes)
	return x.d.Sum64()
}
