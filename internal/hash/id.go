// Package hash provides xxHash64 helpers used for archive path identity and
// content digests.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest accumulates an order-sensitive xxHash64 over named byte entries.
//
// Each entry contributes its name, its length and its content, so reordering
// entries or moving bytes between adjacent entries changes the result.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Add mixes one named entry into the digest.
func (d *Digest) Add(name string, data []byte) {
	var lenBuf [8]byte

	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(name)))
	_, _ = d.d.Write(lenBuf[:])
	_, _ = d.d.WriteString(name)

	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(data)))
	_, _ = d.d.Write(lenBuf[:])
	_, _ = d.d.Write(data)
}

// Sum64 returns the current digest value.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
