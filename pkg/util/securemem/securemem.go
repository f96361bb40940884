// Package securemem keeps key material in memguard locked buffers.
package securemem

import (
	"github.com/awnumar/memguard"
)

// Secret is key material held outside the Go heap in locked memory.
type Secret struct {
	buf *memguard.LockedBuffer
}

// NewRandom returns a read-only Secret of n random bytes.
func NewRandom(n int) *Secret {
	return &Secret{buf: memguard.NewBufferRandom(n)}
}

// New moves b into a read-only Secret. b is wiped.
func New(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

func (s *Secret) Bytes() []byte { return s.buf.Bytes() }
func (s *Secret) Size() int     { return s.buf.Size() }

// Destroy wipes and releases the buffer. Safe to call more than once.
func (s *Secret) Destroy() { s.buf.Destroy() }

// Purge wipes every live Secret. Call before the process exits.
func Purge() { memguard.Purge() }
