// Package pool adapts the internal byte ring as api.ByteRing.
//
// BufferRing is a thin wrapper over ringbuf.RingBuffer that adds
// descriptor-level stream helpers.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"github.com/momentics/hioload-ringbuf/api"
	"github.com/momentics/hioload-ringbuf/internal/ringbuf"
	"github.com/momentics/hioload-ringbuf/transport"
)

// BufferRing implements api.ByteRing over a fixed storage region.
type BufferRing struct {
	*ringbuf.RingBuffer
}

// NewByteRing allocates a ring with `capacity` usable bytes. The only
// failure is api.ErrAllocation.
func NewByteRing(capacity int) (*BufferRing, error) {
	r, err := ringbuf.New(capacity)
	if err != nil {
		return nil, err
	}
	return &BufferRing{RingBuffer: r}, nil
}

// ReadFD performs one read(2) on fd into the ring; see ReadFromStream.
func (b *BufferRing) ReadFD(fd transport.FD, count int) (int, error) {
	return b.ReadFromStream(fd, count)
}

// WriteFD performs one write(2) on fd out of the ring; see WriteToStream.
func (b *BufferRing) WriteFD(fd transport.FD, count int) (int, error) {
	return b.WriteToStream(fd, count)
}

// Transfer moves count bytes from src into b; see ringbuf.RingBuffer.Transfer.
func (b *BufferRing) Transfer(src *BufferRing, count int) int {
	return b.RingBuffer.Transfer(src.RingBuffer, count)
}

// Ensure compile-time compliance.
var _ api.ByteRing = (*BufferRing)(nil)
