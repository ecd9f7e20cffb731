// File: internal/ringbuf/ringbuf.go
// Package ringbuf implements a fixed-capacity byte ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Storage is one byte larger than the usable capacity so that the full and
// empty states are told apart by comparing head and tail alone. Writes
// overwrite the oldest data when they run out of room; destructive reads
// refuse to take more than is buffered. Not safe for concurrent use.

package ringbuf

import (
	"bytes"

	"github.com/momentics/hioload-ringbuf/api"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*RingBuffer)(nil)

// MaxCapacity bounds the usable capacity of a single ring.
const MaxCapacity = 1<<30 - 1

// RingBuffer is a byte FIFO over a fixed storage region.
type RingBuffer struct {
	buf      []byte
	head     int // next write position
	tail     int // next read position
	stats    api.RingStats
	release  func([]byte)
	released bool
}

// New allocates a ring with the given usable capacity.
func New(capacity int) (*RingBuffer, error) {
	buf, err := AllocStorage(capacity)
	if err != nil {
		return nil, err
	}
	return &RingBuffer{buf: buf}, nil
}

// NewWithStorage adopts storage as the ring's region; capacity is len(storage)-1.
// If release is non-nil it receives the region exactly once, from Free.
func NewWithStorage(storage []byte, release func([]byte)) (*RingBuffer, error) {
	if len(storage) == 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "ring storage must hold at least one byte")
	}
	return &RingBuffer{buf: storage, release: release}, nil
}

// AllocStorage returns a zeroed region for a ring of the given capacity.
func AllocStorage(capacity int) (buf []byte, err error) {
	if capacity < 0 || capacity > MaxCapacity {
		return nil, api.NewError(api.ErrCodeAllocation, "ring buffer capacity out of range").
			WithContext("capacity", capacity)
	}
	size := capacity + 1
	defer func() {
		if p := recover(); p != nil {
			err = api.NewError(api.ErrCodeAllocation, "ring buffer allocation failed").
				WithContext("size", size).
				WithContext("panic", p)
		}
	}()
	return make([]byte, size), nil
}

// BufferSize returns the storage size, Capacity()+1.
func (r *RingBuffer) BufferSize() int { return len(r.buf) }

// Capacity returns the usable byte count.
func (r *RingBuffer) Capacity() int { return len(r.buf) - 1 }

// BytesUsed returns the number of unread bytes.
func (r *RingBuffer) BytesUsed() int {
	if r.head >= r.tail {
		return r.head - r.tail
	}
	return len(r.buf) - (r.tail - r.head)
}

// BytesFree returns the number of bytes that can be written without overflow.
func (r *RingBuffer) BytesFree() int { return r.Capacity() - r.BytesUsed() }

func (r *RingBuffer) IsFull() bool { return r.next(r.head, 1) == r.tail }

func (r *RingBuffer) IsEmpty() bool { return r.head == r.tail }

// Released reports whether Free has been called.
func (r *RingBuffer) Released() bool { return r.released }

// Tail returns the unread bytes from the read position up to the wrap boundary.
// The slice aliases storage and is invalidated by the next mutating call.
func (r *RingBuffer) Tail() []byte {
	end := r.tail + min(r.BytesUsed(), len(r.buf)-r.tail)
	return r.buf[r.tail:end:end]
}

// Head returns the free bytes from the write position up to the wrap boundary.
// The slice aliases storage and is invalidated by the next mutating call.
func (r *RingBuffer) Head() []byte {
	end := r.head + min(r.BytesFree(), len(r.buf)-r.head)
	return r.buf[r.head:end:end]
}

// Reset empties the ring. Storage contents and stats are left alone.
func (r *RingBuffer) Reset() {
	r.head, r.tail = 0, 0
}

// Free releases the storage region. Calling it again is a no-op.
func (r *RingBuffer) Free() {
	if r.released {
		return
	}
	r.released = true
	buf := r.buf
	r.buf = nil
	r.head, r.tail = 0, 0
	if r.release != nil {
		r.release(buf)
		r.release = nil
	}
}

// Stats returns a copy of the lifetime counters.
func (r *RingBuffer) Stats() api.RingStats { return r.stats }

// ResetStats zeroes the lifetime counters.
func (r *RingBuffer) ResetStats() { r.stats = api.RingStats{} }

// FindChr returns the logical offset from the tail of the first byte equal to
// c, starting the scan offset bytes in. It returns BytesUsed() if c is absent.
func (r *RingBuffer) FindChr(c byte, offset int) int {
	used := r.BytesUsed()
	if offset < 0 {
		offset = 0
	}
	for offset < used {
		start := r.next(r.tail, offset)
		n := min(len(r.buf)-start, used-offset)
		if i := bytes.IndexByte(r.buf[start:start+n], c); i >= 0 {
			return offset + i
		}
		offset += n
	}
	return used
}

// Fill writes n copies of value at the head. At most BufferSize() bytes are
// written per call since that already rewrites every slot once. Returns the
// number of bytes written.
func (r *RingBuffer) Fill(value byte, n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, len(r.buf))
	free := r.BytesFree()
	for left := n; left > 0; {
		seg := r.buf[r.head : r.head+min(len(r.buf)-r.head, left)]
		for i := range seg {
			seg[i] = value
		}
		r.head = r.next(r.head, len(seg))
		left -= len(seg)
	}
	r.commitWrite(n, free)
	return n
}

// WriteFrom copies all of src in at the head. On overflow the oldest bytes
// are overwritten and the tail moves forward. Returns len(src).
func (r *RingBuffer) WriteFrom(src []byte) int {
	count := len(src)
	free := r.BytesFree()
	for len(src) > 0 {
		n := copy(r.buf[r.head:], src)
		r.head = r.next(r.head, n)
		src = src[n:]
	}
	r.commitWrite(count, free)
	return count
}

// ReadInto moves len(dst) bytes from the tail into dst. If fewer bytes are
// buffered nothing is copied and 0 is returned.
func (r *RingBuffer) ReadInto(dst []byte) int {
	if len(dst) > r.BytesUsed() {
		r.stats.Underflows++
		return 0
	}
	r.copyOut(dst)
	r.consume(len(dst))
	return len(dst)
}

// Peek copies len(dst) bytes from the tail without consuming them. Like
// ReadInto it copies nothing when fewer bytes are buffered.
func (r *RingBuffer) Peek(dst []byte) int {
	if len(dst) > r.BytesUsed() {
		return 0
	}
	r.copyOut(dst)
	return len(dst)
}

// Discard drops n bytes from the tail, or nothing if fewer are buffered.
func (r *RingBuffer) Discard(n int) int {
	if n <= 0 {
		return 0
	}
	if n > r.BytesUsed() {
		r.stats.Underflows++
		return 0
	}
	r.consume(n)
	return n
}

// Transfer moves count bytes from the tail of src to the head of r. src may
// not underflow: if it holds fewer than count bytes nothing moves and 0 is
// returned. r may overflow, losing its oldest bytes. src and r must differ.
func (r *RingBuffer) Transfer(src *RingBuffer, count int) int {
	if src == r || count <= 0 {
		return 0
	}
	if count > src.BytesUsed() {
		src.stats.Underflows++
		return 0
	}
	free := r.BytesFree()
	for left := count; left > 0; {
		chunk := src.buf[src.tail : src.tail+min(left, len(src.buf)-src.tail)]
		n := copy(r.buf[r.head:], chunk)
		r.head = r.next(r.head, n)
		src.tail = src.next(src.tail, n)
		left -= n
	}
	src.stats.BytesOut += uint64(count)
	r.commitWrite(count, free)
	return count
}

func (r *RingBuffer) next(i, n int) int {
	return (i + n) % len(r.buf)
}

// copyOut fills dst from the tail onward; the caller checks len(dst) <= BytesUsed().
func (r *RingBuffer) copyOut(dst []byte) {
	pos := r.tail
	for off := 0; off < len(dst); {
		n := copy(dst[off:], r.buf[pos:])
		pos = r.next(pos, n)
		off += n
	}
}

func (r *RingBuffer) consume(n int) {
	r.tail = r.next(r.tail, n)
	r.stats.BytesOut += uint64(n)
}

// commitWrite restores the invariants after n bytes were written at the old
// head with free bytes of room. On overflow the ring ends up full.
func (r *RingBuffer) commitWrite(n, free int) {
	if n > free {
		r.tail = r.next(r.head, 1)
		r.stats.Overflowed += uint64(n - free)
	}
	r.stats.BytesIn += uint64(n)
}
