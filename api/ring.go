// Package api
// Author: momentics@gmail.com
//
// Byte ring buffer contract for staging data between a stream and a consumer.

package api

import "io"

// ByteRing is a fixed-capacity circular FIFO of bytes.
//
// Writes never fail: when they exceed BytesFree the oldest bytes are
// dropped. Destructive reads never take more than BytesUsed: such
// requests are refused with a zero count and leave the ring untouched.
// Implementations are not safe for concurrent use.
type ByteRing interface {
    // BufferSize is the size of the storage region, Capacity()+1.
    BufferSize() int
    // Capacity is the usable byte count.
    Capacity() int
    BytesFree() int
    BytesUsed() int
    IsFull() bool
    IsEmpty() bool

    // Tail returns the contiguous unread bytes starting at the read position.
    // The view aliases ring storage and is invalid after any mutation.
    Tail() []byte
    // Head returns the contiguous free bytes starting at the write position.
    Head() []byte

    // Reset empties the ring without touching storage.
    Reset()

    // FindChr returns the logical offset of the first c at or after offset,
    // or BytesUsed() if there is none.
    FindChr(c byte, offset int) int

    // Fill writes min(n, BufferSize()) copies of value.
    Fill(value byte, n int) int
    // WriteFrom copies src in, overwriting the oldest bytes on overflow.
    WriteFrom(src []byte) int
    // ReadInto consumes len(dst) bytes, or nothing if fewer are buffered.
    ReadInto(dst []byte) int

    // ReadFromStream performs exactly one r.Read into the ring.
    ReadFromStream(r io.Reader, count int) (int, error)
    // WriteToStream performs exactly one w.Write out of the ring.
    WriteToStream(w io.Writer, count int) (int, error)

    // Stats reports lifetime counters.
    Stats() RingStats

    // Free releases the storage region. The ring must not be used afterwards.
    Free()
}

// RingStats aggregates byte ring accounting counters.
type RingStats struct {
    BytesIn      uint64 // bytes accepted by writes, fills and stream reads
    BytesOut     uint64 // bytes consumed by reads, discards and stream writes
    Overflowed   uint64 // bytes dropped to make room for newer data
    Underflows   uint64 // destructive requests refused for lack of data
    StreamErrors uint64
}
