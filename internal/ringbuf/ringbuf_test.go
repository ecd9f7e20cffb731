// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

// ringbuf_test.go: contract tests for overflow and underflow handling.
package ringbuf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/momentics/hioload-ringbuf/api"
)

func mustNew(t *testing.T, capacity int) *RingBuffer {
	t.Helper()
	r, err := New(capacity)
	if err != nil {
		t.Fatalf("New(%d): %v", capacity, err)
	}
	return r
}

// contents drains a copy of the unread bytes without touching r.
func contents(r *RingBuffer) []byte {
	out := make([]byte, r.BytesUsed())
	r.Peek(out)
	return out
}

func checkInvariants(t *testing.T, r *RingBuffer) {
	t.Helper()
	if r.Capacity() != r.BufferSize()-1 {
		t.Fatalf("capacity %d, buffer size %d", r.Capacity(), r.BufferSize())
	}
	if r.BytesUsed()+r.BytesFree() != r.Capacity() {
		t.Fatalf("used %d + free %d != capacity %d", r.BytesUsed(), r.BytesFree(), r.Capacity())
	}
	if r.head < 0 || r.head >= r.BufferSize() || r.tail < 0 || r.tail >= r.BufferSize() {
		t.Fatalf("index out of range: head=%d tail=%d size=%d", r.head, r.tail, r.BufferSize())
	}
	if r.IsEmpty() != (r.BytesUsed() == 0) {
		t.Fatalf("IsEmpty=%v with used=%d", r.IsEmpty(), r.BytesUsed())
	}
	if r.IsFull() != (r.BytesUsed() == r.Capacity()) {
		t.Fatalf("IsFull=%v with used=%d capacity=%d", r.IsFull(), r.BytesUsed(), r.Capacity())
	}
}

func TestNewSizes(t *testing.T) {
	for _, c := range []int{0, 1, 4, 4096} {
		r := mustNew(t, c)
		if r.BufferSize() != c+1 || r.Capacity() != c {
			t.Errorf("New(%d): size=%d capacity=%d", c, r.BufferSize(), r.Capacity())
		}
		if !r.IsEmpty() || r.BytesFree() != c {
			t.Errorf("New(%d) not empty: used=%d free=%d", c, r.BytesUsed(), r.BytesFree())
		}
		checkInvariants(t, r)
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	for _, c := range []int{-1, MaxCapacity + 1} {
		r, err := New(c)
		if r != nil || err == nil {
			t.Fatalf("New(%d) = %v, %v; want error", c, r, err)
		}
		if !errors.Is(err, api.ErrAllocation) {
			t.Errorf("New(%d) error %v does not match ErrAllocation", c, err)
		}
		if api.CodeOf(err) != api.ErrCodeAllocation {
			t.Errorf("New(%d) code = %v", c, api.CodeOf(err))
		}
	}
}

func TestNewWithStorage(t *testing.T) {
	if _, err := NewWithStorage(nil, nil); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("empty storage: err = %v", err)
	}
	var released [][]byte
	storage := make([]byte, 9)
	r, err := NewWithStorage(storage, func(b []byte) { released = append(released, b) })
	if err != nil {
		t.Fatal(err)
	}
	if r.Capacity() != 8 {
		t.Fatalf("capacity = %d, want 8", r.Capacity())
	}
	r.Free()
	r.Free()
	if len(released) != 1 || &released[0][0] != &storage[0] {
		t.Fatalf("release called %d times", len(released))
	}
	if !r.Released() {
		t.Error("Released() = false after Free")
	}
}

// Scenario: capacity 4, "AB" then "CDE" overflows and drops 'A'.
func TestWriteFromOverflowDropsOldest(t *testing.T) {
	r := mustNew(t, 4)
	if r.BufferSize() != 5 || r.Capacity() != 4 {
		t.Fatalf("size=%d capacity=%d", r.BufferSize(), r.Capacity())
	}
	r.WriteFrom([]byte("AB"))
	if r.BytesUsed() != 2 {
		t.Fatalf("used = %d, want 2", r.BytesUsed())
	}
	if n := r.WriteFrom([]byte("CDE")); n != 3 {
		t.Fatalf("WriteFrom returned %d", n)
	}
	checkInvariants(t, r)
	if !r.IsFull() || r.BytesUsed() != 4 {
		t.Fatalf("full=%v used=%d", r.IsFull(), r.BytesUsed())
	}
	if got := contents(r); string(got) != "BCDE" {
		t.Fatalf("contents = %q, want BCDE", got)
	}
	if s := r.Stats(); s.Overflowed != 1 || s.BytesIn != 5 {
		t.Errorf("stats = %+v", s)
	}
}

func TestOverflowKeepsLastCapacityBytes(t *testing.T) {
	const capacity = 7
	for k := 1; k <= 20; k++ {
		r := mustNew(t, capacity)
		r.WriteFrom([]byte("xy")) // shift the head off zero
		r.Discard(2)
		src := make([]byte, capacity+k)
		for i := range src {
			src[i] = byte('a' + i%26)
		}
		r.WriteFrom(src)
		checkInvariants(t, r)
		if !r.IsFull() {
			t.Fatalf("k=%d: not full after overflow", k)
		}
		out := make([]byte, capacity)
		if n := r.ReadInto(out); n != capacity {
			t.Fatalf("k=%d: ReadInto = %d", k, n)
		}
		if !bytes.Equal(out, src[k:]) {
			t.Fatalf("k=%d: got %q want %q", k, out, src[k:])
		}
		if !r.IsEmpty() {
			t.Fatalf("k=%d: not empty after drain", k)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	r := mustNew(t, 16)
	for start := 0; start < r.BufferSize(); start++ {
		for n := 0; n <= r.Capacity(); n++ {
			r.Reset()
			r.head, r.tail = start, start
			src := bytes.Repeat([]byte{byte(n)}, n)
			for i := range src {
				src[i] += byte(i)
			}
			r.WriteFrom(src)
			checkInvariants(t, r)
			dst := make([]byte, n)
			if got := r.ReadInto(dst); got != n {
				t.Fatalf("start=%d n=%d: ReadInto = %d", start, n, got)
			}
			if !bytes.Equal(dst, src) {
				t.Fatalf("start=%d n=%d: got %v want %v", start, n, dst, src)
			}
			if !r.IsEmpty() {
				t.Fatalf("start=%d n=%d: not empty", start, n)
			}
		}
	}
}

// Scenario: reading from an empty ring copies nothing.
func TestReadIntoUnderflow(t *testing.T) {
	r := mustNew(t, 4)
	out := []byte{0xAA}
	if n := r.ReadInto(out); n != 0 {
		t.Fatalf("ReadInto = %d, want 0", n)
	}
	if out[0] != 0xAA || !r.IsEmpty() {
		t.Fatalf("underflow modified state: out=%x empty=%v", out[0], r.IsEmpty())
	}

	r.WriteFrom([]byte("abc"))
	head, tail := r.head, r.tail
	if n := r.ReadInto(make([]byte, 4)); n != 0 {
		t.Fatalf("ReadInto(4) with 3 used = %d", n)
	}
	if r.head != head || r.tail != tail || string(contents(r)) != "abc" {
		t.Fatal("underflow moved indices or changed contents")
	}
	if r.Stats().Underflows != 2 {
		t.Errorf("underflows = %d, want 2", r.Stats().Underflows)
	}
}

func TestReset(t *testing.T) {
	r := mustNew(t, 4)
	r.WriteFrom([]byte("abcdef"))
	r.Reset()
	if r.BytesUsed() != 0 || !r.IsEmpty() || r.head != 0 || r.tail != 0 {
		t.Fatalf("after Reset: used=%d head=%d tail=%d", r.BytesUsed(), r.head, r.tail)
	}
	if r.buf[0] == 0 {
		t.Error("Reset must not clear storage")
	}
	checkInvariants(t, r)
}

func TestFill(t *testing.T) {
	r := mustNew(t, 8)
	if n := r.Fill('x', 3); n != 3 || string(contents(r)) != "xxx" {
		t.Fatalf("Fill 3: n=%d contents=%q", n, contents(r))
	}
	if n := r.Fill('y', 0); n != 0 {
		t.Fatalf("Fill 0 = %d", n)
	}
	if n := r.Fill('y', -5); n != 0 {
		t.Fatalf("Fill -5 = %d", n)
	}
	// 3 + 7 = 10 > 8: two oldest dropped.
	if n := r.Fill('z', 7); n != 7 {
		t.Fatalf("Fill 7 = %d", n)
	}
	checkInvariants(t, r)
	if got := string(contents(r)); got != "xzzzzzzz" {
		t.Fatalf("contents = %q", got)
	}
	if n := r.Fill('q', 1000); n != r.BufferSize() {
		t.Fatalf("Fill 1000 = %d, want %d", n, r.BufferSize())
	}
	checkInvariants(t, r)
	if !r.IsFull() || string(contents(r)) != "qqqqqqqq" {
		t.Fatalf("after capped fill: full=%v contents=%q", r.IsFull(), contents(r))
	}
	for _, b := range r.buf {
		if b != 'q' {
			t.Fatalf("storage slot not rewritten: %q", r.buf)
		}
	}
}

func TestFindChr(t *testing.T) {
	r := mustNew(t, 6)
	r.WriteFrom([]byte("....")) // move indices towards the end
	r.Discard(4)
	r.WriteFrom([]byte("ab\ncd\n")) // wraps
	checkInvariants(t, r)
	cases := []struct {
		c      byte
		offset int
		want   int
	}{
		{'\n', 0, 2},
		{'\n', 2, 2},
		{'\n', 3, 5},
		{'a', 0, 0},
		{'d', 1, 4},
		{'z', 0, 6},
		{'a', 1, 6},
		{'a', 6, 6},
		{'a', 100, 6},
		{'a', -3, 0},
	}
	for _, tc := range cases {
		if got := r.FindChr(tc.c, tc.offset); got != tc.want {
			t.Errorf("FindChr(%q, %d) = %d, want %d", tc.c, tc.offset, got, tc.want)
		}
	}
	empty := mustNew(t, 4)
	if got := empty.FindChr('a', 0); got != 0 {
		t.Errorf("FindChr on empty = %d", got)
	}
}

func TestFindChrHighByte(t *testing.T) {
	r := mustNew(t, 4)
	r.WriteFrom([]byte{0x01, 0xFF, 0x80})
	if got := r.FindChr(0xFF, 0); got != 1 {
		t.Errorf("FindChr(0xFF) = %d", got)
	}
	if got := r.FindChr(0x80, 0); got != 2 {
		t.Errorf("FindChr(0x80) = %d", got)
	}
}

func TestHeadTailViews(t *testing.T) {
	r := mustNew(t, 8)
	if len(r.Tail()) != 0 || len(r.Head()) != 8 {
		t.Fatalf("empty views: tail=%d head=%d", len(r.Tail()), len(r.Head()))
	}
	r.WriteFrom([]byte("abcdefg"))
	r.Discard(5)
	r.WriteFrom([]byte("hij")) // head wraps to 1
	if got := string(r.Tail()); got != "fghi" {
		t.Fatalf("Tail = %q, want fghi (run to wrap boundary)", got)
	}
	if r.FindChr('i', 0) != 3 {
		t.Fatal("logical order broken across wrap")
	}
	if got := len(r.Head()); got != 3 {
		t.Fatalf("Head len = %d, want 3", got)
	}
	if tv := r.Tail(); cap(tv) != len(tv) {
		t.Error("Tail view must not expose storage past its end")
	}
}

// Scenario: move 3 of 7 bytes between two capacity-8 rings.
func TestTransfer(t *testing.T) {
	src, dst := mustNew(t, 8), mustNew(t, 8)
	src.WriteFrom([]byte("ABCDEFG"))
	if n := dst.Transfer(src, 3); n != 3 {
		t.Fatalf("Transfer = %d, want 3", n)
	}
	checkInvariants(t, src)
	checkInvariants(t, dst)
	if got := string(contents(src)); got != "DEFG" || src.BytesUsed() != 4 {
		t.Fatalf("src = %q", got)
	}
	if got := string(contents(dst)); got != "ABC" || dst.BytesUsed() != 3 {
		t.Fatalf("dst = %q", got)
	}
}

func TestTransferUnderflowAndSelf(t *testing.T) {
	src, dst := mustNew(t, 8), mustNew(t, 8)
	src.WriteFrom([]byte("abc"))
	dst.WriteFrom([]byte("z"))
	if n := dst.Transfer(src, 4); n != 0 {
		t.Fatalf("Transfer underflow = %d", n)
	}
	if string(contents(src)) != "abc" || string(contents(dst)) != "z" {
		t.Fatal("underflowing transfer changed state")
	}
	if n := src.Transfer(src, 1); n != 0 {
		t.Fatalf("self transfer = %d", n)
	}
	if n := dst.Transfer(src, -1); n != 0 {
		t.Fatalf("negative transfer = %d", n)
	}
}

func TestTransferOverflowsDestination(t *testing.T) {
	src, dst := mustNew(t, 10), mustNew(t, 4)
	src.WriteFrom([]byte("0123456789"))
	dst.WriteFrom([]byte("ab"))
	if n := dst.Transfer(src, 7); n != 7 {
		t.Fatalf("Transfer = %d", n)
	}
	checkInvariants(t, dst)
	if !dst.IsFull() || string(contents(dst)) != "3456" {
		t.Fatalf("dst = %q full=%v", contents(dst), dst.IsFull())
	}
	if string(contents(src)) != "789" {
		t.Fatalf("src = %q", contents(src))
	}
	if dst.Stats().Overflowed != 5 {
		t.Errorf("overflowed = %d, want 5", dst.Stats().Overflowed)
	}
}

func TestPeekAndDiscard(t *testing.T) {
	r := mustNew(t, 4)
	r.WriteFrom([]byte("wxyz"))
	p := make([]byte, 2)
	if n := r.Peek(p); n != 2 || string(p) != "wx" || r.BytesUsed() != 4 {
		t.Fatalf("Peek: n=%d p=%q used=%d", n, p, r.BytesUsed())
	}
	if n := r.Peek(make([]byte, 5)); n != 0 {
		t.Fatalf("Peek underflow = %d", n)
	}
	if n := r.Discard(3); n != 3 || string(contents(r)) != "z" {
		t.Fatalf("Discard: n=%d contents=%q", n, contents(r))
	}
	if n := r.Discard(2); n != 0 || r.BytesUsed() != 1 {
		t.Fatalf("Discard underflow: n=%d used=%d", n, r.BytesUsed())
	}
}

func TestZeroCapacity(t *testing.T) {
	r := mustNew(t, 0)
	if !r.IsEmpty() || !r.IsFull() {
		t.Fatal("zero-capacity ring must be both empty and full")
	}
	r.WriteFrom([]byte("abc"))
	checkInvariants(t, r)
	if r.BytesUsed() != 0 {
		t.Fatalf("used = %d", r.BytesUsed())
	}
	if n := r.Fill('a', 10); n != 1 {
		t.Fatalf("Fill = %d, want 1", n)
	}
	checkInvariants(t, r)
}

func TestResetStats(t *testing.T) {
	r := mustNew(t, 2)
	r.WriteFrom([]byte("abc"))
	r.Reset()
	if r.Stats().BytesIn != 3 {
		t.Fatal("Reset must not clear stats")
	}
	r.ResetStats()
	if r.Stats() != (api.RingStats{}) {
		t.Fatalf("stats = %+v", r.Stats())
	}
}
