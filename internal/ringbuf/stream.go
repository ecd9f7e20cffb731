// File: internal/ringbuf/stream.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-call stream transfers. One Read or Write is handed one contiguous
// range of storage, so a request that would cross the wrap boundary is cut
// short at the boundary; callers loop for the rest.

package ringbuf

import (
	"errors"
	"io"

	"github.com/momentics/hioload-ringbuf/api"
)

var errInvalidCount = errors.New("ringbuf: stream returned invalid count")

// ReadFromStream calls rd.Read exactly once with the ring's storage at the
// head as destination, asking for at most min(count, run to wrap boundary)
// bytes. Bytes obtained advance the head, overflowing like WriteFrom. The
// stream error is returned unmodified; when no bytes arrive the ring is
// left untouched. End of stream is reported as io.EOF by the reader.
func (r *RingBuffer) ReadFromStream(rd io.Reader, count int) (int, error) {
	if count < 0 {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "negative stream read count").
			WithContext("count", count)
	}
	free := r.BytesFree()
	end := r.head + min(count, len(r.buf)-r.head)
	n, err := rd.Read(r.buf[r.head:end])
	if n < 0 || n > end-r.head {
		r.stats.StreamErrors++
		return 0, errInvalidCount
	}
	if n > 0 {
		r.head = r.next(r.head, n)
		r.commitWrite(n, free)
	}
	if err != nil && err != io.EOF {
		r.stats.StreamErrors++
	}
	return n, err
}

// WriteToStream calls w.Write exactly once with the unread bytes at the tail,
// at most min(count, run to wrap boundary) of them. If count exceeds
// BytesUsed() the stream is not called and 0 is returned. The tail advances
// by the count the writer reports.
func (r *RingBuffer) WriteToStream(w io.Writer, count int) (int, error) {
	if count < 0 {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "negative stream write count").
			WithContext("count", count)
	}
	if count > r.BytesUsed() {
		r.stats.Underflows++
		return 0, nil
	}
	end := r.tail + min(count, len(r.buf)-r.tail)
	n, err := w.Write(r.buf[r.tail:end])
	if n < 0 || n > end-r.tail {
		r.stats.StreamErrors++
		return 0, errInvalidCount
	}
	if n > 0 {
		r.consume(n)
	}
	if err != nil {
		r.stats.StreamErrors++
	}
	return n, err
}
