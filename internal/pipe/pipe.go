// File: internal/pipe/pipe.go
// Package pipe stages a byte stream through a ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The pump alternates single-call reads into the ring with single-call
// writes out of it. Reads only ask for free space, so nothing is ever
// dropped by overflow.

package pipe

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ringbuf/api"
	"github.com/momentics/hioload-ringbuf/internal/ringbuf"
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// Pump copies from a reader to a writer through one ring.
type Pump struct {
	ring   *ringbuf.RingBuffer
	chunk  int
	logger *zap.Logger
}

// New creates a pump over ring moving at most chunk bytes per call.
// chunk <= 0 means the ring's capacity. A nil logger disables logging.
func New(ring *ringbuf.RingBuffer, chunk int, logger *zap.Logger) *Pump {
	if chunk <= 0 || chunk > ring.Capacity() {
		chunk = ring.Capacity()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pump{ring: ring, chunk: chunk, logger: logger}
}

// Run copies src to dst until src reports io.EOF and the ring is drained.
// It returns the number of bytes written to dst. Stream errors are returned
// as-is; ctx is checked between calls.
func (p *Pump) Run(ctx context.Context, src io.Reader, dst io.Writer) (int64, error) {
	if p.chunk <= 0 {
		return 0, api.NewError(api.ErrCodeInvalidArgument, "pipe ring has no capacity")
	}
	var (
		total int64
		eof   bool
		empty int
	)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if !eof && p.ring.BytesFree() > 0 {
			n, err := p.ring.ReadFromStream(src, min(p.chunk, p.ring.BytesFree()))
			switch {
			case err == io.EOF:
				eof = true
				p.logger.Debug("end of input", zap.Int("buffered", p.ring.BytesUsed()))
			case err != nil:
				p.logger.Error("read failed", zap.Error(err))
				return total, err
			case n == 0:
				if empty++; empty >= maxEmptyReads {
					return total, io.ErrNoProgress
				}
			default:
				empty = 0
				p.logger.Debug("read", zap.Int("bytes", n), zap.Int("used", p.ring.BytesUsed()))
			}
		}
		if used := p.ring.BytesUsed(); used > 0 {
			n, err := p.ring.WriteToStream(dst, min(p.chunk, used))
			total += int64(n)
			if err != nil {
				p.logger.Error("write failed", zap.Error(err), zap.Int64("written", total))
				return total, err
			}
			if n == 0 {
				return total, io.ErrShortWrite
			}
			p.logger.Debug("write", zap.Int("bytes", n), zap.Int("used", p.ring.BytesUsed()))
		}
		if eof && p.ring.IsEmpty() {
			p.logger.Debug("pipe drained", zap.Int64("bytes", total))
			return total, nil
		}
	}
}

// IsClosedPipe reports whether err means the consumer went away.
func IsClosedPipe(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) || isBrokenPipe(err)
}
