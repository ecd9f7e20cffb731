// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Recycling pool for byte ring storage. Freed regions go to a bounded FIFO
// idle list and are handed to the next Get. Safe for concurrent use; the
// rings themselves are not.

package pool

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-ringbuf/api"
	"github.com/momentics/hioload-ringbuf/internal/ringbuf"
)

// RingPool recycles storage for rings of one fixed capacity.
type RingPool struct {
	mu       sync.Mutex
	capacity int
	maxIdle  int
	idle     *queue.Queue // of []byte, len capacity+1
	closed   bool
	stats    api.RingPoolStats
}

// NewRingPool creates a pool of rings with `capacity` usable bytes, keeping
// at most maxIdle freed regions around. maxIdle <= 0 disables retention.
func NewRingPool(capacity, maxIdle int) (*RingPool, error) {
	if capacity < 0 || capacity > ringbuf.MaxCapacity {
		return nil, api.NewError(api.ErrCodeAllocation, "ring pool capacity out of range").
			WithContext("capacity", capacity)
	}
	return &RingPool{
		capacity: capacity,
		maxIdle:  maxIdle,
		idle:     queue.New(),
	}, nil
}

// Capacity returns the usable capacity of pooled rings.
func (p *RingPool) Capacity() int { return p.capacity }

// Get returns an empty ring, reusing idle storage when available.
func (p *RingPool) Get() (*BufferRing, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, api.ErrPoolClosed
	}
	var storage []byte
	if p.idle.Length() > 0 {
		storage = p.idle.Remove().([]byte)
		p.stats.TotalReuse++
		p.stats.Idle--
	}
	p.stats.InUse++
	p.mu.Unlock()

	if storage == nil {
		var err error
		if storage, err = ringbuf.AllocStorage(p.capacity); err != nil {
			p.mu.Lock()
			p.stats.InUse--
			p.mu.Unlock()
			return nil, err
		}
		p.mu.Lock()
		p.stats.TotalAlloc++
		p.mu.Unlock()
	}
	r, err := ringbuf.NewWithStorage(storage, p.put)
	if err != nil {
		return nil, err
	}
	return &BufferRing{RingBuffer: r}, nil
}

// put takes a region back from a freed ring.
func (p *RingPool) put(storage []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.InUse--
	p.stats.TotalFree++
	if p.closed || p.idle.Length() >= p.maxIdle || len(storage) != p.capacity+1 {
		return
	}
	p.idle.Add(storage)
	p.stats.Idle++
}

// Stats returns a snapshot of pool counters.
func (p *RingPool) Stats() api.RingPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close drops idle storage. Rings already handed out stay usable and may
// still be freed.
func (p *RingPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for p.idle.Length() > 0 {
		p.idle.Remove()
	}
	p.stats.Idle = 0
}

var _ api.RingPool[*BufferRing] = (*RingPool)(nil)
