// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Pooling contract for byte rings of one fixed capacity.

package api

// RingPool hands out rings whose storage is recycled when they are freed.
type RingPool[R ByteRing] interface {
	// Get returns an empty ring. Calling Free on it returns its storage.
	Get() (R, error)

	// Capacity is the usable capacity of every ring from this pool.
	Capacity() int

	// Stats exposes resource/accounting metrics for observability.
	Stats() RingPoolStats

	// Close drops idle storage; later Get calls fail with ErrPoolClosed.
	Close()
}

// RingPoolStats aggregates storage allocation/reuse stats.
type RingPoolStats struct {
	TotalAlloc int64 // regions allocated fresh
	TotalReuse int64 // Get calls served from the idle list
	TotalFree  int64 // regions returned by Free
	InUse      int64
	Idle       int64
}
