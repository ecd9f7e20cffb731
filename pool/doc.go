// Package pool
// Author: momentics <momentics@gmail.com>
//
// Public byte ring constructors and storage recycling.
// BufferRing wraps the internal ring with descriptor helpers; RingPool hands
// out rings of a fixed capacity and takes their storage back on Free.
// See buffer_ring.go and ring.go for implementation details.
package pool
