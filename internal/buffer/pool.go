package buffer

import "sync"

// Pooled byte slices backing owning Readers and per-peer batch writers,
// bucketed to the two ceilings the messaging core actually uses
// (non-fragmented and fragmented). Anything outside those two sizes
// falls back to a plain allocation — unlike a generic allocator, this
// pool only needs to serve the handful of sizes the wire format permits.
//
// Uses *[]byte pattern to avoid sync.Pool interface allocation overhead.

const (
	// SmallBucketBytes matches the non-fragmented batch ceiling.
	SmallBucketBytes = 1300
	// LargeBucketBytes matches the reliable-fragmented-sequenced ceiling.
	LargeBucketBytes = 64000
)

var globalPool = struct {
	small sync.Pool
	large sync.Pool
}{
	small: sync.Pool{New: func() any { b := make([]byte, SmallBucketBytes); return &b }},
	large: sync.Pool{New: func() any { b := make([]byte, LargeBucketBytes); return &b }},
}

// Get returns a pooled buffer of at least the requested size. Caller
// must call Put when done. Sizes outside the two known buckets are
// allocated fresh and never pooled.
func Get(size int) []byte {
	switch {
	case size <= SmallBucketBytes:
		b := (*globalPool.small.Get().(*[]byte))[:size]
		return b
	case size <= LargeBucketBytes:
		b := (*globalPool.large.Get().(*[]byte))[:size]
		return b
	default:
		return make([]byte, size)
	}
}

// Put returns a buffer to the pool. The buffer's capacity determines
// which bucket it goes back to; non-bucket capacities are simply
// dropped for the GC to reclaim.
func Put(buf []byte) {
	c := cap(buf)
	buf = buf[:c]
	switch c {
	case SmallBucketBytes:
		globalPool.small.Put(&buf)
	case LargeBucketBytes:
		globalPool.large.Put(&buf)
	}
}
