// Package pool provides bucketed sync.Pool instances for reducing
// allocations in hot paths of the entropy coder: the histogram rebalancer's
// per-call hash key buffer and the LZ77 hash chain's head/prev index
// arrays are both bounded by stream length and window size, making
// size-classed reuse effective across calls.
package pool

import "sync"

// Size classes for bucketed pools.
const (
	Size256B = 256
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
)

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size256B:
		return 0
	case size <= Size1K:
		return 1
	case size <= Size4K:
		return 2
	case size <= Size16K:
		return 3
	case size <= Size64K:
		return 4
	case size <= Size256K:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size256B, Size1K, Size4K, Size16K, Size64K, Size256K, Size1M}

var pools [7]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// Get returns a byte slice of at least the requested size from the pool.
// The returned slice has length == size and may have a larger capacity.
// The caller must call Put when done.
func Get(size int) []byte {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put returns a byte slice to the pool. The slice must have been obtained
// from Get. Slices smaller than Size256B are not pooled.
func Put(b []byte) {
	c := cap(b)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	pools[idx].Put(&b)
}

// int32Pools mirrors the byte pool's size classes but for []int32, used by
// the LZ77 hash chain's head/prev index arrays -- built and discarded once
// per pre-pass call, and bounded by WindowSize, making them a good fit for
// the same size-classed reuse the byte pool provides.
var int32Pools [7]sync.Pool

func init() {
	for i := range int32Pools {
		n := sizes[i] / 4
		int32Pools[i] = sync.Pool{
			New: func() any {
				s := make([]int32, n)
				return &s
			},
		}
	}
}

// GetInt32 returns an int32 slice of length exactly n, its contents
// unspecified (callers that need a clean slate, such as a fresh hash
// table, must initialize it themselves). The caller should call PutInt32
// when done.
func GetInt32(n int) []int32 {
	idx := bucketIndex(n * 4)
	sp := int32Pools[idx].Get().(*[]int32)
	s := *sp
	if cap(s) < n {
		s = make([]int32, n)
		*sp = s
		return s
	}
	return s[:n]
}

// PutInt32 returns an int32 slice obtained from GetInt32 to the pool.
func PutInt32(s []int32) {
	c := cap(s)
	if c*4 < Size256B {
		return
	}
	idx := bucketIndex(c * 4)
	s = s[:c]
	int32Pools[idx].Put(&s)
}
