package vector

import (
	"errors"
	"math"
	"unsafe"
)

// ErrCapacity reports a storage request that cannot be represented:
// a negative slot count, or one whose total byte size overflows int.
var ErrCapacity = errors.New("vector: capacity out of range")

// Slab is a block of memory reserved for a fixed number of T slots.
// It hands out slot addresses and transfers ownership, nothing more:
// it never constructs, destroys, or reads the values occupying its
// slots. Lifetime bookkeeping belongs to the owner.
//
// A slab has exactly one owner at a time. Transfer ownership with
// Swap; copying a Slab value would alias the block and must not be
// done.
type Slab[T any] struct {
	ptr unsafe.Pointer // start of the block, nil when cap == 0
	cap int            // number of T slots reserved
}

// NewSlab reserves space for exactly n elements of T. The slots are
// reserved, not initialized. n == 0 reserves nothing.
func NewSlab[T any](n int) (Slab[T], error) {
	if n == 0 {
		return Slab[T]{}, nil
	}
	size := sizeOf[T]()
	if n < 0 || size > 0 && n > math.MaxInt/int(size) {
		return Slab[T]{}, ErrCapacity
	}
	// A typed block keeps pointers inside the slots visible to the
	// garbage collector. Slot addressing still goes through unsafe
	// arithmetic so it carries no bounds checks.
	block := make([]T, n)
	return Slab[T]{ptr: unsafe.Pointer(&block[0]), cap: n}, nil
}

// Cap returns the number of T slots reserved.
func (s *Slab[T]) Cap() int {
	return s.cap
}

// At returns the address of slot i without bounds checking.
// Valid for i in [0, Cap()). The slab does not know whether the slot
// holds a live value; the caller does.
func (s *Slab[T]) At(i int) *T {
	return (*T)(unsafe.Add(s.ptr, uintptr(i)*sizeOf[T]()))
}

// Swap exchanges blocks with other, transferring ownership both ways.
func (s *Slab[T]) Swap(other *Slab[T]) {
	s.ptr, other.ptr = other.ptr, s.ptr
	s.cap, other.cap = other.cap, s.cap
}

// Release returns the block to the runtime. The owner must tear down
// any live values first; Release never runs element teardown. Safe to
// call on a zero or moved-from slab.
func (s *Slab[T]) Release() {
	s.ptr = nil
	s.cap = 0
}

func sizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}
