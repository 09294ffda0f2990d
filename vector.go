package vector

import (
	"iter"
	"unsafe"
)

// Vector is a contiguous, growable sequence of T built on a Slab.
// Slots [0, Len()) hold live values; slots [Len(), Cap()) are
// reserved, uninitialized memory. Element addresses are stable only
// until the next call that may reallocate or shift elements.
//
// A Vector is not goroutine-safe. Callers needing concurrent access
// must serialize externally.
type Vector[T any] struct {
	slab Slab[T]
	size int
	ops  Ops[T]

	released bool
	stats    counters
}

// New returns an empty vector for plain value types.
// The zero Vector value is equally usable.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// NewOps returns an empty vector whose elements are managed by ops.
func NewOps[T any](ops Ops[T]) *Vector[T] {
	return &Vector[T]{ops: ops}
}

// NewSize returns a vector holding n default-constructed elements,
// with capacity exactly n.
func NewSize[T any](n int) (*Vector[T], error) {
	return NewSizeOps(n, Ops[T]{})
}

// NewSizeOps is NewSize with element lifecycle hooks. If a default
// construction fails partway, the elements built so far are torn down
// before the error is returned.
func NewSizeOps[T any](n int, ops Ops[T]) (*Vector[T], error) {
	v := &Vector[T]{ops: ops}
	slab, err := v.newSlab(n)
	if err != nil {
		return nil, err
	}
	v.slab = slab
	for i := 0; i < n; i++ {
		x, err := v.ops.make()
		if err != nil {
			v.destroySlots(&v.slab, 0, i)
			v.freeSlab(&v.slab)
			return nil, err
		}
		*v.slab.At(i) = x
		v.stats.constructed++
	}
	v.size = n
	return v, nil
}

// Len returns the number of live elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// Cap returns the number of slots reserved.
func (v *Vector[T]) Cap() int {
	return v.slab.Cap()
}

// At returns the address of element i. The address is valid only
// until the next call that may reallocate or shift elements.
// Panics if i is out of range.
func (v *Vector[T]) At(i int) *T {
	v.panicIfReleased()
	if i < 0 || i >= v.size {
		panic("vector: index out of range")
	}
	return v.slab.At(i)
}

// All iterates over the live elements in index order. The yielded
// addresses obey the same invalidation rule as At; the vector must
// not be mutated during iteration.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		v.panicIfReleased()
		for i := 0; i < v.size; i++ {
			if !yield(i, v.slab.At(i)) {
				return
			}
		}
	}
}

// Clone returns an independent copy with capacity equal to Len().
// Mutating the copy never affects the source. If cloning an element
// fails, copies built so far are torn down and the source is left
// untouched.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	v.panicIfReleased()
	out := &Vector[T]{ops: v.ops}
	slab, err := out.newSlab(v.size)
	if err != nil {
		return nil, err
	}
	out.slab = slab
	for i := 0; i < v.size; i++ {
		x, err := v.ops.clone(*v.slab.At(i))
		if err != nil {
			out.destroySlots(&out.slab, 0, i)
			out.freeSlab(&out.slab)
			return nil, err
		}
		*out.slab.At(i) = x
		out.stats.constructed++
	}
	out.size = v.size
	return out, nil
}

// CopyFrom replaces the receiver's contents with a copy of src.
//
// When src does not fit in the current capacity, a full copy is built
// first and swapped in, so a failure leaves the receiver untouched.
// Otherwise elements are copied over the overlapping prefix in place,
// excess receiver elements are torn down if src is shorter, and the
// extra elements are clone-constructed in reserved slots if src is
// longer; a Clone failure on this path leaves the receiver valid but
// with the prefix already overwritten.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	v.panicIfReleased()
	src.panicIfReleased()
	if v == src {
		return nil
	}
	if src.size > v.slab.Cap() {
		tmp, err := src.Clone()
		if err != nil {
			return err
		}
		// Adopt the copy's block; the receiver keeps its own hooks and
		// records this operation's lifecycle events in its own history,
		// same as the prefix-overwrite path below.
		v.destroySlots(&v.slab, 0, v.size)
		v.freeSlab(&v.slab)
		v.slab.Swap(&tmp.slab)
		v.size, tmp.size = tmp.size, 0
		v.stats.constructed += tmp.stats.constructed
		v.stats.blockAllocs += tmp.stats.blockAllocs
		return nil
	}
	n := min(v.size, src.size)
	for i := 0; i < n; i++ {
		x, err := v.ops.clone(*src.slab.At(i))
		if err != nil {
			return err
		}
		if v.ops.Drop != nil {
			v.ops.drop(v.slab.At(i))
			v.stats.dropped++
			v.stats.constructed++
		}
		*v.slab.At(i) = x
	}
	switch {
	case src.size < v.size:
		v.destroySlots(&v.slab, src.size, v.size)
	case src.size > v.size:
		for i := v.size; i < src.size; i++ {
			x, err := v.ops.clone(*src.slab.At(i))
			if err != nil {
				v.destroySlots(&v.slab, v.size, i)
				return err
			}
			*v.slab.At(i) = x
			v.stats.constructed++
		}
	}
	v.size = src.size
	return nil
}

// MoveFrom takes src's storage and length in O(1) by swapping with
// the receiver. The receiver's previous contents end up in src and
// die when src is released.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	v.panicIfReleased()
	src.panicIfReleased()
	if v != src {
		v.Swap(src)
	}
}

// Swap exchanges contents, hooks, and metrics with other in O(1).
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.panicIfReleased()
	other.panicIfReleased()
	v.slab.Swap(&other.slab)
	v.size, other.size = other.size, v.size
	v.ops, other.ops = other.ops, v.ops
	v.stats, other.stats = other.stats, v.stats
}

// Reserve grows capacity to exactly n slots, relocating the live
// elements into the new block. A no-op when n does not exceed the
// current capacity. On failure the vector keeps its length and loses
// no element; with a clone-relocating type the original block is left
// fully intact.
func (v *Vector[T]) Reserve(n int) error {
	v.panicIfReleased()
	if n <= v.slab.Cap() {
		return nil
	}
	return v.reallocate(n, -1, nil)
}

// Resize sets the length to n: shrinking tears down the trailing
// elements, growing reserves and default-constructs the new ones.
// If a default construction fails, the elements built by this call
// are torn down and the length is unchanged (capacity may have
// grown).
func (v *Vector[T]) Resize(n int) error {
	v.panicIfReleased()
	if n < 0 {
		return ErrCapacity
	}
	switch {
	case n < v.size:
		v.destroySlots(&v.slab, n, v.size)
	case n > v.size:
		if err := v.Reserve(n); err != nil {
			return err
		}
		for i := v.size; i < n; i++ {
			x, err := v.ops.make()
			if err != nil {
				v.destroySlots(&v.slab, v.size, i)
				return err
			}
			*v.slab.At(i) = x
			v.stats.constructed++
		}
	}
	v.size = n
	return nil
}

// PushBack appends x, taking ownership of it.
func (v *Vector[T]) PushBack(x T) error {
	_, err := v.EmplaceBack(func() (T, error) { return x, nil })
	return err
}

// PushBackCopy appends an independent copy of x made with the Clone
// hook.
func (v *Vector[T]) PushBackCopy(x T) error {
	_, err := v.EmplaceBack(func() (T, error) { return v.ops.clone(x) })
	return err
}

// EmplaceBack appends the element produced by construct and returns
// its address. When the vector is full, capacity doubles (minimum 1)
// and the new element is constructed in the new block before any
// existing element is relocated; a failure at any step tears down
// whatever this call built and leaves the vector unchanged.
func (v *Vector[T]) EmplaceBack(construct func() (T, error)) (*T, error) {
	v.panicIfReleased()
	if v.size == v.slab.Cap() {
		if err := v.reallocate(grownCap(v.size), v.size, construct); err != nil {
			return nil, err
		}
	} else {
		x, err := construct()
		if err != nil {
			return nil, err
		}
		*v.slab.At(v.size) = x
		v.stats.constructed++
	}
	v.size++
	return v.slab.At(v.size - 1), nil
}

// PopBack tears down the last element. A no-op on an empty vector.
func (v *Vector[T]) PopBack() {
	v.panicIfReleased()
	if v.size == 0 {
		return
	}
	v.size--
	v.ops.drop(v.slab.At(v.size))
	v.stats.dropped++
}

// Emplace inserts the element produced by construct at index i,
// shifting later elements one slot right, and returns its address.
// Panics unless 0 <= i < Len().
//
// With spare capacity the value is constructed before any element
// moves, and same-block shifts are bitwise, so a construction failure
// leaves the vector unchanged. The reallocating path behaves like
// EmplaceBack's.
func (v *Vector[T]) Emplace(i int, construct func() (T, error)) (*T, error) {
	v.panicIfReleased()
	if i < 0 || i >= v.size {
		panic("vector: position out of range")
	}
	if v.size == v.slab.Cap() {
		if err := v.reallocate(grownCap(v.size), i, construct); err != nil {
			return nil, err
		}
	} else {
		x, err := construct()
		if err != nil {
			return nil, err
		}
		n := v.size - i
		copy(unsafe.Slice(v.slab.At(i+1), n), unsafe.Slice(v.slab.At(i), n))
		*v.slab.At(i) = x
		v.stats.constructed++
	}
	v.size++
	return v.slab.At(i), nil
}

// Insert inserts x at index i, taking ownership of it.
// Panics unless 0 <= i < Len().
func (v *Vector[T]) Insert(i int, x T) error {
	_, err := v.Emplace(i, func() (T, error) { return x, nil })
	return err
}

// InsertCopy inserts an independent copy of x at index i.
// Panics unless 0 <= i < Len().
func (v *Vector[T]) InsertCopy(i int, x T) error {
	_, err := v.Emplace(i, func() (T, error) { return v.ops.clone(x) })
	return err
}

// Erase removes the element at index i, shifting later elements one
// slot left. Panics unless 0 <= i < Len().
func (v *Vector[T]) Erase(i int) {
	v.panicIfReleased()
	if i < 0 || i >= v.size {
		panic("vector: position out of range")
	}
	v.ops.drop(v.slab.At(i))
	v.stats.dropped++
	if n := v.size - i - 1; n > 0 {
		copy(unsafe.Slice(v.slab.At(i), n), unsafe.Slice(v.slab.At(i+1), n))
	}
	v.size--
	// The vacated trailing slot holds stale bits of the last element.
	var zero T
	*v.slab.At(v.size) = zero
}

// Release tears down every live element in index order and returns
// the storage to the runtime. Any further mutation or element access
// panics; Len, Cap, and the metrics accessors keep working and report
// an empty vector. Calling Release again is a no-op.
func (v *Vector[T]) Release() {
	if v.released {
		return
	}
	v.destroySlots(&v.slab, 0, v.size)
	v.size = 0
	v.freeSlab(&v.slab)
	v.released = true
}

// reallocate moves the live range into a fresh block of newCap slots.
// When hole >= 0, one slot at index hole is left for a new element,
// which construct fills before any existing element is relocated, so
// a relocation failure can tear the new element down cleanly while
// the old block still holds the originals.
func (v *Vector[T]) reallocate(newCap, hole int, construct func() (T, error)) error {
	dst, err := v.newSlab(newCap)
	if err != nil {
		return err
	}
	if hole >= 0 {
		x, err := construct()
		if err != nil {
			v.freeSlab(&dst)
			return err
		}
		*dst.At(hole) = x
		v.stats.constructed++

		done, err := v.relocateInto(&dst, 0, hole, 0)
		if err != nil {
			v.destroySlots(&dst, 0, done)
			v.ops.drop(dst.At(hole))
			v.stats.dropped++
			v.freeSlab(&dst)
			return err
		}
		done, err = v.relocateInto(&dst, hole, v.size, hole+1)
		if err != nil {
			v.destroySlots(&dst, 0, hole+1+done)
			v.freeSlab(&dst)
			return err
		}
	} else {
		done, err := v.relocateInto(&dst, 0, v.size, 0)
		if err != nil {
			v.destroySlots(&dst, 0, done)
			v.freeSlab(&dst)
			return err
		}
	}
	// Moved-by-hook and cloned originals still need teardown; bitwise
	// relocation already emptied the old block of live values.
	if v.ops.Relocate != nil {
		v.destroySlots(&v.slab, 0, v.size)
	}
	v.slab.Swap(&dst)
	v.freeSlab(&dst)
	v.stats.grows++
	return nil
}

// relocateInto transfers the elements in slots [srcFrom, srcTo) of
// the current block to slots starting at dstFrom in dst, using the
// strategy the element type's hooks allow. Returns how many elements
// landed in dst before an error; the caller unwinds those.
func (v *Vector[T]) relocateInto(dst *Slab[T], srcFrom, srcTo, dstFrom int) (int, error) {
	n := srcTo - srcFrom
	if n == 0 {
		return 0, nil
	}
	if v.ops.Relocate == nil {
		// Bitwise transfer, cannot fail. The source slots become
		// dead bits with no teardown owed.
		copy(unsafe.Slice(dst.At(dstFrom), n), unsafe.Slice(v.slab.At(srcFrom), n))
		v.stats.relocated += uint64(n)
		return n, nil
	}
	if v.ops.moveRelocatable() {
		for i := 0; i < n; i++ {
			x, err := v.ops.Relocate(v.slab.At(srcFrom + i))
			if err != nil {
				return i, err
			}
			*dst.At(dstFrom+i) = x
			v.stats.relocated++
			v.stats.constructed++
		}
		return n, nil
	}
	// A fallible move would gut already-moved sources, so clone:
	// any failure leaves the original block fully intact.
	for i := 0; i < n; i++ {
		x, err := v.ops.Clone(*v.slab.At(srcFrom + i))
		if err != nil {
			return i, err
		}
		*dst.At(dstFrom+i) = x
		v.stats.relocated++
		v.stats.constructed++
	}
	return n, nil
}

// destroySlots tears down the live values in slots [from, to) of s.
func (v *Vector[T]) destroySlots(s *Slab[T], from, to int) {
	for i := from; i < to; i++ {
		v.ops.drop(s.At(i))
		v.stats.dropped++
	}
}

func (v *Vector[T]) newSlab(n int) (Slab[T], error) {
	s, err := NewSlab[T](n)
	if err == nil && s.Cap() > 0 {
		v.stats.blockAllocs++
	}
	return s, err
}

func (v *Vector[T]) freeSlab(s *Slab[T]) {
	if s.Cap() > 0 {
		v.stats.blockFrees++
	}
	s.Release()
}

func (v *Vector[T]) panicIfReleased() {
	if v.released {
		panic("vector: use after Release()")
	}
}

func grownCap(size int) int {
	if size == 0 {
		return 1
	}
	return size * 2
}
