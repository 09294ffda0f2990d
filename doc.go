// Package vector implements a contiguous, growable sequence container
// built on an explicitly managed raw storage block.
//
// # Overview
//
// The package separates two concerns that Go slices fuse together:
// reserved memory and live values. A Slab owns a block sized for
// exactly N elements and hands out slot addresses without any notion
// of which slots hold values. A Vector owns one Slab plus a logical
// length and carries all lifetime logic: in-place construction and
// teardown, amortized doubling growth, and transactional relocation
// when storage is replaced. This split is useful when element
// lifetimes matter:
//
//   - Elements that own external resources and need explicit teardown
//   - Elements that must be deep-copied rather than aliased
//   - Elements that must observe address changes on reallocation
//   - Verifying construction/teardown balance in tests
//
// # Basic Usage
//
//	v := vector.New[int]()
//	defer v.Release() // Always clean up
//
//	v.PushBack(1)
//	v.PushBack(2)
//	v.Insert(1, 99) // [1 99 2]
//	v.Erase(0)      // [99 2]
//
//	for i, p := range v.All() {
//		fmt.Println(i, *p)
//	}
//
// # Element Lifecycle Hooks
//
// Types with non-trivial lifetimes supply Ops hooks:
//
//	v := vector.NewOps(vector.Ops[*os.File]{
//		Drop: func(f **os.File) { (*f).Close() },
//	})
//
// Every hook may fail, and every operation that runs hooks reports
// the failure to the caller with the vector restored: elements
// constructed during the failed operation are torn down, never
// leaked, never torn down twice. Operations that run no fallible hook
// (PopBack, Erase, MoveFrom, Swap) cannot fail.
//
// # Growth and Relocation
//
// Capacity doubles (minimum 1) whenever an insertion finds the vector
// full, so N appends cost O(N) relocation work in total. Relocation
// transfers elements by move when that cannot fail (no Relocate hook)
// or when the type offers no Clone to fall back on; otherwise it
// clones, so a failure partway through leaves the original block
// fully intact.
//
// # Invalidation
//
// Any operation that may reallocate or shift elements (Reserve,
// growth-triggering insertion, Emplace, Erase, Resize) invalidates
// every address previously returned by At or All. Do not hold element
// pointers across such calls.
//
// # Error Handling
//
// Recoverable failures (hook errors, unrepresentable capacity
// requests) are returned to the caller; nothing is logged, retried,
// or swallowed. Out-of-range indexes are contract violations and
// panic, as is any mutation or element access after Release; the
// read-only queries (Len, Cap, Metrics and friends) stay usable on a
// released vector and report it empty. Go's allocator does not report
// out-of-memory recoverably, so ErrCapacity covers only requests that
// cannot be represented; a true OOM remains a runtime abort.
//
// # Thread Safety
//
// A Vector is not goroutine-safe and has no internal locking.
// Callers needing concurrent access must serialize externally.
//
// # Metrics
//
// Metrics() returns a snapshot of storage and lifecycle statistics:
//
//	m := v.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Live: %d of %d slots\n", m.Len, m.Cap)
//
// The Constructed/Dropped counters make leak checks in tests a one-
// line assertion: after Release, the two are equal.
package vector
