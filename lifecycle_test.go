package vector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// hookLog counts lifecycle hook calls and injects a failure at a
// given 1-based call number (0 = never fail).
type hookLog struct {
	makes, clones, relocates, drops int
	failMakeAt, failCloneAt         int
	failRelocateAt                  int
}

func (h *hookLog) ops() Ops[int] {
	return Ops[int]{
		Make: func() (int, error) {
			h.makes++
			if h.makes == h.failMakeAt {
				return 0, errBoom
			}
			return 0, nil
		},
		Clone: func(x int) (int, error) {
			h.clones++
			if h.clones == h.failCloneAt {
				return 0, errBoom
			}
			return x, nil
		},
		Relocate: func(p *int) (int, error) {
			h.relocates++
			if h.relocates == h.failRelocateAt {
				return 0, errBoom
			}
			x := *p
			*p = 0
			return x, nil
		},
		Drop: func(*int) { h.drops++ },
	}
}

// moveOnlyOps omits Clone, forcing relocation through the fallible
// Relocate hook.
func (h *hookLog) moveOnlyOps() Ops[int] {
	o := h.ops()
	o.Clone = nil
	return o
}

func requireBalanced[T any](t *testing.T, v *Vector[T]) {
	t.Helper()
	m := v.Metrics()
	require.Equal(t, uint64(v.Len()), m.Constructed-m.Dropped,
		"constructed minus dropped must equal the live count")
}

func TestEmplaceBackConstructionFailureDuringGrowth(t *testing.T) {
	v := New[int]()
	defer v.Release()
	require.NoError(t, v.PushBack(1))
	require.NoError(t, v.PushBack(2))
	require.Equal(t, 2, v.Cap())

	_, err := v.EmplaceBack(func() (int, error) { return 0, errBoom })
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 2, v.Len(), "size restored after failed growth")
	assert.Equal(t, 2, v.Cap(), "capacity restored after failed growth")
	assert.Equal(t, []int{1, 2}, collect(v))
	requireBalanced(t, v)
}

func TestCloneRelocationFailureLeavesOriginalIntact(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.ops())
	defer v.Release()
	require.NoError(t, v.Reserve(4))
	for _, x := range []int{1, 2, 3, 4} {
		require.NoError(t, v.PushBack(x))
	}
	require.Equal(t, 0, h.clones, "filling reserved slots must not clone")

	// With both Clone and a fallible Relocate, relocation clones so a
	// failure cannot damage the source block.
	h.failCloneAt = h.clones + 1
	err := v.PushBack(5)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 4, v.Cap())
	assert.Equal(t, []int{1, 2, 3, 4}, collect(v), "original block untouched")
	assert.Equal(t, 0, h.relocates, "clone strategy never calls Relocate")
	requireBalanced(t, v)
}

func TestRelocateHookDrivesGrowth(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.moveOnlyOps())
	defer v.Release()

	require.NoError(t, v.PushBack(1)) // cap 0 -> 1
	require.NoError(t, v.PushBack(2)) // cap 1 -> 2, relocates 1
	require.NoError(t, v.PushBack(3)) // cap 2 -> 4, relocates 2

	assert.Equal(t, 3, h.relocates)
	assert.Equal(t, []int{1, 2, 3}, collect(v))
	requireBalanced(t, v)
}

func TestRelocateHookFailureDoesNotLeak(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.moveOnlyOps())
	require.NoError(t, v.Reserve(2))
	require.NoError(t, v.PushBack(1))
	require.NoError(t, v.PushBack(2))

	h.failRelocateAt = h.relocates + 2
	err := v.PushBack(3)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 2, v.Cap())
	requireBalanced(t, v)

	v.Release()
	m := v.Metrics()
	assert.Equal(t, m.Constructed, m.Dropped, "every construction torn down exactly once")
	assert.Equal(t, m.BlockAllocs, m.BlockFrees, "every block returned")
}

func TestEmplaceReallocationFailureRestoresVector(t *testing.T) {
	fullVector := func(h *hookLog) *Vector[int] {
		v := NewOps(h.ops())
		require.NoError(t, v.Reserve(4))
		for _, x := range []int{1, 2, 3, 4} {
			require.NoError(t, v.PushBack(x))
		}
		return v
	}

	t.Run("prefix relocation fails", func(t *testing.T) {
		h := &hookLog{}
		v := fullVector(h)
		defer v.Release()

		h.failCloneAt = h.clones + 1
		_, err := v.Emplace(2, func() (int, error) { return 99, nil })
		require.ErrorIs(t, err, errBoom)

		assert.Equal(t, 4, v.Len())
		assert.Equal(t, 4, v.Cap())
		assert.Equal(t, []int{1, 2, 3, 4}, collect(v), "original block untouched")
		assert.Equal(t, 1, h.drops, "only the new element needed teardown")
		requireBalanced(t, v)
	})

	t.Run("suffix relocation fails", func(t *testing.T) {
		h := &hookLog{}
		v := fullVector(h)
		defer v.Release()

		// Slot 0 relocates ahead of the hole, slots 1..3 behind it;
		// failing on the second of those must unwind the prefix copy,
		// the new element, and the one suffix copy already built.
		h.failCloneAt = h.clones + 3
		_, err := v.Emplace(1, func() (int, error) { return 99, nil })
		require.ErrorIs(t, err, errBoom)

		assert.Equal(t, 4, v.Len())
		assert.Equal(t, 4, v.Cap())
		assert.Equal(t, []int{1, 2, 3, 4}, collect(v), "original block untouched")
		assert.Equal(t, 3, h.drops)
		requireBalanced(t, v)
	})
}

func TestEmplaceConstructionFailureInPlace(t *testing.T) {
	v := New[int]()
	defer v.Release()
	require.NoError(t, v.Reserve(8))
	for _, x := range []int{1, 2, 3} {
		require.NoError(t, v.PushBack(x))
	}

	_, err := v.Emplace(1, func() (int, error) { return 0, errBoom })
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 8, v.Cap())
	assert.Equal(t, []int{1, 2, 3}, collect(v), "no element shifts before construction succeeds")
	requireBalanced(t, v)
}

func TestResizeConstructionFailureKeepsLength(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.ops())
	defer v.Release()
	require.NoError(t, v.PushBack(7))
	require.NoError(t, v.PushBack(8))

	h.failMakeAt = h.makes + 2
	err := v.Resize(6)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 2, v.Len(), "length unchanged after failed growth")
	assert.Equal(t, []int{7, 8}, collect(v))
	requireBalanced(t, v)
}

func TestNewSizeOpsFailureTearsDownPartialConstruction(t *testing.T) {
	h := &hookLog{failMakeAt: 3}
	_, err := NewSizeOps(5, h.ops())
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 3, h.makes)
	assert.Equal(t, 2, h.drops, "the two completed elements are torn down")
}

func TestCloneFailureTearsDownPartialCopies(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.ops())
	defer v.Release()
	require.NoError(t, v.Reserve(4))
	for _, x := range []int{1, 2, 3, 4} {
		require.NoError(t, v.PushBack(x))
	}

	h.failCloneAt = h.clones + 3
	dropsBefore := h.drops
	_, err := v.Clone()
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, dropsBefore+2, h.drops, "the two completed copies are torn down")
	assert.Equal(t, []int{1, 2, 3, 4}, collect(v))
	requireBalanced(t, v)
}

func TestCopyFromCloneFailureLeavesReceiverUntouched(t *testing.T) {
	hsrc := &hookLog{}
	src := NewOps(hsrc.ops())
	defer src.Release()
	require.NoError(t, src.Reserve(4))
	for _, x := range []int{10, 20, 30, 40} {
		require.NoError(t, src.PushBack(x))
	}

	dst := NewOps((&hookLog{}).ops())
	defer dst.Release()
	require.NoError(t, dst.PushBack(1))

	// src does not fit, so CopyFrom builds the copy first; failing
	// there must leave the receiver as it was.
	hsrc.failCloneAt = hsrc.clones + 2
	err := dst.CopyFrom(src)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, []int{1}, collect(dst))
	requireBalanced(t, dst)
}

func TestCopyFromKeepsReceiverHooksAndHistory(t *testing.T) {
	h := &hookLog{}
	dst := NewOps(h.ops())
	defer dst.Release()
	require.NoError(t, dst.PushBack(1))
	require.NoError(t, dst.PushBack(2))
	before := dst.Metrics()

	src := New[int]()
	defer src.Release()
	for _, x := range []int{10, 20, 30, 40} {
		require.NoError(t, src.PushBack(x))
	}

	// src does not fit, so CopyFrom builds a copy and adopts its block.
	require.NoError(t, dst.CopyFrom(src))

	m := dst.Metrics()
	assert.Equal(t, before.Dropped+2, m.Dropped, "old contents torn down on the receiver's ledger")
	assert.Equal(t, before.Constructed+4, m.Constructed)
	requireBalanced(t, dst)

	dropsBefore := h.drops
	dst.PopBack()
	assert.Equal(t, dropsBefore+1, h.drops, "receiver keeps its own hooks")
}

func TestReleaseBalancesAllCounters(t *testing.T) {
	h := &hookLog{}
	v := NewOps(h.ops())
	for i := 0; i < 50; i++ {
		require.NoError(t, v.PushBack(i))
	}
	v.Erase(10)
	v.Erase(0)
	v.PopBack()
	require.NoError(t, v.Resize(60))
	require.NoError(t, v.Resize(5))

	v.Release()

	m := v.Metrics()
	assert.Equal(t, m.Constructed, m.Dropped)
	assert.Equal(t, m.BlockAllocs, m.BlockFrees)
	assert.Equal(t, 0, v.Len())
}
