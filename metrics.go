package vector

// counters accumulates lifecycle events. They travel with the
// contents on Swap/MoveFrom so that constructed-dropped bookkeeping
// stays balanced per container.
type counters struct {
	constructed uint64
	dropped     uint64
	relocated   uint64
	grows       uint64
	blockAllocs uint64
	blockFrees  uint64
}

// SizeInUse returns the number of bytes occupied by live elements.
func (v *Vector[T]) SizeInUse() int {
	return v.size * int(sizeOf[T]())
}

// Capacity returns the total number of bytes reserved by the storage
// block.
func (v *Vector[T]) Capacity() int {
	return v.slab.Cap() * int(sizeOf[T]())
}

// Utilization returns the ratio of live slots to reserved slots
// (0.0 to 1.0). Returns 0.0 if no storage is reserved.
func (v *Vector[T]) Utilization() float64 {
	if v.slab.Cap() == 0 {
		return 0
	}
	return float64(v.size) / float64(v.slab.Cap())
}

// Metrics returns a snapshot of vector statistics.
func (v *Vector[T]) Metrics() VectorMetrics {
	return VectorMetrics{
		Len:         v.size,
		Cap:         v.slab.Cap(),
		ElemSize:    int(sizeOf[T]()),
		SizeInUse:   v.SizeInUse(),
		Capacity:    v.Capacity(),
		Utilization: v.Utilization(),
		Grows:       v.stats.grows,
		Relocated:   v.stats.relocated,
		Constructed: v.stats.constructed,
		Dropped:     v.stats.dropped,
		BlockAllocs: v.stats.blockAllocs,
		BlockFrees:  v.stats.blockFrees,
	}
}

// VectorMetrics contains statistical information about a vector.
type VectorMetrics struct {
	Len         int     // Live elements
	Cap         int     // Reserved slots
	ElemSize    int     // Size of one element in bytes
	SizeInUse   int     // Bytes occupied by live elements
	Capacity    int     // Bytes reserved
	Utilization float64 // Ratio of live to reserved slots (0.0-1.0)
	Grows       uint64  // Storage reallocations performed
	Relocated   uint64  // Elements transferred between blocks
	Constructed uint64  // Elements brought to life
	Dropped     uint64  // Elements torn down
	BlockAllocs uint64  // Storage blocks allocated
	BlockFrees  uint64  // Storage blocks released
}
