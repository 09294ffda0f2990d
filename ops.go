package vector

// Ops customizes the lifecycle of elements stored in a Vector. Every
// hook is optional; the zero Ops describes a plain value type whose
// lifecycle is assignment plus garbage collection.
type Ops[T any] struct {
	// Make produces a default value. Used by sized construction and
	// by Resize when it grows. nil means the zero value.
	Make func() (T, error)

	// Clone produces an independent copy. Used by Clone, CopyFrom,
	// the *Copy insertion calls, and by relocation for types whose
	// Relocate hook may fail. nil means plain assignment.
	Clone func(T) (T, error)

	// Relocate moves the value out of src into the returned value,
	// leaving src empty, for types that must observe address changes
	// when storage is reallocated. nil means relocation is a bitwise
	// transfer and cannot fail.
	Relocate func(src *T) (T, error)

	// Drop tears a value down. nil means no teardown is needed.
	Drop func(*T)
}

// moveRelocatable reports whether cross-block relocation transfers
// elements by move: when moving cannot fail, or when the type offers
// no copy to fall back on. Otherwise relocation clones, so a failure
// partway through leaves the original block untouched.
func (o *Ops[T]) moveRelocatable() bool {
	return o.Relocate == nil || o.Clone == nil
}

func (o *Ops[T]) make() (T, error) {
	if o.Make == nil {
		var zero T
		return zero, nil
	}
	return o.Make()
}

func (o *Ops[T]) clone(x T) (T, error) {
	if o.Clone == nil {
		return x, nil
	}
	return o.Clone(x)
}

// drop tears down the value at p and zeroes the slot so dead memory
// does not pin whatever the value referenced.
func (o *Ops[T]) drop(p *T) {
	if o.Drop != nil {
		o.Drop(p)
	}
	var zero T
	*p = zero
}
