package objref

import (
	"fmt"
)

// Weak is a non-owning reference to an object of type T. It resolves
// through the shared slot for its handle and turns invalid the moment the
// target is destroyed. A Weak created before its target exists starts
// resolving once an object registers under that handle.
//
// Weak is a small value type and is copied freely. Two Weaks are equal when
// their handles are equal; use Handle() as a map key.
//
// Usage:
//
//	type Follower struct {
//	    objref.ObjectBase
//	    Target objref.Weak[*Node]
//	}
//
//	if n, err := f.Target.Get(); err == nil {
//	    n.Translate(dir)
//	}
type Weak[T Object] struct {
	handle Handle
	slot   *Slot
}

// NewWeak returns a weak reference to h in the process-wide registry.
func NewWeak[T Object](h Handle) Weak[T] {
	return WeakIn[T](Global(), h)
}

// WeakIn returns a weak reference to h in r.
func WeakIn[T Object](r *Registry, h Handle) Weak[T] {
	if h.IsEmpty() || r == nil {
		return Weak[T]{handle: h}
	}
	return Weak[T]{handle: h, slot: r.acquireSlot(h)}
}

// WeakFrom returns a weak reference to obj. A nil or unconstructed obj
// yields the empty reference.
func WeakFrom[T Object](obj T) Weak[T] {
	b := baseOf(obj)
	if b == nil || b.registry == nil {
		return Weak[T]{}
	}
	return WeakIn[T](b.registry, b.handle)
}

// Handle returns the referenced handle.
func (w Weak[T]) Handle() Handle {
	return w.handle
}

// Registry returns the registry the reference resolves in.
func (w Weak[T]) Registry() *Registry {
	if w.slot != nil {
		return w.slot.registry
	}
	return Global()
}

// IsEmpty reports whether the reference holds the empty handle.
func (w Weak[T]) IsEmpty() bool {
	return w.handle.IsEmpty()
}

// IsValid reports whether the target is alive, asking the registry by
// handle.
func (w Weak[T]) IsValid() bool {
	if w.handle.IsEmpty() {
		return false
	}
	return w.Registry().IsValid(w.handle)
}

func (w Weak[T]) object() Object {
	if w.handle.IsEmpty() {
		return nil
	}
	if w.slot != nil {
		return w.slot.Get()
	}
	return Global().GetObject(w.handle)
}

// Get dereferences the reference. It returns ErrNullTarget when the target
// is not alive and ErrTypeMismatch when it is not a T.
func (w Weak[T]) Get() (T, error) {
	return resolveAs[T](w.handle, w.object())
}

// Ptr returns the target, or the zero T when it is not alive or not a T.
func (w Weak[T]) Ptr() T {
	t, _ := w.Get()
	return t
}

// Equal reports whether w and other reference the same handle.
func (w Weak[T]) Equal(other Weak[T]) bool {
	return w.handle == other.handle
}

// Reset clears the reference.
func (w *Weak[T]) Reset() {
	*w = Weak[T]{}
}

// Base returns w as a reference to Object.
func (w Weak[T]) Base() Weak[Object] {
	return Weak[Object]{handle: w.handle, slot: w.slot}
}

// String returns the referenced handle in text form.
func (w Weak[T]) String() string {
	return w.handle.String()
}

// CastWeak converts w to a reference of element type U. The conversion
// always succeeds; Get reports ErrTypeMismatch if the target is not a U.
func CastWeak[U Object, T Object](w Weak[T]) Weak[U] {
	return Weak[U]{handle: w.handle, slot: w.slot}
}

func resolveAs[T Object](h Handle, obj Object) (T, error) {
	var zero T
	if obj == nil {
		return zero, ErrNullTarget
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, h, TypeName(TypeOf(obj)))
	}
	return t, nil
}
