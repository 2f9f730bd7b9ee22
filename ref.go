package objref

// Ref is an owning reference to an object of type T. While any Ref to a
// handle is held, DestroyObject without force is refused for it; releasing
// the last Ref destroys the target.
//
// Go has no destructors, so ownership ends with an explicit Release. Each
// Ref carries one lease on the slot's count. Copies of a Ref share that
// lease: releasing any of them releases it once, and the others then behave
// as released too. Use Clone for a second, independent owner.
//
// Usage:
//
//	mat := objref.RefFrom(material)
//	defer mat.Release()
type Ref[T Object] struct {
	handle Handle
	lease  *lease
}

// lease is one counted hold on a slot.
type lease struct {
	slot *Slot
	held bool
}

func newLease(s *Slot) *lease {
	if s == nil {
		return nil
	}
	s.incref()
	return &lease{slot: s, held: true}
}

// NewRef returns an owning reference to h in the process-wide registry.
func NewRef[T Object](h Handle) Ref[T] {
	return RefIn[T](Global(), h)
}

// RefIn returns an owning reference to h in r. The target need not exist
// yet; the reference starts resolving once an object registers under h.
func RefIn[T Object](r *Registry, h Handle) Ref[T] {
	if h.IsEmpty() || r == nil {
		return Ref[T]{handle: h}
	}
	return Ref[T]{handle: h, lease: newLease(r.acquireSlot(h))}
}

// RefFrom returns an owning reference to obj. A nil or unconstructed obj
// yields the empty reference.
func RefFrom[T Object](obj T) Ref[T] {
	b := baseOf(obj)
	if b == nil || b.registry == nil {
		return Ref[T]{}
	}
	return RefIn[T](b.registry, b.handle)
}

// Handle returns the referenced handle.
func (r Ref[T]) Handle() Handle {
	return r.handle
}

func (r Ref[T]) slot() *Slot {
	if r.lease == nil {
		return nil
	}
	return r.lease.slot
}

// Registry returns the registry the reference resolves in.
func (r Ref[T]) Registry() *Registry {
	if s := r.slot(); s != nil {
		return s.registry
	}
	return Global()
}

// IsEmpty reports whether the reference holds the empty handle.
func (r Ref[T]) IsEmpty() bool {
	return r.handle.IsEmpty()
}

// Held reports whether the reference still owns its target's slot.
func (r Ref[T]) Held() bool {
	return r.lease != nil && r.lease.held
}

// IsValid reports whether the target is alive.
func (r Ref[T]) IsValid() bool {
	if r.handle.IsEmpty() {
		return false
	}
	return r.Registry().IsValid(r.handle)
}

// Get dereferences the reference. It returns ErrNullTarget when the target
// is not alive and ErrTypeMismatch when it is not a T.
func (r Ref[T]) Get() (T, error) {
	var obj Object
	switch s := r.slot(); {
	case r.handle.IsEmpty():
	case s != nil:
		obj = s.Get()
	default:
		obj = Global().GetObject(r.handle)
	}
	return resolveAs[T](r.handle, obj)
}

// Ptr returns the target, or the zero T when it is not alive or not a T.
func (r Ref[T]) Ptr() T {
	t, _ := r.Get()
	return t
}

// Weak returns a non-owning reference to the same target.
func (r Ref[T]) Weak() Weak[T] {
	if s := r.slot(); s != nil {
		return Weak[T]{handle: r.handle, slot: s}
	}
	if r.handle.IsEmpty() {
		return Weak[T]{}
	}
	return NewWeak[T](r.handle)
}

// Clone returns a second owner of the same target.
func (r Ref[T]) Clone() Ref[T] {
	if r.handle.IsEmpty() {
		return Ref[T]{}
	}
	if s := r.slot(); s != nil {
		return Ref[T]{handle: r.handle, lease: newLease(s)}
	}
	return NewRef[T](r.handle)
}

// Move transfers ownership out of r, leaving r empty. The count is not
// touched.
func (r *Ref[T]) Move() Ref[T] {
	out := *r
	*r = Ref[T]{}
	return out
}

// Set makes r an owner of other's target, releasing r's previous target.
// Setting a reference to its own target is a no-op on the count.
func (r *Ref[T]) Set(other Ref[T]) {
	next := other.Clone()
	r.Release()
	*r = next
}

// Release gives up ownership and clears r. Releasing the last owner of a
// live target destroys it. Releasing an empty or already released
// reference does nothing.
func (r *Ref[T]) Release() {
	l := r.lease
	*r = Ref[T]{}
	if l == nil || !l.held {
		return
	}
	l.held = false
	s := l.slot
	if n, ok := s.decref(); ok && n == 0 && s.Live() {
		s.registry.DestroyObject(s.handle, false)
	}
}

// Equal reports whether r and other reference the same handle.
func (r Ref[T]) Equal(other Ref[T]) bool {
	return r.handle == other.handle
}

// Base returns r as an owning reference to Object. The result shares r's
// lease.
func (r Ref[T]) Base() Ref[Object] {
	return CastRef[Object](r)
}

// String returns the referenced handle in text form.
func (r Ref[T]) String() string {
	return r.handle.String()
}

// CastRef converts r to an owning reference of element type U, sharing
// r's lease. Get reports ErrTypeMismatch if the target is not a U.
func CastRef[U Object, T Object](r Ref[T]) Ref[U] {
	return Ref[U]{handle: r.handle, lease: r.lease}
}
