package objref

import (
	"fmt"
	"log/slog"
)

// maxTerminatePasses bounds Terminate when destruction hooks keep
// constructing new objects.
const maxTerminatePasses = 64

// Registry is the table of live objects. It owns every registered object,
// hands out the slots that references resolve through, and delivers
// dependency messages.
//
// A Registry is not safe for concurrent use. All calls, including the
// hooks they trigger, run to completion on the caller's goroutine.
type Registry struct {
	// live maps a handle to its object while the object is alive
	live map[Handle]Object

	// slots maps a handle to its shared slot, for live and waiting handles
	slots map[Handle]*Slot

	// retired holds every handle that has been destroyed
	retired map[Handle]struct{}

	// deps maps a target handle to the handles that depend on it
	deps *dependencyGraph

	newHandle handleSource
	log       *slog.Logger

	// ObjectHook fires on every create and destroy.
	ObjectHook Action[ObjectEvent]

	// PostEditChanged fires when an editor mutates a field of an object.
	PostEditChanged Action[PostEditEvent]
}

// newRegistry creates an empty registry.
func newRegistry(log *slog.Logger, src handleSource) *Registry {
	if log == nil {
		log = slog.Default()
	}
	if src == nil {
		src = NewHandle
	}
	return &Registry{
		live:      make(map[Handle]Object),
		slots:     make(map[Handle]*Slot),
		retired:   make(map[Handle]struct{}),
		deps:      newDependencyGraph(),
		newHandle: src,
		log:       log,
	}
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *slog.Logger {
	return r.log
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return len(r.live)
}

// IsValid reports whether h maps to a live object.
func (r *Registry) IsValid(h Handle) bool {
	if h.IsEmpty() {
		return false
	}
	_, ok := r.live[h]
	return ok
}

// IsRetired reports whether h belonged to an object that was destroyed.
func (r *Registry) IsRetired(h Handle) bool {
	_, ok := r.retired[h]
	return ok
}

// GetObject returns the live object for h, or nil.
func (r *Registry) GetObject(h Handle) Object {
	if h.IsEmpty() {
		return nil
	}
	return r.live[h]
}

// GetSharedObject returns the stored instance for h, or nil. Objects are
// always held by pointer, so this is the same instance GetObject returns;
// the name is kept for callers that distinguish borrowed from shared use.
func (r *Registry) GetSharedObject(h Handle) Object {
	return r.GetObject(h)
}

// GetPointer returns the slot for h if one exists.
func (r *Registry) GetPointer(h Handle) *Slot {
	if h.IsEmpty() {
		return nil
	}
	return r.slots[h]
}

// AddWaitPointer returns the slot for h, creating a waiting slot when no
// object has registered under h yet. A later NewInstance with h fills the
// waiting slot. For a retired handle the returned slot is a tombstone.
func (r *Registry) AddWaitPointer(h Handle) *Slot {
	if h.IsEmpty() {
		return nil
	}
	if s := r.slots[h]; s != nil {
		return s
	}
	if r.IsRetired(h) {
		return newSlot(r, h, slotTombstone)
	}
	s := newSlot(r, h, slotWaiting)
	r.slots[h] = s
	return s
}

// acquireSlot returns the existing slot for h or a waiting one.
func (r *Registry) acquireSlot(h Handle) *Slot {
	if s := r.GetPointer(h); s != nil {
		return s
	}
	return r.AddWaitPointer(h)
}

// NewInstance takes ownership of obj and registers it under h, minting a
// handle when h is empty. It returns the assigned handle.
//
// Registering under a live handle fails with ErrHandleInUse, under a
// destroyed one with ErrHandleRetired; both leave the registry unchanged.
// NewInstance does not run OnConstruct; see Construct.
func (r *Registry) NewInstance(obj Object, h Handle) (Handle, error) {
	b := baseOf(obj)
	if b == nil {
		panic("objref: NewInstance with nil object")
	}
	if b.registry != nil {
		return b.handle, ErrAlreadyConstructed
	}

	if h.IsEmpty() {
		h = r.mintHandle()
	} else if r.IsValid(h) {
		r.log.Warn("objref: rejected registration", "handle", h.String(), "error", ErrHandleInUse)
		return h, ErrHandleInUse
	} else if r.IsRetired(h) {
		r.log.Warn("objref: rejected registration", "handle", h.String(), "error", ErrHandleRetired)
		return h, ErrHandleRetired
	}

	if s := r.slots[h]; s == nil || !s.fill(obj) {
		s = newSlot(r, h, slotWaiting)
		s.fill(obj)
		r.slots[h] = s
	}
	r.live[h] = obj
	b.handle = h
	b.registry = r

	// Dependencies declared before construction, including tagged fields.
	declareTagged(obj, b)
	for _, dep := range b.outDeps {
		r.AddDependList(h, dep)
	}

	r.ObjectHook.Invoke(ObjectEvent{Handle: h, Type: TypeOf(obj), Created: true})
	return h, nil
}

// mintHandle returns a handle that has never been used in this registry.
func (r *Registry) mintHandle() Handle {
	for {
		h := r.newHandle()
		if h.IsEmpty() || r.IsValid(h) || r.IsRetired(h) {
			continue
		}
		if s := r.slots[h]; s != nil {
			// A reference is already waiting on this handle; never hand it
			// to an unrelated object.
			continue
		}
		return h
	}
}

// Construct registers obj under a fresh handle and runs OnConstruct.
func (r *Registry) Construct(obj Object) error {
	return r.ConstructAt(obj, EmptyHandle)
}

// ConstructAt registers obj under h and runs OnConstruct. An empty h mints
// a fresh handle. Restoring a persisted object passes its saved handle so
// references loaded earlier resolve to it.
func (r *Registry) ConstructAt(obj Object, h Handle) error {
	if _, err := r.NewInstance(obj, h); err != nil {
		return fmt.Errorf("construct %s: %w", TypeName(TypeOf(obj)), err)
	}
	obj.OnConstruct()
	return nil
}

// DestroyObject destroys the object registered under h and returns whether
// destruction happened.
//
// Without force, destruction is refused while owning references to h are
// outstanding. On destruction the handle is erased and retired, the slot
// is tombstoned (every outstanding reference turns invalid at once),
// OnDestroy runs, ObjectHook fires and every live dependent receives
// DependencyDestroyed. Destroying an invalid handle is a no-op.
func (r *Registry) DestroyObject(h Handle, force bool) bool {
	obj := r.GetObject(h)
	if obj == nil {
		return false
	}
	s := r.slots[h]
	if !force && s != nil && s.count > 0 {
		r.log.Debug("objref: destroy refused, owners outstanding",
			"handle", h.String(),
			"owners", s.count)
		return false
	}

	delete(r.live, h)
	delete(r.slots, h)
	r.retired[h] = struct{}{}
	if s != nil {
		s.clear()
	}

	obj.OnDestroy()
	r.ObjectHook.Invoke(ObjectEvent{Handle: h, Type: TypeOf(obj), Created: false})

	r.NotifyDependObjects(h, DependencyDestroyed)
	r.deps.dropTarget(h)
	for _, dep := range obj.objectBase().outDeps {
		r.deps.remove(h, dep)
	}
	return true
}

// AddDependList records that src depends on dst.
func (r *Registry) AddDependList(src, dst Handle) {
	if src.IsEmpty() || dst.IsEmpty() || src == dst {
		return
	}
	r.deps.add(src, dst)
}

// RemoveDependList forgets that src depends on dst.
func (r *Registry) RemoveDependList(src, dst Handle) {
	r.deps.remove(src, dst)
}

// HasDependList reports whether src depends on dst.
func (r *Registry) HasDependList(src, dst Handle) bool {
	return r.deps.has(src, dst)
}

// Dependents returns the handles that depend on dst. Some may be stale.
func (r *Registry) Dependents(dst Handle) []Handle {
	return r.deps.snapshot(dst)
}

// NotifyDependObjects delivers msg about dst to every object depending on
// it. The dependents are snapshotted before the first delivery; a source
// that is no longer live when its turn comes is skipped. Handlers may
// construct, destroy and change edges freely.
func (r *Registry) NotifyDependObjects(dst Handle, msg DependencyMessage) {
	for _, src := range r.deps.snapshot(dst) {
		obj := r.live[src]
		if obj == nil {
			continue
		}
		obj.OnDependencyMessage(dst, msg)
	}
}

// ForEachObject calls fn for every live object until fn returns false.
// Iteration order is unspecified. Objects destroyed by fn are skipped;
// objects constructed by fn are not visited.
func (r *Registry) ForEachObject(fn func(Handle, Object) bool) {
	for _, h := range r.Handles() {
		obj := r.live[h]
		if obj == nil {
			continue
		}
		if !fn(h, obj) {
			return
		}
	}
}

// Handles returns the handles of all live objects.
func (r *Registry) Handles() []Handle {
	out := make([]Handle, 0, len(r.live))
	for h := range r.live {
		out = append(out, h)
	}
	return out
}

// ObjectsOfType returns every live object of type T.
func ObjectsOfType[T Object](r *Registry) []T {
	var out []T
	r.ForEachObject(func(_ Handle, obj Object) bool {
		if t, ok := obj.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Terminate force-destroys every live object and tombstones every waiting
// slot. The registry stays usable afterwards; destroyed and waited-on
// handles stay retired, so references taken before Terminate never see a
// new object.
func (r *Registry) Terminate() {
	destroyed := 0
	for pass := 0; len(r.live) > 0; pass++ {
		if pass == maxTerminatePasses {
			r.log.Warn("objref: terminate gave up, objects keep respawning", "remaining", len(r.live))
			break
		}
		for _, h := range r.Handles() {
			if r.DestroyObject(h, true) {
				destroyed++
			}
		}
	}

	for h, s := range r.slots {
		if s.state == slotWaiting {
			s.clear()
			delete(r.slots, h)
			r.retired[h] = struct{}{}
		}
	}
	r.deps.reset()

	r.log.Debug("objref: registry terminated", "destroyed", destroyed)
}
