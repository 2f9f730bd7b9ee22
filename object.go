package objref

import (
	"reflect"
	"slices"
	"unique"
)

// Object is implemented by every managed object. The set of implementations
// is closed: a type becomes an Object by embedding ObjectBase, which
// supplies the unexported accessor and no-op lifecycle hooks that embedders
// override as needed.
type Object interface {
	objectBase() *ObjectBase

	// OnConstruct is called after the object has been registered.
	OnConstruct()

	// OnDestroy is called after the object has been removed from the
	// registry and before its dependents are notified.
	OnDestroy()

	// OnDependencyMessage is called when an object this one depends on
	// changes state. dependency may already be invalid.
	OnDependencyMessage(dependency Handle, msg DependencyMessage)
}

// ObjectBase is the record every managed object embeds. It stores the
// object's handle, its interned name, its flags and the handles it depends
// on.
//
// Usage:
//
//	type Texture struct {
//	    objref.ObjectBase
//	    Width, Height int
//	}
//
//	tex := &Texture{}
//	if err := reg.Construct(tex); err != nil {
//	    return err
//	}
type ObjectBase struct {
	handle   Handle
	registry *Registry
	name     unique.Handle[string]
	flags    ObjectFlags

	// outDeps lists the handles this object depends on, in insertion order
	outDeps []Handle
}

func (b *ObjectBase) objectBase() *ObjectBase { return b }

// OnConstruct implements Object.
func (b *ObjectBase) OnConstruct() {}

// OnDestroy implements Object.
func (b *ObjectBase) OnDestroy() {}

// OnDependencyMessage implements Object.
func (b *ObjectBase) OnDependencyMessage(Handle, DependencyMessage) {}

// Handle returns the object's handle, or EmptyHandle before construction.
// The handle is kept after destruction so the object can still be
// identified; it no longer validates.
func (b *ObjectBase) Handle() Handle {
	return b.handle
}

// Registry returns the registry the object was constructed in, or nil.
func (b *ObjectBase) Registry() *Registry {
	return b.registry
}

// IsAlive reports whether the object is currently registered.
func (b *ObjectBase) IsAlive() bool {
	return b.registry != nil && b.registry.IsValid(b.handle)
}

// Name returns the object's name.
func (b *ObjectBase) Name() string {
	if b.name == (unique.Handle[string]{}) {
		return ""
	}
	return b.name.Value()
}

// IndexName returns the interned name. Two objects with equal names have
// equal index names, so comparisons are pointer-cheap.
func (b *ObjectBase) IndexName() unique.Handle[string] {
	return b.name
}

// SetName sets the object's name.
func (b *ObjectBase) SetName(name string) {
	b.name = unique.Make(name)
}

// Flags returns the object's flags.
func (b *ObjectBase) Flags() ObjectFlags {
	return b.flags
}

// SetFlags replaces the object's flags.
func (b *ObjectBase) SetFlags(flags ObjectFlags) {
	b.flags = flags
}

// AddFlags sets the given flags in addition to the current ones.
func (b *ObjectBase) AddFlags(flags ObjectFlags) {
	b.flags = b.flags.Set(flags)
}

// HasFlags returns true if any of the given flags are set.
func (b *ObjectBase) HasFlags(flags ObjectFlags) bool {
	return b.flags.Has(flags)
}

// IsPersistent reports whether FlagPersistent is set.
func (b *ObjectBase) IsPersistent() bool {
	return b.flags.Has(FlagPersistent)
}

// AddOutDependency declares that this object depends on dep and wants
// its lifecycle messages. Declaring a dependency before construction is
// allowed; the edge is registered when the object is constructed.
func (b *ObjectBase) AddOutDependency(dep Handle) {
	if dep.IsEmpty() || slices.Contains(b.outDeps, dep) {
		return
	}
	b.outDeps = append(b.outDeps, dep)
	if b.IsAlive() {
		b.registry.AddDependList(b.handle, dep)
	}
}

// RemoveOutDependency withdraws a dependency declared with
// AddOutDependency.
func (b *ObjectBase) RemoveOutDependency(dep Handle) {
	i := slices.Index(b.outDeps, dep)
	if i < 0 {
		return
	}
	b.outDeps = slices.Delete(b.outDeps, i, i+1)
	if b.registry != nil {
		b.registry.RemoveDependList(b.handle, dep)
	}
}

// HasOutDependency reports whether this object declared a dependency on dep.
func (b *ObjectBase) HasOutDependency(dep Handle) bool {
	return slices.Contains(b.outDeps, dep)
}

// OutDependencies returns a copy of the handles this object depends on.
func (b *ObjectBase) OutDependencies() []Handle {
	return slices.Clone(b.outDeps)
}

// NotifyDependents sends msg to every object that depends on this one.
// Targets use it to announce Available, Unavailable and Reloaded
// transitions; Destroyed is sent by the registry.
func (b *ObjectBase) NotifyDependents(msg DependencyMessage) {
	if !b.IsAlive() {
		return
	}
	b.registry.NotifyDependObjects(b.handle, msg)
}

// PostEditChange reports that an editor changed the named field.
func (b *ObjectBase) PostEditChange(field string) {
	if !b.IsAlive() {
		return
	}
	b.registry.PostEditChanged.Invoke(PostEditEvent{
		Object: b.registry.GetObject(b.handle),
		Field:  field,
	})
}

// baseOf returns obj's record, or nil for a nil object.
func baseOf(obj Object) *ObjectBase {
	if obj == nil {
		return nil
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return obj.objectBase()
}

// HandleOf returns obj's handle, or EmptyHandle for nil.
func HandleOf(obj Object) Handle {
	if b := baseOf(obj); b != nil {
		return b.handle
	}
	return EmptyHandle
}

// IsValid reports whether obj is a live, registered object.
func IsValid(obj Object) bool {
	b := baseOf(obj)
	return b != nil && b.IsAlive()
}

// Construct registers obj in the process-wide registry under a fresh
// handle and runs its OnConstruct hook.
func Construct(obj Object) error {
	return Global().Construct(obj)
}

// ConstructAt registers obj in the process-wide registry under h and runs
// its OnConstruct hook. An empty h mints a fresh handle.
func ConstructAt(obj Object, h Handle) error {
	return Global().ConstructAt(obj, h)
}

// Destroy force-destroys obj in the registry it was constructed in.
// It returns false if obj was not alive.
func Destroy(obj Object) bool {
	b := baseOf(obj)
	if b == nil || b.registry == nil {
		return false
	}
	return b.registry.DestroyObject(b.handle, true)
}

// Reference is implemented by Weak and Ref.
type Reference interface {
	Handle() Handle
	Registry() *Registry
	IsValid() bool
}

// DestroyObject destroys the target of ref. Without force, destruction is
// refused while owning references to the target are outstanding.
func DestroyObject(ref Reference, force bool) bool {
	r := ref.Registry()
	if r == nil {
		return false
	}
	return r.DestroyObject(ref.Handle(), force)
}

// SameTarget reports whether a and b reference the same handle.
func SameTarget(a, b Reference) bool {
	return a.Handle() == b.Handle()
}
