// Package asset provides engine assets built on objref: textures, shaders
// and materials, a Library that loads them by path or handle, importer
// version checks, and hot reload driven by file system notifications.
//
// Assets announce state changes to their dependents through objref
// dependency messages. A Material depends on its shader and textures and
// follows their availability.
//
// Like objref itself, nothing in this package is safe for concurrent use.
// The Watcher's goroutine only forwards paths; Library.PollChanges applies
// them on the caller's goroutine.
package asset

import (
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/oriumgames/objref"
)

// Asset is implemented by every asset. A type becomes an Asset by embedding
// Base.
type Asset interface {
	objref.Object
	assetBase() *Base
}

// Instantiable is implemented by assets that can produce independent
// copies of themselves. The copy is registered with objref.FlagInstance.
type Instantiable interface {
	Asset
	InstantiateAsset() Asset
}

// Base is the record every asset embeds.
type Base struct {
	objref.ObjectBase

	path      string
	importer  *semver.Version
	available bool
	tags      []string
}

func (b *Base) assetBase() *Base { return b }

// Path returns the library path the asset was loaded from, or "" for
// assets created in memory.
func (b *Base) Path() string {
	return b.path
}

// ImporterVersion returns the version of the loader that produced the
// asset, or nil.
func (b *Base) ImporterVersion() *semver.Version {
	return b.importer
}

// Available reports whether the asset is ready for use.
func (b *Base) Available() bool {
	return b.available
}

// SetAvailable changes the asset's availability and tells its dependents.
// Setting the current value does nothing.
func (b *Base) SetAvailable(available bool) {
	if b.available == available {
		return
	}
	b.available = available
	if available {
		b.NotifyDependents(objref.DependencyAvailable)
	} else {
		b.NotifyDependents(objref.DependencyUnavailable)
	}
}

// Reload tells dependents that the asset replaced its contents in place.
func (b *Base) Reload() {
	b.NotifyDependents(objref.DependencyReloaded)
}

// Tags returns a copy of the asset's tags.
func (b *Base) Tags() []string {
	return slices.Clone(b.tags)
}

// AddTag adds a tag if not already present.
func (b *Base) AddTag(tag string) {
	if !slices.Contains(b.tags, tag) {
		b.tags = append(b.tags, tag)
	}
}

// HasTag reports whether the asset carries tag.
func (b *Base) HasTag(tag string) bool {
	return slices.Contains(b.tags, tag)
}

// IsAvailable reports whether obj is a live asset that is available.
func IsAvailable(obj objref.Object) bool {
	a, ok := obj.(Asset)
	if !ok || !objref.IsValid(a) {
		return false
	}
	return a.assetBase().available
}
