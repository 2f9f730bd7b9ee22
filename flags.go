package objref

import (
	"math/bits"
	"strconv"
	"strings"
)

// ObjectFlags is a bitmask of per-object flags.
type ObjectFlags uint64

const (
	// FlagNone is the empty mask.
	FlagNone ObjectFlags = 0

	// FlagPersistent marks objects that are saved with their owner.
	FlagPersistent ObjectFlags = 1 << 0

	// FlagInstantiable marks objects that may be cloned into instances.
	FlagInstantiable ObjectFlags = 1 << 1

	// FlagInstance marks objects created by instantiating another object.
	// Editor-only transient objects share the same table; this bit tells
	// them apart.
	FlagInstance ObjectFlags = 1 << 2

	// FlagNoPack excludes the object from packaged builds.
	FlagNoPack ObjectFlags = 1 << 3

	// FlagLifecycleManaged marks objects whose lifetime is driven by an
	// owner (scene, world) rather than by owning references.
	FlagLifecycleManaged ObjectFlags = 1 << 4
)

var flagNames = [...]struct {
	flag ObjectFlags
	name string
}{
	{FlagPersistent, "Persistent"},
	{FlagInstantiable, "Instantiable"},
	{FlagInstance, "Instance"},
	{FlagNoPack, "NoPack"},
	{FlagLifecycleManaged, "LifecycleManaged"},
}

// Has returns true if any bit of other is set in f.
func (f ObjectFlags) Has(other ObjectFlags) bool {
	return f&other != 0
}

// HasAll returns true if every bit of other is set in f.
func (f ObjectFlags) HasAll(other ObjectFlags) bool {
	return f&other == other
}

// Set returns f with the bits of other set.
func (f ObjectFlags) Set(other ObjectFlags) ObjectFlags {
	return f | other
}

// Clear returns f with the bits of other cleared.
func (f ObjectFlags) Clear(other ObjectFlags) ObjectFlags {
	return f &^ other
}

// Count returns the number of bits set.
func (f ObjectFlags) Count() int {
	return bits.OnesCount64(uint64(f))
}

// String renders the set flags joined by '|', or "None".
func (f ObjectFlags) String() string {
	if f == FlagNone {
		return "None"
	}
	var b strings.Builder
	rest := f
	for _, n := range flagNames {
		if f&n.flag == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(n.name)
		rest &^= n.flag
	}
	if rest != 0 {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString("0x")
		b.WriteString(strconv.FormatUint(uint64(rest), 16))
	}
	return b.String()
}
