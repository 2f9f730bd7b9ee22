package objref

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// TypeID is a small stable identifier for a concrete object type.
// IDs are assigned sequentially on first sight and never reused.
type TypeID uint16

// MaxTypes is the maximum number of object types the table can hold.
const MaxTypes = 1<<16 - 1

// typeTable assigns TypeIDs to concrete object types.
// It is shared by every registry in the process; types are registered once
// and looked up on every construct and destroy.
type typeTable struct {
	// ids maps reflect.Type to TypeID; lookups on the hot path never lock
	ids sync.Map // map[reflect.Type]TypeID

	// names and types are indexed by TypeID and written once per ID
	names []string
	types []reflect.Type

	nextID atomic.Uint32
	arrMu  sync.RWMutex
}

var globalTypes = &typeTable{}

// registerType returns the ID for t, assigning one if needed.
func registerType(t reflect.Type) TypeID {
	if id, ok := globalTypes.ids.Load(t); ok {
		return id.(TypeID)
	}

	newID := globalTypes.nextID.Add(1) - 1
	if newID >= MaxTypes {
		panic(fmt.Sprintf("objref: object type limit exceeded (max %d types)", MaxTypes))
	}

	actual, loaded := globalTypes.ids.LoadOrStore(t, TypeID(newID))
	if loaded {
		return actual.(TypeID)
	}

	globalTypes.arrMu.Lock()
	for uint32(len(globalTypes.types)) <= newID {
		globalTypes.types = append(globalTypes.types, nil)
		globalTypes.names = append(globalTypes.names, "")
	}
	globalTypes.types[newID] = t
	globalTypes.names[newID] = typeName(t)
	globalTypes.arrMu.Unlock()

	return TypeID(newID)
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// TypeOf returns the TypeID of obj's concrete type.
func TypeOf(obj Object) TypeID {
	return registerType(reflect.TypeOf(obj))
}

// TypeIDFor returns the TypeID of T.
func TypeIDFor[T Object]() TypeID {
	return registerType(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeName returns the qualified name of the type with the given ID,
// or "" if the ID is unassigned.
func TypeName(id TypeID) string {
	globalTypes.arrMu.RLock()
	defer globalTypes.arrMu.RUnlock()
	if int(id) >= len(globalTypes.names) {
		return ""
	}
	return globalTypes.names[id]
}

// ReflectType returns the reflect.Type with the given ID, or nil.
func ReflectType(id TypeID) reflect.Type {
	globalTypes.arrMu.RLock()
	defer globalTypes.arrMu.RUnlock()
	if int(id) >= len(globalTypes.types) {
		return nil
	}
	return globalTypes.types[id]
}

// RegisteredTypeCount returns the number of types seen so far.
func RegisteredTypeCount() int {
	return int(globalTypes.nextID.Load())
}
