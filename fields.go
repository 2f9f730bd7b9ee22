package objref

import (
	"reflect"
	"strings"
	"sync"
)

// Tag constants
const (
	tagName = "objref"
)

// Tag modifiers
const (
	modDepend    = "depend"    // Declare an out-dependency on the target
	modTransient = "transient" // Leave out of References
)

// FieldKind is the kind of a reference field.
type FieldKind int

const (
	// KindWeak indicates a Weak[T] field
	KindWeak FieldKind = iota
	// KindRef indicates a Ref[T] field
	KindRef
)

// String returns the string representation of FieldKind.
func (k FieldKind) String() string {
	switch k {
	case KindWeak:
		return "Weak"
	case KindRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// FieldMeta describes one exported reference field of an object type.
type FieldMeta struct {
	// Name is the field name, dotted through embedded structs
	Name string

	// Index is the field index path for reflect.Value.FieldByIndex
	Index []int

	Kind FieldKind

	// Depend is set by objref:"depend"
	Depend bool

	// Transient is set by objref:"transient"
	Transient bool
}

// TypeMeta holds the reference fields of an object type. It is computed
// once per type and cached.
type TypeMeta struct {
	Type   reflect.Type
	Name   string
	Fields []FieldMeta
}

// referenceField is implemented by Weak and Ref.
type referenceField interface {
	Handle() Handle
	owning() bool
}

func (w Weak[T]) owning() bool { return false }
func (r Ref[T]) owning() bool  { return true }

var (
	referenceFieldType = reflect.TypeFor[referenceField]()
	metaCache          sync.Map // reflect.Type -> *TypeMeta
)

// MetaOf returns the reference field metadata of obj's type.
func MetaOf(obj Object) *TypeMeta {
	if obj == nil {
		return &TypeMeta{}
	}
	t := reflect.TypeOf(obj)
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*TypeMeta)
	}
	m := &TypeMeta{Type: t, Name: typeName(t)}
	if s := t; s.Kind() == reflect.Pointer && s.Elem().Kind() == reflect.Struct {
		m.Fields = analyzeFields(s.Elem(), nil, "")
	}
	actual, _ := metaCache.LoadOrStore(t, m)
	return actual.(*TypeMeta)
}

func analyzeFields(t reflect.Type, index []int, prefix string) []FieldMeta {
	var fields []FieldMeta
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), index...), i)

		if f.Type.Implements(referenceFieldType) {
			if !f.IsExported() {
				continue
			}
			kind := KindWeak
			if reflect.Zero(f.Type).Interface().(referenceField).owning() {
				kind = KindRef
			}
			tag := f.Tag.Get(tagName)
			fields = append(fields, FieldMeta{
				Name:      prefix + f.Name,
				Index:     path,
				Kind:      kind,
				Depend:    hasTag(tag, modDepend),
				Transient: hasTag(tag, modTransient),
			})
			continue
		}

		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeFor[ObjectBase]() {
			fields = append(fields, analyzeFields(f.Type, path, prefix+f.Name+".")...)
		}
	}
	return fields
}

// hasTag checks if a tag contains a specific modifier.
func hasTag(tag string, mod string) bool {
	if tag == "" {
		return false
	}
	for part := range strings.SplitSeq(tag, ",") {
		if strings.TrimSpace(part) == mod {
			return true
		}
	}
	return false
}

// FieldRef is the current value of a reference field.
type FieldRef struct {
	Field  string
	Handle Handle
	Kind   FieldKind
}

// References returns the non-empty, non-transient reference fields of obj.
func References(obj Object) []FieldRef {
	b := baseOf(obj)
	if b == nil {
		return nil
	}
	m := MetaOf(obj)
	if len(m.Fields) == 0 {
		return nil
	}
	v := reflect.ValueOf(obj).Elem()
	var out []FieldRef
	for _, f := range m.Fields {
		if f.Transient {
			continue
		}
		h := v.FieldByIndex(f.Index).Interface().(referenceField).Handle()
		if h.IsEmpty() {
			continue
		}
		out = append(out, FieldRef{Field: f.Name, Handle: h, Kind: f.Kind})
	}
	return out
}

// declareTagged adds an out-dependency for every field tagged
// objref:"depend". It returns the number of dependencies added.
func declareTagged(obj Object, b *ObjectBase) int {
	m := MetaOf(obj)
	if len(m.Fields) == 0 {
		return 0
	}
	v := reflect.ValueOf(obj).Elem()
	added := 0
	for _, f := range m.Fields {
		if !f.Depend {
			continue
		}
		h := v.FieldByIndex(f.Index).Interface().(referenceField).Handle()
		if h.IsEmpty() || b.HasOutDependency(h) {
			continue
		}
		b.AddOutDependency(h)
		added++
	}
	return added
}
