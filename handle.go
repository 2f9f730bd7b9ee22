package objref

import (
	"github.com/google/uuid"
)

// HandleSize is the number of bytes a Handle occupies when persisted.
const HandleSize = 16

// Handle is an opaque, globally unique identifier for a managed object.
// The zero value is the empty handle and never names an object.
//
// Handles are comparable and may be used as map keys.
type Handle uuid.UUID

// EmptyHandle is the empty sentinel.
var EmptyHandle Handle

// NewHandle mints a fresh random handle.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// ParseHandle parses the canonical text form produced by Handle.String.
// The empty string parses to EmptyHandle.
func ParseHandle(s string) (Handle, error) {
	if s == "" {
		return EmptyHandle, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return EmptyHandle, err
	}
	return Handle(id), nil
}

// MustParseHandle is like ParseHandle but panics on malformed input.
func MustParseHandle(s string) Handle {
	h, err := ParseHandle(s)
	if err != nil {
		panic("objref: " + err.Error())
	}
	return h
}

// IsEmpty reports whether h is the empty sentinel.
func (h Handle) IsEmpty() bool {
	return h == EmptyHandle
}

// UUID returns h as a uuid.UUID.
func (h Handle) UUID() uuid.UUID {
	return uuid.UUID(h)
}

// Bytes returns the 16-byte persisted form of h.
func (h Handle) Bytes() [HandleSize]byte {
	return [HandleSize]byte(h)
}

// String returns the canonical text form of h, or "" for the empty handle.
func (h Handle) String() string {
	if h.IsEmpty() {
		return ""
	}
	return uuid.UUID(h).String()
}

// handleSource mints handles for a registry.
type handleSource func() Handle
