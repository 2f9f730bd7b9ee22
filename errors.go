package objref

import "errors"

var (
	// ErrNullTarget is returned when dereferencing a reference whose target
	// is not live. Callers recover by re-checking IsValid.
	ErrNullTarget = errors.New("objref: null target")

	// ErrTypeMismatch is returned when a live target is not of the
	// reference's element type.
	ErrTypeMismatch = errors.New("objref: target type mismatch")

	// ErrHandleInUse is returned when registering an object under a handle
	// that already maps to a live object.
	ErrHandleInUse = errors.New("objref: handle already in use")

	// ErrHandleRetired is returned when registering an object under a handle
	// whose previous object was destroyed. Handles are never revived.
	ErrHandleRetired = errors.New("objref: handle retired")

	// ErrAlreadyConstructed is returned by Construct for an object that
	// already carries a handle.
	ErrAlreadyConstructed = errors.New("objref: object already constructed")

	// ErrShortHandle is returned when a stream ends inside a handle.
	ErrShortHandle = errors.New("objref: short handle")
)
