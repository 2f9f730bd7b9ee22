package objref

import (
	"errors"
	"fmt"
	"io"
)

// WriteHandle writes the 16-byte persisted form of h.
func WriteHandle(w io.Writer, h Handle) error {
	b := h.Bytes()
	_, err := w.Write(b[:])
	return err
}

// ReadHandle reads a handle written by WriteHandle. A stream that ends
// inside the handle yields ErrShortHandle.
func ReadHandle(r io.Reader) (Handle, error) {
	var b [HandleSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return EmptyHandle, fmt.Errorf("%w: %w", ErrShortHandle, err)
		}
		return EmptyHandle, err
	}
	return Handle(b), nil
}

func handleFromBytes(data []byte) (Handle, error) {
	if len(data) != HandleSize {
		return EmptyHandle, fmt.Errorf("%w: got %d bytes", ErrShortHandle, len(data))
	}
	return Handle([HandleSize]byte(data)), nil
}

// MarshalBinary implements encoding.BinaryMarshaler. Only the handle is
// written.
func (w Weak[T]) MarshalBinary() ([]byte, error) {
	b := w.handle.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The reference
// resolves in the process-wide registry.
func (w *Weak[T]) UnmarshalBinary(data []byte) error {
	h, err := handleFromBytes(data)
	if err != nil {
		return err
	}
	*w = NewWeak[T](h)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (w Weak[T]) MarshalText() ([]byte, error) {
	return []byte(w.handle.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weak[T]) UnmarshalText(text []byte) error {
	h, err := ParseHandle(string(text))
	if err != nil {
		return fmt.Errorf("objref: weak reference: %w", err)
	}
	*w = NewWeak[T](h)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. Only the handle is
// written.
func (r Ref[T]) MarshalBinary() ([]byte, error) {
	b := r.handle.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Any previous
// ownership is released and the decoded reference owns its target in the
// process-wide registry.
func (r *Ref[T]) UnmarshalBinary(data []byte) error {
	h, err := handleFromBytes(data)
	if err != nil {
		return err
	}
	r.Release()
	*r = NewRef[T](h)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Ref[T]) MarshalText() ([]byte, error) {
	return []byte(r.handle.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Ref[T]) UnmarshalText(text []byte) error {
	h, err := ParseHandle(string(text))
	if err != nil {
		return fmt.Errorf("objref: owning reference: %w", err)
	}
	r.Release()
	*r = NewRef[T](h)
	return nil
}
