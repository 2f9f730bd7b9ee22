package objref

// ListenerID identifies a listener added to an Action.
type ListenerID uint64

type listener[A any] struct {
	id ListenerID
	fn func(A)
}

// Action is a multicast event sink. Listeners run synchronously in
// registration order. Listeners added or removed while the action is
// firing take effect on the next Invoke.
type Action[A any] struct {
	listeners []listener[A]
	nextID    ListenerID
}

// Add registers fn and returns an ID that can be passed to Remove.
// A nil fn is ignored and yields the zero ID.
func (a *Action[A]) Add(fn func(A)) ListenerID {
	if fn == nil {
		return 0
	}
	a.nextID++
	a.listeners = append(a.listeners, listener[A]{id: a.nextID, fn: fn})
	return a.nextID
}

// Remove unregisters the listener with the given ID.
// It returns false if no such listener exists.
func (a *Action[A]) Remove(id ListenerID) bool {
	for i, l := range a.listeners {
		if l.id == id {
			// Copy on remove so a snapshot held by a running Invoke is untouched.
			next := make([]listener[A], 0, len(a.listeners)-1)
			next = append(next, a.listeners[:i]...)
			a.listeners = append(next, a.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every listener.
func (a *Action[A]) Clear() {
	a.listeners = nil
}

// Len returns the number of registered listeners.
func (a *Action[A]) Len() int {
	return len(a.listeners)
}

// Invoke calls every listener with arg.
func (a *Action[A]) Invoke(arg A) {
	snapshot := a.listeners[:len(a.listeners):len(a.listeners)]
	for _, l := range snapshot {
		l.fn(arg)
	}
}

// ObjectEvent is delivered to Registry.ObjectHook on every create and
// destroy.
type ObjectEvent struct {
	Handle  Handle
	Type    TypeID
	Created bool
}

// PostEditEvent is delivered to Registry.PostEditChanged when an editor
// mutates a declared field of an object.
type PostEditEvent struct {
	Object Object
	Field  string
}
