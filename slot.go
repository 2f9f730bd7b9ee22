package objref

// slotState is the tag of a Slot's target.
type slotState uint8

const (
	// slotWaiting: no object has registered under the handle yet.
	slotWaiting slotState = iota
	// slotLive: the target is present.
	slotLive
	// slotTombstone: the target is gone. Terminal.
	slotTombstone
)

// String returns the state name.
func (s slotState) String() string {
	switch s {
	case slotWaiting:
		return "Waiting"
	case slotLive:
		return "Live"
	case slotTombstone:
		return "Tombstone"
	default:
		return "Unknown"
	}
}

// Slot is the indirection cell shared by the registry and every reference
// that targets one handle. It holds the live object, if any, and the count
// of owning references.
//
// A slot moves from waiting to live at most once and from live to tombstone
// at most once. A tombstoned slot never holds an object again.
type Slot struct {
	handle   Handle
	registry *Registry
	state    slotState
	target   Object
	count    int
}

func newSlot(r *Registry, h Handle, state slotState) *Slot {
	return &Slot{handle: h, registry: r, state: state}
}

// Handle returns the handle the slot belongs to.
func (s *Slot) Handle() Handle {
	return s.handle
}

// Get returns the live target, or nil while waiting or after destruction.
func (s *Slot) Get() Object {
	if s == nil || s.state != slotLive {
		return nil
	}
	return s.target
}

// Live reports whether the slot currently holds its object.
func (s *Slot) Live() bool {
	return s != nil && s.state == slotLive
}

// Tombstoned reports whether the slot's object has been destroyed.
func (s *Slot) Tombstoned() bool {
	return s != nil && s.state == slotTombstone
}

// RefCount returns the number of owning references holding the slot.
func (s *Slot) RefCount() int {
	if s == nil {
		return 0
	}
	return s.count
}

func (s *Slot) fill(obj Object) bool {
	if s.state != slotWaiting {
		return false
	}
	s.target = obj
	s.state = slotLive
	return true
}

func (s *Slot) clear() {
	s.target = nil
	s.state = slotTombstone
}

func (s *Slot) incref() {
	s.count++
}

// decref returns the remaining count and whether a decrement happened.
// The count never goes below zero.
func (s *Slot) decref() (int, bool) {
	if s.count == 0 {
		return 0, false
	}
	s.count--
	return s.count, true
}
