package scene

// Stage orders component updates within a tick.
// Components are updated in stage order: Before → Default → After.
type Stage int

const (
	// Before stage runs first. Use for input handling and for state other
	// components read during the tick.
	Before Stage = iota

	// Default stage runs second. Most gameplay components run here.
	Default

	// After stage runs last. Use for cameras, follow logic and anything
	// that must see the final transforms of the tick.
	After

	// stageCount is the total number of stages.
	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}
