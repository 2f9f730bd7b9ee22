package scene

import (
	"time"

	"github.com/oriumgames/objref"
)

// Component is a piece of behaviour or data attached to a Node. A type
// becomes a Component by embedding ComponentBase.
type Component interface {
	objref.Object
	componentBase() *ComponentBase
}

// Updater is implemented by components that run every tick.
type Updater interface {
	Update(dt time.Duration)
}

// Starter is implemented by components that need a call before their
// first update.
type Starter interface {
	Start()
}

// Staged is implemented by updaters that run outside the Default stage.
type Staged interface {
	Stage() Stage
}

// ComponentBase is the record every component embeds.
type ComponentBase struct {
	objref.ObjectBase

	node     objref.Weak[*Node]
	disabled bool
	started  bool
}

func (c *ComponentBase) componentBase() *ComponentBase { return c }

// Node returns the node the component is attached to, or nil.
func (c *ComponentBase) Node() *Node {
	return c.node.Ptr()
}

// NodeRef returns a weak reference to the owning node.
func (c *ComponentBase) NodeRef() objref.Weak[*Node] {
	return c.node
}

// Enabled reports whether the component takes part in updates.
func (c *ComponentBase) Enabled() bool {
	return !c.disabled
}

// SetEnabled enables or disables updates for the component.
func (c *ComponentBase) SetEnabled(enabled bool) {
	c.disabled = !enabled
}

func stageOf(c Component) Stage {
	if s, ok := c.(Staged); ok {
		return s.Stage()
	}
	return Default
}

// run updates c if it belongs to stage, starting it first when needed.
func run(c Component, stage Stage, dt time.Duration) {
	b := c.componentBase()
	if b.disabled || !objref.IsValid(c) {
		return
	}
	if stageOf(c) != stage {
		return
	}
	if !b.started {
		b.started = true
		if s, ok := c.(Starter); ok {
			s.Start()
			if !objref.IsValid(c) {
				return
			}
		}
	}
	if u, ok := c.(Updater); ok {
		u.Update(dt)
	}
}
