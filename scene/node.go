package scene

import (
	"errors"
	"slices"

	"github.com/oriumgames/objref"
)

var (
	// ErrCycle is returned when reparenting would make a node its own
	// ancestor.
	ErrCycle = errors.New("scene: node cannot be its own ancestor")

	// ErrAttached is returned when adding a component that already belongs
	// to a live node.
	ErrAttached = errors.New("scene: component already attached")

	// ErrDetached is returned when operating on a node or scene that is not
	// alive.
	ErrDetached = errors.New("scene: object is not alive")
)

// Node is an element of a scene hierarchy. A node owns its children and
// components: destroying it destroys them too. It depends on each of them
// and forgets the ones destroyed elsewhere.
type Node struct {
	objref.ObjectBase

	scene      objref.Weak[*Scene]
	parent     objref.Weak[*Node]
	children   []objref.Ref[*Node]
	components []objref.Ref[Component]
	inactive   bool
	tags       []string
}

// Scene returns the scene the node belongs to, or nil.
func (n *Node) Scene() *Scene {
	return n.scene.Ptr()
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent.Ptr()
}

// ParentRef returns a weak reference to the parent node.
func (n *Node) ParentRef() objref.Weak[*Node] {
	return n.parent
}

// Active reports whether the node and all of its ancestors are active.
func (n *Node) Active() bool {
	for p := n; p != nil; p = p.Parent() {
		if p.inactive {
			return false
		}
	}
	return true
}

// SetActive activates or deactivates the node. Components of inactive
// nodes are skipped by World.Tick.
func (n *Node) SetActive(active bool) {
	n.inactive = !active
}

// AddTag adds a tag if not already present.
func (n *Node) AddTag(tag string) {
	if !slices.Contains(n.tags, tag) {
		n.tags = append(n.tags, tag)
	}
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.tags, tag)
}

// Children returns the live children in order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if child := c.Ptr(); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// NewChild creates a node named name under n.
func (n *Node) NewChild(name string) (*Node, error) {
	if !n.IsAlive() {
		return nil, ErrDetached
	}
	child := &Node{scene: n.scene}
	child.SetName(name)
	child.AddFlags(objref.FlagLifecycleManaged)
	if err := n.Registry().Construct(child); err != nil {
		return nil, err
	}
	n.adopt(objref.RefFrom(child))
	return child, nil
}

// AddChild moves child under n, detaching it from its current parent or
// scene.
func (n *Node) AddChild(child *Node) error {
	if !n.IsAlive() || !child.IsAlive() {
		return ErrDetached
	}
	for p := n; p != nil; p = p.Parent() {
		if p == child {
			return ErrCycle
		}
	}
	if child.Parent() == n {
		return nil
	}
	ref := child.detach()
	child.scene = n.scene
	n.adopt(ref)
	return nil
}

// Detach makes n a root of its scene.
func (n *Node) Detach() {
	if n.Parent() == nil {
		return
	}
	ref := n.detach()
	if s := n.Scene(); s != nil {
		s.adopt(ref)
		return
	}
	ref.Release()
}

// detach removes n from its parent or scene and returns the owning
// reference that held it.
func (n *Node) detach() objref.Ref[*Node] {
	h := n.Handle()
	if p := n.Parent(); p != nil {
		if ref, ok := p.take(h); ok {
			n.parent.Reset()
			return ref
		}
	}
	n.parent.Reset()
	if s := n.Scene(); s != nil {
		if ref, ok := s.take(h); ok {
			return ref
		}
	}
	return objref.RefFrom(n)
}

func (n *Node) adopt(ref objref.Ref[*Node]) {
	child := ref.Ptr()
	child.parent = objref.WeakFrom(n)
	n.children = append(n.children, ref)
	n.AddOutDependency(ref.Handle())
}

// take removes the child h from n without destroying it.
func (n *Node) take(h objref.Handle) (objref.Ref[*Node], bool) {
	i := slices.IndexFunc(n.children, func(r objref.Ref[*Node]) bool { return r.Handle() == h })
	if i < 0 {
		return objref.Ref[*Node]{}, false
	}
	ref := n.children[i].Move()
	n.children = slices.Delete(n.children, i, i+1)
	n.RemoveOutDependency(h)
	return ref, true
}

// AddComponent attaches c to n, constructing it in n's registry if needed.
func (n *Node) AddComponent(c Component) error {
	if !n.IsAlive() {
		return ErrDetached
	}
	b := c.componentBase()
	if owner := b.node.Ptr(); owner != nil && owner != n {
		return ErrAttached
	}
	b.node = objref.WeakFrom(n)
	if !objref.IsValid(c) {
		if err := n.Registry().Construct(c); err != nil {
			b.node.Reset()
			return err
		}
	}
	if slices.ContainsFunc(n.components, func(r objref.Ref[Component]) bool { return r.Handle() == c.componentBase().Handle() }) {
		return nil
	}
	n.components = append(n.components, objref.RefFrom[Component](c))
	n.AddOutDependency(c.componentBase().Handle())
	return nil
}

// Add attaches c to n and returns it.
func Add[T Component](n *Node, c T) (T, error) {
	if err := n.AddComponent(c); err != nil {
		var zero T
		return zero, err
	}
	return c, nil
}

// GetComponent returns the first live component of type T on n.
func GetComponent[T Component](n *Node) (T, bool) {
	for _, r := range n.components {
		if c, ok := r.Ptr().(T); ok && objref.IsValid(c) {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// Components returns the live components of n in order.
func (n *Node) Components() []Component {
	out := make([]Component, 0, len(n.components))
	for _, r := range n.components {
		if c := r.Ptr(); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// RemoveComponent destroys c if it is attached to n.
func (n *Node) RemoveComponent(c Component) bool {
	if c.componentBase().node.Ptr() != n {
		return false
	}
	return objref.Destroy(c)
}

// Transform returns the node's transform component, or nil.
func (n *Node) Transform() *Transform {
	t, _ := GetComponent[*Transform](n)
	return t
}

// Walk visits n and its descendants depth first until fn returns false.
// Nodes destroyed during the walk are skipped.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !n.IsAlive() {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children() {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// OnDependencyMessage forgets children and components destroyed
// elsewhere.
func (n *Node) OnDependencyMessage(h objref.Handle, msg objref.DependencyMessage) {
	if msg != objref.DependencyDestroyed {
		return
	}
	n.children = slices.DeleteFunc(n.children, func(r objref.Ref[*Node]) bool {
		if r.Handle() != h {
			return false
		}
		r.Release()
		return true
	})
	n.components = slices.DeleteFunc(n.components, func(r objref.Ref[Component]) bool {
		if r.Handle() != h {
			return false
		}
		r.Release()
		return true
	})
	n.RemoveOutDependency(h)
}

// OnDestroy destroys the node's components, then its children.
func (n *Node) OnDestroy() {
	components := n.components
	children := n.children
	n.components = nil
	n.children = nil
	for _, r := range components {
		objref.DestroyObject(r, true)
		r.Release()
	}
	for _, r := range children {
		objref.DestroyObject(r, true)
		r.Release()
	}
}
