package scene

import (
	"slices"
	"unique"

	"github.com/oriumgames/objref"
)

// Scene is a set of node hierarchies. It owns its root nodes; destroying
// the scene destroys every node in it.
type Scene struct {
	objref.ObjectBase

	world *World
	roots []objref.Ref[*Node]
}

// World returns the world that loaded the scene.
func (s *Scene) World() *World {
	return s.world
}

// NewNode creates a root node named name.
func (s *Scene) NewNode(name string) (*Node, error) {
	if !s.IsAlive() {
		return nil, ErrDetached
	}
	n := &Node{scene: objref.WeakFrom(s)}
	n.SetName(name)
	n.AddFlags(objref.FlagLifecycleManaged)
	if err := s.Registry().Construct(n); err != nil {
		return nil, err
	}
	s.adopt(objref.RefFrom(n))
	return n, nil
}

func (s *Scene) adopt(ref objref.Ref[*Node]) {
	s.roots = append(s.roots, ref)
	s.AddOutDependency(ref.Handle())
}

func (s *Scene) take(h objref.Handle) (objref.Ref[*Node], bool) {
	i := slices.IndexFunc(s.roots, func(r objref.Ref[*Node]) bool { return r.Handle() == h })
	if i < 0 {
		return objref.Ref[*Node]{}, false
	}
	ref := s.roots[i].Move()
	s.roots = slices.Delete(s.roots, i, i+1)
	s.RemoveOutDependency(h)
	return ref, true
}

// Roots returns the live root nodes in order.
func (s *Scene) Roots() []*Node {
	out := make([]*Node, 0, len(s.roots))
	for _, r := range s.roots {
		if n := r.Ptr(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Walk visits every node depth first until fn returns false.
func (s *Scene) Walk(fn func(*Node) bool) {
	for _, n := range s.Roots() {
		if !n.Walk(fn) {
			return
		}
	}
}

// Find returns the first node named name, or nil.
func (s *Scene) Find(name string) *Node {
	key := unique.Make(name)
	var found *Node
	s.Walk(func(n *Node) bool {
		if n.IndexName() == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindByTag returns every node carrying tag.
func (s *Scene) FindByTag(tag string) []*Node {
	var out []*Node
	s.Walk(func(n *Node) bool {
		if n.HasTag(tag) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Renderables returns the visible mesh renderers of active nodes.
func (s *Scene) Renderables() []*MeshRenderer {
	var out []*MeshRenderer
	s.Walk(func(n *Node) bool {
		if !n.Active() {
			return true
		}
		for _, c := range n.Components() {
			if mr, ok := c.(*MeshRenderer); ok && mr.Enabled() && mr.Visible() {
				out = append(out, mr)
			}
		}
		return true
	})
	return out
}

// OnDependencyMessage forgets roots destroyed elsewhere.
func (s *Scene) OnDependencyMessage(h objref.Handle, msg objref.DependencyMessage) {
	if msg != objref.DependencyDestroyed {
		return
	}
	s.roots = slices.DeleteFunc(s.roots, func(r objref.Ref[*Node]) bool {
		if r.Handle() != h {
			return false
		}
		r.Release()
		return true
	})
	s.RemoveOutDependency(h)
}

// OnDestroy destroys every root node and with them the whole hierarchy.
func (s *Scene) OnDestroy() {
	roots := s.roots
	s.roots = nil
	for _, r := range roots {
		objref.DestroyObject(r, true)
		r.Release()
	}
}
