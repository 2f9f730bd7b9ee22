package objref

// DependencyMessage is a lifecycle transition of a target object delivered
// to every object that depends on it.
type DependencyMessage int

const (
	// DependencyDestroyed is sent after the target has been removed from
	// the registry. The target's handle is already invalid when it arrives.
	DependencyDestroyed DependencyMessage = iota + 1

	// DependencyAvailable is sent when the target becomes usable, for
	// example an asset finishing its GPU upload.
	DependencyAvailable

	// DependencyUnavailable is sent when the target stops being usable
	// while staying alive.
	DependencyUnavailable

	// DependencyReloaded is sent after the target replaced its contents in
	// place, for example on a hot reload.
	DependencyReloaded
)

// String returns the message name.
func (m DependencyMessage) String() string {
	switch m {
	case DependencyDestroyed:
		return "Destroyed"
	case DependencyAvailable:
		return "Available"
	case DependencyUnavailable:
		return "Unavailable"
	case DependencyReloaded:
		return "Reloaded"
	default:
		return "Unknown"
	}
}

// dependencyGraph maps a target handle to the handles that depend on it.
// Edges own nothing; either endpoint may be gone.
type dependencyGraph struct {
	dependents map[Handle][]Handle
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{dependents: make(map[Handle][]Handle)}
}

// add records src -> dst. It returns false if the edge already exists.
func (g *dependencyGraph) add(src, dst Handle) bool {
	list := g.dependents[dst]
	for _, h := range list {
		if h == src {
			return false
		}
	}
	g.dependents[dst] = append(list, src)
	return true
}

// remove drops src -> dst.
func (g *dependencyGraph) remove(src, dst Handle) bool {
	list := g.dependents[dst]
	for i, h := range list {
		if h != src {
			continue
		}
		if len(list) == 1 {
			delete(g.dependents, dst)
			return true
		}
		g.dependents[dst] = append(list[:i:i], list[i+1:]...)
		return true
	}
	return false
}

func (g *dependencyGraph) has(src, dst Handle) bool {
	for _, h := range g.dependents[dst] {
		if h == src {
			return true
		}
	}
	return false
}

// snapshot returns a private copy of dst's dependents.
func (g *dependencyGraph) snapshot(dst Handle) []Handle {
	list := g.dependents[dst]
	if len(list) == 0 {
		return nil
	}
	out := make([]Handle, len(list))
	copy(out, list)
	return out
}

// dropTarget forgets every edge pointing at dst.
func (g *dependencyGraph) dropTarget(dst Handle) {
	delete(g.dependents, dst)
}

func (g *dependencyGraph) reset() {
	g.dependents = make(map[Handle][]Handle)
}
