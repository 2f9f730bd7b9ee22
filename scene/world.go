package scene

import (
	"log/slog"
	"slices"
	"time"

	"github.com/oriumgames/objref"
)

// World is the root of the running game: it owns the loaded scenes,
// updates their components every tick and runs deferred destruction.
type World struct {
	reg   *objref.Registry
	log   *slog.Logger
	clock func() time.Time

	scenes []objref.Ref[*Scene]
	queue  *destroyQueue

	ticks    uint64
	lastTick time.Time
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the world's logger. Defaults to the registry's logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithClock sets the time source used for deferred destruction. Defaults
// to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(w *World) { w.clock = clock }
}

// NewWorld returns an empty world whose objects live in reg.
func NewWorld(reg *objref.Registry, opts ...Option) *World {
	w := &World{
		reg:   reg,
		log:   reg.Logger(),
		clock: time.Now,
		queue: newDestroyQueue(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the registry the world's objects live in.
func (w *World) Registry() *objref.Registry {
	return w.reg
}

// NewScene creates and loads a scene named name.
func (w *World) NewScene(name string) (*Scene, error) {
	s := &Scene{world: w}
	s.SetName(name)
	s.AddFlags(objref.FlagLifecycleManaged)
	if err := w.reg.Construct(s); err != nil {
		return nil, err
	}
	w.scenes = append(w.scenes, objref.RefFrom(s))
	w.log.Debug("scene: loaded", "scene", name, "handle", s.Handle().String())
	return s, nil
}

// Scenes returns the loaded scenes that are still alive.
func (w *World) Scenes() []*Scene {
	w.prune()
	out := make([]*Scene, 0, len(w.scenes))
	for _, r := range w.scenes {
		out = append(out, r.Ptr())
	}
	return out
}

// Scene returns the first loaded scene named name, or nil.
func (w *World) Scene(name string) *Scene {
	for _, s := range w.Scenes() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// UnloadScene destroys s and everything in it.
func (w *World) UnloadScene(s *Scene) bool {
	i := slices.IndexFunc(w.scenes, func(r objref.Ref[*Scene]) bool { return r.Handle() == s.Handle() })
	if i < 0 {
		return false
	}
	ref := w.scenes[i]
	w.scenes = slices.Delete(w.scenes, i, i+1)
	objref.DestroyObject(ref, true)
	ref.Release()
	return true
}

// prune drops scenes destroyed outside the world.
func (w *World) prune() {
	w.scenes = slices.DeleteFunc(w.scenes, func(r objref.Ref[*Scene]) bool {
		if r.IsValid() {
			return false
		}
		r.Release()
		return true
	})
}

// Tick updates every enabled component of every active node, stage by
// stage, then destroys the objects whose deferred destruction is due.
// Objects created during a stage are first updated in the next stage they
// belong to; objects destroyed during a stage are skipped.
func (w *World) Tick(dt time.Duration) {
	w.ticks++
	w.lastTick = w.clock()

	for stage := Before; stage < stageCount; stage++ {
		for _, c := range w.collect() {
			run(c, stage, dt)
		}
	}

	w.processDestroys(w.clock())
}

// collect snapshots the components to consider for a stage.
func (w *World) collect() []Component {
	var out []Component
	for _, s := range w.Scenes() {
		s.Walk(func(n *Node) bool {
			if n.Active() {
				out = append(out, n.Components()...)
			}
			return true
		})
	}
	return out
}

func (w *World) processDestroys(now time.Time) {
	due := w.queue.popDue(now)
	if len(due) == 0 {
		return
	}
	destroyed := 0
	for _, p := range due {
		if w.reg.DestroyObject(p.handle, true) {
			destroyed++
		}
	}
	w.log.Debug("scene: deferred destroy", "due", len(due), "destroyed", destroyed)
}

// DestroyAfter schedules h for forced destruction once delay has passed,
// at the end of the tick that observes it. A zero delay destroys at the
// end of the current or next tick.
func (w *World) DestroyAfter(h objref.Handle, delay time.Duration) *Timer {
	return &Timer{p: w.queue.push(h, w.clock().Add(delay))}
}

// DestroyLater schedules obj for destruction at the end of the tick.
func (w *World) DestroyLater(obj objref.Object) *Timer {
	return w.DestroyAfter(objref.HandleOf(obj), 0)
}

// PendingDestroys returns the number of scheduled destructions.
func (w *World) PendingDestroys() int {
	return w.queue.len()
}

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 {
	return w.ticks
}

// LastTick returns the clock reading at the start of the last tick.
func (w *World) LastTick() time.Time {
	return w.lastTick
}

// End unloads every scene and runs every pending destruction immediately.
// The world can be reused afterwards.
func (w *World) End() {
	scenes := w.scenes
	w.scenes = nil
	for _, r := range scenes {
		objref.DestroyObject(r, true)
		r.Release()
	}
	for _, p := range w.queue.drain() {
		w.reg.DestroyObject(p.handle, true)
	}
	w.log.Debug("scene: world ended", "ticks", w.ticks)
}
