package scene

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/oriumgames/objref"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestWorld(t *testing.T) (*World, *fakeClock) {
	t.Helper()
	reg := objref.NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	w := NewWorld(reg, WithClock(clock.Now))
	t.Cleanup(func() {
		w.End()
		reg.Terminate()
	})
	return w, clock
}

func mustScene(t *testing.T, w *World, name string) *Scene {
	t.Helper()
	s, err := w.NewScene(name)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s
}

func mustNode(t *testing.T, s *Scene, name string) *Node {
	t.Helper()
	n, err := s.NewNode(name)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	return n
}

// counter is a component that logs its calls.
type counter struct {
	ComponentBase

	stage   Stage
	log     *[]string
	name    string
	started int
	updates int
	onTick  func(c *counter)
}

func (c *counter) Stage() Stage { return c.stage }

func (c *counter) Start() {
	c.started++
	*c.log = append(*c.log, c.name+".start")
}

func (c *counter) Update(time.Duration) {
	c.updates++
	*c.log = append(*c.log, c.name+".update")
	if c.onTick != nil {
		c.onTick(c)
	}
}
