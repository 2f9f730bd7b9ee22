package objref

import (
	"io"
	"log/slog"
	"testing"
)

// received is one dependency message seen by a widget.
type received struct {
	from Handle
	msg  DependencyMessage
}

// widget is a managed object that records its lifecycle.
type widget struct {
	ObjectBase

	constructed int
	destroyed   int
	messages    []received

	onMessage func(p *widget, h Handle, msg DependencyMessage)
	onDestroy func(p *widget)
}

func (p *widget) OnConstruct() { p.constructed++ }

func (p *widget) OnDestroy() {
	p.destroyed++
	if p.onDestroy != nil {
		p.onDestroy(p)
	}
}

func (p *widget) OnDependencyMessage(h Handle, msg DependencyMessage) {
	p.messages = append(p.messages, received{from: h, msg: msg})
	if p.onMessage != nil {
		p.onMessage(p, h, msg)
	}
}

func (p *widget) count(h Handle, msg DependencyMessage) int {
	n := 0
	for _, m := range p.messages {
		if m.from == h && m.msg == msg {
			n++
		}
	}
	return n
}

// other is a second object type for type checks.
type other struct {
	ObjectBase
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewBuilder().Logger(quietLogger()).Build()
	t.Cleanup(r.Terminate)
	return r
}

// initGlobal installs a fresh process-wide registry for the test.
func initGlobal(t *testing.T) *Registry {
	t.Helper()
	r := NewBuilder().Logger(quietLogger()).Init()
	t.Cleanup(Terminate)
	return r
}

func mustConstruct(t *testing.T, r *Registry, obj Object) Handle {
	t.Helper()
	if err := r.Construct(obj); err != nil {
		t.Fatalf("Construct: %v", err)
	}
	return HandleOf(obj)
}
