package objref

import (
	"testing"
)

// Scenario: B depends on C; C is destroyed twice.
func TestDependencyDestroyedOnce(t *testing.T) {
	r := newTestRegistry(t)
	b, c := &widget{}, &widget{}
	mustConstruct(t, r, b)
	hc := mustConstruct(t, r, c)
	b.AddOutDependency(hc)

	if !b.HasOutDependency(hc) || !r.HasDependList(b.Handle(), hc) {
		t.Fatal("dependency not recorded")
	}

	r.DestroyObject(hc, true)
	if n := b.count(hc, DependencyDestroyed); n != 1 {
		t.Errorf("Destroyed delivered %d times, want 1", n)
	}
	r.DestroyObject(hc, true)
	if n := b.count(hc, DependencyDestroyed); n != 1 {
		t.Errorf("Destroyed delivered %d times after second destroy, want 1", n)
	}
}

func TestDependencyNotifyCompleteness(t *testing.T) {
	r := newTestRegistry(t)
	target := &widget{}
	th := mustConstruct(t, r, target)

	deps := make([]*widget, 8)
	for i := range deps {
		deps[i] = &widget{}
		mustConstruct(t, r, deps[i])
		deps[i].AddOutDependency(th)
		deps[i].AddOutDependency(th) // duplicates collapse
	}

	target.NotifyDependents(DependencyUnavailable)
	target.NotifyDependents(DependencyAvailable)
	r.DestroyObject(th, true)

	for i, d := range deps {
		for _, msg := range []DependencyMessage{DependencyUnavailable, DependencyAvailable, DependencyDestroyed} {
			if n := d.count(th, msg); n != 1 {
				t.Errorf("dependent %d got %s %d times, want 1", i, msg, n)
			}
		}
	}
}

func TestDependencyDeclaredBeforeConstruct(t *testing.T) {
	r := newTestRegistry(t)
	c := &widget{}
	hc := mustConstruct(t, r, c)

	b := &widget{}
	b.AddOutDependency(hc)
	if r.HasDependList(b.Handle(), hc) {
		t.Fatal("edge registered before construction")
	}
	mustConstruct(t, r, b)
	if !r.HasDependList(b.Handle(), hc) {
		t.Fatal("pending dependency not registered on construct")
	}

	r.DestroyObject(hc, true)
	if b.count(hc, DependencyDestroyed) != 1 {
		t.Error("Destroyed not delivered")
	}
}

func TestDependencyRemove(t *testing.T) {
	r := newTestRegistry(t)
	b, c := &widget{}, &widget{}
	mustConstruct(t, r, b)
	hc := mustConstruct(t, r, c)

	b.AddOutDependency(hc)
	b.RemoveOutDependency(hc)
	if b.HasOutDependency(hc) || r.HasDependList(b.Handle(), hc) {
		t.Fatal("dependency still recorded")
	}
	r.DestroyObject(hc, true)
	if len(b.messages) != 0 {
		t.Errorf("removed dependent received %v", b.messages)
	}
}

func TestDependencySelfEdgeIgnored(t *testing.T) {
	r := newTestRegistry(t)
	p := &widget{}
	h := mustConstruct(t, r, p)
	r.AddDependList(h, h)
	if r.HasDependList(h, h) {
		t.Error("self edge recorded")
	}
}

func TestDependencyDeadSourceSkipped(t *testing.T) {
	r := newTestRegistry(t)
	b, c := &widget{}, &widget{}
	hb := mustConstruct(t, r, b)
	hc := mustConstruct(t, r, c)
	b.AddOutDependency(hc)

	r.DestroyObject(hb, true)
	r.AddDependList(hb, hc) // stale edge from a destroyed source
	r.DestroyObject(hc, true)
	if len(b.messages) != 0 {
		t.Errorf("destroyed dependent received %v", b.messages)
	}
}

func TestDependencyReentrantDestruction(t *testing.T) {
	r := newTestRegistry(t)
	target := &widget{}
	th := mustConstruct(t, r, target)

	first, second, third := &widget{}, &widget{}, &widget{}
	for _, p := range []*widget{first, second, third} {
		mustConstruct(t, r, p)
		p.AddOutDependency(th)
	}

	// The first handler to run destroys itself, a sibling, and the target
	// again, constructs a new dependent and adds an edge. The walk must
	// stay consistent and deliver to each surviving source exactly once.
	var late *widget
	handled := false
	handler := func(p *widget, h Handle, msg DependencyMessage) {
		if handled || msg != DependencyDestroyed {
			return
		}
		handled = true
		for _, s := range []*widget{first, second, third} {
			if s != p {
				Destroy(s)
				break
			}
		}
		r.DestroyObject(th, true)
		late = &widget{}
		mustConstruct(t, r, late)
		late.AddOutDependency(th)
		Destroy(p)
	}
	first.onMessage = handler
	second.onMessage = handler
	third.onMessage = handler

	r.DestroyObject(th, true)

	total := 0
	for _, p := range []*widget{first, second, third} {
		n := p.count(th, DependencyDestroyed)
		if n > 1 {
			t.Errorf("a dependent got Destroyed %d times", n)
		}
		total += n
	}
	// One handler ran and killed one sibling; the third survivor also
	// receives the message.
	if total != 2 {
		t.Errorf("Destroyed delivered %d times in total, want 2", total)
	}
	if late == nil || late.count(th, DependencyDestroyed) != 0 {
		t.Error("a dependent added during the walk received the message")
	}
	if target.destroyed != 1 {
		t.Errorf("target OnDestroy called %d times, want 1", target.destroyed)
	}
}

func TestDependencyCascade(t *testing.T) {
	r := newTestRegistry(t)
	root := &widget{}
	hr := mustConstruct(t, r, root)

	// Each link destroys itself when its dependency is destroyed.
	chain := make([]*widget, 5)
	prev := hr
	for i := range chain {
		chain[i] = &widget{onMessage: func(p *widget, _ Handle, msg DependencyMessage) {
			if msg == DependencyDestroyed {
				Destroy(p)
			}
		}}
		mustConstruct(t, r, chain[i])
		chain[i].AddOutDependency(prev)
		prev = chain[i].Handle()
	}

	r.DestroyObject(hr, true)
	for i, p := range chain {
		if p.IsAlive() || p.destroyed != 1 {
			t.Errorf("link %d: alive=%v destroyed=%d", i, p.IsAlive(), p.destroyed)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d after cascade", r.Len())
	}
}

func TestDependencyMessageString(t *testing.T) {
	tests := []struct {
		msg  DependencyMessage
		want string
	}{
		{DependencyDestroyed, "Destroyed"},
		{DependencyAvailable, "Available"},
		{DependencyUnavailable, "Unavailable"},
		{DependencyReloaded, "Reloaded"},
		{DependencyMessage(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.msg.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.msg), got, tt.want)
		}
	}
}
