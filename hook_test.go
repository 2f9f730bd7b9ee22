package objref

import "testing"

func TestActionInvokeOrder(t *testing.T) {
	var a Action[int]
	var got []int
	a.Add(func(v int) { got = append(got, v) })
	a.Add(func(v int) { got = append(got, v*10) })
	if a.Add(nil) != 0 {
		t.Error("nil listener got an ID")
	}

	a.Invoke(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 20 {
		t.Errorf("got %v, want [2 20]", got)
	}
}

func TestActionRemoveDuringInvoke(t *testing.T) {
	var a Action[string]
	calls := 0
	var second ListenerID
	a.Add(func(string) {
		calls++
		a.Remove(second)
		a.Add(func(string) { calls += 100 })
	})
	second = a.Add(func(string) { calls++ })

	// Changes made while firing apply to the next Invoke.
	a.Invoke("x")
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
	if a.Remove(second) {
		t.Error("removed listener removed twice")
	}
	a.Clear()
	a.Invoke("y")
	if a.Len() != 0 || calls != 2 {
		t.Error("Clear left listeners behind")
	}
}
