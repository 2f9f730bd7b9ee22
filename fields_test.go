package objref

import "testing"

type linkage struct {
	ObjectBase

	Target  Weak[*widget] `objref:"depend"`
	Owner   Ref[*widget]  `objref:"depend,transient"`
	Scratch Weak[*widget] `objref:"transient"`
	Plain   Weak[*widget]
	hidden  Weak[*widget]

	embeddedLinks
}

type embeddedLinks struct {
	Extra Weak[*widget] `objref:"depend"`
}

func TestMetaOf(t *testing.T) {
	m := MetaOf(&linkage{})
	want := []struct {
		name      string
		kind      FieldKind
		depend    bool
		transient bool
	}{
		{"Target", KindWeak, true, false},
		{"Owner", KindRef, true, true},
		{"Scratch", KindWeak, false, true},
		{"Plain", KindWeak, false, false},
		{"embeddedLinks.Extra", KindWeak, true, false},
	}
	if len(m.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %+v", len(m.Fields), len(want), m.Fields)
	}
	for i, w := range want {
		f := m.Fields[i]
		if f.Name != w.name || f.Kind != w.kind || f.Depend != w.depend || f.Transient != w.transient {
			t.Errorf("field %d = %+v, want %+v", i, f, w)
		}
	}
	if MetaOf(&linkage{}) != m {
		t.Error("metadata not cached")
	}
}

func TestTaggedFieldsDeclareDependencies(t *testing.T) {
	r := newTestRegistry(t)
	target, owner, extra, plain := &widget{}, &widget{}, &widget{}, &widget{}
	for _, p := range []*widget{target, owner, extra, plain} {
		mustConstruct(t, r, p)
	}

	l := &linkage{
		Target: WeakFrom(target),
		Owner:  RefFrom(owner),
		Plain:  WeakFrom(plain),
	}
	l.Extra = WeakFrom(extra)
	mustConstruct(t, r, l)
	defer l.Owner.Release()

	for _, h := range []Handle{target.Handle(), owner.Handle(), extra.Handle()} {
		if !l.HasOutDependency(h) || !r.HasDependList(l.Handle(), h) {
			t.Errorf("tagged field %s did not become a dependency", h)
		}
	}
	if l.HasOutDependency(plain.Handle()) {
		t.Error("untagged field became a dependency")
	}

	refs := References(l)
	if len(refs) != 3 {
		t.Fatalf("References = %+v, want Target, Plain and Extra", refs)
	}
	for _, fr := range refs {
		if fr.Field == "Owner" || fr.Field == "Scratch" {
			t.Errorf("transient field %s listed", fr.Field)
		}
	}
}

func TestFieldKindString(t *testing.T) {
	if KindWeak.String() != "Weak" || KindRef.String() != "Ref" || FieldKind(7).String() != "Unknown" {
		t.Error("unexpected FieldKind names")
	}
}
