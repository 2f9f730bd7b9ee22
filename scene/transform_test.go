package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var mgl64Zero = mgl64.Vec3{}

func TestTransformZeroValueIsIdentity(t *testing.T) {
	w, _ := newTestWorld(t)
	n := mustNode(t, mustScene(t, w, "Main"), "N")
	tr, err := Add(n, &Transform{})
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Local().ApproxEqual(mgl64.Ident4()) {
		t.Errorf("Local = %v", tr.Local())
	}
	if n.Transform() != tr {
		t.Error("Transform lookup failed")
	}
}

func TestTransformWorldComposesParents(t *testing.T) {
	w, _ := newTestWorld(t)
	s := mustScene(t, w, "Main")
	root := mustNode(t, s, "Root")
	mid, _ := root.NewChild("Mid")
	leaf, _ := mid.NewChild("Leaf")

	rootT := NewTransform(mgl64.Vec3{0, 5, 0})
	rootT.Scale = mgl64.Vec3{2, 2, 2}
	Add(root, rootT)
	// mid has no transform and contributes identity.
	leafT, _ := Add(leaf, NewTransform(mgl64.Vec3{1, 0, 0}))

	if got := leafT.WorldPosition(); !got.ApproxEqual(mgl64.Vec3{2, 5, 0}) {
		t.Errorf("WorldPosition = %v, want [2 5 0]", got)
	}

	rootT.Rotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	if got := leafT.WorldPosition(); !got.ApproxEqualThreshold(mgl64.Vec3{0, 5, -2}, 1e-9) {
		t.Errorf("rotated WorldPosition = %v, want [0 5 -2]", got)
	}

	leafT.Translate(mgl64.Vec3{-1, 0, 0})
	if got := leafT.WorldPosition(); !got.ApproxEqualThreshold(mgl64.Vec3{0, 5, 0}, 1e-9) {
		t.Errorf("translated WorldPosition = %v", got)
	}
}

func TestTransformForward(t *testing.T) {
	tr := NewTransform(mgl64Zero)
	if got := tr.Forward(); !got.ApproxEqual(mgl64.Vec3{0, 0, -1}) {
		t.Errorf("Forward = %v", got)
	}
	tr.Rotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	if got := tr.Forward(); !got.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Errorf("rotated Forward = %v, want [-1 0 0]", got)
	}
}

func TestTransformDetachedUsesLocal(t *testing.T) {
	tr := NewTransform(mgl64.Vec3{3, 4, 5})
	if got := tr.WorldPosition(); !got.ApproxEqual(mgl64.Vec3{3, 4, 5}) {
		t.Errorf("WorldPosition = %v", got)
	}
}
