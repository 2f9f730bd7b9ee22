package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform places a node relative to its parent.
type Transform struct {
	ComponentBase

	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform returns an identity transform at position.
func NewTransform(position mgl64.Vec3) *Transform {
	return &Transform{
		Position: position,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// OnConstruct replaces a zero rotation and scale with identity.
func (t *Transform) OnConstruct() {
	if t.Rotation == (mgl64.Quat{}) {
		t.Rotation = mgl64.QuatIdent()
	}
	if t.Scale == (mgl64.Vec3{}) {
		t.Scale = mgl64.Vec3{1, 1, 1}
	}
}

// Local returns the matrix mapping node space to parent space.
func (t *Transform) Local() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// World returns the matrix mapping node space to world space, walking the
// parent chain. Ancestors without a transform contribute identity.
func (t *Transform) World() mgl64.Mat4 {
	m := t.Local()
	n := t.Node()
	if n == nil {
		return m
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if pt := p.Transform(); pt != nil {
			m = pt.Local().Mul4(m)
		}
	}
	return m
}

// WorldPosition returns the node's origin in world space.
func (t *Transform) WorldPosition() mgl64.Vec3 {
	return t.World().Col(3).Vec3()
}

// Translate moves the transform by d in parent space.
func (t *Transform) Translate(d mgl64.Vec3) {
	t.Position = t.Position.Add(d)
}

// Rotate rotates the transform by angle radians around axis.
func (t *Transform) Rotate(angle float64, axis mgl64.Vec3) {
	t.Rotation = mgl64.QuatRotate(angle, axis.Normalize()).Mul(t.Rotation).Normalize()
}

// Forward returns the direction the transform faces, -Z in node space.
func (t *Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}
