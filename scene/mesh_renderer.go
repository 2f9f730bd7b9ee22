package scene

import (
	"github.com/oriumgames/objref"
	"github.com/oriumgames/objref/asset"
)

// MeshRenderer draws a mesh with a material. It owns the material and is
// visible only while the material is available.
type MeshRenderer struct {
	ComponentBase

	Mesh     string
	Material objref.Ref[*asset.Material]

	visible bool
	reloads int
}

// NewMeshRenderer returns an unregistered renderer, taking over material.
func NewMeshRenderer(mesh string, material objref.Ref[*asset.Material]) *MeshRenderer {
	mr := &MeshRenderer{Mesh: mesh}
	mr.SetMaterial(material)
	return mr
}

// SetMaterial replaces the material, taking over the reference. Passing
// the renderer's own reference, or a copy of it, keeps the material.
func (mr *MeshRenderer) SetMaterial(material objref.Ref[*asset.Material]) {
	next := material.Clone()
	material.Release()
	if old := mr.Material.Handle(); !old.IsEmpty() && old != next.Handle() {
		mr.RemoveOutDependency(old)
	}
	mr.Material.Release()
	mr.Material = next
	mr.AddOutDependency(next.Handle())
	mr.visible = asset.IsAvailable(next.Ptr())
}

// Visible reports whether the renderer has an available material.
func (mr *MeshRenderer) Visible() bool {
	return mr.visible
}

// Reloads returns how many times the material reported a reload.
func (mr *MeshRenderer) Reloads() int {
	return mr.reloads
}

// OnConstruct implements objref.Object.
func (mr *MeshRenderer) OnConstruct() {
	mr.visible = asset.IsAvailable(mr.Material.Ptr())
}

// OnDestroy releases the material.
func (mr *MeshRenderer) OnDestroy() {
	mr.Material.Release()
}

// OnDependencyMessage follows the material's availability.
func (mr *MeshRenderer) OnDependencyMessage(h objref.Handle, msg objref.DependencyMessage) {
	if h != mr.Material.Handle() {
		return
	}
	switch msg {
	case objref.DependencyDestroyed:
		mr.Material.Release()
		mr.RemoveOutDependency(h)
		mr.visible = false
	case objref.DependencyUnavailable:
		mr.visible = false
	case objref.DependencyAvailable:
		mr.visible = asset.IsAvailable(mr.Material.Ptr())
	case objref.DependencyReloaded:
		mr.reloads++
	}
}
