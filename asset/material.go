package asset

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/oriumgames/objref"
)

// Material binds a shader, named texture slots and scalar parameters. It
// owns its shader and textures and depends on them: it is available only
// while every one of them is.
type Material struct {
	Base

	Shader   objref.Ref[*Shader]
	Textures map[string]objref.Ref[*Texture]
	Params   map[string]float64
}

// materialDef is the JSON format for material files.
type materialDef struct {
	Shader   string             `json:"shader"`
	Textures map[string]string  `json:"textures"`
	Params   map[string]float64 `json:"params"`
}

// NewMaterial returns an unregistered material using shader. The material
// takes over the reference.
func NewMaterial(shader objref.Ref[*Shader]) *Material {
	m := &Material{}
	m.SetShader(shader)
	return m
}

// SetShader replaces the material's shader, taking over the reference.
// Passing the material's own reference, or a copy of it, keeps the shader.
func (m *Material) SetShader(shader objref.Ref[*Shader]) {
	next := shader.Clone()
	shader.Release()
	if old := m.Shader.Handle(); !old.IsEmpty() && old != next.Handle() {
		m.RemoveOutDependency(old)
	}
	m.Shader.Release()
	m.Shader = next
	m.AddOutDependency(next.Handle())
	m.refresh()
}


// SetTexture binds tex to the named slot, taking over the reference.
func (m *Material) SetTexture(slot string, tex objref.Ref[*Texture]) {
	if m.Textures == nil {
		m.Textures = make(map[string]objref.Ref[*Texture])
	}
	next := tex.Clone()
	tex.Release()
	if old, ok := m.Textures[slot]; ok {
		m.dropTexture(slot, old)
	}
	m.Textures[slot] = next
	m.AddOutDependency(next.Handle())
	m.refresh()
}

// Texture returns the texture bound to slot.
func (m *Material) Texture(slot string) (*Texture, error) {
	ref, ok := m.Textures[slot]
	if !ok {
		return nil, objref.ErrNullTarget
	}
	return ref.Get()
}

// Param returns a scalar parameter, or fallback when unset.
func (m *Material) Param(name string, fallback float64) float64 {
	if v, ok := m.Params[name]; ok {
		return v
	}
	return fallback
}

func (m *Material) dropTexture(slot string, ref objref.Ref[*Texture]) {
	h := ref.Handle()
	delete(m.Textures, slot)
	ref.Release()
	for _, other := range m.Textures {
		if other.Handle() == h {
			return
		}
	}
	if h != m.Shader.Handle() {
		m.RemoveOutDependency(h)
	}
}

// ready reports whether every dependency is available.
func (m *Material) ready() bool {
	if !m.Shader.IsEmpty() && !IsAvailable(m.Shader.Ptr()) {
		return false
	}
	for _, tex := range m.Textures {
		if !IsAvailable(tex.Ptr()) {
			return false
		}
	}
	return true
}

func (m *Material) refresh() {
	m.SetAvailable(m.ready())
}

// OnConstruct implements objref.Object.
func (m *Material) OnConstruct() {
	m.refresh()
}

// OnDestroy releases the material's shader and textures.
func (m *Material) OnDestroy() {
	m.Shader.Release()
	for slot, tex := range m.Textures {
		tex.Release()
		delete(m.Textures, slot)
	}
}

// OnDependencyMessage follows the availability of the shader and textures.
func (m *Material) OnDependencyMessage(h objref.Handle, msg objref.DependencyMessage) {
	switch msg {
	case objref.DependencyDestroyed:
		if m.Shader.Handle() == h {
			m.Shader.Release()
		}
		for slot, tex := range m.Textures {
			if tex.Handle() == h {
				tex.Release()
				delete(m.Textures, slot)
			}
		}
		m.RemoveOutDependency(h)
		m.SetAvailable(false)
	case objref.DependencyUnavailable:
		m.SetAvailable(false)
	case objref.DependencyAvailable:
		m.refresh()
	case objref.DependencyReloaded:
		m.Reload()
	}
}

// InstantiateAsset implements Instantiable. The copy shares the shader and
// textures through its own owning references.
func (m *Material) InstantiateAsset() Asset {
	c := &Material{Params: maps.Clone(m.Params)}
	c.tags = m.Tags()
	c.SetShader(m.Shader.Clone())
	for slot, tex := range m.Textures {
		c.SetTexture(slot, tex.Clone())
	}
	return c
}

// MaterialLoader reads JSON material files. Shader and texture paths are
// loaded through the library.
type MaterialLoader struct{}

// Version implements Loader.
func (MaterialLoader) Version() string { return "2.0.0" }

// Load implements Loader.
func (l MaterialLoader) Load(lib *Library, path string, data []byte) (Asset, error) {
	m := &Material{}
	if err := l.apply(lib, m, path, data); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload implements Reloader.
func (l MaterialLoader) Reload(lib *Library, a Asset, data []byte) error {
	m, ok := a.(*Material)
	if !ok {
		return fmt.Errorf("%w: %T is not a material", ErrWrongLoader, a)
	}
	return l.apply(lib, m, m.Path(), data)
}

func (MaterialLoader) apply(lib *Library, m *Material, path string, data []byte) error {
	var def materialDef
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parse material %s: %w", path, err)
	}

	var shader objref.Ref[*Shader]
	if def.Shader != "" {
		ref, err := LoadAs[*Shader](lib, def.Shader)
		if err != nil {
			return fmt.Errorf("material %s: %w", path, err)
		}
		shader = ref
	}
	textures := make(map[string]objref.Ref[*Texture], len(def.Textures))
	for slot, texPath := range def.Textures {
		ref, err := LoadAs[*Texture](lib, texPath)
		if err != nil {
			shader.Release()
			for _, t := range textures {
				t.Release()
			}
			return fmt.Errorf("material %s: texture %s: %w", path, slot, err)
		}
		textures[slot] = ref
	}

	for slot, tex := range m.Textures {
		m.dropTexture(slot, tex)
	}
	m.Params = def.Params
	m.SetShader(shader)
	for slot, tex := range textures {
		m.SetTexture(slot, tex)
	}
	return nil
}
