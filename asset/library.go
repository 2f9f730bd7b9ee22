package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/oriumgames/objref"
)

// Loader turns file contents into an asset.
type Loader interface {
	// Version is the semantic version of the loader's output format.
	Version() string
	// Load decodes data read from path.
	Load(lib *Library, path string, data []byte) (Asset, error)
}

// Reloader is implemented by loaders that can refresh an asset in place,
// keeping its handle.
type Reloader interface {
	Reload(lib *Library, a Asset, data []byte) error
}

type loaderEntry struct {
	loader  Loader
	version *semver.Version
}

// Library loads assets by path and keeps them alive until unloaded. Paths
// are slash separated and relative to the library's file system.
type Library struct {
	reg  *objref.Registry
	fsys fs.FS
	log  *slog.Logger

	loaders map[string]loaderEntry

	// owned holds the library's own reference to each loaded asset
	owned map[string]objref.Ref[Asset]

	// byPath and paths index loaded assets in both directions
	byPath map[string]objref.Handle
	paths  map[objref.Handle]string

	// assigned maps paths to handles recorded before loading
	assigned map[string]objref.Handle

	watcher *Watcher
	pending []string
	hook    objref.ListenerID
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the library's logger. Defaults to the registry's logger.
func WithLogger(l *slog.Logger) Option {
	return func(lib *Library) { lib.log = l }
}

// WithWatcher makes PollChanges consume path events from w.
func WithWatcher(w *Watcher) Option {
	return func(lib *Library) { lib.watcher = w }
}

// WithDefaultLoaders registers the texture, shader and material loaders.
func WithDefaultLoaders() Option {
	return func(lib *Library) {
		for _, ext := range []string{".png", ".bmp"} {
			lib.mustRegisterLoader(ext, TextureLoader{})
		}
		for _, ext := range []string{".glsl", ".shader"} {
			lib.mustRegisterLoader(ext, ShaderLoader{})
		}
		lib.mustRegisterLoader(".mat", MaterialLoader{})
	}
}

// NewLibrary returns a library that reads files from fsys and registers
// assets in reg.
func NewLibrary(reg *objref.Registry, fsys fs.FS, opts ...Option) *Library {
	lib := &Library{
		reg:      reg,
		fsys:     fsys,
		log:      reg.Logger(),
		loaders:  make(map[string]loaderEntry),
		owned:    make(map[string]objref.Ref[Asset]),
		byPath:   make(map[string]objref.Handle),
		paths:    make(map[objref.Handle]string),
		assigned: make(map[string]objref.Handle),
	}
	for _, opt := range opts {
		opt(lib)
	}
	lib.hook = reg.ObjectHook.Add(lib.onObject)
	return lib
}

// Registry returns the registry assets are registered in.
func (lib *Library) Registry() *objref.Registry {
	return lib.reg
}

// RegisterLoader installs l for files with extension ext (including the
// dot). It fails when the loader's version is not a semantic version.
func (lib *Library) RegisterLoader(ext string, l Loader) error {
	v, err := semver.NewVersion(l.Version())
	if err != nil {
		return fmt.Errorf("asset: loader for %s: %w", ext, err)
	}
	lib.loaders[strings.ToLower(ext)] = loaderEntry{loader: l, version: v}
	return nil
}

func (lib *Library) mustRegisterLoader(ext string, l Loader) {
	if err := lib.RegisterLoader(ext, l); err != nil {
		panic(err)
	}
}

func (lib *Library) loaderFor(p string) (loaderEntry, error) {
	ext := strings.ToLower(path.Ext(p))
	e, ok := lib.loaders[ext]
	if !ok {
		return loaderEntry{}, fmt.Errorf("%w: %q", ErrNoLoader, ext)
	}
	return e, nil
}

// Assign records that the asset at p uses handle h. References persisted
// with h resolve to the asset once it is loaded.
func (lib *Library) Assign(p string, h objref.Handle) {
	lib.assigned[p] = h
}

// Register adds an asset created in memory under p, constructing it if
// needed. The library keeps it alive until Unload.
func (lib *Library) Register(p string, a Asset) (objref.Ref[Asset], error) {
	if h, ok := lib.byPath[p]; ok && lib.reg.IsValid(h) {
		return objref.Ref[Asset]{}, fmt.Errorf("asset: %s already loaded: %w", p, objref.ErrHandleInUse)
	}
	b := a.assetBase()
	b.path = p
	if !objref.IsValid(a) {
		if err := lib.reg.ConstructAt(a, lib.assignedHandle(p)); err != nil {
			return objref.Ref[Asset]{}, err
		}
	}
	lib.index(p, a)
	lib.settle(a)
	return objref.RefFrom[Asset](a), nil
}

// LoadAssetAtPath returns an owning reference to the asset at p, loading
// it on first use.
func (lib *Library) LoadAssetAtPath(p string) (objref.Ref[Asset], error) {
	if h, ok := lib.byPath[p]; ok {
		if lib.reg.IsValid(h) {
			ref := objref.RefIn[Asset](lib.reg, h)
			if _, owned := lib.owned[p]; !owned {
				lib.owned[p] = ref.Clone()
			}
			return ref, nil
		}
		lib.forget(h)
	}

	e, err := lib.loaderFor(p)
	if err != nil {
		return objref.Ref[Asset]{}, err
	}
	data, err := fs.ReadFile(lib.fsys, p)
	if err != nil {
		return objref.Ref[Asset]{}, fmt.Errorf("asset: read %s: %w", p, err)
	}
	a, err := e.loader.Load(lib, p, data)
	if err != nil {
		return objref.Ref[Asset]{}, err
	}
	b := a.assetBase()
	b.path = p
	b.importer = e.version
	if err := lib.reg.ConstructAt(a, lib.assignedHandle(p)); err != nil {
		return objref.Ref[Asset]{}, err
	}
	lib.index(p, a)
	lib.settle(a)
	lib.log.Debug("asset: loaded", "path", p, "handle", a.assetBase().Handle().String(), "type", objref.TypeName(objref.TypeOf(a)))
	return objref.RefFrom[Asset](a), nil
}

// LoadAssetByID returns an owning reference to the asset with handle h,
// loading it from its assigned path if it is not live.
func (lib *Library) LoadAssetByID(h objref.Handle) (objref.Ref[Asset], error) {
	if h.IsEmpty() {
		return objref.Ref[Asset]{}, objref.ErrNullTarget
	}
	if obj := lib.reg.GetObject(h); obj != nil {
		if _, ok := obj.(Asset); !ok {
			return objref.Ref[Asset]{}, fmt.Errorf("%w: %s", objref.ErrTypeMismatch, h)
		}
		return objref.RefIn[Asset](lib.reg, h), nil
	}
	for p, assigned := range lib.assigned {
		if assigned == h {
			return lib.LoadAssetAtPath(p)
		}
	}
	return objref.Ref[Asset]{}, fmt.Errorf("%w: %s", ErrUnknownAsset, h)
}

// LoadAs loads the asset at p and checks that it is a T.
func LoadAs[T Asset](lib *Library, p string) (objref.Ref[T], error) {
	ref, err := lib.LoadAssetAtPath(p)
	if err != nil {
		return objref.Ref[T]{}, err
	}
	typed := objref.CastRef[T](ref)
	if _, err := typed.Get(); err != nil {
		typed.Release()
		return objref.Ref[T]{}, err
	}
	return typed, nil
}

// TryLoad makes ref resolve, loading its target by handle when it is not
// live. A ref that already resolves is left untouched.
func TryLoad[T Asset](lib *Library, ref *objref.Ref[T]) error {
	if ref.IsValid() {
		return nil
	}
	loaded, err := lib.LoadAssetByID(ref.Handle())
	if err != nil {
		return err
	}
	typed := objref.CastRef[T](loaded)
	if _, err := typed.Get(); err != nil {
		typed.Release()
		return err
	}
	ref.Release()
	*ref = typed
	return nil
}

// Instantiate returns an independent copy of the asset ref points to. The
// copy is registered with objref.FlagInstance and is not indexed by path.
func (lib *Library) Instantiate(ref objref.Ref[Asset]) (objref.Ref[Asset], error) {
	a, err := ref.Get()
	if err != nil {
		return objref.Ref[Asset]{}, err
	}
	src, ok := a.(Instantiable)
	if !ok {
		return objref.Ref[Asset]{}, fmt.Errorf("%w: %s", ErrNotInstantiable, objref.TypeName(objref.TypeOf(a)))
	}
	c := src.InstantiateAsset()
	cb := c.assetBase()
	cb.importer = a.assetBase().importer
	cb.SetName(a.assetBase().Name())
	cb.AddFlags(objref.FlagInstance)
	if err := lib.reg.Construct(c); err != nil {
		return objref.Ref[Asset]{}, err
	}
	lib.settle(c)
	return objref.RefFrom[Asset](c), nil
}

// Unload drops the library's reference to the asset at p. The asset is
// destroyed once no other owner holds it. It returns false if p was not
// loaded.
func (lib *Library) Unload(p string) bool {
	h, ok := lib.byPath[p]
	if !ok {
		return false
	}
	ref := lib.owned[p]
	delete(lib.owned, p)
	if !lib.reg.IsValid(h) {
		lib.forget(h)
	}
	ref.Release()
	return true
}

// Path returns the path the asset with handle h was loaded from.
func (lib *Library) Path(h objref.Handle) (string, bool) {
	p, ok := lib.paths[h]
	return p, ok
}

// Loaded returns the paths of all loaded assets.
func (lib *Library) Loaded() []string {
	out := make([]string, 0, len(lib.byPath))
	for p := range lib.byPath {
		out = append(out, p)
	}
	return out
}

// CheckImporter marks assets whose importer major version differs from
// their loader's current version as unavailable. It returns their paths.
func (lib *Library) CheckImporter() []string {
	var stale []string
	for p, h := range lib.byPath {
		a, ok := lib.reg.GetObject(h).(Asset)
		if !ok {
			continue
		}
		e, err := lib.loaderFor(p)
		if err != nil {
			continue
		}
		v := a.assetBase().importer
		if v == nil || v.Major() == e.version.Major() {
			continue
		}
		lib.log.Warn("asset: importer version changed",
			"path", p,
			"imported", v.String(),
			"current", e.version.String())
		a.assetBase().SetAvailable(false)
		stale = append(stale, p)
	}
	return stale
}

// MarkChanged queues p for reload by the next PollChanges.
func (lib *Library) MarkChanged(p string) {
	lib.pending = append(lib.pending, p)
}

// PollChanges drains queued and watched file changes and reloads the
// affected assets in place. Dependents receive Unavailable, Reloaded and
// Available in that order. It returns the number of assets reloaded.
func (lib *Library) PollChanges() int {
	if lib.watcher != nil {
		lib.drainWatcher()
	}
	pending := lib.pending
	lib.pending = nil

	seen := make(map[string]struct{}, len(pending))
	reloaded := 0
	for _, p := range pending {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if err := lib.reload(p); err != nil {
			lib.log.Warn("asset: reload failed", "path", p, "error", err)
			continue
		}
		reloaded++
	}
	return reloaded
}

func (lib *Library) drainWatcher() {
	for {
		select {
		case p, ok := <-lib.watcher.Events():
			if !ok {
				return
			}
			if _, loaded := lib.byPath[p]; loaded {
				lib.pending = append(lib.pending, p)
			}
		case err, ok := <-lib.watcher.Errors():
			if !ok {
				return
			}
			lib.log.Warn("asset: watcher error", "error", err)
		default:
			return
		}
	}
}

var errNotLoaded = errors.New("asset: not loaded")

func (lib *Library) reload(p string) error {
	h, ok := lib.byPath[p]
	if !ok {
		return errNotLoaded
	}
	a, ok := lib.reg.GetObject(h).(Asset)
	if !ok {
		return errNotLoaded
	}
	e, err := lib.loaderFor(p)
	if err != nil {
		return err
	}
	r, ok := e.loader.(Reloader)
	if !ok {
		return fmt.Errorf("asset: loader for %s cannot reload", path.Ext(p))
	}
	data, err := fs.ReadFile(lib.fsys, p)
	if err != nil {
		return err
	}

	b := a.assetBase()
	b.SetAvailable(false)
	if err := r.Reload(lib, a, data); err != nil {
		return err
	}
	b.importer = e.version
	b.Reload()
	lib.settle(a)
	return nil
}

// settle makes a freshly loaded or reloaded asset available. Assets that
// derive availability from dependencies recompute it instead.
func (lib *Library) settle(a Asset) {
	if m, ok := a.(interface{ refresh() }); ok {
		m.refresh()
		return
	}
	a.assetBase().SetAvailable(true)
}

func (lib *Library) assignedHandle(p string) objref.Handle {
	h := lib.assigned[p]
	if lib.reg.IsRetired(h) {
		return objref.EmptyHandle
	}
	return h
}

func (lib *Library) index(p string, a Asset) {
	h := a.assetBase().Handle()
	lib.byPath[p] = h
	lib.paths[h] = p
	lib.assigned[p] = h
	if _, ok := a.(Instantiable); ok {
		a.assetBase().AddFlags(objref.FlagInstantiable)
	}
	if _, ok := lib.owned[p]; !ok {
		lib.owned[p] = objref.RefIn[Asset](lib.reg, h)
	}
}

func (lib *Library) forget(h objref.Handle) {
	p, ok := lib.paths[h]
	if !ok {
		return
	}
	delete(lib.paths, h)
	if lib.byPath[p] == h {
		delete(lib.byPath, p)
		ref := lib.owned[p]
		delete(lib.owned, p)
		ref.Release()
	}
}

// onObject drops index entries for destroyed assets.
func (lib *Library) onObject(ev objref.ObjectEvent) {
	if !ev.Created {
		lib.forget(ev.Handle)
	}
}

// Close unloads every asset and detaches the library from its registry.
func (lib *Library) Close() {
	for p := range lib.byPath {
		lib.Unload(p)
	}
	lib.reg.ObjectHook.Remove(lib.hook)
}
