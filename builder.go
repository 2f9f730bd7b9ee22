package objref

import (
	"log/slog"
)

// Builder configures a Registry before creation.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	logger      *slog.Logger
	handles     handleSource
	objectHooks []func(ObjectEvent)
	editHooks   []func(PostEditEvent)
}

// NewBuilder creates a new registry builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Logger sets the logger used by the registry. Defaults to slog.Default().
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// HandleSource replaces the function used to mint handles. Defaults to
// NewHandle. Tests use it to get predictable handles.
func (b *Builder) HandleSource(fn func() Handle) *Builder {
	b.handles = fn
	return b
}

// ObjectHook adds a listener fired on every create and destroy.
func (b *Builder) ObjectHook(fn func(ObjectEvent)) *Builder {
	b.objectHooks = append(b.objectHooks, fn)
	return b
}

// PostEditHook adds a listener fired when an editor mutates a field.
func (b *Builder) PostEditHook(fn func(PostEditEvent)) *Builder {
	b.editHooks = append(b.editHooks, fn)
	return b
}

// Build returns a new, independent registry.
func (b *Builder) Build() *Registry {
	r := newRegistry(b.logger, b.handles)
	for _, fn := range b.objectHooks {
		r.ObjectHook.Add(fn)
	}
	for _, fn := range b.editHooks {
		r.PostEditChanged.Add(fn)
	}
	return r
}

// Init builds a registry and installs it as the process-wide registry,
// terminating the previous one if any.
func (b *Builder) Init() *Registry {
	r := b.Build()
	if global != nil {
		global.Terminate()
	}
	global = r
	return r
}

// global is the process-wide registry used by the package-level functions
// and by references that are not bound to a registry yet.
var global *Registry

// Init installs a fresh process-wide registry with default settings,
// terminating the previous one.
func Init() *Registry {
	return NewBuilder().Init()
}

// Global returns the process-wide registry, installing a default one on
// first use.
func Global() *Registry {
	if global == nil {
		global = NewBuilder().Build()
	}
	return global
}

// Terminate force-destroys every object in the process-wide registry and
// uninstalls it. The next call to Global installs a fresh registry.
func Terminate() {
	if global == nil {
		return
	}
	global.Terminate()
	global = nil
}
