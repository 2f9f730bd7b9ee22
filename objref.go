// Package objref provides handle-indirected object references for engine
// objects.
//
// Every managed object is registered in a Registry under a 128-bit Handle.
// Code never holds an object across frames directly; it holds a reference
// that resolves through a shared Slot:
//   - Weak[T] observes an object and turns invalid when it is destroyed
//   - Ref[T] owns an object and keeps it alive until the last owner releases
//   - both may be created before the object exists and resolve once it does
//
// # Quick Start
//
//	reg := objref.NewBuilder().
//	    Logger(slog.Default()).
//	    Init()
//
//	tex := &Texture{Width: 256, Height: 256}
//	if err := reg.Construct(tex); err != nil {
//	    return err
//	}
//
//	w := objref.WeakFrom(tex)
//	objref.Destroy(tex)
//	w.IsValid() // false
//
// # Dependencies
//
// An object that needs to know when another one changes declares an
// out-dependency and overrides OnDependencyMessage:
//
//	type Material struct {
//	    objref.ObjectBase
//	    Albedo objref.Ref[*Texture]
//	}
//
//	func (m *Material) OnDependencyMessage(h objref.Handle, msg objref.DependencyMessage) {
//	    if msg == objref.DependencyDestroyed && h == m.Albedo.Handle() {
//	        m.Albedo.Release()
//	    }
//	}
//
//	mat.AddOutDependency(tex.Handle())
//
// Messages are delivered synchronously. Handlers may construct and destroy
// objects, including the object that sent the message.
//
// # Persistence
//
// Handles persist as 16 bytes (WriteHandle, ReadHandle) or as their text
// form. Weak and Ref implement the encoding marshaler interfaces; a decoded
// reference resolves in the process-wide registry and waits for its target
// if it has not been loaded yet.
//
// # Concurrency
//
// objref is not safe for concurrent use. A Registry, its slots and every
// reference into it must be used from a single goroutine, normally the
// engine's update loop. Hooks and dependency handlers run on that goroutine
// before the call that triggered them returns.
package objref

// Version is the objref version.
const Version = "1.0.0"
