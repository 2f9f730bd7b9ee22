package asset

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to files under a root directory as library
// paths. Its goroutine only forwards events; the library consumes them in
// PollChanges.
type Watcher struct {
	w    *fsnotify.Watcher
	root string
	evC  chan string
	erC  chan error
	done chan struct{}
}

// NewWatcher starts watching root.
func NewWatcher(root string) (*Watcher, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(root); err != nil {
		w.Close()
		return nil, err
	}
	fw := &Watcher{
		w:    w,
		root: root,
		evC:  make(chan string, 128),
		erC:  make(chan error, 1),
		done: make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			p, ok := fw.libraryPath(ev.Name)
			if !ok {
				continue
			}
			select {
			case fw.evC <- p:
			default:
				// Full: the path is dropped, the next write re-queues it.
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

// libraryPath converts an OS path under root to a slash separated path
// relative to root.
func (fw *Watcher) libraryPath(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(fw.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Add watches an additional directory under root.
func (fw *Watcher) Add(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(fw.root, dir)
	}
	return fw.w.Add(dir)
}

// Root returns the watched root directory.
func (fw *Watcher) Root() string { return fw.root }

// Events returns the channel of changed library paths.
func (fw *Watcher) Events() <-chan string { return fw.evC }

// Errors returns the channel of watcher errors.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Close stops the watcher.
func (fw *Watcher) Close() error {
	err := fw.w.Close()
	<-fw.done
	return err
}
