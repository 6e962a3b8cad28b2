package keymap

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when operating on a closed watcher.
var ErrWatcherClosed = errors.New("keymap watcher is closed")

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithErrorHandler sets a handler for reload and watch errors.
func WithErrorHandler(fn func(path string, err error)) WatcherOption {
	return func(w *Watcher) {
		w.errHandler = fn
	}
}

// Watcher keeps a registry in sync with keymap files on disk.
// Created or modified keymap files are reloaded and re-registered;
// removed files are unregistered.
type Watcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	registry *Registry
	loader   *Loader

	// names maps watched file paths to registered keymap names.
	names map[string]string

	errHandler func(path string, err error)

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher feeding the given registry.
func NewWatcher(registry *Registry, loader *Loader, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		registry: registry,
		loader:   loader,
		names:    make(map[string]string),
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a keymap file or a directory of keymap files.
// Files already present are loaded immediately.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(absPath); err != nil {
		return err
	}

	if IsKeymapFile(absPath) {
		w.reloadLocked(absPath)
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(absPath, "*"))
	if err != nil {
		return nil
	}
	for _, m := range matches {
		if IsKeymapFile(m) {
			w.reloadLocked(m)
		}
	}
	return nil
}

// processLoop handles fsnotify events until Close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError("", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !IsKeymapFile(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		w.reloadLocked(event.Name)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if name, ok := w.names[event.Name]; ok {
			w.registry.Unregister(name)
			delete(w.names, event.Name)
		}
	}
}

// reloadLocked loads a keymap file and registers it.
// Caller must hold the lock.
func (w *Watcher) reloadLocked(path string) {
	km, err := w.loader.LoadFile(path)
	if err != nil {
		w.reportError(path, err)
		return
	}

	// A rename inside the same directory changes the derived name;
	// drop the old registration first.
	if old, ok := w.names[path]; ok && old != km.Name {
		w.registry.Unregister(old)
	}

	if err := w.registry.Register(km); err != nil {
		w.reportError(path, err)
		return
	}
	w.names[path] = km.Name
}

func (w *Watcher) reportError(path string, err error) {
	if w.errHandler != nil {
		w.errHandler(path, err)
	}
}

// WatchedKeymaps returns the names of keymaps currently managed by the
// watcher.
func (w *Watcher) WatchedKeymaps() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, 0, len(w.names))
	for _, name := range w.names {
		names = append(names, name)
	}
	return names
}

// Close stops watching and releases resources. The registry keeps any
// keymaps loaded so far.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
