package store

import (
	"sync"

	"github.com/flowgrid/flowgrid/ferrors"
)

// TransientStore is a mutably-viewed Store. Set/Erase apply immediately to
// an internal working Store; Persistent freezes the accumulated changes
// back into an immutable Store. Only one TransientStore may be active per
// Root at a time (spec.md §4.1).
type TransientStore struct {
	root    *Root
	base    Store
	working Store
}

// Get reads the transient's current working value.
func (t *TransientStore) Get(path Path) (Primitive, error) { return t.working.Get(path) }

// Set binds path to value in the working store.
func (t *TransientStore) Set(path Path, value Primitive) { t.working = t.working.set(path, value) }

// Erase removes path from the working store.
func (t *TransientStore) Erase(path Path) { t.working = t.working.erase(path) }

// Persistent freezes the working store into an immutable snapshot, without
// affecting the owning Root's committed store.
func (t *TransientStore) Persistent() Store { return t.working }

// Root owns the single committed Store for a process and enforces the
// single-active-transient invariant.
type Root struct {
	mu      sync.Mutex
	current Store
	active  *TransientStore
}

// NewRoot creates a Root seeded with an empty Store.
func NewRoot() *Root {
	return &Root{current: Empty}
}

// Current returns the committed Store. Safe to call while a transient is
// active; it reflects the last committed snapshot, not in-flight changes.
func (r *Root) Current() Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Get reads directly from the committed store.
func (r *Root) Get(path Path) (Primitive, error) { return r.Current().Get(path) }

// BeginTransient opens a new TransientStore seeded from the committed
// store. It is StoreFault to call this while a transient is already active.
func (r *Root) BeginTransient() (*TransientStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return nil, ferrors.Errorf(ferrors.TransientActive)
	}

	t := &TransientStore{root: r, base: r.current, working: r.current}
	r.active = t
	return t, nil
}

// EndTransient closes t. If commit is true the working store becomes the
// new committed store and the Patch between base and working is returned;
// if false the working store is discarded and an empty Patch is returned.
// It is StoreFault to pass a TransientStore that isn't the currently active
// one.
func (r *Root) EndTransient(t *TransientStore, commit bool) (Patch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil || r.active != t {
		return Patch{}, ferrors.Errorf(ferrors.TransientInvalid)
	}

	defer func() { r.active = nil }()

	if !commit {
		return Patch{}, nil
	}

	patch := Diff(t.base, t.working)
	r.current = t.working
	return patch, nil
}

// Publish overwrites the committed store directly, bypassing the
// transient/patch machinery. Used when restoring a History snapshot
// (Undo/Redo/SetHistoryIndex) and when loading a project file, where no
// incremental Patch is meaningful.
func (r *Root) Publish(s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
}

// IsTransientActive reports whether a transient is currently open.
func (r *Root) IsTransientActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}
