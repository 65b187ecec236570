// Package dispatch implements Change Dispatch (spec.md §4.5): translating a
// Patch into targeted Field refreshes and listener notifications without
// rescanning the whole component tree.
package dispatch

import (
	"sync"
	"time"

	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/store"
)

// Listener is notified when the Field it is registered against changes.
// Dispatch passes the Field's own store.Path as subPath, once per Field per
// Dispatch call; the individual changed element paths are not passed (they
// are available from Registry.ChangedPaths).
type Listener func(fieldID component.ID, subPath store.Path)

// GestureChange records a path that changed as part of a savable action,
// kept for the gesture-timing metrics described in spec.md §4.5 step 5.
type GestureChange struct {
	Path store.Path
	Time time.Time
}

// token identifies a registered Listener so it can be removed without
// leaving a dangling function pointer behind (spec.md §9).
type token struct {
	fieldID component.ID
	index   int
}

// Registry is the Field-ID-keyed listener registry and per-batch change
// bookkeeping described in spec.md §4.5.
type Registry struct {
	mu sync.Mutex

	listeners map[component.ID][]*Listener

	changedPaths        map[component.ID][]store.Path
	changedComponentIDs map[component.ID]bool

	gestureChangedPaths []GestureChange
}

// NewRegistry creates an empty change-dispatch Registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners:           make(map[component.ID][]*Listener),
		changedPaths:        make(map[component.ID][]store.Path),
		changedComponentIDs: make(map[component.ID]bool),
	}
}

// AddListener registers fn against fieldID and returns a token that
// Unlisten can use to remove it.
func (r *Registry) AddListener(fieldID component.ID, fn Listener) token {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners[fieldID] = append(r.listeners[fieldID], &fn)
	return token{fieldID: fieldID, index: len(r.listeners[fieldID]) - 1}
}

// Unlisten removes a previously registered Listener. Listeners must not
// add or remove other listeners from within their own callback
// (spec.md §4.5).
func (r *Registry) Unlisten(tok token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ls := r.listeners[tok.fieldID]
	if tok.index < 0 || tok.index >= len(ls) {
		return
	}
	ls[tok.index] = nil
}

// ChangedPaths returns the full store paths attributed to fieldID by the
// most recent Dispatch call.
func (r *Registry) ChangedPaths(fieldID component.ID) []store.Path {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.Path(nil), r.changedPaths[fieldID]...)
}

// ChangedComponentIDs reports whether componentID (a Field or one of its
// ancestors) changed in the most recent Dispatch call.
func (r *Registry) ChangedComponentIDs(componentID component.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changedComponentIDs[componentID]
}

// GestureChangedPaths returns every path recorded as changing by a savable
// action since the Registry was created or last drained.
func (r *Registry) GestureChangedPaths() []GestureChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GestureChange(nil), r.gestureChangedPaths...)
}

// DrainGestureChangedPaths returns and clears the gesture-change log.
func (r *Registry) DrainGestureChangedPaths() []GestureChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.gestureChangedPaths
	r.gestureChangedPaths = nil
	return out
}

// Dispatch runs the Change Dispatch algorithm (spec.md §4.5 steps 1-6) for
// one committed Patch: it finds the owning Field for each op path (falling
// back to parent/grandparent paths for container fields), refreshes that
// Field's cache from root, notifies every listener registered against it,
// and — when savable is true — records the change for gesture metrics.
// ChangedPaths/ChangedComponentIds are cleared at the start of the call,
// so after it returns they describe this Patch alone.
func (r *Registry) Dispatch(arena *component.Arena, root *store.Root, patch store.Patch, savable bool, now time.Time) {
	r.mu.Lock()
	r.changedPaths = make(map[component.ID][]store.Path)
	r.changedComponentIDs = make(map[component.ID]bool)
	r.mu.Unlock()

	changedFields := make(map[component.ID]bool)

	for _, op := range patch.Ops {
		field, ok := arena.FieldByPath(op.Path)
		if !ok {
			continue
		}

		r.mu.Lock()
		r.changedPaths[field.ID] = append(r.changedPaths[field.ID], op.Path)
		r.changedComponentIDs[field.ID] = true
		r.mu.Unlock()

		for _, ancestorID := range arena.Ancestors(field.ParentID) {
			r.mu.Lock()
			r.changedComponentIDs[ancestorID] = true
			r.mu.Unlock()
		}

		changedFields[field.ID] = true

		if savable {
			r.mu.Lock()
			r.gestureChangedPaths = append(r.gestureChangedPaths, GestureChange{Path: op.Path, Time: now})
			r.mu.Unlock()
		}
	}

	for fieldID := range changedFields {
		field, ok := arena.FieldByID(fieldID)
		if !ok {
			continue
		}
		_ = field.Refresh(root)

		r.mu.Lock()
		ls := append([]*Listener(nil), r.listeners[fieldID]...)
		r.mu.Unlock()

		for _, fn := range ls {
			if fn == nil {
				continue
			}
			(*fn)(fieldID, field.Path)
		}
	}
}
