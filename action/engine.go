package action

import (
	"sync"
	"time"

	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/dispatch"
	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/flog"
	"github.com/flowgrid/flowgrid/store"
)

// GestureDurationSec is the idle interval after which an open gesture is
// committed to History even without a forcing toggle-like action
// (spec.md §4.1 "Gesture commit occurs when ... (b)").
const GestureDurationSec = 1.0

// Record is one committed step of History: the Store snapshot immediately
// after a Gesture applied, the Gesture itself, and the wall-clock commit
// time (spec.md §3 "History").
type Record struct {
	CommitTime time.Time
	Snapshot   store.Store
	Gesture    Gesture
}

// Applier applies one Action against a TransientStore, or reports that it
// does not recognize the Action's Kind. Concrete handlers for Connect,
// SetSampleRate, and the other non-Store-only actions are registered by
// the owning subsystem (audiograph, faust) rather than living in this
// package, keeping action/engine.go ignorant of graph/DSP internals
// (package doc, spec.md §4.1).
type Applier func(t *store.TransientStore, a Action) error

// Engine owns the Store's single Root, the Action queue, the in-progress
// Gesture, and the History list (spec.md §4.1's full public contract:
// apply/can_apply, enqueue/run_queued, undo/redo/set_history_index).
type Engine struct {
	mu sync.Mutex

	root    *store.Root
	arena   *component.Arena
	dispatch *dispatch.Registry
	log     *flog.Logger

	appliers map[Kind]Applier

	queue   []ActionMoment
	current Gesture
	lastAt  time.Time

	history []Record
	index   int

	syncHook func(store.Store)
}

// NewEngine creates an Engine over an empty Store, seeded with the
// invariant initial History record (spec.md §3 "record[0] is the initial
// empty store").
func NewEngine(arena *component.Arena, reg *dispatch.Registry, log *flog.Logger) *Engine {
	root := store.NewRoot()
	return &Engine{
		root:     root,
		arena:    arena,
		dispatch: reg,
		log:      log,
		appliers: make(map[Kind]Applier),
		history:  []Record{{Snapshot: root.Current()}},
		index:    0,
	}
}

// Root exposes the Engine's store.Root for read access (e.g. project save).
func (e *Engine) Root() *store.Root { return e.root }

// SetSyncHook registers fn to run every time the Engine publishes a Store
// snapshot that didn't arrive through the normal forward-apply Appliers:
// Undo, Redo, SetHistoryIndex, and project load (project.ApplyState /
// project.LoadActions's SetHistoryIndex call) all restore a snapshot
// directly rather than replaying the original Connect/Disconnect/
// SetSampleRate/SetDeviceFormat actions. The audio graph and Faust host own
// side-effecting state (Graph.connections, Graph.SampleRate, negotiated
// device Formats) that is never itself a component.Field, so it cannot
// track the Store through the Change Dispatch registry the way ordinary
// Fields do; fn is how cmd/flowgrid re-derives that state after any such
// snapshot, keeping action/engine.go itself ignorant of audiograph/faust
// (package doc).
func (e *Engine) SetSyncHook(fn func(store.Store)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncHook = fn
}

// Resync invokes the registered sync hook (if any) with the Engine's
// currently published snapshot. project.ApplyState calls this after a
// project-load Publish, since that path bypasses publishIndex.
func (e *Engine) Resync() {
	e.mu.Lock()
	fn := e.syncHook
	e.mu.Unlock()
	if fn != nil {
		fn(e.root.Current())
	}
}

// RegisterApplier wires a handler for one Action Kind. Built-in handling
// of SetValue/SetValues/ToggleValue/ApplyPatch and the history-navigation
// kinds happens inside Apply directly; RegisterApplier is for Kinds the
// audio graph or Faust host own (Connect, Disconnect, SetSampleRate,
// SetDeviceFormat).
func (e *Engine) RegisterApplier(k Kind, fn Applier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appliers[k] = fn
}

// Enqueue is the thread-safe producer side: any thread may call this to
// submit an Action for the main loop to apply (spec.md §4.1 "enqueue").
func (e *Engine) Enqueue(a Action, now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append(e.queue, ActionMoment{Action: a, Time: now})
}

// CanApply reports whether a is applicable under the Engine's current
// committed state. The base implementation only rejects SetHistoryIndex
// with an out-of-range index and Undo/Redo at the History boundary;
// richer preconditions live with whatever subsystem owns the Action kind.
func (e *Engine) CanApply(a Action) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch a.Kind {
	case KindUndo:
		return e.index > 0
	case KindRedo:
		return e.index < len(e.history)-1
	case KindSetHistoryIndex:
		return a.HistoryIndex >= 0 && a.HistoryIndex < len(e.history)
	}
	return true
}

// RunQueued drains the Engine's queue, single-threaded on the main loop,
// implementing spec.md §4.1's gesture algorithm steps 1-2. forceCommit
// additionally commits any still-open gesture at the end of the drain
// (used when the caller knows no more user interaction is imminent, e.g.
// before saving a project).
func (e *Engine) RunQueued(forceCommit bool, now time.Time) {
	e.mu.Lock()
	queued := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, am := range queued {
		a := am.Action

		// SaveCurrent with no current path rewrites to ShowSaveDialog
		// (spec.md §4.1 step 1 special-case). FilePath == "" models "no
		// current path".
		if a.Kind == KindSaveCurrentProject && a.FilePath == "" {
			a.Kind = KindShowSaveProjectDialog
		}

		if !e.CanApply(a) {
			continue
		}

		if err := e.apply(a, am.Time); err != nil {
			if e.log != nil {
				e.log.Logf(flog.Allow, "action", "%v", err)
			}
			continue
		}

		if a.ToggleLike() {
			e.commitGesture(am.Time)
		}
	}

	idle := now.Sub(e.lastAt).Seconds() >= GestureDurationSec
	if (forceCommit || idle) && len(e.current) > 0 {
		e.commitGesture(now)
	}
}

// apply dispatches a single Action: built-in Store-only kinds are handled
// directly, history-navigation kinds call their Engine methods, and
// everything else goes through a registered Applier. Savable actions
// commit their own transient and refresh dependent fields before
// returning, per spec.md §4.1 step 1's "Apply the action. If savable:
// commit the transient, obtain a Patch, refresh dependent fields, append
// the ActionMoment to the open gesture."
func (e *Engine) apply(a Action, at time.Time) error {
	switch a.Kind {
	case KindUndo:
		return e.undoLocked(at)
	case KindRedo:
		return e.redoLocked(at)
	case KindSetHistoryIndex:
		return e.setHistoryIndexLocked(a.HistoryIndex, at)
	}

	t, err := e.root.BeginTransient()
	if err != nil {
		return ferrors.Errorf(ferrors.StoreFault, err)
	}

	switch a.Kind {
	case KindSetValue:
		t.Set(a.Path, a.Value)
	case KindSetValues:
		for _, v := range a.Values {
			t.Set(v.Path, v.Value)
		}
	case KindToggleValue:
		cur, _ := t.Get(a.Path)
		b, _ := cur.AsBool()
		t.Set(a.Path, store.Bool(!b))
	case KindApplyPatch:
		for _, e := range a.Patch.Ops {
			switch e.Op.Kind {
			case store.Add, store.Replace:
				t.Set(e.Path, e.Op.Value)
			case store.Remove:
				t.Erase(e.Path)
			}
		}
	default:
		e.mu.Lock()
		fn := e.appliers[a.Kind]
		e.mu.Unlock()
		if fn == nil {
			_, _ = e.root.EndTransient(t, false)
			return ferrors.Errorf(ferrors.UnsupportedAction, a.Kind)
		}
		if err := fn(t, a); err != nil {
			_, _ = e.root.EndTransient(t, false)
			return ferrors.Errorf(ferrors.ActionInvalid, err)
		}
	}

	patch, err := e.root.EndTransient(t, true)
	if err != nil {
		return ferrors.Errorf(ferrors.StoreFault, err)
	}

	if a.Savable() {
		if e.dispatch != nil && e.arena != nil {
			e.dispatch.Dispatch(e.arena, e.root, patch, true, at)
		}
		e.current = append(e.current, ActionMoment{Action: a, Time: at})
		e.lastAt = at
	}
	return nil
}

// commitGesture runs mergeGesture over the open gesture and, if anything
// survives, appends a new History record and truncates any redo tail
// (spec.md §4.1 step 3, §3 History invariant).
func (e *Engine) commitGesture(at time.Time) {
	merged := mergeGesture(e.current)
	e.current = nil
	if len(merged) == 0 {
		return
	}

	e.history = e.history[:e.index+1]
	e.history = append(e.history, Record{
		CommitTime: at,
		Snapshot:   e.root.Current(),
		Gesture:    merged,
	})
	e.index = len(e.history) - 1
}

// Undo moves the History cursor back one record, reverting any open
// gesture first (spec.md §4.1 "undo/redo/set_history_index ... revert
// current pending gesture before moving").
func (e *Engine) Undo(at time.Time) error { return e.apply(Action{Kind: KindUndo}, at) }

// Redo moves the History cursor forward one record.
func (e *Engine) Redo(at time.Time) error { return e.apply(Action{Kind: KindRedo}, at) }

// SetHistoryIndex moves the cursor directly to i.
func (e *Engine) SetHistoryIndex(i int, at time.Time) error {
	return e.apply(Action{Kind: KindSetHistoryIndex, HistoryIndex: i}, at)
}

func (e *Engine) revertPending() {
	e.current = nil
}

func (e *Engine) undoLocked(at time.Time) error {
	if e.index == 0 {
		return ferrors.Errorf(ferrors.ActionInvalid, "undo at start of history")
	}
	e.revertPending()
	e.index--
	e.publishIndex(at)
	return nil
}

func (e *Engine) redoLocked(at time.Time) error {
	if e.index >= len(e.history)-1 {
		return ferrors.Errorf(ferrors.ActionInvalid, "redo at end of history")
	}
	e.revertPending()
	e.index++
	e.publishIndex(at)
	return nil
}

func (e *Engine) setHistoryIndexLocked(i int, at time.Time) error {
	if i < 0 || i >= len(e.history) {
		return ferrors.Errorf(ferrors.ActionInvalid, "history index out of range")
	}
	e.revertPending()
	e.index = i
	e.publishIndex(at)
	return nil
}

// publishIndex re-publishes the snapshot at the current index as the
// committed store and refreshes every dependent field, without producing
// an incremental Patch (history navigation is not itself a savable
// action, per spec.md §4.5 step 5's "produced by a savable action" carve
// out).
func (e *Engine) publishIndex(at time.Time) {
	snap := e.history[e.index].Snapshot
	prev := e.root.Current()
	e.root.Publish(snap)

	e.mu.Lock()
	hook := e.syncHook
	e.mu.Unlock()
	if hook != nil {
		hook(snap)
	}

	if e.dispatch == nil || e.arena == nil {
		return
	}
	patch := store.Diff(prev, snap)
	e.dispatch.Dispatch(e.arena, e.root, patch, false, at)
}

// History returns the Engine's committed Record list, read-only.
func (e *Engine) History() []Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Record(nil), e.history...)
}

// HistoryIndex returns the current cursor position.
func (e *Engine) HistoryIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}
