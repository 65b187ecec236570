package action

import (
	"testing"
	"time"

	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/dispatch"
	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func newTestEngine() (*Engine, *component.Arena) {
	arena := component.NewArena()
	reg := dispatch.NewRegistry()
	return NewEngine(arena, reg, nil), arena
}

func TestEngineSetValueCommitsOnIdle(t *testing.T) {
	e, arena := newTestEngine()
	f := arena.NewField(0, false, "gain", "Gain", "")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Enqueue(Action{Kind: KindSetValue, Path: f.Path, Value: store.Float32(0.5)}, base)
	e.RunQueued(false, base)

	if len(e.History()) != 1 {
		t.Fatalf("expected no commit before the idle interval elapses")
	}

	e.RunQueued(false, base.Add(2*time.Second))
	if len(e.History()) != 2 {
		t.Fatalf("expected a commit once idle, got %d records", len(e.History()))
	}

	v, err := e.Root().Get(f.Path)
	ftest.ExpectSuccess(t, err)
	got, _ := v.AsFloat32()
	if got != 0.5 {
		t.Fatalf("expected committed value 0.5, got %v", got)
	}
}

func TestEngineToggleForcesImmediateCommit(t *testing.T) {
	e, arena := newTestEngine()
	f := arena.NewField(0, false, "muted", "Muted", "")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Enqueue(Action{Kind: KindToggleValue, Path: f.Path}, now)
	e.RunQueued(false, now)

	if len(e.History()) != 2 {
		t.Fatalf("expected a toggle to force an immediate gesture commit, got %d records", len(e.History()))
	}
}

func TestEngineUndoRedoRestoresSnapshot(t *testing.T) {
	e, arena := newTestEngine()
	f := arena.NewField(0, false, "tempo", "Tempo", "")

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Enqueue(Action{Kind: KindSetValue, Path: f.Path, Value: store.Int32(120)}, t0)
	e.RunQueued(true, t0)

	t1 := t0.Add(time.Second)
	e.Enqueue(Action{Kind: KindSetValue, Path: f.Path, Value: store.Int32(140)}, t1)
	e.RunQueued(true, t1)

	v, _ := e.Root().Get(f.Path)
	got, _ := v.AsInt32()
	if got != 140 {
		t.Fatalf("expected 140 before undo, got %v", got)
	}

	ftest.ExpectSuccess(t, e.Undo(t1.Add(time.Second)))
	v, _ = e.Root().Get(f.Path)
	got, _ = v.AsInt32()
	if got != 120 {
		t.Fatalf("expected 120 after undo, got %v", got)
	}

	ftest.ExpectSuccess(t, e.Redo(t1.Add(2*time.Second)))
	v, _ = e.Root().Get(f.Path)
	got, _ = v.AsInt32()
	if got != 140 {
		t.Fatalf("expected 140 after redo, got %v", got)
	}

	ftest.ExpectFailure(t, e.Redo(t1.Add(3*time.Second)))
}

func TestEngineUnsupportedActionDropped(t *testing.T) {
	e, _ := newTestEngine()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Enqueue(Action{Kind: KindConnect, SourceID: 1, DestID: 2}, now)
	e.RunQueued(true, now)

	if len(e.History()) != 1 {
		t.Fatalf("expected an unregistered action kind to be dropped without committing, got %d records", len(e.History()))
	}
}

func TestEngineRegisteredApplierRuns(t *testing.T) {
	e, arena := newTestEngine()
	f := arena.NewField(0, false, "src", "Source", "")

	var called bool
	e.RegisterApplier(KindConnect, func(t *store.TransientStore, a Action) error {
		called = true
		t.Set(f.Path, store.Uint32(a.DestID))
		return nil
	})

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Enqueue(Action{Kind: KindConnect, SourceID: 1, DestID: 2}, now)
	e.RunQueued(true, now)

	if !called {
		t.Fatalf("expected the registered applier to run")
	}
	if len(e.History()) != 2 {
		t.Fatalf("expected the toggle-like Connect action to commit, got %d records", len(e.History()))
	}
}
