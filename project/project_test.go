package project

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/dispatch"
	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func TestSaveAndLoadState(t *testing.T) {
	arena := component.NewArena()
	reg := dispatch.NewRegistry()
	eng := action.NewEngine(arena, reg, nil)
	f := arena.NewField(0, false, "gain", "Gain", "")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eng.Enqueue(action.Action{Kind: action.KindSetValue, Path: f.Path, Value: store.Float32(0.75)}, now)
	eng.RunQueued(true, now)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.fls")
	ftest.ExpectSuccess(t, SaveState(path, eng.Root().Current()))

	values, err := LoadState(path)
	ftest.ExpectSuccess(t, err)

	arena2 := component.NewArena()
	eng2 := action.NewEngine(arena2, dispatch.NewRegistry(), nil)
	f2 := arena2.NewField(0, false, "gain", "Gain", "")
	ApplyState(eng2, arena2, values)

	v, err := eng2.Root().Get(f2.Path)
	ftest.ExpectSuccess(t, err)
	got, _ := v.AsFloat32()
	if got != 0.75 {
		t.Fatalf("expected reloaded gain 0.75, got %v", got)
	}
}

func TestSaveAndLoadActions(t *testing.T) {
	arena := component.NewArena()
	eng := action.NewEngine(arena, dispatch.NewRegistry(), nil)
	f := arena.NewField(0, false, "tempo", "Tempo", "")

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	eng.Enqueue(action.Action{Kind: action.KindSetValue, Path: f.Path, Value: store.Int32(120)}, t0)
	eng.RunQueued(true, t0)

	t1 := t0.Add(time.Second)
	eng.Enqueue(action.Action{Kind: action.KindSetValue, Path: f.Path, Value: store.Int32(140)}, t1)
	eng.RunQueued(true, t1)

	ftest.ExpectSuccess(t, eng.Undo(t1.Add(time.Second)))

	dir := t.TempDir()
	path := filepath.Join(dir, "test.fla")
	ftest.ExpectSuccess(t, SaveActions(path, eng))

	arena2 := component.NewArena()
	eng2 := action.NewEngine(arena2, dispatch.NewRegistry(), nil)
	f2 := arena2.NewField(0, false, "tempo", "Tempo", "")
	ftest.ExpectSuccess(t, LoadActions(path, eng2))

	if eng2.HistoryIndex() != 1 {
		t.Fatalf("expected restored history index 1, got %d", eng2.HistoryIndex())
	}

	v, err := eng2.Root().Get(f2.Path)
	ftest.ExpectSuccess(t, err)
	got, _ := v.AsInt32()
	if got != 120 {
		t.Fatalf("expected replayed+undone value 120, got %v", got)
	}
}
