package dispatch_test

import (
	"testing"
	"time"

	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/dispatch"
	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func TestDispatchRefreshesAndNotifies(t *testing.T) {
	arena := component.NewArena()
	root := component.ID(0)
	audio := arena.NewComponent(root, false, "audio", "Audio", "")
	muted := arena.NewField(audio.ID, true, "muted", "Muted", "")

	sroot := store.NewRoot()
	reg := dispatch.NewRegistry()

	var notified bool
	reg.AddListener(muted.ID, func(fieldID component.ID, subPath store.Path) {
		notified = true
	})

	tr, _ := sroot.BeginTransient()
	tr.Set(muted.Path, store.Bool(true))
	patch, _ := sroot.EndTransient(tr, true)

	reg.Dispatch(arena, sroot, patch, true, time.Now())

	ftest.ExpectEquality(t, notified, true)
	ftest.ExpectEquality(t, muted.Cached().Equal(store.Bool(true)), true)
	ftest.ExpectEquality(t, reg.ChangedComponentIDs(audio.ID), true)
}

func TestGestureChangedPathsOnlyRecordedWhenSavable(t *testing.T) {
	arena := component.NewArena()
	f := arena.NewField(0, false, "x", "X", "")

	sroot := store.NewRoot()
	reg := dispatch.NewRegistry()

	tr, _ := sroot.BeginTransient()
	tr.Set(f.Path, store.Int32(1))
	patch, _ := sroot.EndTransient(tr, true)

	reg.Dispatch(arena, sroot, patch, false, time.Now())
	ftest.ExpectEquality(t, len(reg.GestureChangedPaths()), 0)

	reg.Dispatch(arena, sroot, patch, true, time.Now())
	ftest.ExpectEquality(t, len(reg.GestureChangedPaths()), 1)
}
