package component_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func TestFieldRegistrationAndLookup(t *testing.T) {
	a := component.NewArena()

	root := a.NewComponent(0, false, "audio", "Audio", "")
	muted := a.NewField(root.ID, true, "muted", "Muted", "whether audio output is silenced")

	got, ok := a.FieldByID(muted.ID)
	ftest.ExpectSuccess(t, ok)
	ftest.ExpectEquality(t, got.Path.String(), "/audio/muted")

	byPath, ok := a.FieldByPath(store.Parse("/audio/muted"))
	ftest.ExpectSuccess(t, ok)
	ftest.ExpectEquality(t, byPath.ID, muted.ID)
}

func TestFieldByPathFallsBackToParent(t *testing.T) {
	a := component.NewArena()
	root := a.NewComponent(0, false, "nodes", "Nodes", "")
	vec := a.NewField(root.ID, true, "gains", "Gains", "")

	elementPath := store.Parse("/nodes/gains/0")
	f, ok := a.FieldByPath(elementPath)
	ftest.ExpectSuccess(t, ok)
	ftest.ExpectEquality(t, f.ID, vec.ID)
}

func TestDestroyRemovesIndices(t *testing.T) {
	a := component.NewArena()
	root := a.NewComponent(0, false, "audio", "Audio", "")
	f := a.NewField(root.ID, true, "muted", "Muted", "")

	err := a.Destroy(root.ID)
	ftest.ExpectSuccess(t, err)

	_, ok := a.FieldByID(f.ID)
	ftest.ExpectEquality(t, ok, false)

	_, ok = a.ComponentByID(root.ID)
	ftest.ExpectEquality(t, ok, false)
}

func TestAncestors(t *testing.T) {
	a := component.NewArena()
	root := a.NewComponent(0, false, "graph", "Graph", "")
	child := a.NewComponent(root.ID, true, "nodes", "Nodes", "")
	grandchild := a.NewField(child.ID, true, "count", "Count", "")

	ids := a.Ancestors(grandchild.ID)
	ftest.ExpectEquality(t, len(ids), 3)
	ftest.ExpectEquality(t, ids[0], grandchild.ID)
	ftest.ExpectEquality(t, ids[len(ids)-1], root.ID)
}
