package store_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func TestComposeIdentity(t *testing.T) {
	p := store.Patch{Ops: []store.PatchEntry{
		{Path: store.Parse("/a"), Op: store.PatchOp{Kind: store.Add, Value: store.Int32(1)}},
	}}

	empty := store.Patch{}

	got := store.Compose(p, empty)
	ftest.ExpectEquality(t, len(got.Ops), len(p.Ops))

	got2 := store.Compose(empty, p)
	ftest.ExpectEquality(t, len(got2.Ops), len(p.Ops))
}

func TestComposeAddThenRemoveCancels(t *testing.T) {
	path := store.Parse("/a")
	v := store.Int32(1)

	older := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Add, Value: v}},
	}}
	newer := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Remove, Old: v}},
	}}

	got := store.Compose(older, newer)
	ftest.ExpectEquality(t, len(got.Ops), 0)
}

func TestComposeReplaceThenReplaceKeepsOriginalOld(t *testing.T) {
	path := store.Parse("/a")

	older := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Replace, Value: store.Int32(2), Old: store.Int32(1)}},
	}}
	newer := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Replace, Value: store.Int32(3), Old: store.Int32(2)}},
	}}

	got := store.Compose(older, newer)
	ftest.ExpectEquality(t, len(got.Ops), 1)
	ftest.ExpectEquality(t, got.Ops[0].Op.Kind, store.Replace)
	n, _ := got.Ops[0].Op.Value.AsInt32()
	ftest.ExpectEquality(t, n, int32(3))
	o, _ := got.Ops[0].Op.Old.AsInt32()
	ftest.ExpectEquality(t, o, int32(1))
}

func TestComposeRemoveThenAddSameValueCancels(t *testing.T) {
	path := store.Parse("/a")
	v := store.Int32(7)

	older := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Remove, Old: v}},
	}}
	newer := store.Patch{Ops: []store.PatchEntry{
		{Path: path, Op: store.PatchOp{Kind: store.Add, Value: v}},
	}}

	got := store.Compose(older, newer)
	ftest.ExpectEquality(t, len(got.Ops), 0)
}
