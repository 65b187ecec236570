package store_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/store"
)

func TestRootTrip(t *testing.T) {
	root := store.NewRoot()

	tr, err := root.BeginTransient()
	ftest.ExpectSuccess(t, err)

	p := store.Parse("/audio/muted")
	tr.Set(p, store.Bool(true))

	v, err := tr.Get(p)
	ftest.ExpectSuccess(t, err)
	got, ok := v.AsBool()
	ftest.ExpectSuccess(t, ok)
	ftest.ExpectEquality(t, got, true)

	patch, err := root.EndTransient(tr, true)
	ftest.ExpectSuccess(t, err)
	ftest.ExpectEquality(t, len(patch.Ops), 1)
	ftest.ExpectEquality(t, patch.Ops[0].Op.Kind, store.Add)

	got2, err := root.Get(p)
	ftest.ExpectSuccess(t, err)
	b, _ := got2.AsBool()
	ftest.ExpectEquality(t, b, true)
}

func TestOnlyOneActiveTransient(t *testing.T) {
	root := store.NewRoot()
	_, err := root.BeginTransient()
	ftest.ExpectSuccess(t, err)

	_, err = root.BeginTransient()
	ftest.ExpectFailure(t, err)
}

func TestDiscardedTransientDoesNotMutateStore(t *testing.T) {
	root := store.NewRoot()
	p := store.Parse("/x")

	tr, _ := root.BeginTransient()
	tr.Set(p, store.Int32(1))
	_, err := root.EndTransient(tr, false)
	ftest.ExpectSuccess(t, err)

	ftest.ExpectEquality(t, root.Current().Has(p), false)
}

func TestPersistentSnapshotIsImmutable(t *testing.T) {
	s := store.Empty
	p := store.Parse("/x")

	s2 := store.Apply(s, store.Patch{Ops: []store.PatchEntry{
		{Path: p, Op: store.PatchOp{Kind: store.Add, Value: store.Int32(1)}},
	}})

	ftest.ExpectEquality(t, s.Has(p), false)
	v, err := s2.Get(p)
	ftest.ExpectSuccess(t, err)
	n, _ := v.AsInt32()
	ftest.ExpectEquality(t, n, int32(1))
}

func TestPatchCorrectness(t *testing.T) {
	a := store.Empty
	a = store.Apply(a, store.Patch{Ops: []store.PatchEntry{
		{Path: store.Parse("/a"), Op: store.PatchOp{Kind: store.Add, Value: store.Int32(1)}},
		{Path: store.Parse("/b"), Op: store.PatchOp{Kind: store.Add, Value: store.String("x")}},
	}})

	b := store.Empty
	b = store.Apply(b, store.Patch{Ops: []store.PatchEntry{
		{Path: store.Parse("/a"), Op: store.PatchOp{Kind: store.Add, Value: store.Int32(2)}},
		{Path: store.Parse("/c"), Op: store.PatchOp{Kind: store.Add, Value: store.Bool(true)}},
	}})

	patch := store.Diff(a, b)
	result := store.Apply(a, patch)

	ftest.ExpectEquality(t, result.Len(), b.Len())
	result.Each(func(p store.Path, v store.Primitive) {
		bv, err := b.Get(p)
		ftest.ExpectSuccess(t, err)
		ftest.ExpectEquality(t, v.Equal(bv), true)
	})
}

func TestManyPathsSurviveStructuralSharing(t *testing.T) {
	s := store.Empty
	var patch store.Patch
	for i := 0; i < 500; i++ {
		patch.Ops = append(patch.Ops, store.PatchEntry{
			Path: store.Parse("/n/" + store.IndexSegment(i)),
			Op:   store.PatchOp{Kind: store.Add, Value: store.Int32(int32(i))},
		})
	}
	s = store.Apply(s, patch)
	ftest.ExpectEquality(t, s.Len(), 500)

	for i := 0; i < 500; i++ {
		v, err := s.Get(store.Parse("/n/" + store.IndexSegment(i)))
		ftest.ExpectSuccess(t, err)
		n, _ := v.AsInt32()
		ftest.ExpectEquality(t, n, int32(i))
	}
}
