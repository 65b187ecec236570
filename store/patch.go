package store

import "sort"

// OpKind tags the three ways a single path can differ between two Store
// snapshots.
type OpKind int

const (
	// Add means path exists in the later snapshot but not the earlier one.
	Add OpKind = iota
	// Remove means path existed in the earlier snapshot but not the later one.
	Remove
	// Replace means path exists in both snapshots with different values.
	Replace
)

func (k OpKind) String() string {
	switch k {
	case Add:
		return "Add"
	case Remove:
		return "Remove"
	case Replace:
		return "Replace"
	}
	return "?"
}

// PatchOp describes a single change at a path. Value is the new value for
// Add/Replace; Old is the prior value for Remove/Replace.
type PatchOp struct {
	Kind  OpKind
	Value Primitive
	Old   Primitive
}

// PatchEntry pairs a Path with the PatchOp that applies to it.
type PatchEntry struct {
	Path Path
	Op   PatchOp
}

// Patch is an ordered collection of path-scoped ops, with an optional
// BasePath used by gesture merging to decide whether two ApplyPatch actions
// address the same region of the store (spec.md §4.1).
type Patch struct {
	BasePath    Path
	HasBasePath bool
	Ops         []PatchEntry
}

// Empty reports whether the patch has no ops.
func (p Patch) Empty() bool { return len(p.Ops) == 0 }

// Diff computes the Patch that, applied to before, yields after.
func Diff(before, after Store) Patch {
	var ops []PatchEntry

	before.Each(func(path Path, v Primitive) {
		if av, err := after.Get(path); err == nil {
			if !av.Equal(v) {
				ops = append(ops, PatchEntry{Path: path, Op: PatchOp{Kind: Replace, Value: av, Old: v}})
			}
		} else {
			ops = append(ops, PatchEntry{Path: path, Op: PatchOp{Kind: Remove, Old: v}})
		}
	})

	after.Each(func(path Path, v Primitive) {
		if !before.Has(path) {
			ops = append(ops, PatchEntry{Path: path, Op: PatchOp{Kind: Add, Value: v}})
		}
	})

	sort.Slice(ops, func(i, j int) bool { return ops[i].Path.ID() < ops[j].Path.ID() })

	return Patch{Ops: ops}
}

// Apply returns the Store that results from applying every op in p to s.
func Apply(s Store, p Patch) Store {
	for _, e := range p.Ops {
		switch e.Op.Kind {
		case Add, Replace:
			s = s.set(e.Path, e.Op.Value)
		case Remove:
			s = s.erase(e.Path)
		}
	}
	return s
}

// composeOp merges an older op with a newer op at the same path, following
// the patch composition rules in spec.md §4.1. The bool result is false
// when the two ops cancel out entirely.
func composeOp(older, newer PatchOp) (PatchOp, bool) {
	switch older.Kind {
	case Add:
		switch newer.Kind {
		case Remove:
			return PatchOp{}, false
		case Add, Replace:
			if older.Value.Equal(newer.Value) {
				return PatchOp{}, false
			}
			return PatchOp{Kind: Add, Value: newer.Value}, true
		}
	case Remove:
		switch newer.Kind {
		case Add, Replace:
			if newer.Value.Equal(older.Old) {
				return PatchOp{}, false
			}
			return PatchOp{Kind: Replace, Value: newer.Value, Old: older.Old}, true
		case Remove:
			return PatchOp{Kind: Remove, Old: older.Old}, true
		}
	case Replace:
		switch newer.Kind {
		case Add, Replace:
			return PatchOp{Kind: Replace, Value: newer.Value, Old: older.Old}, true
		case Remove:
			return PatchOp{Kind: Remove, Old: older.Old}, true
		}
	}
	return newer, true
}

// Compose merges an older patch and a newer patch into the patch that has
// the same net effect as applying older then newer in sequence. Ops that
// only appear in one input are carried through unchanged; ops present in
// both at the same path are merged with composeOp and dropped if they
// cancel.
func Compose(older, newer Patch) Patch {
	byPath := make(map[uint32]PatchEntry, len(older.Ops)+len(newer.Ops))
	order := make([]uint32, 0, len(older.Ops)+len(newer.Ops))

	for _, e := range older.Ops {
		byPath[e.Path.ID()] = e
		order = append(order, e.Path.ID())
	}

	merged := make(map[uint32]PatchEntry, len(byPath))
	removed := make(map[uint32]bool)

	for _, e := range newer.Ops {
		if prior, ok := byPath[e.Path.ID()]; ok {
			if op, keep := composeOp(prior.Op, e.Op); keep {
				merged[e.Path.ID()] = PatchEntry{Path: e.Path, Op: op}
			} else {
				removed[e.Path.ID()] = true
			}
			delete(byPath, e.Path.ID())
		} else {
			merged[e.Path.ID()] = e
			order = append(order, e.Path.ID())
		}
	}

	for id, e := range byPath {
		merged[id] = e
	}

	out := Patch{BasePath: older.BasePath, HasBasePath: older.HasBasePath}
	seen := make(map[uint32]bool, len(order))
	for _, id := range order {
		if seen[id] || removed[id] {
			seen[id] = true
			continue
		}
		seen[id] = true
		if e, ok := merged[id]; ok {
			out.Ops = append(out.Ops, e)
		}
	}
	return out
}
