package store

import "github.com/flowgrid/flowgrid/ferrors"

// Store is an immutable Path->Primitive map with structural sharing: every
// mutation returns a new Store that shares untouched trie nodes with its
// predecessor, so keeping many historical snapshots (spec.md §3 "History")
// is cheap.
type Store struct {
	root *node
}

// Empty is the Store with no entries.
var Empty = Store{}

// Get returns the value at path, or NotFound.
func (s Store) Get(path Path) (Primitive, error) {
	v, ok := s.root.get(path.id, 0)
	if !ok {
		return Primitive{}, ferrors.Errorf(ferrors.NotFound, path.String())
	}
	return v, nil
}

// Has reports whether path is present.
func (s Store) Has(path Path) bool {
	_, ok := s.root.get(path.id, 0)
	return ok
}

// set returns a new Store with path bound to value.
func (s Store) set(path Path, value Primitive) Store {
	return Store{root: s.root.with(path.id, &entry{path: path, value: value}, 0)}
}

// erase returns a new Store with path removed.
func (s Store) erase(path Path) Store {
	return Store{root: s.root.without(path.id, 0)}
}

// Each visits every (Path, Primitive) pair in the store, in no particular
// order.
func (s Store) Each(fn func(Path, Primitive)) {
	s.root.each(func(e *entry) { fn(e.path, e.value) })
}

// Len returns the number of entries in the store.
func (s Store) Len() int {
	n := 0
	s.Each(func(Path, Primitive) { n++ })
	return n
}
