// Package component implements the component tree (spec.md §3, §9): an
// arena of components addressed by stable 32-bit IDs, each holding a parent
// pointer and child list, with process-wide FieldByID/FieldByPath indices
// scoped to each Field's construction/destruction.
package component

import (
	"sync"

	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/store"
)

// ID identifies a Component within an Arena. It is the same 32-bit value as
// the Component's derived store.Path ID, so a Component and the Field it
// might be are always addressable by a single number.
type ID = uint32

// Component is a node in the declarative tree: a parent pointer, a path
// segment, the derived store.Path, and the ordered list of its children.
// Leaf Components that own exactly one Primitive are Fields (see field.go).
type Component struct {
	ID       ID
	ParentID ID
	HasParent bool
	Segment  string
	Path     store.Path
	Name     string
	Help     string
	Children []ID
}

// Arena owns every live Component and Field, and the indices that let
// Change Dispatch (C8) find a Field by path or by ID without walking the
// tree.
type Arena struct {
	mu sync.Mutex

	components map[ID]*Component
	byPath     map[uint32]ID

	fields       map[ID]*Field
	fieldsByPath map[uint32]*Field
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{
		components:   make(map[ID]*Component),
		byPath:       make(map[uint32]ID),
		fields:       make(map[ID]*Field),
		fieldsByPath: make(map[uint32]*Field),
	}
}

// NewComponent registers a new, non-Field Component as a child of parent
// (or as a root if hasParent is false).
func (a *Arena) NewComponent(parent ID, hasParent bool, segment, name, help string) *Component {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := store.RootPath
	if hasParent {
		if p, ok := a.components[parent]; ok {
			path = p.Path.Append(segment)
		}
	} else if segment != "" {
		path = store.New(segment)
	}

	c := &Component{
		ID:        path.ID(),
		ParentID:  parent,
		HasParent: hasParent,
		Segment:   segment,
		Path:      path,
		Name:      name,
		Help:      help,
	}

	a.components[c.ID] = c
	a.byPath[path.ID()] = c.ID

	if hasParent {
		if p, ok := a.components[parent]; ok {
			p.Children = append(p.Children, c.ID)
		}
	}

	return c
}

// ComponentByID returns the Component (or Field, which embeds Component)
// registered under id.
func (a *Arena) ComponentByID(id ID) (*Component, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.components[id]
	return c, ok
}

// ComponentByPath returns the Component registered at path.
func (a *Arena) ComponentByPath(path store.Path) (*Component, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.byPath[path.ID()]
	if !ok {
		return nil, false
	}
	return a.components[id], true
}

// Ancestors returns every Component ID from id up to (and including) its
// furthest registered ancestor, nearest first.
func (a *Arena) Ancestors(id ID) []ID {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []ID
	cur, ok := a.components[id]
	for ok {
		out = append(out, cur.ID)
		if !cur.HasParent {
			break
		}
		cur, ok = a.components[cur.ParentID]
	}
	return out
}

// Destroy removes a Component (and, if it is a Field, its index entries)
// and recursively destroys its children. Teardown is the Component tree's
// only lifecycle event besides construction (spec.md §3).
func (a *Arena) Destroy(id ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyLocked(id)
}

func (a *Arena) destroyLocked(id ID) error {
	c, ok := a.components[id]
	if !ok {
		return ferrors.Errorf(ferrors.ComponentMissing, id)
	}

	for _, child := range c.Children {
		if err := a.destroyLocked(child); err != nil {
			return err
		}
	}

	if f, ok := a.fields[id]; ok {
		delete(a.fields, id)
		delete(a.fieldsByPath, f.Path.ID())
	}

	delete(a.components, id)
	delete(a.byPath, c.Path.ID())

	return nil
}
