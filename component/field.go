package component

import (
	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/store"
)

// Field is a leaf Component that owns exactly one Primitive, addressed at
// Component.Path. Every Field's path is unique and registered in the
// Arena's FieldByID/FieldByPath indices for the field's lifetime
// (spec.md §3).
type Field struct {
	Component
	cached store.Primitive
}

// NewField registers a new Field as a child of parent.
func (a *Arena) NewField(parent ID, hasParent bool, segment, name, help string) *Field {
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

	f := &Field{
		Component: Component{
			ID:        path.ID(),
			ParentID:  parent,
			HasParent: hasParent,
			Segment:   segment,
			Path:      path,
			Name:      name,
			Help:      help,
		},
	}

	a.components[f.ID] = &f.Component
	a.byPath[path.ID()] = f.ID
	a.fields[f.ID] = f
	a.fieldsByPath[path.ID()] = f

	if hasParent {
		if p, ok := a.components[parent]; ok {
			p.Children = append(p.Children, f.ID)
		}
	}

	return f
}

// FieldByID returns the Field registered under id.
func (a *Arena) FieldByID(id ID) (*Field, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.fields[id]
	return f, ok
}

// FieldByPath returns the Field registered at path, or by its parent or
// grandparent path for container fields whose elements are individually
// pathed (spec.md §4.5 step 2).
func (a *Arena) FieldByPath(path store.Path) (*Field, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.fieldsByPath[path.ID()]; ok {
		return f, true
	}

	cur := path
	for depth := 0; depth < 2; depth++ {
		parent, ok := cur.Parent()
		if !ok {
			return nil, false
		}
		if f, ok := a.fieldsByPath[parent.ID()]; ok {
			return f, true
		}
		cur = parent
	}
	return nil, false
}

// EachField visits every currently registered Field, in no particular
// order. Used by project load to refresh every Field's cache after a bulk
// Store.Publish (spec.md §6).
func (a *Arena) EachField(fn func(*Field)) {
	a.mu.Lock()
	fields := make([]*Field, 0, len(a.fields))
	for _, f := range a.fields {
		fields = append(fields, f)
	}
	a.mu.Unlock()

	for _, f := range fields {
		fn(f)
	}
}

// Cached returns the Field's last-refreshed cached value.
func (f *Field) Cached() store.Primitive { return f.cached }

// Refresh re-reads the Field's value from root and updates the cache,
// returning NotFound if the path has no value (a newly-removed field, for
// instance).
func (f *Field) Refresh(root *store.Root) error {
	v, err := root.Get(f.Path)
	if err != nil {
		return ferrors.Errorf(ferrors.FieldNotFound, f.Path.String())
	}
	f.cached = v
	return nil
}
