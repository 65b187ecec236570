// Package project implements the two on-disk project formats (spec.md §6,
// SPEC_FULL "project/config"/"project/watch" siblings): the state snapshot
// (.fls) and the indexed gesture log (.fla). encoding/json is used for both
// wire formats — the spec's contract is literally "a JSON document", and
// none of the JSON libraries anywhere in the retrieved example corpus
// offers anything beyond what the standard library already does for a
// flat path->value document (see DESIGN.md).
package project

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/store"
)

// EmptyProjectPath is where the canonical empty project is re-saved on
// every application launch (spec.md §6).
const EmptyProjectPath = ".flowgrid/empty.fls"

// primJSON is the wire representation of one store.Primitive: its kind tag
// plus whichever field holds the value, so round-tripping preserves the
// original type (a plain JSON number/bool/string would be ambiguous
// between int32/uint32/float32).
type primJSON struct {
	Kind  string  `json:"kind"`
	Bool  bool    `json:"bool,omitempty"`
	Int   int32   `json:"int,omitempty"`
	Uint  uint32  `json:"uint,omitempty"`
	Float float32 `json:"float,omitempty"`
	Str   string  `json:"str,omitempty"`
}

func toJSON(p store.Primitive) primJSON {
	switch p.Kind() {
	case store.KindBool:
		v, _ := p.AsBool()
		return primJSON{Kind: "bool", Bool: v}
	case store.KindInt32:
		v, _ := p.AsInt32()
		return primJSON{Kind: "int", Int: v}
	case store.KindUint32:
		v, _ := p.AsUint32()
		return primJSON{Kind: "uint", Uint: v}
	case store.KindFloat32:
		v, _ := p.AsFloat32()
		return primJSON{Kind: "float", Float: v}
	default:
		v, _ := p.AsString()
		return primJSON{Kind: "str", Str: v}
	}
}

func fromJSON(j primJSON) store.Primitive {
	switch j.Kind {
	case "bool":
		return store.Bool(j.Bool)
	case "int":
		return store.Int32(j.Int)
	case "uint":
		return store.Uint32(j.Uint)
	case "float":
		return store.Float32(j.Float)
	default:
		return store.String(j.Str)
	}
}

// SaveState writes s to path as a JSON document keyed by JSON-Pointer-style
// paths (spec.md §6 "State format").
func SaveState(path string, s store.Store) error {
	doc := make(map[string]primJSON)
	s.Each(func(p store.Path, v store.Primitive) {
		doc[p.String()] = toJSON(v)
	})

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ferrors.Errorf(ferrors.ProjectWriteErr, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return ferrors.Errorf(ferrors.ProjectWriteErr, err)
	}
	return nil
}

// LoadState reads an .fls file's raw path->value document without applying
// it, so callers can order container-fields-first as spec.md §6 requires.
func LoadState(path string) (map[string]store.Primitive, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Errorf(ferrors.ProjectReadErr, err)
	}
	var doc map[string]primJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ferrors.Errorf(ferrors.ProjectReadErr, err)
	}
	out := make(map[string]store.Primitive, len(doc))
	for k, j := range doc {
		out[k] = fromJSON(j)
	}
	return out, nil
}

// ApplyState sets every leaf in values onto the Engine's store directly via
// Publish (bypassing the transient/action pipeline, as history-navigation
// and project-load both do), visiting container-field paths before their
// descendants, then leaf paths in lexical order, then refreshing every
// dependent Field from the new snapshot (spec.md §6: "first, every
// component-container auxiliary field is assigned ... then remaining
// leaves are set in path order, finally listeners and caches are
// refreshed").
func ApplyState(eng *action.Engine, arena *component.Arena, values map[string]store.Primitive) {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var containerPaths, leafPaths []string
	for _, p := range paths {
		if c, ok := arena.ComponentByPath(store.Parse(p)); ok && len(c.Children) > 0 {
			containerPaths = append(containerPaths, p)
		} else {
			leafPaths = append(leafPaths, p)
		}
	}

	s := eng.Root().Current()
	for _, p := range containerPaths {
		s = applyOne(s, p, values[p])
	}
	for _, p := range leafPaths {
		s = applyOne(s, p, values[p])
	}
	eng.Root().Publish(s)

	arena.EachField(func(f *component.Field) {
		_ = f.Refresh(eng.Root())
	})
	eng.Resync()
}

func applyOne(s store.Store, p string, v store.Primitive) store.Store {
	return store.Apply(s, store.Patch{Ops: []store.PatchEntry{{Path: store.Parse(p), Op: store.PatchOp{Kind: store.Add, Value: v}}}})
}
