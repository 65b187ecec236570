// Package syntaxtree implements the incremental parse driven by text
// buffer edits (spec.md §4.4, component C4): a Parser interface shaped like
// tree-sitter's edit/parse contract, a built-in line/token Parser
// implementation for Faust source, and styled-range output consumed by the
// (out-of-scope) renderer and by the DSP compilation pipeline.
package syntaxtree

import "github.com/flowgrid/flowgrid/textbuffer"

// Capture is a styled byte range produced by a parse: [Start, End) tagged
// with a capture ID naming the syntax category (keyword, identifier,
// comment, ...).
type Capture struct {
	Start, End int
	ID         string
}

// ByteRange is a half-open [Start, End) byte interval.
type ByteRange struct{ Start, End int }

// Tree is the current parse result: the ordered captures it produced and
// the set of byte ranges that changed since the previous parse (used by
// the renderer to invalidate only the regions that need it).
type Tree struct {
	Captures []Capture
	Changed  []ByteRange
	source   []byte
}

// Parser produces a Tree from source text and incrementally updates a Tree
// in response to buffer Edits, matching spec.md §4.4's "feeds each Edit to
// the parser via tree_edit" contract.
type Parser interface {
	Parse(source []byte) *Tree
	Edit(t *Tree, e textbuffer.Edit) *Tree
}

// Host owns the current Tree pointer for one text buffer and re-parses it
// on every buffer commit (spec.md §4.4 "Incremental parser").
type Host struct {
	parser Parser
	tree   *Tree
}

// NewHost creates a Host backed by p. A nil p uses the built-in line/token
// Parser.
func NewHost(p Parser) *Host {
	if p == nil {
		p = LineTokenParser{}
	}
	return &Host{parser: p}
}

// Tree returns the Host's current Tree, or nil before the first commit.
func (h *Host) Tree() *Tree { return h.tree }

// Commit feeds every pending Edit from the buffer to the parser via
// tree_edit, then re-parses with the buffer's current text as input
// source, and stores the result as the new current Tree.
func (h *Host) Commit(b textbuffer.Buffer) *Tree {
	t := h.tree
	for _, e := range b.Edits {
		if t == nil {
			break
		}
		t = h.parser.Edit(t, e)
	}
	t = h.parser.Parse([]byte(b.Text()))
	h.tree = t
	return t
}
