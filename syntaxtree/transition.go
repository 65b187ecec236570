package syntaxtree

// TransitionIterator walks a Tree's Captures in byte order, exposing the
// capture ID active at each byte so a renderer can advance it in lockstep
// with the bytes it draws (spec.md §4.4).
type TransitionIterator struct {
	captures []Capture
	idx      int
	pos      int
}

// Transitions creates a TransitionIterator over t's captures.
func (t *Tree) Transitions() *TransitionIterator {
	if t == nil {
		return &TransitionIterator{}
	}
	return &TransitionIterator{captures: t.Captures}
}

// Advance moves the iterator to byte pos and returns the capture ID active
// there, or "" if pos falls outside every capture. pos must be
// non-decreasing across calls.
func (ti *TransitionIterator) Advance(pos int) string {
	for ti.idx < len(ti.captures) && ti.captures[ti.idx].End <= pos {
		ti.idx++
	}
	if ti.idx >= len(ti.captures) {
		return ""
	}
	c := ti.captures[ti.idx]
	if pos >= c.Start && pos < c.End {
		return c.ID
	}
	return ""
}
