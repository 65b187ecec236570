package textbuffer

import "sort"

// normalizeCursors sorts b.Cursors by Min() and merges any whose ranges
// overlap or touch, per spec.md §4.4 "Cursor invariants" and the
// corresponding §8 property. LastAddedCursor is preserved across the
// sort/merge by LC equality: the merged cursor that still contains the
// pre-normalize "last added" endpoints keeps that designation.
func (b Buffer) normalizeCursors() Buffer {
	if len(b.Cursors) <= 1 {
		nb := b
		nb.LastAddedCursor = 0
		return nb
	}

	var lastAdded Cursor
	hadLast := b.LastAddedCursor >= 0 && b.LastAddedCursor < len(b.Cursors)
	if hadLast {
		lastAdded = b.Cursors[b.LastAddedCursor]
	}

	type indexed struct {
		c   Cursor
		min LineChar
	}
	idx := make([]indexed, len(b.Cursors))
	for i, c := range b.Cursors {
		idx[i] = indexed{c: c, min: c.Min()}
	}
	sort.SliceStable(idx, func(i, j int) bool { return idx[i].min.Less(idx[j].min) })

	merged := make([]Cursor, 0, len(idx))
	merged = append(merged, idx[0].c)

	for _, next := range idx[1:] {
		last := merged[len(merged)-1]
		lastMax := last.Max()
		nextMin := next.c.Min()

		if nextMin.Less(lastMax) || nextMin.Equal(lastMax) {
			// overlap or touch: merge into a single selection spanning both,
			// oriented the same way as the later cursor (so forward drags
			// keep extending forward).
			newMin := last.Min()
			newMax := next.c.Max()
			if lastMax.Less(next.c.Max()) {
				newMax = next.c.Max()
			} else {
				newMax = lastMax
			}
			if next.c.Start.Less(next.c.End) || next.c.Start.Equal(next.c.End) {
				merged[len(merged)-1] = Cursor{Start: newMin, End: newMax}
			} else {
				merged[len(merged)-1] = Cursor{Start: newMax, End: newMin}
			}
			continue
		}
		merged = append(merged, next.c)
	}

	nb := b
	nb.Cursors = merged
	nb.LastAddedCursor = 0
	if hadLast {
		for i, c := range merged {
			if cursorContains(c, lastAdded) {
				nb.LastAddedCursor = i
				break
			}
		}
	}
	return nb
}

// cursorContains reports whether host's [Min,Max] range contains needle's
// [Min,Max] range.
func cursorContains(host, needle Cursor) bool {
	hmin, hmax := host.Min(), host.Max()
	nmin, nmax := needle.Min(), needle.Max()
	return !nmin.Less(hmin) && !hmax.Less(nmax)
}

// MoveKind selects the granularity of a cursor movement operation.
type MoveKind int

const (
	MoveChar MoveKind = iota
	MoveWord
	MoveLine
	MovePage
	MoveDocument
)

// Direction is the direction of a movement operation.
type Direction int

const (
	DirBackward Direction = -1
	DirForward  Direction = 1
)

// Move applies a cursor movement to every cursor (spec.md §4.4 "Cursor
// movement"). extend controls whether the selection anchor (Start) is kept
// fixed (true) or collapsed to the new position (false). pageSize is the
// number of lines a MovePage step covers.
func (b Buffer) Move(kind MoveKind, dir Direction, extend bool, pageSize int) Buffer {
	nb := b.clone()
	for i, c := range nb.Cursors {
		from := c.End
		to := nb.movePoint(from, kind, dir, pageSize)
		nc := Cursor{Start: c.Start, End: to}
		if !extend {
			nc.Start = to
		}
		nb.Cursors[i] = nc
	}
	return nb.normalizeCursors()
}

func (b Buffer) movePoint(from LineChar, kind MoveKind, dir Direction, pageSize int) LineChar {
	switch kind {
	case MoveChar:
		return b.moveChar(from, dir)
	case MoveWord:
		return b.moveWord(from, dir)
	case MoveLine:
		return b.clampLineChar(LineChar{Line: from.Line + int(dir), Char: from.Char})
	case MovePage:
		if pageSize <= 0 {
			pageSize = 1
		}
		return b.clampLineChar(LineChar{Line: from.Line + int(dir)*pageSize, Char: from.Char})
	case MoveDocument:
		if dir == DirBackward {
			return LineChar{}
		}
		last := len(b.Lines) - 1
		return LineChar{Line: last, Char: len(b.Lines[last])}
	}
	return from
}

func (b Buffer) clampLineChar(lc LineChar) LineChar {
	if lc.Line < 0 {
		lc.Line = 0
	}
	if lc.Line >= len(b.Lines) {
		lc.Line = len(b.Lines) - 1
	}
	line := b.Lines[lc.Line]
	if lc.Char > len(line) {
		lc.Char = len(line)
	}
	if lc.Char < 0 {
		lc.Char = 0
	}
	return lc
}

func (b Buffer) moveChar(from LineChar, dir Direction) LineChar {
	line := b.Lines[from.Line]
	if dir == DirForward {
		if from.Char >= len(line) {
			if from.Line+1 >= len(b.Lines) {
				return from
			}
			return LineChar{Line: from.Line + 1, Char: 0}
		}
		return LineChar{Line: from.Line, Char: nextRuneStart(line, from.Char)}
	}
	if from.Char <= 0 {
		if from.Line == 0 {
			return from
		}
		prev := b.Lines[from.Line-1]
		return LineChar{Line: from.Line - 1, Char: len(prev)}
	}
	return LineChar{Line: from.Line, Char: prevRuneStart(line, from.Char)}
}

func nextRuneStart(s string, i int) int {
	i++
	for i < len(s) && s[i]&0xC0 == 0x80 {
		i++
	}
	return i
}

func prevRuneStart(s string, i int) int {
	i--
	for i > 0 && s[i]&0xC0 == 0x80 {
		i--
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// FindWordBoundary returns the byte offset of the word boundary in line at
// or adjacent to char, walking in dir.
func FindWordBoundary(line string, char int, dir Direction) int {
	i := char
	if dir == DirForward {
		for i < len(line) && !isWordByte(line[i]) {
			i++
		}
		for i < len(line) && isWordByte(line[i]) {
			i++
		}
		return i
	}
	for i > 0 && !isWordByte(line[i-1]) {
		i--
	}
	for i > 0 && isWordByte(line[i-1]) {
		i--
	}
	return i
}

func (b Buffer) moveWord(from LineChar, dir Direction) LineChar {
	line := b.Lines[from.Line]
	if dir == DirForward && from.Char >= len(line) {
		if from.Line+1 < len(b.Lines) {
			return LineChar{Line: from.Line + 1, Char: 0}
		}
		return from
	}
	if dir == DirBackward && from.Char <= 0 {
		if from.Line > 0 {
			prev := b.Lines[from.Line-1]
			return LineChar{Line: from.Line - 1, Char: len(prev)}
		}
		return from
	}
	return LineChar{Line: from.Line, Char: FindWordBoundary(line, from.Char, dir)}
}

// SelectAll replaces every cursor with a single selection spanning the
// whole buffer.
func (b Buffer) SelectAll() Buffer {
	nb := b.clone()
	last := len(nb.Lines) - 1
	nb.Cursors = []Cursor{{Start: LineChar{}, End: LineChar{Line: last, Char: len(nb.Lines[last])}}}
	nb.LastAddedCursor = 0
	return nb
}

// SelectedText returns the text spanned by c's Min()..Max() range.
func (b Buffer) SelectedText(c Cursor) string {
	min, max := c.Min(), c.Max()
	if min.Line == max.Line {
		return b.Lines[min.Line][min.Char:max.Char]
	}
	var sb []byte
	sb = append(sb, b.Lines[min.Line][min.Char:]...)
	for l := min.Line + 1; l < max.Line; l++ {
		sb = append(sb, '\n')
		sb = append(sb, b.Lines[l]...)
	}
	sb = append(sb, '\n')
	sb = append(sb, b.Lines[max.Line][:max.Char]...)
	return string(sb)
}

// SelectNextOccurrence appends a new cursor selecting the next occurrence
// of the text currently selected by the last cursor, searching from the
// last cursor's Max() and wrapping to the start of the buffer when nothing
// follows; a wrapped match may be the last cursor's own selection, which
// then merges with it. If the last cursor has no selection, b is returned
// unchanged.
func (b Buffer) SelectNextOccurrence() Buffer {
	if len(b.Cursors) == 0 {
		return b
	}
	last := b.Cursors[len(b.Cursors)-1]
	if !last.HasSelection() {
		return b
	}
	needle := b.SelectedText(last)
	if needle == "" {
		return b
	}

	searchFrom := b.byteOffset(last.Max())
	full := b.Text()
	idx := indexFrom(full, needle, searchFrom)
	if idx < 0 {
		idx = indexFrom(full, needle, 0)
		if idx < 0 {
			return b
		}
	}

	start := lineCharFromByte(b.Lines, idx)
	end := lineCharFromByte(b.Lines, idx+len(needle))

	nb := b.clone()
	nb.Cursors = append(nb.Cursors, Cursor{Start: start, End: end})
	nb.LastAddedCursor = len(nb.Cursors) - 1
	return nb.normalizeCursors()
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	i := indexOf(s[from:], sub)
	if i < 0 {
		return -1
	}
	return i + from
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func lineCharFromByte(lines []string, off int) LineChar {
	for i, l := range lines {
		if off <= len(l) {
			return LineChar{Line: i, Char: off}
		}
		off -= len(l) + 1
	}
	last := len(lines) - 1
	return LineChar{Line: last, Char: len(lines[last])}
}

// MatchBracket returns the LineChar of the bracket matching the one at lc,
// and whether a match was found. Only the three ASCII bracket pairs (),
// [] and {} are recognised.
func MatchBracket(lines []string, lc LineChar) (LineChar, bool) {
	pairs := map[byte]byte{'(': ')', '[': ']', '{': '}'}
	rev := map[byte]byte{')': '(', ']': '[', '}': '{'}

	line := lines[lc.Line]
	if lc.Char >= len(line) {
		return LineChar{}, false
	}
	c := line[lc.Char]

	if close, ok := pairs[c]; ok {
		depth := 1
		curLine, curChar := lc.Line, lc.Char+1
		for curLine < len(lines) {
			l := lines[curLine]
			for curChar < len(l) {
				switch l[curChar] {
				case c:
					depth++
				case close:
					depth--
					if depth == 0 {
						return LineChar{Line: curLine, Char: curChar}, true
					}
				}
				curChar++
			}
			curLine++
			curChar = 0
		}
		return LineChar{}, false
	}

	if open, ok := rev[c]; ok {
		depth := 1
		curLine, curChar := lc.Line, lc.Char-1
		for curLine >= 0 {
			l := lines[curLine]
			for curChar >= 0 {
				switch l[curChar] {
				case c:
					depth++
				case open:
					depth--
					if depth == 0 {
						return LineChar{Line: curLine, Char: curChar}, true
					}
				}
				curChar--
			}
			curLine--
			if curLine >= 0 {
				curChar = len(lines[curLine]) - 1
			}
		}
		return LineChar{}, false
	}

	return LineChar{}, false
}
