// Package textbuffer implements the multi-cursor line/char text model
// described in spec.md §4.4 (component C3): a persistent sequence of UTF-8
// lines, an edit journal of byte ranges consumed by the incremental parser
// (syntaxtree), and cursor movement/edit operations that each return a new
// Buffer.
package textbuffer

import "strings"

// LineChar addresses a position in the buffer: a line index and a byte
// offset within that line's content.
type LineChar struct {
	Line int
	Char int
}

// Less orders LineChars by line then by byte offset.
func (a LineChar) Less(b LineChar) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Char < b.Char
}

// Equal reports whether a and b address the same position.
func (a LineChar) Equal(b LineChar) bool { return a.Line == b.Line && a.Char == b.Char }

// Cursor is a (start, end) range. Start == End is a caret with no
// selection; otherwise the selection runs from whichever of Start/End is
// earlier (Min) to whichever is later (Max).
type Cursor struct {
	Start, End LineChar
}

// Min returns the earlier endpoint.
func (c Cursor) Min() LineChar {
	if c.Start.Less(c.End) {
		return c.Start
	}
	return c.End
}

// Max returns the later endpoint.
func (c Cursor) Max() LineChar {
	if c.Start.Less(c.End) {
		return c.End
	}
	return c.Start
}

// HasSelection reports whether the cursor spans a non-empty range.
func (c Cursor) HasSelection() bool { return !c.Start.Equal(c.End) }

// caret returns a collapsed Cursor at lc.
func caret(lc LineChar) Cursor { return Cursor{Start: lc, End: lc} }

// Edit records a single journal entry: byte s..oldEnd in the prior buffer
// became byte s..newEnd in the new one (spec.md §4.4, §8 "Edit byte
// bookkeeping"). Offsets are into the flattened buffer (lines joined by a
// single '\n', matching the byte addressing the parser consumes).
type Edit struct {
	StartByte, OldEndByte, NewEndByte int
}

// Buffer is the persistent multi-cursor text value. Every mutating method
// returns a new Buffer; the receiver is left untouched.
type Buffer struct {
	Lines           []string
	Cursors         []Cursor
	Edits           []Edit
	LastAddedCursor int
	TabWidth        int
}

// New creates a Buffer from initial line contents, with a single collapsed
// cursor at the start of the first line. TabWidth defaults to 4.
func New(lines []string) Buffer {
	if len(lines) == 0 {
		lines = []string{""}
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Buffer{
		Lines:    cp,
		Cursors:  []Cursor{caret(LineChar{})},
		TabWidth: 4,
	}
}

// clone returns a shallow-mutable copy of b: the Lines/Cursors/Edits
// backing arrays are duplicated so later edits never alias the receiver.
func (b Buffer) clone() Buffer {
	nb := b
	nb.Lines = append([]string(nil), b.Lines...)
	nb.Cursors = append([]Cursor(nil), b.Cursors...)
	nb.Edits = append([]Edit(nil), b.Edits...)
	if nb.TabWidth == 0 {
		nb.TabWidth = 4
	}
	return nb
}

// Text joins Lines with '\n', the same flattening Edit byte offsets assume.
func (b Buffer) Text() string { return strings.Join(b.Lines, "\n") }

// byteOffset returns the flattened-buffer byte offset of lc.
func (b Buffer) byteOffset(lc LineChar) int {
	n := 0
	for i := 0; i < lc.Line && i < len(b.Lines); i++ {
		n += len(b.Lines[i]) + 1 // +1 for the '\n' joiner
	}
	return n + lc.Char
}

// tabWidth returns b.TabWidth, defaulting to 4 for a zero-value Buffer.
func (b Buffer) tabWidth() int {
	if b.TabWidth <= 0 {
		return 4
	}
	return b.TabWidth
}

// ColumnForChar converts a byte offset within line into a display column,
// per spec.md §4.4: a multi-byte UTF-8 leading byte counts as one column,
// continuation bytes are skipped, and tabs expand to the next tab stop.
func ColumnForChar(line string, char int, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	col := 0
	for i := 0; i < char && i < len(line); i++ {
		c := line[i]
		if c&0xC0 == 0x80 {
			// UTF-8 continuation byte: already counted at the leading byte.
			continue
		}
		if c == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}

// CharForColumn is the inverse of ColumnForChar: the byte offset within
// line whose display column is >= col.
func CharForColumn(line string, col int, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	cur := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c&0xC0 == 0x80 {
			continue
		}
		if cur >= col {
			return i
		}
		if c == '\t' {
			cur += tabWidth - (cur % tabWidth)
		} else {
			cur++
		}
	}
	return len(line)
}
