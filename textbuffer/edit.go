package textbuffer

import "strings"

// applyAt replaces the text between from and to (from <= to) with
// replacement, replaces b.Lines with the result, appends the corresponding
// Edit, and returns the LineChar just past the inserted text. Offsets for subsequent
// cursors/edits in the same batch must be recomputed by the caller since
// line counts can shift.
func (b *Buffer) applyAt(from, to LineChar, replacement string) LineChar {
	startByte := b.byteOffset(from)
	oldEndByte := b.byteOffset(to)

	prefix := b.Lines[from.Line][:from.Char]
	suffix := b.Lines[to.Line][to.Char:]

	replacementLines := strings.Split(replacement, "\n")
	replacementLines[0] = prefix + replacementLines[0]
	last := len(replacementLines) - 1
	replacementLines[last] = replacementLines[last] + suffix

	newLines := make([]string, 0, len(b.Lines)-(to.Line-from.Line)+len(replacementLines))
	newLines = append(newLines, b.Lines[:from.Line]...)
	newLines = append(newLines, replacementLines...)
	newLines = append(newLines, b.Lines[to.Line+1:]...)
	b.Lines = newLines

	newEndLC := LineChar{Line: from.Line + last, Char: len(replacementLines[last]) - len(suffix)}
	newEndByte := b.byteOffset(newEndLC)

	b.Edits = append(b.Edits, Edit{StartByte: startByte, OldEndByte: oldEndByte, NewEndByte: newEndByte})
	return newEndLC
}

// lineShift returns the change in line count a replacement of [from,to]
// with text introduces.
func lineShift(from, to LineChar, replacement string) int {
	return strings.Count(replacement, "\n") - (to.Line - from.Line)
}

// charShiftOnLine returns how much a same-line edit shifts column offsets
// after the edit point on the final affected line.
func charShiftOnLine(from, to LineChar, replacement string) int {
	lastNL := strings.LastIndexByte(replacement, '\n')
	var lastLineLen int
	if lastNL < 0 {
		lastLineLen = from.Char + len(replacement)
	} else {
		lastLineLen = len(replacement) - lastNL - 1
	}
	return lastLineLen - to.Char
}

// adjust recomputes a LineChar that lies after an edit region [from,to)
// replaced by replacement, so that per-cursor edits applied in document
// order don't corrupt later cursors' positions.
func adjust(lc LineChar, from, to LineChar, replacement string) LineChar {
	if lc.Less(from) || lc.Equal(from) {
		return lc
	}
	shift := lineShift(from, to, replacement)
	if !lc.Less(to) && !lc.Equal(to) && lc.Line == to.Line {
		lc.Char += charShiftOnLine(from, to, replacement)
		lc.Line += shift
		return lc
	}
	if lc.Line > to.Line {
		lc.Line += shift
		return lc
	}
	// lc falls strictly inside [from,to): clamp to the edit's end.
	return LineChar{Line: from.Line + strings.Count(replacement, "\n"), Char: to.Char + charShiftOnLine(from, to, replacement)}
}

// editAllCursors replaces each cursor's selection (or, if collapsed,
// inserts at the caret) with replacement(cursorIndex), processing cursors
// in document order and shifting later cursors to account for earlier
// edits in the same batch.
func (b Buffer) editAllCursors(replacement func(i int, c Cursor) string) Buffer {
	nb := b.clone()

	type pending struct {
		idx      int
		from, to LineChar
		repl     string
	}
	batch := make([]pending, len(nb.Cursors))
	for i, c := range nb.Cursors {
		batch[i] = pending{idx: i, from: c.Min(), to: c.Max(), repl: replacement(i, c)}
	}

	newCursors := make([]Cursor, len(nb.Cursors))
	for _, p := range batch {
		end := nb.applyAt(p.from, p.to, p.repl)
		newCursors[p.idx] = caret(end)

		for j := range batch {
			if batch[j].idx == p.idx {
				continue
			}
			batch[j].from = adjust(batch[j].from, p.from, p.to, p.repl)
			batch[j].to = adjust(batch[j].to, p.from, p.to, p.repl)
		}
	}

	nb.Cursors = newCursors
	return nb.normalizeCursors()
}

// InsertGlyphs inserts s at every cursor, replacing any active selection.
func (b Buffer) InsertGlyphs(s string) Buffer {
	return b.editAllCursors(func(int, Cursor) string { return s })
}

// DeleteRange deletes every cursor's current selection (a no-op for
// collapsed cursors).
func (b Buffer) DeleteRange() Buffer {
	return b.editAllCursors(func(int, Cursor) string { return "" })
}

// Backspace deletes the selection if present, else the one character (or
// rune) before the caret.
func (b Buffer) Backspace() Buffer {
	nb := b.clone()
	for i, c := range nb.Cursors {
		if c.HasSelection() {
			continue
		}
		from := nb.moveChar(c.End, DirBackward)
		nb.Cursors[i] = Cursor{Start: from, End: c.End}
	}
	return nb.editAllCursors(func(int, Cursor) string { return "" })
}

// leadingWhitespace returns the leading run of spaces/tabs in line.
func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// EnterChar inserts a newline at every cursor, auto-indenting to the max
// of the current and next line's leading whitespace (spec.md §4.4).
func (b Buffer) EnterChar() Buffer {
	return b.editAllCursors(func(_ int, c Cursor) string {
		cur := leadingWhitespace(b.Lines[c.Max().Line])
		indent := cur
		if c.Max().Line+1 < len(b.Lines) {
			next := leadingWhitespace(b.Lines[c.Max().Line+1])
			if len(next) > len(indent) {
				indent = next
			}
		}
		return "\n" + indent
	})
}

// affectedLines returns the sorted, de-duplicated set of line indices
// spanned by any cursor's selection.
func (b Buffer) affectedLines() []int {
	seen := map[int]bool{}
	var out []int
	for _, c := range b.Cursors {
		min, max := c.Min(), c.Max()
		for l := min.Line; l <= max.Line; l++ {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// Indent inserts one tab width of spaces at the start of every line any
// cursor touches.
func (b Buffer) Indent() Buffer {
	nb := b.clone()
	pad := strings.Repeat(" ", nb.tabWidth())
	for _, l := range nb.affectedLines() {
		start := nb.byteOffset(LineChar{Line: l, Char: 0})
		nb.Lines[l] = pad + nb.Lines[l]
		nb.Edits = append(nb.Edits, Edit{StartByte: start, OldEndByte: start, NewEndByte: start + len(pad)})
	}
	for i, c := range nb.Cursors {
		nb.Cursors[i] = Cursor{
			Start: LineChar{Line: c.Start.Line, Char: c.Start.Char + len(pad)},
			End:   LineChar{Line: c.End.Line, Char: c.End.Char + len(pad)},
		}
	}
	return nb.normalizeCursors()
}

// Dedent removes up to one tab width of leading spaces/tabs from every
// line any cursor touches.
func (b Buffer) Dedent() Buffer {
	nb := b.clone()
	width := nb.tabWidth()
	removed := make(map[int]int)
	for _, l := range nb.affectedLines() {
		line := nb.Lines[l]
		n := 0
		for n < width && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		if n > 0 {
			start := nb.byteOffset(LineChar{Line: l, Char: 0})
			nb.Edits = append(nb.Edits, Edit{StartByte: start, OldEndByte: start + n, NewEndByte: start})
		}
		nb.Lines[l] = line[n:]
		removed[l] = n
	}
	for i, c := range nb.Cursors {
		nb.Cursors[i] = Cursor{
			Start: LineChar{Line: c.Start.Line, Char: clampNonNeg(c.Start.Char - removed[c.Start.Line])},
			End:   LineChar{Line: c.End.Line, Char: clampNonNeg(c.End.Char - removed[c.End.Line])},
		}
	}
	return nb.normalizeCursors()
}

func clampNonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ToggleLineComment strips prefix (e.g. "//"), and one following space if
// present, from every affected line when every non-blank affected line
// already starts with it (after leading whitespace); otherwise it inserts
// prefix and a space before the first non-whitespace byte of every
// non-blank affected line.
func (b Buffer) ToggleLineComment(prefix string) Buffer {
	nb := b.clone()
	lines := nb.affectedLines()

	allCommented := true
	for _, l := range lines {
		trimmed := strings.TrimLeft(nb.Lines[l], " \t")
		if trimmed != "" && !strings.HasPrefix(trimmed, prefix) {
			allCommented = false
			break
		}
	}

	for _, l := range lines {
		line := nb.Lines[l]
		ws := leadingWhitespace(line)
		rest := line[len(ws):]
		if allCommented {
			rest = strings.TrimPrefix(rest, prefix)
			rest = strings.TrimPrefix(rest, " ")
		} else if rest != "" {
			rest = prefix + " " + rest
		}
		newLine := ws + rest
		if newLine != line {
			start := nb.byteOffset(LineChar{Line: l, Char: 0})
			nb.Edits = append(nb.Edits, Edit{StartByte: start, OldEndByte: start + len(line), NewEndByte: start + len(newLine)})
		}
		nb.Lines[l] = newLine
	}
	return nb
}

// regionEndByte returns the flattened-buffer byte offset just past line l's
// content: the start of line l+1 if one exists, else the absolute end of
// the buffer (Text() has no trailing newline after the last line).
func (b Buffer) regionEndByte(l int) int {
	if l+1 < len(b.Lines) {
		return b.byteOffset(LineChar{Line: l + 1, Char: 0})
	}
	return b.byteOffset(LineChar{Line: l, Char: 0}) + len(b.Lines[l])
}

// MoveCurrentLines shifts every line touched by a cursor selection up (dir
// == DirBackward) or down (dir == DirForward) by one line, swapping with
// the adjacent line. A no-op at the document boundary. The swapped span
// keeps its total byte length (same lines, reordered), so the recorded
// Edit's NewEndByte equals its OldEndByte (spec.md §4.4, §8 "Edit byte
// bookkeeping").
func (b Buffer) MoveCurrentLines(dir Direction) Buffer {
	nb := b.clone()
	lines := nb.affectedLines()
	if len(lines) == 0 {
		return nb
	}

	if dir == DirBackward {
		if lines[0] == 0 {
			return nb
		}
		regionStart := lines[0] - 1
		regionEnd := lines[len(lines)-1]
		start := nb.byteOffset(LineChar{Line: regionStart, Char: 0})
		end := nb.regionEndByte(regionEnd)
		nb.Edits = append(nb.Edits, Edit{StartByte: start, OldEndByte: end, NewEndByte: end})

		above := nb.Lines[regionStart]
		copy(nb.Lines[regionStart:], nb.Lines[lines[0]:regionEnd+1])
		nb.Lines[regionEnd] = above
		for i, c := range nb.Cursors {
			nb.Cursors[i] = Cursor{
				Start: LineChar{Line: c.Start.Line - 1, Char: c.Start.Char},
				End:   LineChar{Line: c.End.Line - 1, Char: c.End.Char},
			}
		}
		return nb
	}

	last := lines[len(lines)-1]
	if last >= len(nb.Lines)-1 {
		return nb
	}
	regionEnd := last + 1
	start := nb.byteOffset(LineChar{Line: lines[0], Char: 0})
	end := nb.regionEndByte(regionEnd)
	nb.Edits = append(nb.Edits, Edit{StartByte: start, OldEndByte: end, NewEndByte: end})

	below := nb.Lines[regionEnd]
	copy(nb.Lines[lines[0]+1:], nb.Lines[lines[0]:last+1])
	nb.Lines[lines[0]] = below
	for i, c := range nb.Cursors {
		nb.Cursors[i] = Cursor{
			Start: LineChar{Line: c.Start.Line + 1, Char: c.Start.Char},
			End:   LineChar{Line: c.End.Line + 1, Char: c.End.Char},
		}
	}
	return nb
}

// Paste implements spec.md §4.4's paste rule: if clipboard splits into
// exactly as many lines as there are cursors, each cursor receives its
// corresponding line; otherwise every cursor receives the full clipboard
// text.
func (b Buffer) Paste(clipboard string) Buffer {
	clipLines := strings.Split(clipboard, "\n")
	if len(clipLines) == len(b.Cursors) {
		return b.editAllCursors(func(i int, _ Cursor) string { return clipLines[i] })
	}
	return b.editAllCursors(func(int, Cursor) string { return clipboard })
}
