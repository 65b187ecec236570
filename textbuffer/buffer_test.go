package textbuffer_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/textbuffer"
)

func TestPasteLineForLine(t *testing.T) {
	b := textbuffer.New([]string{"foo", "bar"})
	b.Cursors = []textbuffer.Cursor{
		{Start: textbuffer.LineChar{Line: 0, Char: 3}, End: textbuffer.LineChar{Line: 0, Char: 3}},
		{Start: textbuffer.LineChar{Line: 1, Char: 3}, End: textbuffer.LineChar{Line: 1, Char: 3}},
	}

	out := b.Paste("X\nY")
	ftest.ExpectEquality(t, out.Lines, []string{"fooX", "barY"})
}

func TestPasteWholeClipboard(t *testing.T) {
	b := textbuffer.New([]string{"foo", "bar"})
	b.Cursors = []textbuffer.Cursor{
		{Start: textbuffer.LineChar{Line: 0, Char: 3}, End: textbuffer.LineChar{Line: 0, Char: 3}},
		{Start: textbuffer.LineChar{Line: 1, Char: 3}, End: textbuffer.LineChar{Line: 1, Char: 3}},
	}

	out := b.Paste("Z")
	ftest.ExpectEquality(t, out.Lines, []string{"fooZ", "barZ"})
}

func TestCursorMergeOnOverlap(t *testing.T) {
	b := textbuffer.New([]string{"abcdef"})
	b.Cursors = []textbuffer.Cursor{
		{Start: textbuffer.LineChar{Char: 0}, End: textbuffer.LineChar{Char: 3}},
		{Start: textbuffer.LineChar{Char: 2}, End: textbuffer.LineChar{Char: 5}},
	}

	out := b.Move(textbuffer.MoveChar, textbuffer.DirForward, true, 0)
	if len(out.Cursors) != 1 {
		t.Fatalf("expected cursors to merge, got %d", len(out.Cursors))
	}
}

func TestCursorMergeOnTouch(t *testing.T) {
	b := textbuffer.New([]string{"abcdef"})
	b.Cursors = []textbuffer.Cursor{
		{Start: textbuffer.LineChar{Char: 0}, End: textbuffer.LineChar{Char: 1}},
		{Start: textbuffer.LineChar{Char: 2}, End: textbuffer.LineChar{Char: 4}},
	}

	out := b.Move(textbuffer.MoveChar, textbuffer.DirForward, true, 0)
	if len(out.Cursors) != 1 {
		t.Fatalf("expected touching cursors to merge, got %d", len(out.Cursors))
	}
}

func TestInsertGlyphsMultiCursor(t *testing.T) {
	b := textbuffer.New([]string{"", ""})
	b.Cursors = []textbuffer.Cursor{
		{Start: textbuffer.LineChar{Line: 0}, End: textbuffer.LineChar{Line: 0}},
		{Start: textbuffer.LineChar{Line: 1}, End: textbuffer.LineChar{Line: 1}},
	}
	out := b.InsertGlyphs("x")
	ftest.ExpectEquality(t, out.Lines, []string{"x", "x"})
}

func TestBackspaceMergesAcrossLines(t *testing.T) {
	b := textbuffer.New([]string{"foo", "bar"})
	b.Cursors = []textbuffer.Cursor{{Start: textbuffer.LineChar{Line: 1, Char: 0}, End: textbuffer.LineChar{Line: 1, Char: 0}}}
	out := b.Backspace()
	ftest.ExpectEquality(t, out.Lines, []string{"foobar"})
}

func TestToggleLineComment(t *testing.T) {
	b := textbuffer.New([]string{"process = _;"})
	b.Cursors = []textbuffer.Cursor{{Start: textbuffer.LineChar{}, End: textbuffer.LineChar{Char: 5}}}

	commented := b.ToggleLineComment("//")
	ftest.ExpectEquality(t, commented.Lines[0], "// process = _;")

	uncommented := commented.ToggleLineComment("//")
	ftest.ExpectEquality(t, uncommented.Lines[0], "process = _;")
}

func TestEditByteBookkeeping(t *testing.T) {
	b := textbuffer.New([]string{"hello world"})
	b.Cursors = []textbuffer.Cursor{{Start: textbuffer.LineChar{Char: 5}, End: textbuffer.LineChar{Char: 5}}}
	out := b.InsertGlyphs(",")

	if len(out.Edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(out.Edits))
	}
	e := out.Edits[0]
	ftest.ExpectEquality(t, e.StartByte, 5)
	ftest.ExpectEquality(t, e.OldEndByte, 5)
	ftest.ExpectEquality(t, e.NewEndByte, 6)
	ftest.ExpectEquality(t, out.Lines[0][e.StartByte:e.NewEndByte], ",")
}

func TestMatchBracket(t *testing.T) {
	lc, ok := textbuffer.MatchBracket([]string{"f(a, g(b))"}, textbuffer.LineChar{Char: 1})
	ftest.ExpectSuccess(t, ok)
	ftest.ExpectEquality(t, lc, textbuffer.LineChar{Char: 9})
}

func TestColumnForCharWithTabs(t *testing.T) {
	col := textbuffer.ColumnForChar("\tab", 3, 4)
	ftest.ExpectEquality(t, col, 6)
}
