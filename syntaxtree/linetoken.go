package syntaxtree

import (
	"github.com/flowgrid/flowgrid/textbuffer"
)

// LineTokenParser is the built-in Parser implementation: no external
// tree-sitter grammar is present in this module's dependency set, so Faust
// source (and any other line-oriented text) is tokenized directly into
// keyword/comment/identifier/number/punctuation captures. It satisfies the
// same Parser contract a real incremental grammar would, so it is
// swappable without touching Host.
type LineTokenParser struct{}

var faustKeywords = map[string]bool{
	"process": true, "import": true, "declare": true, "with": true,
	"letrec": true, "environment": true, "library": true,
}

// Parse performs a full tokenization of source, the "from scratch" case of
// an incremental parse.
func (LineTokenParser) Parse(source []byte) *Tree {
	t := &Tree{source: append([]byte(nil), source...)}
	t.Captures = tokenize(t.source)
	t.Changed = []ByteRange{{Start: 0, End: len(t.source)}}
	return t
}

// Edit applies a single buffer Edit's byte-range bookkeeping to a copy of
// t's source and marks exactly [StartByte, NewEndByte) as changed; the
// region is not widened to line boundaries. Captures are carried over
// unchanged; Host.Commit re-tokenizes the whole buffer with a full Parse.
func (LineTokenParser) Edit(t *Tree, e textbuffer.Edit) *Tree {
	if t == nil {
		return nil
	}
	nt := &Tree{source: append([]byte(nil), t.source...)}

	old := nt.source
	if e.OldEndByte > len(old) {
		e.OldEndByte = len(old)
	}
	if e.StartByte > len(old) {
		e.StartByte = len(old)
	}
	replaced := make([]byte, 0, len(old)-e.OldEndByte+e.StartByte+(e.NewEndByte-e.StartByte))
	replaced = append(replaced, old[:e.StartByte]...)
	if e.NewEndByte > e.StartByte {
		// the inserted bytes themselves aren't known to Edit (only the
		// byte-range bookkeeping is); Host.Commit immediately follows every
		// batch of Edit calls with a full Parse, so the gap left here is
		// always closed before anyone reads Captures.
		replaced = append(replaced, make([]byte, e.NewEndByte-e.StartByte)...)
	}
	if e.OldEndByte < len(old) {
		replaced = append(replaced, old[e.OldEndByte:]...)
	}
	nt.source = replaced
	nt.Captures = t.Captures
	nt.Changed = []ByteRange{{Start: e.StartByte, End: e.NewEndByte}}
	return nt
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// tokenize walks source once, classifying comments ("//" to end of line),
// numbers, identifiers/keywords, and everything else as punctuation.
func tokenize(source []byte) []Capture {
	var caps []Capture
	i := 0
	n := len(source)
	for i < n {
		c := source[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '/' && i+1 < n && source[i+1] == '/':
			start := i
			for i < n && source[i] != '\n' {
				i++
			}
			caps = append(caps, Capture{Start: start, End: i, ID: "comment"})
		case isDigit(c):
			start := i
			for i < n && (isDigit(source[i]) || source[i] == '.') {
				i++
			}
			caps = append(caps, Capture{Start: start, End: i, ID: "number"})
		case isWordByte(c):
			start := i
			for i < n && isWordByte(source[i]) {
				i++
			}
			word := string(source[start:i])
			id := "identifier"
			if faustKeywords[word] {
				id = "keyword"
			}
			caps = append(caps, Capture{Start: start, End: i, ID: id})
		default:
			caps = append(caps, Capture{Start: i, End: i + 1, ID: "punctuation"})
			i++
		}
	}
	return caps
}
