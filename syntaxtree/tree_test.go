package syntaxtree_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/ftest"
	"github.com/flowgrid/flowgrid/syntaxtree"
	"github.com/flowgrid/flowgrid/textbuffer"
)

func TestLineTokenParserClassifiesFaustSource(t *testing.T) {
	tree := syntaxtree.LineTokenParser{}.Parse([]byte("process = _; // identity"))

	var sawKeyword, sawComment bool
	for _, c := range tree.Captures {
		switch c.ID {
		case "keyword":
			sawKeyword = true
		case "comment":
			sawComment = true
		}
	}
	ftest.ExpectSuccess(t, sawKeyword)
	ftest.ExpectSuccess(t, sawComment)
}

func TestHostCommitReparses(t *testing.T) {
	h := syntaxtree.NewHost(nil)
	b := textbuffer.New([]string{"process = _;"})

	tree := h.Commit(b)
	ftest.ExpectInequality(t, len(tree.Captures), 0)

	b2 := b.InsertGlyphs(",_")
	tree2 := h.Commit(b2)
	ftest.ExpectInequality(t, len(tree2.Captures), 0)
}

func TestTransitionIterator(t *testing.T) {
	tree := syntaxtree.LineTokenParser{}.Parse([]byte("process"))
	it := tree.Transitions()
	ftest.ExpectEquality(t, it.Advance(0), "keyword")
}
