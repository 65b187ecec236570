// Package diagnostics exports the compiled audio graph topology as a
// Graphviz dot file for debugging, using github.com/bradleyjkemp/memviz the
// same way the teacher's commandline package dumps its parsed command tree
// (debugger/terminal/commandline/parser_test.go), gated behind a debug
// flag so production builds never pay the reflection cost.
package diagnostics

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Enabled gates whether DumpWiring does anything. It defaults to false and
// nothing in this module sets it.
var Enabled = false

// DumpWiring writes a dot representation of a compiled edge list (such as
// Graph.Wiring()) to w via memviz.Map. Graph.UpdateConnections does not
// call it; callers invoke it themselves. No-ops unless Enabled is true.
func DumpWiring(w io.Writer, wiring interface{}) error {
	if !Enabled {
		return nil
	}
	memviz.Map(w, wiring)
	return nil
}
