// Package boxscript is a secondary, Go-native "DSP factory" path for the
// Faust Host (spec.md §4.3): a `.dsp` source file whose first line is
// `//go:script` is interpreted as a small Go DSL describing the signal
// graph, via github.com/breadchris/yaegi, instead of being handed to the
// (black-box, out-of-scope) Faust compiler. It satisfies the same
// faust.Compiler contract as the real compile_boxes/compile_factory_from_
// boxes pipeline, giving that pipeline a path this module can exercise
// without an external libfaust toolchain.
package boxscript

import (
	"fmt"
	"strings"

	"github.com/breadchris/yaegi/interp"
	"github.com/flowgrid/flowgrid/faust"
)

// Marker is the first-line marker identifying a box-script source file.
const Marker = "//go:script"

// IsScript reports whether source begins with the box-script marker.
func IsScript(source string) bool {
	first, _, _ := strings.Cut(source, "\n")
	return strings.TrimSpace(first) == Marker
}

// Compiler implements faust.Compiler by interpreting box-script source
// with yaegi. A box script is a Go program (minus the marker line)
// assigning two package-level vars:
//
//	var Inputs = 1
//	var Outputs = 2
//
// which this Compiler evaluates and reads back via reflection, the
// boxscript analogue of the real compiler's static channel-count
// inference.
type Compiler struct{}

// CompileBoxes evaluates code's declared Inputs/Outputs and returns a Box
// describing them. On any interpretation failure it returns a nil Box and
// a non-empty error string, per the faust.Compiler contract.
func (Compiler) CompileBoxes(label, code string, _ []string) (*faust.Box, string) {
	_, body, ok := strings.Cut(code, "\n")
	if !ok {
		body = code
	}

	i := interp.New(interp.Options{})
	program := "package main\n" + body + "\n"
	if _, err := i.Eval(program); err != nil {
		return nil, fmt.Sprintf("boxscript: %v", err)
	}

	in, err := evalInt(i, "Inputs")
	if err != nil {
		return nil, fmt.Sprintf("boxscript: %v", err)
	}
	out, err := evalInt(i, "Outputs")
	if err != nil {
		return nil, fmt.Sprintf("boxscript: %v", err)
	}

	return &faust.Box{Label: label, NumInputs: in, NumOutputs: out}, ""
}

func evalInt(i *interp.Interpreter, name string) (int, error) {
	v, err := i.Eval(name)
	if err != nil {
		return 0, err
	}
	return int(v.Int()), nil
}

// CompileFactory builds a Factory whose CreateInstance produces a
// passthroughDSP honoring box's channel counts: input channel k is copied
// (wrapping) to output channel k, the simplest signal graph a box-script
// can describe without a real compute kernel.
func (Compiler) CompileFactory(_ string, box *faust.Box, _ []string, _ int) (faust.Factory, error) {
	return &factory{box: box}, nil
}

type factory struct{ box *faust.Box }

func (f *factory) CreateInstance() (faust.DSP, error) {
	return &passthroughDSP{numIn: f.box.NumInputs, numOut: f.box.NumOutputs}, nil
}

func (f *factory) Destroy() {}

type passthroughDSP struct {
	numIn, numOut int
	sampleRate    int
}

func (d *passthroughDSP) Init(sr int) { d.sampleRate = sr }

func (d *passthroughDSP) Compute(frames int, in, out [][]float32) {
	for ch := 0; ch < d.numOut; ch++ {
		src := 0
		if d.numIn > 0 {
			src = ch % d.numIn
		}
		for f := 0; f < frames; f++ {
			if d.numIn > 0 && src < len(in) && f < len(in[src]) {
				out[ch][f] = in[src][f]
			} else {
				out[ch][f] = 0
			}
		}
	}
}

func (d *passthroughDSP) NumInputs() int  { return d.numIn }
func (d *passthroughDSP) NumOutputs() int { return d.numOut }
func (d *passthroughDSP) Params() []faust.Param { return nil }
