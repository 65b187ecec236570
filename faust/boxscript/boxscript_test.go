package boxscript_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/faust"
	"github.com/flowgrid/flowgrid/faust/boxscript"
	"github.com/flowgrid/flowgrid/ftest"
)

const script = boxscript.Marker + "\n" +
	"var Inputs = 1\n" +
	"var Outputs = 2\n"

func TestCompileBoxesReadsChannelCounts(t *testing.T) {
	c := boxscript.Compiler{}
	box, errStr := c.CompileBoxes("test", script, nil)
	ftest.ExpectEquality(t, errStr, "")
	if box == nil {
		t.Fatal("expected a non-nil box")
	}
	ftest.ExpectEquality(t, box.NumInputs, 1)
	ftest.ExpectEquality(t, box.NumOutputs, 2)
}

func TestFactoryProducesWorkingDSP(t *testing.T) {
	c := boxscript.Compiler{}
	box, _ := c.CompileBoxes("test", script, nil)

	f, err := c.CompileFactory("test", box, nil, 0)
	ftest.ExpectSuccess(t, err)

	dsp, err := f.CreateInstance()
	ftest.ExpectSuccess(t, err)
	dsp.Init(48000)

	in := [][]float32{{1, 2, 3}}
	out := [][]float32{{0, 0, 0}, {0, 0, 0}}
	dsp.Compute(3, in, out)

	ftest.ExpectEquality(t, out[0], []float32{1, 2, 3})
	ftest.ExpectEquality(t, out[1], []float32{1, 2, 3})
}

func TestIsScript(t *testing.T) {
	ftest.ExpectSuccess(t, boxscript.IsScript(script))
	ftest.ExpectFailure(t, boxscript.IsScript("process = _;"))
}

var _ faust.Compiler = boxscript.Compiler{}
