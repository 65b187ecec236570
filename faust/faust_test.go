package faust_test

import (
	"testing"

	"github.com/flowgrid/flowgrid/faust"
	"github.com/flowgrid/flowgrid/faust/boxscript"
	"github.com/flowgrid/flowgrid/ftest"
)

const okScript = boxscript.Marker + "\nvar Inputs = 1\nvar Outputs = 1\n"
const badScript = boxscript.Marker + "\nthis is not valid go\n"

func TestRecompileSuccess(t *testing.T) {
	h := faust.NewHost(boxscript.Compiler{}, nil, 0, 48000, nil)

	var events []faust.Event
	h.AddListener(func(ev faust.Event, _ *faust.Slot) { events = append(events, ev) })

	err := h.Recompile(okScript)
	ftest.ExpectSuccess(t, err)
	ftest.ExpectInequality(t, h.Slot().Box, nil)
	ftest.ExpectEquality(t, h.Slot().Error, "")
	ftest.ExpectInequality(t, h.Current(), nil)
	ftest.ExpectEquality(t, events, []faust.Event{faust.Added})
}

func TestRecompileFailureSetsError(t *testing.T) {
	h := faust.NewHost(boxscript.Compiler{}, nil, 0, 48000, nil)

	err := h.Recompile(badScript)
	ftest.ExpectFailure(t, err)
	ftest.ExpectInequality(t, h.Slot().Error, "")
	if h.Current() != nil {
		t.Fatal("expected no live dsp on compile failure")
	}
}

func TestRecompileTearsDownPrevious(t *testing.T) {
	h := faust.NewHost(boxscript.Compiler{}, nil, 0, 48000, nil)

	var events []faust.Event
	h.AddListener(func(ev faust.Event, _ *faust.Slot) { events = append(events, ev) })

	ftest.ExpectSuccess(t, h.Recompile(okScript))
	ftest.ExpectSuccess(t, h.Recompile(okScript))

	ftest.ExpectEquality(t, events, []faust.Event{faust.Added, faust.Removed, faust.Added})
}

func TestCurrentIsNilBeforeCompile(t *testing.T) {
	h := faust.NewHost(boxscript.Compiler{}, nil, 0, 48000, nil)
	if h.Current() != nil {
		t.Fatal("expected nil DSP before any compile")
	}
}
