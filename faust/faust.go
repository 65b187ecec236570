// Package faust implements the Faust DSP Host (spec.md §4.3, component
// C5): turning source text into an executing DSP instance through an
// injectable Compiler, keeping a stable handle the Audio Graph's Faust
// node calls from the audio thread, and fanning out Added/Removed/Changed
// notifications to listeners.
package faust

import (
	"sync/atomic"

	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/flog"
)

// Box is the purely-structural description of a DSP the compiler produces,
// used to derive channel counts (spec.md glossary).
type Box struct {
	Label            string
	NumInputs        int
	NumOutputs       int
}

// Param describes one DSP parameter surfaced to the (out-of-scope) UI
// layer's parameter model (spec.md §4.3 step 5).
type Param struct {
	Path  string
	Label string
	Min, Max, Init float64
}

// DSP is the executable signal processor interface every Compiler's
// created instance satisfies (spec.md glossary: "{init(sr), compute(n,
// in**, out**)}").
type DSP interface {
	Init(sampleRate int)
	Compute(frames int, in, out [][]float32)
	NumInputs() int
	NumOutputs() int
	Params() []Param
}

// Factory is the handle a Compiler's compile step produces; CreateInstance
// is the `factory->create_instance()` call in spec.md §4.3 step 4.
type Factory interface {
	CreateInstance() (DSP, error)
	Destroy()
}

// Compiler models the black-box `compile_boxes` /
// `compile_factory_from_boxes` triad (spec.md §1, §4.3) as an injectable
// interface so the host pipeline logic is identical regardless of the
// concrete Faust backend (external libfaust vs. the boxscript stand-in).
type Compiler interface {
	// CompileBoxes is `compile_boxes(label, code, argv)`: parse code into a
	// Box descriptor, or return a non-empty error string (not a Go error;
	// spec.md step 3 distinguishes "box is nil" from "box is nil AND error
	// is empty").
	CompileBoxes(label, code string, argv []string) (*Box, string)
	// CompileFactory is `compile_factory_from_boxes(label, box, argv,
	// optLevel)`.
	CompileFactory(label string, box *Box, argv []string, optLevel int) (Factory, error)
}

// Slot holds one DSP's full lifecycle state (spec.md §3 "DSP Slot"):
// source, compiled factory/dsp handles, parsed Box, and error message.
// Invariant: Factory and dsp are either both present or both absent; Error
// and dsp are never both set.
type Slot struct {
	Source string
	Box    *Box
	Error  string

	factory Factory
	dsp     atomic.Pointer[dspHandle]
}

// dspHandle wraps the live DSP pointer so a nil atomic.Pointer and "no DSP"
// are the same state (spec.md §4.3 "Thread discipline").
type dspHandle struct{ dsp DSP }

// Current returns the live DSP, or nil if the slot has none. Safe to call
// from the audio thread: it is a single atomic load.
func (s *Slot) Current() DSP {
	h := s.dsp.Load()
	if h == nil {
		return nil
	}
	return h.dsp
}

// Event is the notification kind a Listener receives. Changed is reserved
// per spec.md §9 Open Questions: DSP changes are always modeled as a
// Removed immediately followed by an Added, never emitted directly.
type Event int

const (
	Added Event = iota
	Removed
	Changed
)

// Listener is notified of DSP lifecycle events. The Audio Graph is always
// registered: on Added it inserts a Faust node, on Removed it deletes the
// node, on Changed it updates connections (spec.md §4.3 "Listener
// contract").
type Listener func(ev Event, slot *Slot)

// Host owns one Slot and the pipeline that (re)compiles it in response to
// source changes or a sample-rate change (spec.md §4.3).
type Host struct {
	compiler   Compiler
	argv       []string
	optLevel   int
	sampleRate int

	slot      *Slot
	listeners []Listener
	log       *flog.Logger
}

// NewHost creates a Host backed by compiler. sampleRate is the graph's
// current client sample rate (spec.md §4.3 step "graph sample-rate
// change").
func NewHost(compiler Compiler, argv []string, optLevel, sampleRate int, log *flog.Logger) *Host {
	return &Host{compiler: compiler, argv: argv, optLevel: optLevel, sampleRate: sampleRate, log: log}
}

// AddListener registers l, to be invoked on every future Added/Removed
// event. Listeners must not register or unregister other listeners during
// their own callback (spec.md §4.5-style ordering discipline, reused here).
func (h *Host) AddListener(l Listener) { h.listeners = append(h.listeners, l) }

func (h *Host) notify(ev Event, slot *Slot) {
	for _, l := range h.listeners {
		l(ev, slot)
	}
}

// SetSampleRate updates the host's sample rate and recompiles the current
// slot, mirroring a graph sample-rate change trigger.
func (h *Host) SetSampleRate(sr int) error {
	h.sampleRate = sr
	if h.slot == nil {
		return nil
	}
	return h.Recompile(h.slot.Source)
}

// Uninit tears down the current slot: detach from graph (via Removed),
// destroy dsp instance, destroy factory, clear box (spec.md §4.3 step 1).
func (h *Host) Uninit() {
	if h.slot == nil {
		return
	}
	prev := h.slot
	h.notify(Removed, prev)
	prev.dsp.Store(nil)
	prev.Box = nil
	if prev.factory != nil {
		prev.factory.Destroy()
	}
	h.slot = nil
}

// Recompile runs the full pipeline of spec.md §4.3 steps 1-6 against code,
// replacing any existing slot.
func (h *Host) Recompile(code string) error {
	h.Uninit()

	slot := &Slot{Source: code}
	h.slot = slot

	box, errStr := h.compiler.CompileBoxes("flowgrid", code, h.argv)
	if box == nil && errStr == "" {
		errStr = ferrors.CompileNoResult
	}
	if box == nil {
		slot.Error = errStr
		if h.log != nil {
			h.log.Logf(flog.Allow, "faust", "%s", slot.Error)
		}
		return ferrors.Errorf(ferrors.CompileError, slot.Error)
	}
	slot.Box = box

	factory, err := h.compiler.CompileFactory("flowgrid", box, h.argv, h.optLevel)
	if err != nil {
		slot.Error = err.Error()
		if h.log != nil {
			h.log.Logf(flog.Allow, "faust", "%s", slot.Error)
		}
		return ferrors.Errorf(ferrors.CompileError, slot.Error)
	}

	dsp, err := factory.CreateInstance()
	if err != nil || dsp == nil {
		slot.Error = ferrors.CompileFactoryNil
		factory.Destroy()
		if h.log != nil {
			h.log.Logf(flog.Allow, "faust", "%s", slot.Error)
		}
		return ferrors.Errorf(ferrors.CompileError, slot.Error)
	}

	dsp.Init(h.sampleRate)
	slot.factory = factory
	slot.dsp.Store(&dspHandle{dsp: dsp})

	h.notify(Added, slot)
	return nil
}

// Slot returns the host's current Slot, or nil.
func (h *Host) Slot() *Slot { return h.slot }

// Current returns the current Slot's live DSP, or nil if there is no slot
// or no live DSP.
func (h *Host) Current() DSP {
	if h.slot == nil {
		return nil
	}
	return h.slot.Current()
}
