package audiograph

import (
	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/faust"
)

// PassthroughNode is the spec's named "extension-point kind": a node with
// one input bus and one output bus of equal channel count that simply
// forwards whatever is routed to it. New node kinds that don't need their
// own Node implementation can embed or delegate to one of these.
type PassthroughNode struct {
	baseNode
	Channels int
}

// NewPassthroughNode creates a PassthroughNode with the given channel
// count on its single bus.
func NewPassthroughNode(id ID, channels int) *PassthroughNode {
	return &PassthroughNode{baseNode: baseNode{id: id}, Channels: channels}
}

func (n *PassthroughNode) Kind() Kind                { return KindPassthrough }
func (n *PassthroughNode) InputBusCount() int        { return 1 }
func (n *PassthroughNode) OutputBusCount() int        { return 1 }
func (n *PassthroughNode) InputChannelCount(int) int  { return n.Channels }
func (n *PassthroughNode) OutputChannelCount(int) int { return n.Channels }
func (n *PassthroughNode) InputNode() Node            { return n }
func (n *PassthroughNode) OutputNode() Node           { return n }
func (n *PassthroughNode) AllowInputConnectionChange() bool  { return true }
func (n *PassthroughNode) AllowOutputConnectionChange() bool { return true }
func (n *PassthroughNode) OnSampleRateChanged(int)    {}
func (n *PassthroughNode) OnFieldChanged()            {}

// WaveformNode plays back a decoded sample buffer in a loop (SPEC_FULL
// §4.2 additions). It has the same bus/channel contract as any other
// source node and participates in topology compile identically.
type WaveformNode struct {
	baseNode
	Sample *capturesample
	pos    int
	Loop   bool
}

// capturesample is a minimal local alias so this file doesn't need to
// import device/capture just for its Sample type's shape; the audio graph
// only ever reads Frames/Channels/SampleRate from whatever sample backs a
// WaveformNode.
type capturesample = struct {
	Frames     []float32
	Channels   int
	SampleRate int
}

// NewWaveformNode creates a WaveformNode backed by frames/channels.
func NewWaveformNode(id ID, frames []float32, channels, sampleRate int, loop bool) *WaveformNode {
	return &WaveformNode{
		baseNode: baseNode{id: id},
		Sample:   &capturesample{Frames: frames, Channels: channels, SampleRate: sampleRate},
		Loop:     loop,
	}
}

func (n *WaveformNode) Kind() Kind                { return KindWaveform }
func (n *WaveformNode) InputBusCount() int        { return 0 }
func (n *WaveformNode) OutputBusCount() int        { return 1 }
func (n *WaveformNode) InputChannelCount(int) int  { return 0 }
func (n *WaveformNode) OutputChannelCount(int) int { return n.Sample.Channels }
func (n *WaveformNode) InputNode() Node            { return n }
func (n *WaveformNode) OutputNode() Node           { return n }
func (n *WaveformNode) AllowInputConnectionChange() bool  { return false }
func (n *WaveformNode) AllowOutputConnectionChange() bool { return true }
func (n *WaveformNode) OnSampleRateChanged(int)    {}
func (n *WaveformNode) OnFieldChanged()            {}

// Read fills out (interleaved, Channels-wide frames) from the sample
// buffer, looping or zero-filling past the end depending on Loop.
func (n *WaveformNode) Read(out []float32) {
	if n.Sample == nil || len(n.Sample.Frames) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	for i := range out {
		if n.pos >= len(n.Sample.Frames) {
			if !n.Loop {
				out[i] = 0
				continue
			}
			n.pos = 0
		}
		out[i] = n.Sample.Frames[n.pos]
		n.pos++
	}
}

// FaustNode wraps a *faust.Slot so the graph can route around a DSP whose
// input/output channel counts change on every recompile (spec.md §4.3
// "Listener contract": Added inserts this node, Removed deletes it,
// Changed updates its bus counts).
type FaustNode struct {
	baseNode
	Slot *faust.Slot
}

// NewFaustNode creates a FaustNode backed by slot.
func NewFaustNode(id ID, slot *faust.Slot) *FaustNode {
	return &FaustNode{baseNode: baseNode{id: id}, Slot: slot}
}

func (n *FaustNode) Kind() Kind { return KindFaust }
func (n *FaustNode) InputBusCount() int { return 1 }
func (n *FaustNode) OutputBusCount() int { return 1 }
func (n *FaustNode) InputChannelCount(int) int {
	if n.Slot == nil || n.Slot.Box == nil {
		return 0
	}
	return n.Slot.Box.NumInputs
}
func (n *FaustNode) OutputChannelCount(int) int {
	if n.Slot == nil || n.Slot.Box == nil {
		return 0
	}
	return n.Slot.Box.NumOutputs
}
func (n *FaustNode) InputNode() Node  { return n }
func (n *FaustNode) OutputNode() Node { return n }
func (n *FaustNode) AllowInputConnectionChange() bool  { return true }
func (n *FaustNode) AllowOutputConnectionChange() bool { return true }
func (n *FaustNode) OnSampleRateChanged(sr int) {
	if n.Slot == nil {
		return
	}
}
func (n *FaustNode) OnFieldChanged() {}

// Compute runs the node's current dsp if one is live, and no-ops
// (per spec.md §4.3 "Thread discipline") when the atomic pointer is nil.
func (n *FaustNode) Compute(frames int, in, out [][]float32) {
	dsp := n.Slot.Current()
	if dsp == nil {
		return
	}
	dsp.Compute(frames, in, out)
}

// DeviceInputNode wraps an input device.Device and its duplex Ring as a
// graph source node (spec.md §4.2 "Input device").
type DeviceInputNode struct {
	baseNode
	Dev      *device.Device
	Ring     *device.Ring
	channels int
}

// NewDeviceInputNode creates a DeviceInputNode.
func NewDeviceInputNode(id ID, dev *device.Device, ring *device.Ring, channels int) *DeviceInputNode {
	return &DeviceInputNode{baseNode: baseNode{id: id}, Dev: dev, Ring: ring, channels: channels}
}

func (n *DeviceInputNode) Kind() Kind                { return KindDeviceInput }
func (n *DeviceInputNode) InputBusCount() int        { return 0 }
func (n *DeviceInputNode) OutputBusCount() int        { return 1 }
func (n *DeviceInputNode) InputChannelCount(int) int  { return 0 }
func (n *DeviceInputNode) OutputChannelCount(int) int { return n.channels }
func (n *DeviceInputNode) InputNode() Node            { return n }
func (n *DeviceInputNode) OutputNode() Node           { return n }
func (n *DeviceInputNode) AllowInputConnectionChange() bool  { return false }
func (n *DeviceInputNode) AllowOutputConnectionChange() bool { return true }
func (n *DeviceInputNode) OnFieldChanged()                   {}

// OnSampleRateChanged reinitializes the duplex ring sized from the
// min/max of (device native SR, graph client SR), per spec.md §4.2.
func (n *DeviceInputNode) OnSampleRateChanged(graphSR int) {
	native := n.Dev.Format.SampleRate
	cap := native
	if graphSR > cap {
		cap = graphSR
	}
	if n.Ring != nil {
		n.Ring.Reset(cap * n.channels / 10) // ~100ms at the larger of the two rates
	}
}

// Read pulls interleaved samples out of the duplex ring into out.
func (n *DeviceInputNode) Read(out []float32) { n.Ring.Read(out) }

// SetFormat renegotiates this device's (format, channels, sample rate)
// triple, per the SetDeviceFormat action (spec.md §3 Action taxonomy,
// §6 "Audio device" format negotiation contract). The caller is
// responsible for calling OnSampleRateChanged afterward to reinitialize
// the duplex ring at the new channel count and for recompiling topology.
func (n *DeviceInputNode) SetFormat(f device.Format) {
	n.Dev.Format = f
	n.channels = f.Channels
}

// DeviceOutputNode wraps an output device.Device (spec.md §4.2 "Primary/
// secondary output devices"). Primary is true for the first-created
// OutputDevice node, whose callback pulls directly from the graph
// endpoint; secondary nodes read from their own PassthroughBuf.
type DeviceOutputNode struct {
	baseNode
	Dev              *device.Device
	Primary          bool
	channels         int
	PassthroughBuf   []float32
	active           bool
}

// NewDeviceOutputNode creates a DeviceOutputNode.
func NewDeviceOutputNode(id ID, dev *device.Device, channels int, primary bool) *DeviceOutputNode {
	return &DeviceOutputNode{baseNode: baseNode{id: id}, Dev: dev, channels: channels, Primary: primary}
}

func (n *DeviceOutputNode) Kind() Kind                { return KindDeviceOutput }
func (n *DeviceOutputNode) InputBusCount() int        { return 1 }
func (n *DeviceOutputNode) OutputBusCount() int        { return 0 }
func (n *DeviceOutputNode) InputChannelCount(int) int  { return n.channels }
func (n *DeviceOutputNode) OutputChannelCount(int) int { return 0 }
func (n *DeviceOutputNode) InputNode() Node            { return n }
func (n *DeviceOutputNode) OutputNode() Node           { return n }

// AllowInputConnectionChange is false: output devices are fixed to the
// graph endpoint (spec.md §4.2 "Node contract").
func (n *DeviceOutputNode) AllowInputConnectionChange() bool  { return false }
func (n *DeviceOutputNode) AllowOutputConnectionChange() bool { return false }
func (n *DeviceOutputNode) OnSampleRateChanged(int)           {}
func (n *DeviceOutputNode) OnFieldChanged()                   {}

// SetFormat renegotiates this device's (format, channels, sample rate)
// triple, per the SetDeviceFormat action (spec.md §3 Action taxonomy,
// §6 "Audio device" format negotiation contract). PassthroughBuf is
// cleared to silence at the new channel count; the caller recompiles
// topology afterward.
func (n *DeviceOutputNode) SetFormat(f device.Format) {
	n.Dev.Format = f
	n.channels = f.Channels
	n.PassthroughBuf = make([]float32, len(n.PassthroughBuf))
}

// IsActive reports whether this node is currently reached by the
// compiled topology (spec.md §8 "Active-flag correctness").
func (n *DeviceOutputNode) IsActive() bool { return n.active }

// SetActive is called by Graph.UpdateConnections.
func (n *DeviceOutputNode) SetActive(v bool) {
	n.active = v
	if !v {
		for i := range n.PassthroughBuf {
			n.PassthroughBuf[i] = 0
		}
	}
}

// Callback is invoked from the device's audio thread (spec.md §8
// "Callback silence safety"): if not active, output is entirely
// zero-filled; if active and primary, the graph endpoint is pulled
// directly by the caller before this is invoked and out already holds the
// mixed result; if active and secondary, out is copied from
// PassthroughBuf.
func (n *DeviceOutputNode) Callback(out []float32) {
	if !n.active {
		for i := range out {
			out[i] = 0
		}
		return
	}
	if n.Primary {
		return // caller already pulled the graph endpoint directly into out
	}
	copy(out, n.PassthroughBuf)
}
