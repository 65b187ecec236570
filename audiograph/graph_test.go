package audiograph

import "testing"

func newTestGraph() *Graph { return NewGraph(48000) }

// TestFanOutCreatesSplitter is the literal scenario from spec.md §8: A, B,
// C nodes, Connect(A, B), Connect(A, C) should give A exactly one
// splitter with two outputs once B and C are both active.
func TestFanOutCreatesSplitter(t *testing.T) {
	g := newTestGraph()

	a := NewPassthroughNode(g.AllocID(), 2)
	b := NewPassthroughNode(g.AllocID(), 2)
	c := NewPassthroughNode(g.AllocID(), 2)
	g.Add(a)
	g.Add(b)
	g.Add(c)

	g.Connect(b.ID(), g.Endpoint())
	g.Connect(c.ID(), g.Endpoint())
	g.Connect(a.ID(), b.ID())
	g.Connect(a.ID(), c.ID())

	g.UpdateConnections()

	if !g.IsActive(a.ID()) || !g.IsActive(b.ID()) || !g.IsActive(c.ID()) {
		t.Fatalf("expected a, b, c all active")
	}

	w, ok := g.wrapped[a.ID()]
	if !ok || w.splitter == nil {
		t.Fatalf("expected a splitter wrapping node a")
	}
	if w.splitter.OutputBusCount() != 2 {
		t.Fatalf("expected 2-way splitter, got %d-way", w.splitter.OutputBusCount())
	}

	// exactly one splitter feeding each of b and c's inputs
	feedsB, feedsC := 0, 0
	for _, e := range g.wiring {
		if e.From == w.splitter.ID() {
			if e.To == g.inputOf(b).ID() {
				feedsB++
			}
			if e.To == g.inputOf(c).ID() {
				feedsC++
			}
		}
	}
	if feedsB != 1 || feedsC != 1 {
		t.Fatalf("expected splitter to feed b and c exactly once each, got b=%d c=%d", feedsB, feedsC)
	}
}

// TestSingleDestinationAttachesDirectly verifies the N=1 branch of step 5:
// no splitter is created when a source has exactly one destination.
func TestSingleDestinationAttachesDirectly(t *testing.T) {
	g := newTestGraph()
	a := NewPassthroughNode(g.AllocID(), 1)
	b := NewPassthroughNode(g.AllocID(), 1)
	g.Add(a)
	g.Add(b)
	g.Connect(b.ID(), g.Endpoint())
	g.Connect(a.ID(), b.ID())
	g.UpdateConnections()

	if w, ok := g.wrapped[a.ID()]; ok && w.splitter != nil {
		t.Fatalf("expected no splitter for a single destination")
	}
}

// TestInactiveNodeNotReachingEndpoint checks the active-flag correctness
// property from spec.md §8: a node with no path to the endpoint is never
// marked active, and gets no wrappers.
func TestInactiveNodeNotReachingEndpoint(t *testing.T) {
	g := newTestGraph()
	orphan := NewPassthroughNode(g.AllocID(), 1)
	g.Add(orphan)
	g.UpdateConnections()

	if g.IsActive(orphan.ID()) {
		t.Fatalf("expected orphan node to be inactive")
	}
	if _, ok := g.wrapped[orphan.ID()]; ok {
		t.Fatalf("expected no wrappers attached to an inactive node")
	}
}

// TestPrimaryOutputDeviceAlwaysConnected verifies step 1: the first
// created OutputDevice node is always connected to the endpoint even with
// no inbound sources, and is marked Primary.
func TestPrimaryOutputDeviceAlwaysConnected(t *testing.T) {
	g := newTestGraph()
	out1 := NewDeviceOutputNode(g.AllocID(), nil, 2, false)
	g.Add(out1)
	g.UpdateConnections()

	if !out1.Primary {
		t.Fatalf("expected the first OutputDevice node to become primary")
	}
	if !g.IsActive(out1.ID()) {
		t.Fatalf("expected primary output device to be active unconditionally")
	}
}

// TestSecondaryOutputDeviceRequiresInboundSource verifies step 1's "or has
// at least one inbound source" clause for non-primary output devices.
func TestSecondaryOutputDeviceRequiresInboundSource(t *testing.T) {
	g := newTestGraph()
	primary := NewDeviceOutputNode(g.AllocID(), nil, 2, false)
	secondary := NewDeviceOutputNode(g.AllocID(), nil, 2, false)
	g.Add(primary)
	g.Add(secondary)
	g.UpdateConnections()

	if g.IsActive(secondary.ID()) {
		t.Fatalf("expected unconnected secondary output device to be inactive")
	}

	src := NewPassthroughNode(g.AllocID(), 2)
	g.Add(src)
	g.Connect(src.ID(), secondary.ID())
	g.UpdateConnections()

	if !g.IsActive(secondary.ID()) {
		t.Fatalf("expected secondary output device to become active once fed")
	}
}

// TestCallbackSilenceSafety exercises spec.md §8's "callback silence
// safety" property directly on DeviceOutputNode: an inactive node's
// Callback always zero-fills, regardless of stale buffer contents.
func TestCallbackSilenceSafety(t *testing.T) {
	out := NewDeviceOutputNode(0, nil, 2, false)
	out.PassthroughBuf = []float32{1, 1, 1, 1}
	out.SetActive(false)

	buf := []float32{9, 9, 9, 9}
	out.Callback(buf)
	for _, s := range buf {
		if s != 0 {
			t.Fatalf("expected silence from an inactive output node, got %v", buf)
		}
	}
}

// TestDSPHotSwapReroutesChannelCount is the literal scenario from spec.md
// §8: a Faust node whose box goes from 1-in/1-out to 1-in/2-out should
// keep its node ID stable and have its reported channel counts change,
// without disturbing unrelated node IDs.
func TestDSPHotSwapReroutesChannelCount(t *testing.T) {
	g := newTestGraph()

	in := NewPassthroughNode(g.AllocID(), 1)
	dspID := g.AllocID()
	dsp := NewPassthroughNode(dspID, 1) // stand-in DSP node, same bus contract as FaustNode
	outDev := NewDeviceOutputNode(g.AllocID(), nil, 1, true)

	g.Add(in)
	g.Add(dsp)
	g.Add(outDev)
	g.Connect(in.ID(), dsp.ID())
	g.Connect(dsp.ID(), outDev.ID())
	g.UpdateConnections()

	if dsp.ID() != dspID {
		t.Fatalf("expected stable node ID across recompiles")
	}
	if !g.IsActive(dsp.ID()) {
		t.Fatalf("expected dsp node active before channel-count change")
	}

	dsp.Channels = 2 // simulate process = _,_;
	g.UpdateConnections()

	if dsp.ID() != dspID {
		t.Fatalf("expected stable node ID across recompiles")
	}
	if dsp.OutputChannelCount(0) != 2 {
		t.Fatalf("expected updated channel count to be visible after recompile")
	}
	if in.ID() == outDev.ID() {
		t.Fatalf("sanity: unrelated node IDs must differ")
	}
}
