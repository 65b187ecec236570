package audiograph

import "github.com/flowgrid/flowgrid/device"

// endpointNode is the graph's sink: the one node every other active node
// must reach (spec.md §4.2 "The Graph itself is the sink endpoint").
type endpointNode struct {
	baseNode
	channels int
}

func (n *endpointNode) Kind() Kind                { return KindPassthrough }
func (n *endpointNode) InputBusCount() int        { return 1 }
func (n *endpointNode) OutputBusCount() int        { return 0 }
func (n *endpointNode) InputChannelCount(int) int  { return n.channels }
func (n *endpointNode) OutputChannelCount(int) int { return 0 }
func (n *endpointNode) InputNode() Node            { return n }
func (n *endpointNode) OutputNode() Node           { return n }
func (n *endpointNode) AllowInputConnectionChange() bool  { return false }
func (n *endpointNode) AllowOutputConnectionChange() bool { return false }
func (n *endpointNode) OnSampleRateChanged(int)           {}
func (n *endpointNode) OnFieldChanged()                   {}

// gainNode and monitorNode are the internal wrappers attached to every
// active node's input and output buses (spec.md §4.2 point 4). They carry
// no state of their own beyond the channel count they were created for;
// the actual gain/metering computation is an out-of-scope renderer
// concern (spec.md §1).
type gainNode struct {
	baseNode
	channels int
}

func (n *gainNode) Kind() Kind                { return kindGain }
func (n *gainNode) InputBusCount() int        { return 1 }
func (n *gainNode) OutputBusCount() int        { return 1 }
func (n *gainNode) InputChannelCount(int) int  { return n.channels }
func (n *gainNode) OutputChannelCount(int) int { return n.channels }
func (n *gainNode) InputNode() Node            { return n }
func (n *gainNode) OutputNode() Node           { return n }
func (n *gainNode) AllowInputConnectionChange() bool  { return true }
func (n *gainNode) AllowOutputConnectionChange() bool { return true }
func (n *gainNode) OnSampleRateChanged(int)           {}
func (n *gainNode) OnFieldChanged()                   {}

type monitorNode struct {
	baseNode
	channels int
}

func (n *monitorNode) Kind() Kind                { return kindMonitor }
func (n *monitorNode) InputBusCount() int        { return 1 }
func (n *monitorNode) OutputBusCount() int        { return 1 }
func (n *monitorNode) InputChannelCount(int) int  { return n.channels }
func (n *monitorNode) OutputChannelCount(int) int { return n.channels }
func (n *monitorNode) InputNode() Node            { return n }
func (n *monitorNode) OutputNode() Node           { return n }
func (n *monitorNode) AllowInputConnectionChange() bool  { return true }
func (n *monitorNode) AllowOutputConnectionChange() bool { return true }
func (n *monitorNode) OnSampleRateChanged(int)           {}
func (n *monitorNode) OnFieldChanged()                   {}

// splitterNode fans one input bus out to N output buses, created lazily
// when an active source has more than one destination and destroyed on
// the next topology compile when no longer needed (spec.md §9 Open
// Questions).
type splitterNode struct {
	baseNode
	channels int
	fanOut   int
}

func (n *splitterNode) Kind() Kind                { return kindSplitter }
func (n *splitterNode) InputBusCount() int        { return 1 }
func (n *splitterNode) OutputBusCount() int        { return n.fanOut }
func (n *splitterNode) InputChannelCount(int) int  { return n.channels }
func (n *splitterNode) OutputChannelCount(int) int { return n.channels }
func (n *splitterNode) InputNode() Node            { return n }
func (n *splitterNode) OutputNode() Node           { return n }
func (n *splitterNode) AllowInputConnectionChange() bool  { return true }
func (n *splitterNode) AllowOutputConnectionChange() bool { return true }
func (n *splitterNode) OnSampleRateChanged(int)           {}
func (n *splitterNode) OnFieldChanged()                   {}

// Edge is one resolved attachment in the compiled wiring, recorded for
// inspection by tests and diagnostics (audiograph/diagnostics).
type Edge struct {
	From, To ID
}

// Graph owns a set of logical nodes, a directed Connections adjacency set
// among their logical IDs, and the client SampleRate every device
// negotiates toward (spec.md §4.2).
type Graph struct {
	nodes       map[ID]Node
	order       []ID // insertion order, so the first OutputDevice is primary
	connections map[ID]map[ID]bool

	endpoint *endpointNode
	nextID   ID

	SampleRate int

	active  map[ID]bool
	wrapped map[ID]*wrapping // per-node attached gain/monitor/splitter bookkeeping
	wiring  []Edge           // the compiled primitive-level attachments, for diagnostics

	inputDevices  []device.Info
	outputDevices []device.Info
}

// wrapping records the internal wrapper nodes attached to one logical
// node during the most recent compile, so the next compile can tell which
// ones survive and which must be torn down.
type wrapping struct {
	inGain, outGain       *gainNode
	inMonitor, outMonitor *monitorNode
	splitter              *splitterNode
}

// NewGraph creates an empty Graph with its own endpoint node (ID 0).
func NewGraph(sampleRate int) *Graph {
	g := &Graph{
		nodes:       map[ID]Node{},
		connections: map[ID]map[ID]bool{},
		active:      map[ID]bool{},
		wrapped:     map[ID]*wrapping{},
		SampleRate:  sampleRate,
	}
	g.endpoint = &endpointNode{baseNode: baseNode{id: g.allocID()}}
	g.nodes[g.endpoint.ID()] = g.endpoint
	g.order = append(g.order, g.endpoint.ID())
	return g
}

func (g *Graph) allocID() ID {
	id := g.nextID
	g.nextID++
	return id
}

// Endpoint returns the graph's sink node ID.
func (g *Graph) Endpoint() ID { return g.endpoint.ID() }

// AllocID reserves a fresh node ID. Every NewXxxNode constructor in this
// package takes an ID parameter, so callers allocate one here first, then
// construct the node, then call Add.
func (g *Graph) AllocID() ID { return g.allocID() }

// Add inserts an already-constructed node (see AllocID) into the graph.
func (g *Graph) Add(n Node) {
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
}

// Remove deletes a node and every connection touching it.
func (g *Graph) Remove(id ID) {
	delete(g.nodes, id)
	delete(g.connections, id)
	for _, dests := range g.connections {
		delete(dests, id)
	}
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	delete(g.wrapped, id)
}

// Node looks up a node by ID.
func (g *Graph) Node(id ID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Connect adds a directed logical connection from src to dst.
func (g *Graph) Connect(src, dst ID) {
	if g.connections[src] == nil {
		g.connections[src] = map[ID]bool{}
	}
	g.connections[src][dst] = true
}

// Disconnect removes a directed logical connection from src to dst.
func (g *Graph) Disconnect(src, dst ID) {
	if dests, ok := g.connections[src]; ok {
		delete(dests, dst)
	}
}

// Connections returns the destinations src is logically connected to.
func (g *Graph) Connections(src ID) []ID {
	dests := g.connections[src]
	out := make([]ID, 0, len(dests))
	for d := range dests {
		out = append(out, d)
	}
	return out
}

// IsActive reports whether id was marked active by the most recent
// UpdateConnections.
func (g *Graph) IsActive(id ID) bool { return g.active[id] }

// outputDeviceNodes returns every DeviceOutputNode currently in the graph,
// in insertion order (so index 0 is always primary, per spec.md §4.2
// "Primary/secondary output devices").
func (g *Graph) outputDeviceNodes() []*DeviceOutputNode {
	var out []*DeviceOutputNode
	for _, id := range g.order {
		if od, ok := g.nodes[id].(*DeviceOutputNode); ok {
			out = append(out, od)
		}
	}
	return out
}

// hasInboundSource reports whether any logical connection targets id.
func (g *Graph) hasInboundSource(id ID) bool {
	for _, dests := range g.connections {
		if dests[id] {
			return true
		}
	}
	return false
}

// UpdateConnections recompiles the topology per spec.md §4.2's five
// numbered steps, run after any change to Nodes, Connections, or a node's
// reported bus counts.
func (g *Graph) UpdateConnections() {
	// Step 1: output devices connect to the endpoint iff primary or fed.
	for i, od := range g.outputDeviceNodes() {
		primary := i == 0
		od.Primary = primary
		if primary || g.hasInboundSource(od.ID()) {
			g.Connect(od.ID(), g.endpoint.ID())
		} else {
			g.Disconnect(od.ID(), g.endpoint.ID())
		}
	}

	// Step 2: mark every node reachable-to-endpoint as active.
	g.active = g.computeActive()
	for _, od := range g.outputDeviceNodes() {
		od.SetActive(g.active[od.ID()])
	}

	// Step 3: detach every node's current output bus (drop prior wrapping).
	prevWrapped := g.wrapped
	g.wrapped = map[ID]*wrapping{}
	for id, w := range prevWrapped {
		if _, stillThere := g.nodes[id]; !stillThere {
			continue
		}
		if w.splitter != nil {
			delete(g.nodes, w.splitter.ID())
		}
		if w.inGain != nil {
			delete(g.nodes, w.inGain.ID())
		}
		if w.inMonitor != nil {
			delete(g.nodes, w.inMonitor.ID())
		}
		if w.outGain != nil {
			delete(g.nodes, w.outGain.ID())
		}
		if w.outMonitor != nil {
			delete(g.nodes, w.outMonitor.ID())
		}
	}
	g.wiring = nil

	// Step 4: attach in-gainer/in-monitor and out-gainer/out-monitor
	// wrappers for every active node.
	for id, n := range g.nodes {
		if id == g.endpoint.ID() || !g.active[id] {
			continue
		}
		g.attachWrappers(n)
	}

	// Step 5: for each active source with N destinations, attach directly
	// (N=1) or through an N-way splitter (N>1).
	for src, dests := range g.connections {
		if !g.active[src] && src != g.endpoint.ID() {
			continue
		}
		live := make([]ID, 0, len(dests))
		for d := range dests {
			if g.active[d] || d == g.endpoint.ID() {
				live = append(live, d)
			}
		}
		if len(live) == 0 {
			continue
		}
		srcNode, ok := g.nodes[src]
		if !ok {
			continue
		}
		out := g.outputOf(srcNode)
		if len(live) == 1 {
			g.attach(out, g.inputOf(g.nodes[live[0]]))
			continue
		}
		sp := &splitterNode{baseNode: baseNode{id: g.allocID()}, channels: out.OutputChannelCount(0), fanOut: len(live)}
		g.nodes[sp.ID()] = sp
		g.order = append(g.order, sp.ID())
		w := g.wrapped[src]
		if w == nil {
			w = &wrapping{}
			g.wrapped[src] = w
		}
		w.splitter = sp
		g.attach(out, sp)
		for _, d := range live {
			g.attach(sp, g.inputOf(g.nodes[d]))
		}
	}
}

// attachWrappers creates a fresh in-gain/in-monitor/out-gain/out-monitor
// chain for n and records it in g.wrapped, then wires it in-between n and
// whatever n.InputNode()/OutputNode() expose externally. Nodes that
// disallow connection changes on a side (e.g. device nodes) still get
// wrappers; neither this step nor step 5 consults
// AllowInputConnectionChange/AllowOutputConnectionChange.
func (g *Graph) attachWrappers(n Node) {
	channels := n.InputChannelCount(0)
	if channels == 0 {
		channels = n.OutputChannelCount(0)
	}
	w := &wrapping{
		inGain:     &gainNode{baseNode: baseNode{id: g.allocID()}, channels: channels},
		inMonitor:  &monitorNode{baseNode: baseNode{id: g.allocID()}, channels: channels},
		outGain:    &gainNode{baseNode: baseNode{id: g.allocID()}},
		outMonitor: &monitorNode{baseNode: baseNode{id: g.allocID()}, channels: n.OutputChannelCount(0)},
	}
	w.outGain.channels = n.OutputChannelCount(0)
	g.wrapped[n.ID()] = w
	for _, nn := range []Node{w.inGain, w.inMonitor, w.outGain, w.outMonitor} {
		g.nodes[nn.ID()] = nn
		g.order = append(g.order, nn.ID())
	}
	g.attach(w.inGain, w.inMonitor)
	g.attach(w.inMonitor, n)
	g.attach(n, w.outGain)
	g.attach(w.outGain, w.outMonitor)
}

// inputOf returns the primitive node that should receive an incoming
// edge for n: its attached in-gainer if wrapped, else n.InputNode().
func (g *Graph) inputOf(n Node) Node {
	if n == nil {
		return nil
	}
	if w, ok := g.wrapped[n.ID()]; ok && w.inGain != nil {
		return w.inGain
	}
	return n.InputNode()
}

// outputOf returns the primitive node that should source an outgoing edge
// for n: its attached out-monitor if wrapped, else n.OutputNode().
func (g *Graph) outputOf(n Node) Node {
	if n == nil {
		return nil
	}
	if w, ok := g.wrapped[n.ID()]; ok && w.outMonitor != nil {
		return w.outMonitor
	}
	return n.OutputNode()
}

// attach records a primitive-level edge for diagnostics. It does not
// allocate or touch real audio buffers: the engine's actual block
// processing order is derived from g.wiring by the (out-of-scope)
// audio-thread driver.
func (g *Graph) attach(from, to Node) {
	if from == nil || to == nil {
		return
	}
	g.wiring = append(g.wiring, Edge{From: from.ID(), To: to.ID()})
}

// Wiring exposes the compiled primitive-level edge list, consumed by
// audiograph/diagnostics to export a dot graph.
func (g *Graph) Wiring() []Edge { return append([]Edge(nil), g.wiring...) }

// computeActive returns the set of node IDs from which a directed path to
// the endpoint exists, via a reverse BFS from the endpoint over
// Connections.
func (g *Graph) computeActive() map[ID]bool {
	reachesTo := map[ID][]ID{} // dst -> srcs
	for src, dests := range g.connections {
		for d := range dests {
			reachesTo[d] = append(reachesTo[d], src)
		}
	}
	active := map[ID]bool{g.endpoint.ID(): true}
	queue := []ID{g.endpoint.ID()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, src := range reachesTo[cur] {
			if !active[src] {
				active[src] = true
				queue = append(queue, src)
			}
		}
	}
	delete(active, g.endpoint.ID())
	return active
}

// IsNativeSampleRate reports whether every registered input and output
// device natively supports sr (spec.md §4.2 "Sample-rate selection").
func (g *Graph) IsNativeSampleRate(sr int) bool {
	for _, info := range g.inputDevices {
		if !info.SupportsSampleRate(sr) {
			return false
		}
	}
	for _, info := range g.outputDevices {
		if !info.SupportsSampleRate(sr) {
			return false
		}
	}
	return true
}

// RegisterInputDevice and RegisterOutputDevice record a device's Info for
// sample-rate-selection purposes; call once per device opened.
func (g *Graph) RegisterInputDevice(info device.Info)  { g.inputDevices = append(g.inputDevices, info) }
func (g *Graph) RegisterOutputDevice(info device.Info) { g.outputDevices = append(g.outputDevices, info) }

// DefaultSampleRate implements spec.md §4.2's exact algorithm: the
// highest-priority value in device.DefaultSampleRatePriority that is
// native to every device; failing that, the first value natively
// supported by any output device, then input device, still walked in
// priority order; failing that, the first entry in the priority list.
// The fallback loops are priority-outer, device-inner (matching
// original_source's GetDefaultSampleRate), not device-outer: otherwise
// an arbitrarily-ordered Native entry on the first registered device
// could win over a higher-priority rate supported elsewhere.
func (g *Graph) DefaultSampleRate() int {
	for _, sr := range device.DefaultSampleRatePriority {
		if g.IsNativeSampleRate(sr) {
			return sr
		}
	}
	for _, sr := range device.DefaultSampleRatePriority {
		for _, info := range g.outputDevices {
			if info.SupportsSampleRate(sr) {
				return sr
			}
		}
	}
	for _, sr := range device.DefaultSampleRatePriority {
		for _, info := range g.inputDevices {
			if info.SupportsSampleRate(sr) {
				return sr
			}
		}
	}
	return device.DefaultSampleRatePriority[0]
}
