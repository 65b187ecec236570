// Package audiograph implements the Audio Graph (spec.md §4.2, component
// C6): a set of nodes and a directed connection set among them, lowered by
// topology compile into a platform-neutral DAG with monitor/gain wrappers
// and fan-out splitters, feeding a device callback that always produces
// silence-or-mixed output deterministically.
package audiograph

// ID identifies a Node within a Graph.
type ID uint32

// Node is the contract every graph participant satisfies (spec.md §4.2
// "Node contract").
type Node interface {
	ID() ID
	InputBusCount() int
	OutputBusCount() int
	InputChannelCount(bus int) int
	OutputChannelCount(bus int) int

	// InputNode/OutputNode expose the primitive nodes used for incoming and
	// outgoing edges; they may differ from the logical node itself once
	// gain/monitor wrappers are attached (spec.md §4.2 point 4).
	InputNode() Node
	OutputNode() Node

	AllowInputConnectionChange() bool
	AllowOutputConnectionChange() bool

	OnSampleRateChanged(sampleRate int)
	OnFieldChanged()
}

// baseNode is embedded by every concrete Node kind to provide the common
// plumbing (self-referential InputNode/OutputNode, a stable ID) so each
// kind only needs to override what's different about it.
type baseNode struct {
	id ID
}

func (n *baseNode) ID() ID { return n.id }

// Kind tags the fixed node kinds named in spec.md §4.2, plus the
// extension-point Passthrough kind.
type Kind int

const (
	KindDeviceInput Kind = iota
	KindDeviceOutput
	KindFaust
	KindWaveform
	KindPassthrough
	kindGain
	kindMonitor
	kindSplitter
)

func (k Kind) String() string {
	switch k {
	case KindDeviceInput:
		return "DeviceInput"
	case KindDeviceOutput:
		return "DeviceOutput"
	case KindFaust:
		return "Faust"
	case KindWaveform:
		return "Waveform"
	case KindPassthrough:
		return "Passthrough"
	case kindGain:
		return "gain"
	case kindMonitor:
		return "monitor"
	case kindSplitter:
		return "splitter"
	}
	return "?"
}

// Kinded is implemented by every concrete node so the graph can tell fixed
// endpoint/device kinds apart during topology compile without a type
// switch per call site.
type Kinded interface {
	Kind() Kind
}
