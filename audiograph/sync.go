package audiograph

import (
	"strconv"

	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/store"
)

// formatUpdate accumulates the three leaf paths a device's negotiated
// format is stored under (cmd/flowgrid's deviceFormatPaths), so a format
// is only applied to a node once all three have been observed.
type formatUpdate struct {
	format                          device.Format
	hasFormat, hasChannels, hasRate bool
}

func (fu *formatUpdate) complete() bool { return fu.hasFormat && fu.hasChannels && fu.hasRate }

// SyncFromStore re-derives the Graph's in-memory Connections set, client
// SampleRate, and per-device negotiated Format from snap, then recompiles
// topology. Forward Action application (wireGraphAppliers in cmd/flowgrid)
// mutates the Graph as a side effect alongside writing the Store, but
// Undo/Redo/SetHistoryIndex and project load only ever restore a Store
// snapshot — they never replay the original Connect/Disconnect/
// SetSampleRate/SetDeviceFormat actions. Without this, the Graph's own
// connections map would silently diverge from a reverted Store (spec.md §2
// "The Audio Graph (C6) reacts by rebuilding connections"). Callers invoke
// this once after publishing any Store snapshot that didn't arrive through
// the normal forward-apply appliers.
func (g *Graph) SyncFromStore(snap store.Store) {
	connections := map[ID]map[ID]bool{}
	sampleRate := g.SampleRate
	formats := map[ID]*formatUpdate{}

	snap.Each(func(p store.Path, v store.Primitive) {
		segs := p.Segments()
		switch {
		case len(segs) == 3 && segs[0] == "connections":
			src, err1 := strconv.Atoi(segs[1])
			dst, err2 := strconv.Atoi(segs[2])
			on, isBool := v.AsBool()
			if err1 != nil || err2 != nil || !isBool || !on {
				return
			}
			if connections[ID(src)] == nil {
				connections[ID(src)] = map[ID]bool{}
			}
			connections[ID(src)][ID(dst)] = true

		case len(segs) == 1 && segs[0] == "sampleRate":
			if i, ok := v.AsInt32(); ok {
				sampleRate = int(i)
			}

		case len(segs) == 4 && segs[0] == "devices" && segs[2] == "format":
			id, err := strconv.Atoi(segs[1])
			if err != nil {
				return
			}
			fu := formats[ID(id)]
			if fu == nil {
				fu = &formatUpdate{}
				formats[ID(id)] = fu
			}
			switch segs[3] {
			case "sampleFormat":
				if i, ok := v.AsInt32(); ok {
					fu.format.SampleFormat = device.SampleFormat(i)
					fu.hasFormat = true
				}
			case "channels":
				if i, ok := v.AsInt32(); ok {
					fu.format.Channels = int(i)
					fu.hasChannels = true
				}
			case "sampleRate":
				if i, ok := v.AsInt32(); ok {
					fu.format.SampleRate = int(i)
					fu.hasRate = true
				}
			}
		}
	})

	g.connections = connections
	g.SampleRate = sampleRate

	for id, fu := range formats {
		if !fu.complete() {
			continue
		}
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		switch dn := n.(type) {
		case *DeviceInputNode:
			dn.SetFormat(fu.format)
			dn.OnSampleRateChanged(g.SampleRate)
		case *DeviceOutputNode:
			dn.SetFormat(fu.format)
		}
	}

	g.UpdateConnections()
}
