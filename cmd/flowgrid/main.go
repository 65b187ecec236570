// Command flowgrid is the FlowGrid application entry point. It wires the
// Component Arena, the Action Engine, the Change Dispatch Registry, the
// Audio Graph, and the Faust Host together, then either hands off to the
// interactive terminal front-end or idles headless.
//
// The teacher's own entry point (gopher2600.go) dispatched on its modalflag
// package, a small hand-rolled flag.FlagSet-per-mode wrapper; only that
// package's test file survived retrieval, not modalflag.go itself, so this
// command uses the standard library's flag package directly instead of
// guessing at an unseen API (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/audiograph"
	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/device/sdldevice"
	"github.com/flowgrid/flowgrid/dispatch"
	"github.com/flowgrid/flowgrid/faust"
	"github.com/flowgrid/flowgrid/faust/boxscript"
	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/flog"
	"github.com/flowgrid/flowgrid/project"
	"github.com/flowgrid/flowgrid/project/config"
	"github.com/flowgrid/flowgrid/store"
	"github.com/flowgrid/flowgrid/store/cli"
)

const defaultProjectPath = ".flowgrid/default.fla"

func main() {
	projectPath := flag.String("project", "", "path to a .fls or .fla project file to open")
	headless := flag.Bool("headless", false, "run without the interactive terminal front-end")
	flag.Parse()

	if err := run(*projectPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "flowgrid:", err)
		os.Exit(1)
	}
}

func run(projectPath string, headless bool) error {
	log := flog.NewLogger(1000)

	arena := component.NewArena()
	reg := dispatch.NewRegistry()
	eng := action.NewEngine(arena, reg, log)

	ws, err := config.Load(config.DefaultPath)
	if err != nil {
		return err
	}

	graph := audiograph.NewGraph(ws.SampleRate)
	host := faust.NewHost(boxscript.Compiler{}, nil, 0, graph.SampleRate, log)
	wireGraphAppliers(eng, graph, host, log)

	var faustID audiograph.ID
	hasFaust := false
	host.AddListener(func(ev faust.Event, slot *faust.Slot) {
		switch ev {
		case faust.Added:
			faustID = graph.AllocID()
			hasFaust = true
			graph.Add(audiograph.NewFaustNode(faustID, slot))
			graph.UpdateConnections()
		case faust.Removed:
			if hasFaust {
				graph.Remove(faustID)
				hasFaust = false
			}
			graph.UpdateConnections()
		case faust.Changed:
			graph.UpdateConnections()
		}
	})

	// Undo/Redo/SetHistoryIndex and project load restore a Store snapshot
	// directly rather than replaying the Connect/Disconnect/SetSampleRate/
	// SetDeviceFormat actions that produced it, so the Graph's own
	// connections/SampleRate/device-format state (none of it a
	// component.Field) would otherwise silently diverge from the restored
	// Store. See action.Engine.SetSyncHook and audiograph.Graph.SyncFromStore.
	eng.SetSyncHook(func(snap store.Store) {
		graph.SyncFromStore(snap)
		if err := host.SetSampleRate(graph.SampleRate); err != nil {
			log.Logf(flog.Allow, "faust", "%v", err)
		}
	})

	if err := openOutputDevice(graph, ws); err != nil {
		log.Logf(flog.Allow, "device", "%v", err)
	}

	if err := project.SaveEmptyProject(); err != nil {
		return err
	}

	path := projectPath
	if path == "" {
		if _, err := os.Stat(defaultProjectPath); err == nil {
			path = defaultProjectPath
		}
	}
	if path != "" {
		if err := project.Open(path, arena, eng); err != nil {
			return err
		}
	}

	if headless {
		select {}
	}

	return cli.Run(eng, arena, host)
}

// connectionPath records one logical connection's presence under a
// deterministic store path, so Connect/Disconnect actions survive
// project save/load and Undo/Redo like any other savable action, even
// though the real effect (a Graph.Connect/Disconnect call plus a topology
// recompile) happens as a side effect of the applier rather than through
// the store itself.
func connectionPath(src, dst uint32) store.Path {
	return store.New("connections", store.IndexSegment(int(src)), store.IndexSegment(int(dst)))
}

// deviceFormatPaths returns the three leaf paths a device's negotiated
// format is stored under, so SetDeviceFormat persists (and survives
// Undo/Redo and project save/load) like any other savable action.
func deviceFormatPaths(id uint32) (sampleFormat, channels, sampleRate store.Path) {
	base := store.New("devices", store.IndexSegment(int(id)), "format")
	return base.Append("sampleFormat"), base.Append("channels"), base.Append("sampleRate")
}

// wireGraphAppliers registers the action.Engine handlers that translate
// Connect/Disconnect/SetSampleRate/SetDeviceFormat actions into Audio Graph
// (and, for sample-rate changes, Faust Host) calls, keeping the action
// package itself ignorant of audiograph/faust (action/engine.go's package
// doc).
func wireGraphAppliers(eng *action.Engine, graph *audiograph.Graph, host *faust.Host, log *flog.Logger) {
	eng.RegisterApplier(action.KindConnect, func(t *store.TransientStore, a action.Action) error {
		t.Set(connectionPath(a.SourceID, a.DestID), store.Bool(true))
		graph.Connect(audiograph.ID(a.SourceID), audiograph.ID(a.DestID))
		graph.UpdateConnections()
		return nil
	})
	eng.RegisterApplier(action.KindDisconnect, func(t *store.TransientStore, a action.Action) error {
		t.Erase(connectionPath(a.SourceID, a.DestID))
		graph.Disconnect(audiograph.ID(a.SourceID), audiograph.ID(a.DestID))
		graph.UpdateConnections()
		return nil
	})
	eng.RegisterApplier(action.KindSetSampleRate, func(t *store.TransientStore, a action.Action) error {
		t.Set(store.New("sampleRate"), store.Int32(int32(a.SampleRate)))
		graph.SampleRate = a.SampleRate
		if err := host.SetSampleRate(a.SampleRate); err != nil {
			log.Logf(flog.Allow, "faust", "%v", err)
		}
		graph.UpdateConnections()
		return nil
	})
	eng.RegisterApplier(action.KindSetDeviceFormat, func(t *store.TransientStore, a action.Action) error {
		n, ok := graph.Node(audiograph.ID(a.DeviceID))
		if !ok {
			return ferrors.Errorf(ferrors.NotFound, a.DeviceID)
		}
		switch dn := n.(type) {
		case *audiograph.DeviceInputNode:
			dn.SetFormat(a.Format)
			dn.OnSampleRateChanged(graph.SampleRate)
		case *audiograph.DeviceOutputNode:
			dn.SetFormat(a.Format)
		default:
			return ferrors.Errorf(ferrors.ActionInvalid, "not a device node")
		}

		sampleFormatPath, channelsPath, sampleRatePath := deviceFormatPaths(a.DeviceID)
		t.Set(sampleFormatPath, store.Int32(int32(a.Format.SampleFormat)))
		t.Set(channelsPath, store.Int32(int32(a.Format.Channels)))
		t.Set(sampleRatePath, store.Int32(int32(a.Format.SampleRate)))

		graph.UpdateConnections()
		return nil
	})
}

func openOutputDevice(graph *audiograph.Graph, ws config.Workspace) error {
	sr := ws.SampleRate
	if sr == 0 {
		sr = graph.DefaultSampleRate()
	}

	format := device.Format{SampleFormat: device.FormatFloat32, Channels: 2, SampleRate: sr}
	dev, err := sdldevice.Open(ws.OutputDevice, format, device.ModePlayback, 1024, nil)
	if err != nil {
		return err
	}
	graph.RegisterOutputDevice(dev.Info)

	id := graph.AllocID()
	// Primary is recomputed by UpdateConnections from insertion order; the
	// initial value here only matters before the first compile.
	node := audiograph.NewDeviceOutputNode(id, dev, format.Channels, true)
	graph.Add(node)
	graph.UpdateConnections()

	if err := dev.Start(); err != nil {
		return err
	}
	return nil
}
