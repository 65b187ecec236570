// Package action implements the action taxonomy, dispatch, gesture
// grouping/merging, and undo/redo history described in spec.md §4.1. It
// intentionally knows nothing about the audio graph or Faust host: savable
// actions are translated into plain store.TransientStore operations, and
// components that care about a particular store path (the audio graph's
// connection set, the Faust host's source field) react through the Change
// Dispatch registry rather than through action-specific code here.
package action

import (
	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/store"
)

// Kind tags the concrete variant an Action holds, mirroring the taxonomy in
// original_source/src/FlowGrid/Action/Action.h.
type Kind int

const (
	KindUndo Kind = iota
	KindRedo
	KindSetHistoryIndex

	KindOpenProject
	KindOpenEmptyProject
	KindOpenDefaultProject
	KindShowOpenProjectDialog
	KindSaveProject
	KindSaveCurrentProject
	KindSaveDefaultProject
	KindShowSaveProjectDialog
	KindCloseApplication

	KindSetValue
	KindSetValues
	KindToggleValue
	KindApplyPatch

	KindConnect
	KindDisconnect
	KindSetSampleRate
	KindSetDeviceFormat

	KindShowOpenFaustFileDialog
	KindShowSaveFaustFileDialog
	KindSaveFaustFile
	KindOpenFaustFile
	KindOpenFileDialog
	KindCloseFileDialog
)

func (k Kind) String() string {
	names := [...]string{
		"Undo", "Redo", "SetHistoryIndex",
		"OpenProject", "OpenEmptyProject", "OpenDefaultProject", "ShowOpenProjectDialog",
		"SaveProject", "SaveCurrentProject", "SaveDefaultProject", "ShowSaveProjectDialog",
		"CloseApplication",
		"SetValue", "SetValues", "ToggleValue", "ApplyPatch",
		"Connect", "Disconnect", "SetSampleRate", "SetDeviceFormat",
		"ShowOpenFaustFileDialog", "ShowSaveFaustFileDialog", "SaveFaustFile", "OpenFaustFile",
		"OpenFileDialog", "CloseFileDialog",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// ValueEntry pairs a path with a primitive, for the SetValues payload.
type ValueEntry struct {
	Path  store.Path
	Value store.Primitive
}

// Action is a tagged union across every mutation intent. Only the fields
// relevant to Kind are meaningful; the rest are zero. Keeping it a single
// flat struct (rather than a Go-native interface-per-kind) mirrors the
// original's compact std::variant payload, and lets History/Gesture
// machinery treat every Action uniformly.
type Action struct {
	Kind Kind

	Path         store.Path
	Value        store.Primitive
	Values       []ValueEntry
	Patch        store.Patch
	HistoryIndex int

	FilePath   string
	DialogJSON string

	SourceID, DestID uint32
	SampleRate       int
	DeviceID         uint32
	Format           device.Format
}

// Savable reports whether Action mutates the Store and therefore
// participates in gesture grouping and History.
func (a Action) Savable() bool {
	switch a.Kind {
	case KindSetValue, KindSetValues, KindToggleValue, KindApplyPatch,
		KindConnect, KindDisconnect, KindSetSampleRate, KindSetDeviceFormat:
		return true
	}
	return false
}

// ToggleLike reports whether Action forces an immediate gesture commit
// after it applies (spec.md §4.1 step 1).
func (a Action) ToggleLike() bool {
	switch a.Kind {
	case KindToggleValue, KindConnect, KindDisconnect, KindOpenFileDialog, KindCloseFileDialog:
		return true
	}
	return false
}

// target identifies "the same logical target" for gesture-merging
// purposes: same Kind plus same Path, or same Kind plus the same
// (SourceID, DestID) pair for connection actions.
type target struct {
	kind       Kind
	pathID     uint32
	src, dst   uint32
}

func (a Action) target() target {
	return target{kind: a.Kind, pathID: a.Path.ID(), src: a.SourceID, dst: a.DestID}
}
