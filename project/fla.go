package project

import (
	"encoding/json"
	"os"
	"time"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/ferrors"
	"github.com/flowgrid/flowgrid/store"
)

// actionJSON is the wire form of one action.Action: every field the
// taxonomy defines, serialized flat (spec.md §6 "Action format"). Kind is
// rendered by name rather than by its numeric value so that reordering the
// Kind constants in action/action.go never silently corrupts an existing
// .fla file.
type actionJSON struct {
	Kind         string       `json:"kind"`
	Path         string       `json:"path,omitempty"`
	Value        *primJSON    `json:"value,omitempty"`
	Values       []valueJSON  `json:"values,omitempty"`
	Patch        *patchJSON   `json:"patch,omitempty"`
	HistoryIndex int          `json:"historyIndex,omitempty"`
	FilePath     string       `json:"filePath,omitempty"`
	DialogJSON   string       `json:"dialogJSON,omitempty"`
	SourceID     uint32       `json:"sourceID,omitempty"`
	DestID       uint32       `json:"destID,omitempty"`
	SampleRate   int          `json:"sampleRate,omitempty"`
	DeviceID     uint32       `json:"deviceID,omitempty"`
	Format       formatJSON   `json:"format,omitempty"`
}

// formatJSON is the wire form of device.Format.
type formatJSON struct {
	SampleFormat int `json:"sampleFormat,omitempty"`
	Channels     int `json:"channels,omitempty"`
	SampleRate   int `json:"sampleRate,omitempty"`
}

func formatToJSON(f device.Format) formatJSON {
	return formatJSON{SampleFormat: int(f.SampleFormat), Channels: f.Channels, SampleRate: f.SampleRate}
}

func formatFromJSON(j formatJSON) device.Format {
	return device.Format{SampleFormat: device.SampleFormat(j.SampleFormat), Channels: j.Channels, SampleRate: j.SampleRate}
}

type valueJSON struct {
	Path  string   `json:"path"`
	Value primJSON `json:"value"`
}

type patchOpJSON struct {
	Path  string   `json:"path"`
	Kind  string   `json:"kind"`
	Value primJSON `json:"value,omitempty"`
	Old   primJSON `json:"old,omitempty"`
}

type patchJSON struct {
	BasePath    string        `json:"basePath,omitempty"`
	HasBasePath bool          `json:"hasBasePath,omitempty"`
	Ops         []patchOpJSON `json:"ops"`
}

type actionMomentJSON struct {
	Action actionJSON `json:"action"`
	Time   time.Time  `json:"time"`
}

type gestureJSON struct {
	Actions    []actionMomentJSON `json:"actions"`
	CommitTime time.Time          `json:"commitTime"`
}

// flaDoc is the top-level .fla document: an indexed gesture log (spec.md
// §6 "an indexed gesture log ... with an integer Index and an array
// Gestures").
type flaDoc struct {
	Index    int           `json:"index"`
	Gestures []gestureJSON `json:"gestures"`
}

var kindByName = func() map[string]action.Kind {
	m := make(map[string]action.Kind)
	for k := action.Kind(0); k.String() != "Unknown"; k++ {
		m[k.String()] = k
	}
	return m
}()

func actionToJSON(a action.Action) actionJSON {
	j := actionJSON{
		Kind:         a.Kind.String(),
		Path:         a.Path.String(),
		HistoryIndex: a.HistoryIndex,
		FilePath:     a.FilePath,
		DialogJSON:   a.DialogJSON,
		SourceID:     a.SourceID,
		DestID:       a.DestID,
		SampleRate:   a.SampleRate,
		DeviceID:     a.DeviceID,
		Format:       formatToJSON(a.Format),
	}
	if a.Value.Kind() != 0 || a.Kind == action.KindSetValue {
		v := toJSON(a.Value)
		j.Value = &v
	}
	for _, ve := range a.Values {
		j.Values = append(j.Values, valueJSON{Path: ve.Path.String(), Value: toJSON(ve.Value)})
	}
	if len(a.Patch.Ops) > 0 || a.Patch.HasBasePath {
		pj := &patchJSON{BasePath: a.Patch.BasePath.String(), HasBasePath: a.Patch.HasBasePath}
		for _, op := range a.Patch.Ops {
			pj.Ops = append(pj.Ops, patchOpJSON{
				Path:  op.Path.String(),
				Kind:  op.Op.Kind.String(),
				Value: toJSON(op.Op.Value),
				Old:   toJSON(op.Op.Old),
			})
		}
		j.Patch = pj
	}
	return j
}

func opKindFromString(s string) store.OpKind {
	switch s {
	case "Remove":
		return store.Remove
	case "Replace":
		return store.Replace
	default:
		return store.Add
	}
}

func actionFromJSON(j actionJSON) action.Action {
	a := action.Action{
		Kind:         kindByName[j.Kind],
		Path:         store.Parse(j.Path),
		HistoryIndex: j.HistoryIndex,
		FilePath:     j.FilePath,
		DialogJSON:   j.DialogJSON,
		SourceID:     j.SourceID,
		DestID:       j.DestID,
		SampleRate:   j.SampleRate,
		DeviceID:     j.DeviceID,
		Format:       formatFromJSON(j.Format),
	}
	if j.Value != nil {
		a.Value = fromJSON(*j.Value)
	}
	for _, ve := range j.Values {
		a.Values = append(a.Values, action.ValueEntry{Path: store.Parse(ve.Path), Value: fromJSON(ve.Value)})
	}
	if j.Patch != nil {
		p := store.Patch{BasePath: store.Parse(j.Patch.BasePath), HasBasePath: j.Patch.HasBasePath}
		for _, op := range j.Patch.Ops {
			p.Ops = append(p.Ops, store.PatchEntry{
				Path: store.Parse(op.Path),
				Op:   store.PatchOp{Kind: opKindFromString(op.Kind), Value: fromJSON(op.Value), Old: fromJSON(op.Old)},
			})
		}
		a.Patch = p
	}
	return a
}

// SaveActions writes eng's History (excluding the invariant initial empty
// record) and current cursor position to path as an .fla document
// (spec.md §6).
func SaveActions(path string, eng *action.Engine) error {
	history := eng.History()
	doc := flaDoc{Index: eng.HistoryIndex()}
	for _, rec := range history[1:] {
		g := gestureJSON{CommitTime: rec.CommitTime}
		for _, am := range rec.Gesture {
			g.Actions = append(g.Actions, actionMomentJSON{Action: actionToJSON(am.Action), Time: am.Time})
		}
		doc.Gestures = append(doc.Gestures, g)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ferrors.Errorf(ferrors.ProjectWriteErr, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return ferrors.Errorf(ferrors.ProjectWriteErr, err)
	}
	return nil
}

// LoadActions reads an .fla document and replays it onto a fresh Engine:
// the empty project is the Engine's own initial state, each gesture's
// actions are enqueued and force-committed in order (appending one History
// record per gesture, matching how they were originally recorded), and
// finally the cursor is restored to the document's saved Index (spec.md
// §6: "the empty project is loaded first, then each gesture's actions are
// applied and the gesture is appended to history; finally, the history
// index is restored").
func LoadActions(path string, eng *action.Engine) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ferrors.Errorf(ferrors.ProjectReadErr, err)
	}
	var doc flaDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ferrors.Errorf(ferrors.ProjectReadErr, err)
	}

	for _, g := range doc.Gestures {
		for _, am := range g.Actions {
			eng.Enqueue(actionFromJSON(am.Action), am.Time)
		}
		at := g.CommitTime
		eng.RunQueued(true, at)
	}

	if doc.Index >= 0 && doc.Index < len(eng.History()) {
		if err := eng.SetHistoryIndex(doc.Index, time.Now()); err != nil {
			return ferrors.Errorf(ferrors.ProjectReadErr, err)
		}
	}
	return nil
}
