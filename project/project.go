package project

import (
	"os"
	"path/filepath"

	"github.com/flowgrid/flowgrid/action"
	"github.com/flowgrid/flowgrid/component"
	"github.com/flowgrid/flowgrid/ferrors"
)

// SaveEmptyProject re-saves the canonical empty project to
// EmptyProjectPath, creating its parent directory if necessary. Called once
// at application launch (spec.md §6).
func SaveEmptyProject() error {
	dir := filepath.Dir(EmptyProjectPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferrors.Errorf(ferrors.ProjectWriteErr, err)
	}
	empty := action.NewEngine(component.NewArena(), nil, nil)
	return SaveState(EmptyProjectPath, empty.Root().Current())
}

// Open loads a project from path into eng, dispatching on its extension:
// .fls applies a state snapshot directly, .fla replays an indexed gesture
// log onto eng (spec.md §6). eng is modified in place; only an error is
// returned.
func Open(path string, arena *component.Arena, eng *action.Engine) error {
	switch filepath.Ext(path) {
	case ".fls":
		values, err := LoadState(path)
		if err != nil {
			return err
		}
		ApplyState(eng, arena, values)
		return nil
	case ".fla":
		return LoadActions(path, eng)
	default:
		return ferrors.Errorf(ferrors.ProjectReadErr, "unrecognized project extension: "+path)
	}
}

// Save writes eng's current project to path, dispatching on extension the
// same way Open does.
func Save(path string, arena *component.Arena, eng *action.Engine) error {
	switch filepath.Ext(path) {
	case ".fls":
		return SaveState(path, eng.Root().Current())
	case ".fla":
		return SaveActions(path, eng)
	default:
		return ferrors.Errorf(ferrors.ProjectWriteErr, "unrecognized project extension: "+path)
	}
}
