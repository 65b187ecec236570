// Package config reads and writes the per-workspace settings file,
// .flowgrid/workspace.toml: the default project path, the preferred sample
// rate, and the default input/output device names (SPEC_FULL "project/config"
// domain-stack entry). TOML was chosen, over the key::value line format
// prefs uses, because this file is meant to be hand-edited by a user
// outside the application, and BurntSushi/toml is the library the pack
// offers for exactly that job.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/flowgrid/flowgrid/ferrors"
)

// DefaultPath is where the workspace configuration lives relative to a
// project's working directory.
const DefaultPath = ".flowgrid/workspace.toml"

// Workspace holds the settings read from workspace.toml.
type Workspace struct {
	DefaultProject string `toml:"default_project"`
	SampleRate     int    `toml:"sample_rate"`
	InputDevice    string `toml:"input_device"`
	OutputDevice   string `toml:"output_device"`
	GestureSeconds float64 `toml:"gesture_seconds"`
}

// Default returns the Workspace settings in effect before any file is read:
// no default project, 0 (meaning "native") sample rate, no device
// preference, and the Engine's built-in gesture idle interval.
func Default() Workspace {
	return Workspace{GestureSeconds: 1.0}
}

// Load reads path, falling back to Default() (not an error) if the file
// does not exist, so a fresh workspace directory needs no config file at
// all.
func Load(path string) (Workspace, error) {
	w := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return w, nil
	}
	if _, err := toml.DecodeFile(path, &w); err != nil {
		return Workspace{}, ferrors.Errorf(ferrors.FileIOError, err)
	}
	return w, nil
}

// Save writes w to path as TOML, creating no parent directories (the
// caller is expected to have already created .flowgrid/ for the project
// files living alongside it).
func Save(path string, w Workspace) error {
	f, err := os.Create(path)
	if err != nil {
		return ferrors.Errorf(ferrors.FileIOError, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(w); err != nil {
		return ferrors.Errorf(ferrors.FileIOError, err)
	}
	return nil
}
