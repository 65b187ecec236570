package config

import (
	"path/filepath"
	"testing"

	"github.com/flowgrid/flowgrid/ftest"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	w, err := Load(filepath.Join(dir, "workspace.toml"))
	ftest.ExpectSuccess(t, err)
	if w.GestureSeconds != 1.0 {
		t.Fatalf("expected default gesture interval, got %v", w.GestureSeconds)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspace.toml")

	w := Workspace{
		DefaultProject: "song.fla",
		SampleRate:     48000,
		InputDevice:    "Built-in Microphone",
		OutputDevice:   "Built-in Output",
		GestureSeconds: 1.0,
	}
	ftest.ExpectSuccess(t, Save(path, w))

	got, err := Load(path)
	ftest.ExpectSuccess(t, err)
	ftest.ExpectEquality(t, got, w)
}
