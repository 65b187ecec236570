package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowgrid/flowgrid/ftest"
)

func TestDSPFileWriteIsReportedAsDSPChanged(t *testing.T) {
	dir := t.TempDir()

	w, err := New()
	ftest.ExpectSuccess(t, err)
	defer w.Close()
	ftest.ExpectSuccess(t, w.Add(dir))

	path := filepath.Join(dir, "voice.dsp")
	ftest.ExpectSuccess(t, os.WriteFile(path, []byte("process = _;"), 0o644))

	select {
	case ev := <-w.Events:
		if ev.Kind != DSPChanged {
			t.Fatalf("expected DSPChanged, got %v", ev.Kind)
		}
		if ev.Path != path {
			t.Fatalf("expected event for %s, got %s", path, ev.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for filesystem event")
	}
}

func TestUnrelatedExtensionIgnored(t *testing.T) {
	dir := t.TempDir()

	w, err := New()
	ftest.ExpectSuccess(t, err)
	defer w.Close()
	ftest.ExpectSuccess(t, w.Add(dir))

	ftest.ExpectSuccess(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	select {
	case ev := <-w.Events:
		t.Fatalf("expected no event for a .txt write, got %v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
