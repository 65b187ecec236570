// Package watch notifies a running session of external edits to the files
// it cares about: a .dsp file open in an external editor, or a project's
// .fls/.fla file being replaced out from under it (SPEC_FULL "project/watch"
// domain-stack entry). fsnotify is the only filesystem-notification library
// in the retrieved corpus, so it is the one wired in here.
package watch

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/flowgrid/flowgrid/ferrors"
)

// Kind tags what changed.
type Kind int

const (
	// DSPChanged means a watched .dsp source file was written.
	DSPChanged Kind = iota
	// ProjectChanged means a watched .fls/.fla file was written.
	ProjectChanged
	// Removed means a watched file was deleted or renamed away.
	Removed
)

// Event is delivered to a Watcher's channel for every relevant filesystem
// change.
type Event struct {
	Kind Kind
	Path string
}

// Watcher wraps an fsnotify.Watcher, filtering its raw event stream down to
// the extensions FlowGrid cares about and mapping fsnotify's Write/Create
// events onto DSPChanged/ProjectChanged and its Remove/Rename events onto
// Removed (editors commonly save via a rename-into-place, which fsnotify
// reports as Create on the new inode). Events with none of those
// operations, such as a bare Chmod, are dropped.
type Watcher struct {
	fw     *fsnotify.Watcher
	Events chan Event
	Errors chan error
	done   chan struct{}
}

// New creates a Watcher with no directories registered yet.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.Errorf(ferrors.FileIOError, err)
	}

	w := &Watcher{
		fw:     fw,
		Events: make(chan Event, 16),
		Errors: make(chan error, 4),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add registers dir (typically a project's own directory) for notification.
// fsnotify watches directories, not individual files, so every relevant
// write inside dir is picked up regardless of which file within it changed.
func (w *Watcher) Add(dir string) error {
	if err := w.fw.Add(dir); err != nil {
		return ferrors.Errorf(ferrors.FileIOError, err)
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if classified, keep := classify(ev); keep {
				w.Events <- classified
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.Errors <- err
		case <-w.done:
			return
		}
	}
}

func classify(ev fsnotify.Event) (Event, bool) {
	ext := filepath.Ext(ev.Name)

	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return Event{Kind: Removed, Path: ev.Name}, ext == ".dsp" || ext == ".fls" || ext == ".fla"
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return Event{}, false
	}

	switch ext {
	case ".dsp":
		return Event{Kind: DSPChanged, Path: ev.Name}, true
	case ".fls", ".fla":
		return Event{Kind: ProjectChanged, Path: ev.Name}, true
	default:
		return Event{}, false
	}
}

// Close stops the Watcher's goroutine and releases its fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
