// Package cli implements the interactive terminal front-end: an
// Engine-driven view for browsing History and issuing Undo/Redo
// (SPEC_FULL "store/cli" domain-stack entry), built the way the teacher
// builds its terminal debugger front-end — a thin raw-terminal geometry
// layer (here, pkg/term/termios) underneath a higher-level rendering loop
// (here, Bubble Tea instead of the teacher's bespoke readline).
package cli

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/pkg/term/termios"
)

// winsize mirrors the kernel's struct winsize, laid out exactly as
// TIOCGWINSZ expects it (grounded on easyterm.TermGeometry).
type winsize struct {
	rows uint16
	cols uint16
	x    uint16
	y    uint16
}

// TermSize reports the current dimensions of f (typically os.Stdout).
// Nothing in this module calls it.
func TermSize(f *os.File) (rows, cols int, err error) {
	var ws winsize
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(),
		uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(&ws)))
	if errno != 0 {
		return 0, 0, fmt.Errorf("cli: error reading terminal geometry (%d)", errno)
	}
	return int(ws.rows), int(ws.cols), nil
}

// rawModeGuard puts a terminal into raw mode via termios and restores its
// original attributes. Nothing in this package constructs one: the
// interactive model leaves raw mode to Bubble Tea.
type rawModeGuard struct {
	fd  uintptr
	old syscall.Termios
}

func newRawModeGuard(f *os.File) (*rawModeGuard, error) {
	g := &rawModeGuard{fd: f.Fd()}
	if err := termios.Tcgetattr(g.fd, &g.old); err != nil {
		return nil, fmt.Errorf("cli: error reading terminal attributes: %w", err)
	}
	raw := g.old
	termios.Cfmakeraw(&raw)
	if err := termios.Tcsetattr(g.fd, termios.TCIFLUSH, &raw); err != nil {
		return nil, fmt.Errorf("cli: error setting raw mode: %w", err)
	}
	return g, nil
}

func (g *rawModeGuard) restore() {
	_ = termios.Tcsetattr(g.fd, termios.TCIFLUSH, &g.old)
}
