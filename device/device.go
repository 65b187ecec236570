// Package device implements the audio device abstraction (spec.md §4.2,
// §6, component C7): enumeration, format negotiation, start/stop
// lifecycle, and the lock-free duplex ring buffer that couples an input
// device's capture callback to the Audio Graph.
package device

import "github.com/flowgrid/flowgrid/ferrors"

// SampleFormat tags the PCM sample encoding a device natively supports.
type SampleFormat int

const (
	FormatFloat32 SampleFormat = iota
	FormatInt16
	FormatInt32
)

// Format is one (sample format, channel count, sample rate) triple a
// device natively supports (spec.md §6 "Audio device").
type Format struct {
	SampleFormat SampleFormat
	Channels     int
	SampleRate   int
}

// Info describes one enumerated device.
type Info struct {
	Name    string
	Default bool
	Native  []Format
}

// SupportsSampleRate reports whether sr appears in any of info's native
// triples.
func (info Info) SupportsSampleRate(sr int) bool {
	for _, f := range info.Native {
		if f.SampleRate == sr {
			return true
		}
	}
	return false
}

// Mode selects whether a Device is opened for capture or playback.
type Mode int

const (
	ModeCapture Mode = iota
	ModePlayback
)

// Callback is invoked by the backend once per audio block. output is the
// buffer to fill (playback/duplex), input is the buffer of captured
// samples (capture/duplex); frameCount is the number of sample frames in
// both. Either buffer may be nil depending on Mode.
type Callback func(dev *Device, output, input []float32, frameCount int)

// Device is the opaque backend-agnostic handle spec.md §1 treats device
// I/O internals as: a pull/push callback plus a small lifecycle contract.
// Concrete backends (device/sdldevice, device/capture) satisfy Backend and
// are wrapped by this type.
type Device struct {
	Info   Info
	Format Format
	Mode   Mode

	backend Backend
	started bool
}

// Backend is the minimal surface a concrete audio I/O implementation must
// provide; New wraps it with the started/uninit bookkeeping common to
// every backend.
type Backend interface {
	Start() error
	Stop() error
	Uninit() error
}

// New wraps backend as a Device with the given negotiated Info/Format/Mode.
func New(info Info, format Format, mode Mode, backend Backend) *Device {
	return &Device{Info: info, Format: format, Mode: mode, backend: backend}
}

// Start begins the device's callback invocations. It is DeviceError to
// start an already-started device.
func (d *Device) Start() error {
	if d.started {
		return ferrors.Errorf(ferrors.DeviceError, "already started")
	}
	if err := d.backend.Start(); err != nil {
		return ferrors.Errorf(ferrors.DeviceInitFailed, err)
	}
	d.started = true
	return nil
}

// Stop halts callback invocations. It is DeviceError to stop a device
// that isn't started.
func (d *Device) Stop() error {
	if !d.started {
		return ferrors.Errorf(ferrors.DeviceNotStarted, d.Info.Name)
	}
	if err := d.backend.Stop(); err != nil {
		return ferrors.Errorf(ferrors.DeviceError, err)
	}
	d.started = false
	return nil
}

// IsStarted reports whether the device is currently running.
func (d *Device) IsStarted() bool { return d.started }

// Uninit releases the backend's resources. Safe to call whether or not the
// device is started.
func (d *Device) Uninit() error {
	if d.started {
		_ = d.Stop()
	}
	if err := d.backend.Uninit(); err != nil {
		return ferrors.Errorf(ferrors.DeviceError, err)
	}
	return nil
}

// DefaultSampleRatePriority is the fixed priority list spec.md §4.2
// "Sample-rate selection" chooses from.
var DefaultSampleRatePriority = []int{
	48000, 44100, 96000, 88200, 32000, 24000, 22050, 176400, 192000,
	16000, 11025, 8000, 352800, 384000,
}
