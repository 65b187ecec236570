// Package sdldevice is the production audio device backend (spec.md §6,
// component C7), built on github.com/veandco/go-sdl2's queued-audio API:
// sdl.OpenAudioDevice for device init, QueueAudio/GetQueuedAudioSize for
// duplex callback plumbing, mirroring the teacher's sdlaudio package's
// throttled SetSpec pattern for device format renegotiation (spec.md §4.2
// "Sample-rate selection").
package sdldevice

import (
	"math"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/ferrors"
)

// setSpecThrottle is the minimum interval between sample-rate requests that
// RequestSampleRate accepts, so a flurry of SetSampleRate actions during a
// gesture records at most one rate per interval (mirrors the teacher's
// sdlaudio throttle idiom).
const setSpecThrottle = 100 * time.Millisecond

// Backend implements device.Backend on top of one SDL audio device,
// opened in either capture or playback mode.
type Backend struct {
	mu sync.Mutex

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec
	mode device.Mode

	lastSpecChange time.Time

	playBuf []float32
}

// EnumeratePlaybackDevices lists output devices via SDL's device
// enumeration, with each device's native triples reported as whatever
// format/channels/sample-rate the caller will request at Open time (SDL
// negotiates the actual hardware format internally and reports the
// obtained spec back through Format()).
func EnumeratePlaybackDevices() ([]device.Info, error) {
	return enumerate(false)
}

// EnumerateCaptureDevices lists input devices.
func EnumerateCaptureDevices() ([]device.Info, error) {
	return enumerate(true)
}

func enumerate(capture bool) ([]device.Info, error) {
	n, err := sdl.GetNumAudioDevices(capture)
	if err != nil {
		return nil, ferrors.Errorf(ferrors.DeviceError, err)
	}
	out := make([]device.Info, 0, n)
	for i := 0; i < n; i++ {
		name, err := sdl.GetAudioDeviceName(i, capture)
		if err != nil {
			continue
		}
		out = append(out, device.Info{Name: name, Default: i == 0})
	}
	return out, nil
}

// Open negotiates and opens an SDL audio device in the given mode at
// format. cb is not used: this backend moves samples through SDL's queued
// audio API (QueuePlayback) rather than a per-block callback. The device is
// opened with AUDIO_ALLOW_ANY_CHANGE, so SDL may obtain a spec that differs
// from the request; the obtained channels and rate become the Device's
// Format.
func Open(name string, format device.Format, mode device.Mode, bufferSize int, cb device.Callback) (*device.Device, error) {
	b := &Backend{mode: mode}

	request := &sdl.AudioSpec{
		Freq:     int32(format.SampleRate),
		Format:   sdl.AUDIO_F32SYS,
		Channels: uint8(format.Channels),
		Samples:  uint16(bufferSize),
	}

	var actual sdl.AudioSpec
	capture := mode == device.ModeCapture

	id, err := sdl.OpenAudioDevice(name, capture, request, &actual, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return nil, ferrors.Errorf(ferrors.DeviceInitFailed, err)
	}
	b.id = id
	b.spec = actual

	info := device.Info{Name: name, Native: []device.Format{format}}
	negotiated := device.Format{
		SampleFormat: device.FormatFloat32,
		Channels:     int(actual.Channels),
		SampleRate:   int(actual.Freq),
	}

	dev := device.New(info, negotiated, mode, b)
	return dev, nil
}

// Start unpauses the SDL audio device, beginning callback invocations.
func (b *Backend) Start() error {
	sdl.PauseAudioDevice(b.id, false)
	return nil
}

// Stop pauses the SDL audio device.
func (b *Backend) Stop() error {
	sdl.PauseAudioDevice(b.id, true)
	return nil
}

// Uninit closes the SDL audio device.
func (b *Backend) Uninit() error {
	sdl.CloseAudioDevice(b.id)
	return nil
}

// QueuePlayback pushes interleaved float32 samples to the playback
// device's queue, matching the teacher's sdl.QueueAudio pattern.
func (b *Backend) QueuePlayback(samples []float32) error {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	if err := sdl.QueueAudio(b.id, buf); err != nil {
		return ferrors.Errorf(ferrors.DeviceError, err)
	}
	return nil
}

// RequestSampleRate records sr as the backend's requested rate, at most
// once per setSpecThrottle; it returns false (and records nothing) when
// called again within that interval. It does not reopen the SDL device.
func (b *Backend) RequestSampleRate(sr int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.lastSpecChange) < setSpecThrottle {
		return false
	}
	b.lastSpecChange = time.Now()
	b.spec.Freq = int32(sr)
	return true
}

// QueuedBytes reports the SDL driver's current queue depth, used to decide
// whether to throttle further writes (mirrors the teacher's
// QueuedBytes/measure-and-cull idiom).
func (b *Backend) QueuedBytes() int {
	return int(sdl.GetQueuedAudioSize(b.id))
}

