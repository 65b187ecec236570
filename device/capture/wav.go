// Package capture provides file-backed Device and Waveform sample sources
// used for headless/test operation when no real audio backend is present
// (spec.md §4.2's "Waveform" fixed node kind and the §1-out-of-scope
// device-I/O contract's file-shaped stand-in).
package capture

import (
	"io"
	"os"

	"github.com/go-audio/wav"

	"github.com/flowgrid/flowgrid/device"
	"github.com/flowgrid/flowgrid/ferrors"
)

// WavInputDevice satisfies device.Backend by reading native-format PCM
// frames from a decoded .wav file via go-audio/wav.Decoder, standing in
// for a real capture backend in headless/CI operation (SPEC_FULL §DOMAIN
// STACK).
type WavInputDevice struct {
	samples    []float32 // interleaved
	channels   int
	sampleRate int

	pos     int
	started bool
	cb      device.Callback
	dev     *device.Device
	ring    *device.Ring
}

// OpenWavInput decodes path fully into memory and returns a WavInputDevice
// wrapped as a device.Device in capture mode, plus the Ring its callback
// writes into for duplex coupling to the graph.
func OpenWavInput(path string, ringCapacity int) (*device.Device, *device.Ring, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ferrors.Errorf(ferrors.DeviceInitFailed, err)
	}
	defer f.Close()

	samples, channels, sampleRate, err := decodeWav(f)
	if err != nil {
		return nil, nil, ferrors.Errorf(ferrors.DeviceInitFailed, err)
	}

	ring := device.NewRing(ringCapacity)
	wid := &WavInputDevice{samples: samples, channels: channels, sampleRate: sampleRate, ring: ring}

	info := device.Info{
		Name:   path,
		Native: []device.Format{{SampleFormat: device.FormatFloat32, Channels: channels, SampleRate: sampleRate}},
	}
	format := device.Format{SampleFormat: device.FormatFloat32, Channels: channels, SampleRate: sampleRate}
	dev := device.New(info, format, device.ModeCapture, wid)
	wid.dev = dev
	return dev, ring, nil
}

func decodeWav(r io.Reader) (samples []float32, channels, sampleRate int, err error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, 0, ferrors.Errorf(ferrors.DeviceError, "not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, err
	}
	out := make([]float32, len(buf.Data))
	max := float32(int(1) << uint(buf.SourceBitDepth-1))
	if max == 0 {
		max = 1
	}
	for i, v := range buf.Data {
		out[i] = float32(v) / max
	}
	return out, buf.Format.NumChannels, buf.Format.SampleRate, nil
}

// Start marks the device started so that subsequent Pull calls feed the
// ring. It starts no goroutine; the caller drives Pull.
func (w *WavInputDevice) Start() error {
	w.started = true
	return nil
}

// Stop marks the device stopped; subsequent Pull calls do nothing.
func (w *WavInputDevice) Stop() error {
	w.started = false
	return nil
}

// Uninit releases WavInputDevice's resources (nothing to release beyond
// the decoded buffer, which is GC'd with the struct).
func (w *WavInputDevice) Uninit() error { return nil }

// Pull writes up to frameCount*channels interleaved samples from the
// decoded file into the device's ring, looping back to the start of the
// file at EOF, then invokes cb with that block (spec.md §6 callback
// contract). Call this once per audio block from the device's driving
// loop; real backends invoke their equivalent from a backend thread.
func (w *WavInputDevice) Pull(frameCount int) {
	if !w.started {
		return
	}
	n := frameCount * w.channels
	block := make([]float32, n)
	for i := 0; i < n; i++ {
		if w.pos >= len(w.samples) {
			w.pos = 0
		}
		if len(w.samples) == 0 {
			break
		}
		block[i] = w.samples[w.pos]
		w.pos++
	}
	w.ring.Write(block)
	if w.cb != nil {
		w.cb(w.dev, nil, block, frameCount)
	}
}

// Ring returns the duplex ring this device's Pull loop feeds.
func (w *WavInputDevice) Ring() *device.Ring { return w.ring }

// SampleRate and Channels report the decoded file's native format.
func (w *WavInputDevice) SampleRate() int { return w.sampleRate }
func (w *WavInputDevice) Channels() int    { return w.channels }
