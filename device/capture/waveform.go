package capture

import (
	"bytes"
	"io"
	"os"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/flowgrid/flowgrid/ferrors"
)

// Sample is a decoded, fully in-memory sample buffer backing a Waveform
// graph node (spec.md §4.2 fixed node kind "Waveform"): interleaved
// float32 frames plus the ID3/metadata tags surfaced as read-only fields
// on the node for the (out-of-scope) renderer contract.
type Sample struct {
	Frames     []float32
	Channels   int
	SampleRate int

	Title, Artist string
	Duration      int // seconds, 0 if unknown
}

// LoadSample decodes path as either .wav or .mp3 (by content, not
// extension) and reads its ID3/metadata tags via dhowden/tag.
func LoadSample(path string) (*Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Errorf(ferrors.FileIOError, err)
	}

	s := &Sample{}
	if meta, err := tag.ReadFrom(bytes.NewReader(raw)); err == nil {
		s.Title = meta.Title()
		s.Artist = meta.Artist()
	}

	if d := wav.NewDecoder(bytes.NewReader(raw)); d.IsValidFile() {
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, ferrors.Errorf(ferrors.FileIOError, err)
		}
		frames := make([]float32, len(buf.Data))
		max := float32(int(1) << uint(buf.SourceBitDepth-1))
		if max == 0 {
			max = 1
		}
		for i, v := range buf.Data {
			frames[i] = float32(v) / max
		}
		s.Frames = frames
		s.Channels = buf.Format.NumChannels
		s.SampleRate = buf.Format.SampleRate
		if s.SampleRate > 0 && s.Channels > 0 {
			s.Duration = len(frames) / s.Channels / s.SampleRate
		}
		return s, nil
	}

	dec, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return nil, ferrors.Errorf(ferrors.FileIOError, err)
	}
	s.Channels = 2
	s.SampleRate = dec.SampleRate()

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, ferrors.Errorf(ferrors.FileIOError, err)
	}
	s.Frames = make([]float32, len(pcm)/2)
	for i := range s.Frames {
		lo, hi := pcm[i*2], pcm[i*2+1]
		v := int16(lo) | int16(hi)<<8
		s.Frames[i] = float32(v) / 32768
	}
	if s.SampleRate > 0 && s.Channels > 0 {
		s.Duration = len(s.Frames) / s.Channels / s.SampleRate
	}
	return s, nil
}
