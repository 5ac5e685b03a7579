// Package audio writes synthesized speech to disk.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmFormat is the WAVE format tag for linear PCM.
const pcmFormat = 1

// ErrInvalidFormat is returned for unusable audio parameters or payloads.
var ErrInvalidFormat = errors.New("invalid audio format")

// Format describes raw little-endian linear PCM.
type Format struct {
	Channels    int
	SampleRate  int
	SampleWidth int // bytes per sample
}

// FrameSize is the number of bytes in one frame across all channels.
func (f Format) FrameSize() int {
	return f.Channels * f.SampleWidth
}

// Validate checks that f can be written as a WAV header.
func (f Format) Validate() error {
	switch {
	case f.Channels < 1:
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	case f.SampleRate < 1:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	case f.SampleWidth < 1 || f.SampleWidth > 4:
		return fmt.Errorf("%w: sample width %d bytes", ErrInvalidFormat, f.SampleWidth)
	}
	return nil
}

// Duration is the play time of n payload bytes in format f.
func Duration(n int, f Format) time.Duration {
	if f.FrameSize() == 0 || f.SampleRate == 0 {
		return 0
	}
	frames := float64(n) / float64(f.FrameSize())
	return time.Duration(frames / float64(f.SampleRate) * float64(time.Second))
}

// WriteWAV writes pcm to path as a WAV file with the given format. The payload
// is stored unchanged; its length must be a whole number of frames.
func WriteWAV(path string, pcm []byte, f Format) (err error) {
	if err := f.Validate(); err != nil {
		return err
	}
	if len(pcm)%f.FrameSize() != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %d-byte frames", ErrInvalidFormat, len(pcm), f.FrameSize())
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close wav: %w", cerr)
		}
	}()

	bitDepth := f.SampleWidth * 8
	enc := wav.NewEncoder(out, f.SampleRate, bitDepth, f.Channels, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           decodeSamples(pcm, f.SampleWidth),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}

// decodeSamples turns little-endian PCM into the integer samples the encoder
// expects. The encoder writes them back in the same byte layout: 8-bit as
// unsigned bytes, wider samples as signed little-endian.
func decodeSamples(pcm []byte, width int) []int {
	samples := make([]int, len(pcm)/width)
	for i := range samples {
		b := pcm[i*width : (i+1)*width]
		switch width {
		case 1:
			samples[i] = int(b[0])
		case 2:
			samples[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xffffff
			}
			samples[i] = int(v)
		case 4:
			samples[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return samples
}
