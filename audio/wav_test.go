package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

func TestWriteWAV_HeaderAndPayload(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		size   int
	}{
		{"mono 16-bit", Format{Channels: 1, SampleRate: 24000, SampleWidth: 2}, 48000},
		{"stereo 16-bit", Format{Channels: 2, SampleRate: 44100, SampleWidth: 2}, 1024},
		{"mono 8-bit", Format{Channels: 1, SampleRate: 8000, SampleWidth: 1}, 300},
		{"mono 24-bit", Format{Channels: 1, SampleRate: 48000, SampleWidth: 3}, 300},
		{"mono 32-bit", Format{Channels: 1, SampleRate: 16000, SampleWidth: 4}, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.wav")
			pcm := pattern(tt.size)
			require.NoError(t, WriteWAV(path, pcm, tt.format))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			d := wav.NewDecoder(f)
			require.True(t, d.IsValidFile())
			assert.Equal(t, uint16(tt.format.Channels), d.NumChans)
			assert.Equal(t, uint32(tt.format.SampleRate), d.SampleRate)
			assert.Equal(t, uint16(tt.format.SampleWidth*8), d.BitDepth)
			assert.Equal(t, uint16(1), d.WavAudioFormat)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Len(t, data, 44+tt.size)
			assert.Equal(t, pcm, data[44:], "payload must be written byte for byte")
		})
	}
}

func TestWriteWAV_Duration(t *testing.T) {
	format := Format{Channels: 1, SampleRate: 24000, SampleWidth: 2}
	const size = 36000 // 0.75s

	path := filepath.Join(t.TempDir(), "nested", "podcast.wav")
	require.NoError(t, WriteWAV(path, pattern(size), format))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 44+size)

	// Duration is declared by the data chunk size over the byte rate.
	byteRate := binary.LittleEndian.Uint32(data[28:32])
	dataSize := binary.LittleEndian.Uint32(data[40:44])
	assert.Equal(t, uint32(48000), byteRate)
	assert.Equal(t, uint32(size), dataSize)
	got := time.Duration(float64(dataSize) / float64(byteRate) * float64(time.Second))
	assert.Equal(t, 750*time.Millisecond, got)
	assert.Equal(t, 750*time.Millisecond, Duration(size, format))
}

func TestWriteWAV_Errors(t *testing.T) {
	dir := t.TempDir()

	err := WriteWAV(filepath.Join(dir, "odd.wav"), []byte{1, 2, 3}, Format{Channels: 1, SampleRate: 24000, SampleWidth: 2})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	err = WriteWAV(filepath.Join(dir, "bad.wav"), nil, Format{Channels: 1, SampleRate: 24000, SampleWidth: 5})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	err = WriteWAV(filepath.Join(dir, "none.wav"), nil, Format{Channels: 0, SampleRate: 24000, SampleWidth: 2})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, statErr := os.Stat(filepath.Join(dir, "odd.wav"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written for a rejected payload")
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, Duration(48000, Format{Channels: 1, SampleRate: 24000, SampleWidth: 2}))
	assert.Equal(t, time.Duration(0), Duration(100, Format{}))
}
