// Package wavfile persists completed recordings as 16-bit PCM WAV
// containers. The header mirrors the capture configuration; no
// resampling or re-encoding happens here.
package wavfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"meetnote/internal/audio"
)

// ErrEmptyRecording is returned when a recording with zero frames is
// handed in. Nothing is written in that case.
var ErrEmptyRecording = errors.New("wavfile: recording has no frames")

// Encoder writes recordings to disk. It satisfies audio.Writer.
type Encoder struct{}

func New() Encoder {
	return Encoder{}
}

// Write serializes rec to path, creating parent directories as needed.
func (Encoder) Write(path string, rec audio.Recording) error {
	if rec.Frames() == 0 {
		return ErrEmptyRecording
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create recordings dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	data := make([]int, len(rec.Samples))
	for i, s := range rec.Samples {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(f, rec.SampleRate, 16, rec.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: rec.Channels,
			SampleRate:  rec.SampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}
