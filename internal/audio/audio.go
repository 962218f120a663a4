// Package audio implements the capture pipeline: input device discovery
// and the recording session that buffers microphone audio until it is
// persisted as a WAV file.
package audio

import (
	"errors"
	"time"
)

var (
	// ErrAlreadyRecording is returned when Start or SetDevice is called
	// while a capture is in progress.
	ErrAlreadyRecording = errors.New("audio: already recording")
	// ErrNotRecording is returned when Stop or a duration query is called
	// on an idle session.
	ErrNotRecording = errors.New("audio: not recording")
	// ErrEmptyCapture is returned by Stop when no audio arrived between
	// Start and Stop. No file is written in that case.
	ErrEmptyCapture = errors.New("audio: no audio captured")
)

// DefaultDevice selects the host default input device.
const DefaultDevice = -1

// Device is a snapshot of one host input endpoint. Snapshots are
// re-queried on every listing call, never cached.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
}

// Config describes one capture session. Samples are 16-bit signed PCM.
type Config struct {
	SampleRate int
	Channels   int
	DeviceID   int
}

// DefaultConfig returns CD-quality stereo capture on the default device.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   2,
		DeviceID:   DefaultDevice,
	}
}

// FramesPerChunk is the host delivery size: one chunk per polling
// interval (100ms) at the configured rate.
func (c Config) FramesPerChunk() int {
	return c.SampleRate / 10
}

// Recording is the contiguous interleaved sample buffer produced by a
// completed session, in chunk arrival order.
type Recording struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (one sample per channel).
func (r Recording) Frames() int {
	if r.Channels == 0 {
		return 0
	}
	return len(r.Samples) / r.Channels
}

// Duration returns the playback length implied by the frame count.
func (r Recording) Duration() time.Duration {
	if r.SampleRate == 0 {
		return 0
	}
	return time.Duration(r.Frames()) * time.Second / time.Duration(r.SampleRate)
}

// Source delivers interleaved PCM chunks from a host input stream.
// ReadChunk blocks for at most roughly one polling interval and may
// return an empty chunk when no data arrived in time. A Source backs a
// single capture run; the session obtains a fresh one per Start.
type Source interface {
	Open(cfg Config) error
	ReadChunk() ([]int16, error)
	Close() error
}

// Writer persists a completed recording.
type Writer interface {
	Write(path string, rec Recording) error
}
