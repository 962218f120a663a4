// Package app wires the capture session to the transcription and
// summarization collaborators. Every failure is reported to the caller;
// nothing here is fatal to the process.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"meetnote/internal/audio"
	"meetnote/internal/config"
	"meetnote/internal/summarize"
	"meetnote/internal/transcribe"
)

type Config struct {
	Session     *audio.Session
	Transcriber transcribe.Transcriber
	Summarizer  summarize.Summarizer
	Config      *config.Config
	Logger      zerolog.Logger
}

type App struct {
	session *audio.Session
	stt     transcribe.Transcriber
	sum     summarize.Summarizer
	cfg     *config.Config
	log     zerolog.Logger

	mu sync.Mutex
}

// ProcessResult holds the artifacts of a processed recording.
type ProcessResult struct {
	TranscriptPath string
	SummaryPath    string
}

func New(cfg Config) *App {
	return &App{
		session: cfg.Session,
		stt:     cfg.Transcriber,
		sum:     cfg.Summarizer,
		cfg:     cfg.Config,
		log:     cfg.Logger,
	}
}

// StartRecording begins a capture session.
func (a *App) StartRecording() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Start()
}

// StopRecording ends the capture and returns the path of the written
// WAV file. An empty name yields a timestamp-based one.
func (a *App) StopRecording(name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.Stop(name)
}

// IsRecording reports whether a capture is in progress.
func (a *App) IsRecording() bool {
	return a.session.IsRecording()
}

// EstimatedDuration reports the approximate elapsed capture time.
func (a *App) EstimatedDuration() (time.Duration, error) {
	return a.session.EstimatedDuration()
}

// SetDevice selects the input device for the next capture.
func (a *App) SetDevice(id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.session.SetDevice(id); err != nil {
		return err
	}
	a.cfg.Audio.DeviceID = id
	return nil
}

// ListDevices enumerates the host input devices.
func (a *App) ListDevices() ([]audio.Device, error) {
	return audio.ListInputDevices()
}

// Process transcribes a recorded WAV file and summarizes the result,
// writing both artifacts under the configured data directory. The name
// defaults to the recording's base name.
func (a *App) Process(ctx context.Context, wavPath, name string) (*ProcessResult, error) {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	}

	res, err := a.stt.Transcribe(ctx, wavPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, fmt.Errorf("transcription of %s produced no text", wavPath)
	}

	txtPath, err := transcribe.SaveResult(a.cfg.TranscriptsDir(), name, wavPath, res)
	if err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	a.log.Info().Str("path", txtPath).Msg("Transcript saved")

	summary, err := a.sum.Summarize(ctx, res.Text)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	sumPath, err := summarize.Save(a.cfg.SummariesDir(), name, summary)
	if err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}
	a.log.Info().Str("path", sumPath).Msg("Summary saved")

	return &ProcessResult{TranscriptPath: txtPath, SummaryPath: sumPath}, nil
}

// Summarize runs only the summarization step for an existing
// transcript.
func (a *App) Summarize(ctx context.Context, transcript, name string) (string, error) {
	summary, err := a.sum.Summarize(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return summarize.Save(a.cfg.SummariesDir(), name, summary)
}
