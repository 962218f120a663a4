package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"meetnote/internal/audio"
	"meetnote/internal/config"
	"meetnote/internal/transcribe"
	"meetnote/internal/wavfile"
)

// Mock implementations for testing
type mockSource struct {
	mu      sync.Mutex
	pending [][]int16
}

func (m *mockSource) Open(cfg audio.Config) error { return nil }

func (m *mockSource) ReadChunk() ([]int16, error) {
	m.mu.Lock()
	if len(m.pending) > 0 {
		chunk := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		return chunk, nil
	}
	m.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return nil, nil
}

func (m *mockSource) Close() error { return nil }

type mockTranscriber struct {
	result *transcribe.Result
	calls  int
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	m.calls++
	return m.result, nil
}

type mockSummarizer struct {
	summary string
}

func (m *mockSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	return m.summary, nil
}

func newTestApp(t *testing.T, src audio.Source, tr *mockTranscriber) *App {
	t.Helper()

	cfg := &config.Config{
		Audio:   config.AudioConfig{SampleRate: 44100, Channels: 2, DeviceID: audio.DefaultDevice},
		DataDir: t.TempDir(),
	}

	session := audio.NewSession(cfg.CaptureConfig(), func() audio.Source { return src }, wavfile.New(), cfg.RecordingsDir(), zerolog.Nop())

	return New(Config{
		Session:     session,
		Transcriber: tr,
		Summarizer:  &mockSummarizer{summary: "## Meeting Overview\nA short sync."},
		Config:      cfg,
		Logger:      zerolog.Nop(),
	})
}

func chunkOf(frames, channels int, value int16) []int16 {
	chunk := make([]int16, frames*channels)
	for i := range chunk {
		chunk[i] = value
	}
	return chunk
}

func TestRecordAndStopWritesWav(t *testing.T) {
	src := &mockSource{pending: [][]int16{
		chunkOf(4410, 2, 1),
		chunkOf(4410, 2, 2),
	}}
	a := newTestApp(t, src, &mockTranscriber{})

	if a.IsRecording() {
		t.Fatal("app should not be recording initially")
	}
	if err := a.StartRecording(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !a.IsRecording() {
		t.Fatal("app should be recording after start")
	}

	// Wait for both chunks to be buffered.
	deadline := time.Now().Add(time.Second)
	for {
		d, err := a.EstimatedDuration()
		if err == nil && d >= 200*time.Millisecond {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("chunks were not buffered in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	path, err := a.StopRecording("standup")
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if a.IsRecording() {
		t.Fatal("app should be idle after stop")
	}
	if filepath.Base(path) != "standup.wav" {
		t.Fatalf("unexpected recording path: %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("recording file missing: %v", err)
	}
}

func TestStopWithoutAudioReportsEmptyCapture(t *testing.T) {
	a := newTestApp(t, &mockSource{}, &mockTranscriber{})

	if err := a.StartRecording(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := a.StopRecording("nothing"); err != audio.ErrEmptyCapture {
		t.Fatalf("expected ErrEmptyCapture, got %v", err)
	}
}

func TestProcessProducesTranscriptAndSummary(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "standup.wav")
	if err := os.WriteFile(wavPath, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := &mockTranscriber{result: &transcribe.Result{
		Text:     "Alice will update the guide.",
		Language: "en",
		Duration: 4.2,
	}}
	a := newTestApp(t, &mockSource{}, tr)

	res, err := a.Process(context.Background(), wavPath, "")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if tr.calls != 1 {
		t.Fatalf("expected one transcription, got %d", tr.calls)
	}

	// Name derives from the recording's base name.
	if filepath.Base(res.TranscriptPath) != "standup_transcript.txt" {
		t.Fatalf("unexpected transcript path: %q", res.TranscriptPath)
	}
	if filepath.Base(res.SummaryPath) != "standup_summary.md" {
		t.Fatalf("unexpected summary path: %q", res.SummaryPath)
	}

	summary, err := os.ReadFile(res.SummaryPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summary), "Meeting Overview") {
		t.Fatalf("summary content missing:\n%s", summary)
	}
}

func TestProcessRejectsEmptyTranscription(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "silence.wav")
	if err := os.WriteFile(wavPath, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := &mockTranscriber{result: &transcribe.Result{Text: "   "}}
	a := newTestApp(t, &mockSource{}, tr)

	if _, err := a.Process(context.Background(), wavPath, ""); err == nil {
		t.Fatal("expected an error for an empty transcription")
	}
}

func TestSetDeviceWhileRecording(t *testing.T) {
	a := newTestApp(t, &mockSource{}, &mockTranscriber{})

	if err := a.SetDevice(2); err != nil {
		t.Fatalf("set device while idle: %v", err)
	}

	if err := a.StartRecording(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := a.SetDevice(3); err != audio.ErrAlreadyRecording {
		t.Fatalf("expected ErrAlreadyRecording, got %v", err)
	}
	a.StopRecording("")
}
