package transcribe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"meetnote/internal/config"
)

const sampleWhisperJSON = `{
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 0, "to": 2500}, "text": " Good morning everyone."},
    {"offsets": {"from": 2500, "to": 6100}, "text": " Let's review the roadmap."},
    {"offsets": {"from": 6100, "to": 6200}, "text": "  "}
  ]
}`

func TestParseWhisperJSON(t *testing.T) {
	res, err := parseWhisperJSON([]byte(sampleWhisperJSON))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if res.Language != "en" {
		t.Fatalf("expected language en, got %q", res.Language)
	}
	if len(res.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(res.Segments))
	}
	if res.Segments[1].Start != 2.5 || res.Segments[1].End != 6.1 {
		t.Fatalf("unexpected segment times: %+v", res.Segments[1])
	}
	if res.Duration != 6.2 {
		t.Fatalf("expected duration 6.2, got %f", res.Duration)
	}
	// Blank segments are kept for timing but excluded from the text.
	if want := "Good morning everyone. Let's review the roadmap."; res.Text != want {
		t.Fatalf("expected text %q, got %q", want, res.Text)
	}
}

func TestParseWhisperJSONInvalid(t *testing.T) {
	if _, err := parseWhisperJSON([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed output")
	}
}

// fakeExecutor pretends to be the whisper.cpp binary: it writes the
// canned JSON to the -of prefix the transcriber asked for.
type fakeExecutor struct {
	payload string
	calls   int
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls++
	for i, a := range args {
		if a == "-of" && i+1 < len(args) {
			return "", os.WriteFile(args[i+1]+".json", []byte(f.payload), 0644)
		}
	}
	return "", os.ErrInvalid
}

func TestTranscribeWithCLI(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "meeting.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{payload: sampleWhisperJSON}
	tr := New(config.WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "model.bin",
		Language:   "auto",
	}, exec, zerolog.Nop())

	res, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected one binary invocation, got %d", exec.calls)
	}
	if !strings.Contains(res.Text, "roadmap") {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	exec := &fakeExecutor{payload: sampleWhisperJSON}
	tr := New(config.WhisperConfig{BinaryPath: "whisper-cli"}, exec, zerolog.Nop())

	if _, err := tr.Transcribe(context.Background(), "does-not-exist.wav"); err == nil {
		t.Fatal("expected an error for a missing audio file")
	}
	if exec.calls != 0 {
		t.Fatal("binary must not run for a missing audio file")
	}
}

func TestSaveResult(t *testing.T) {
	dir := t.TempDir()
	res := &Result{
		Text:     "Good morning everyone.",
		Language: "en",
		Duration: 2.5,
		Segments: []Segment{{ID: 0, Start: 0, End: 2.5, Text: "Good morning everyone."}},
	}

	txtPath, err := SaveResult(dir, "standup", "standup.wav", res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(txtPath) != "standup_transcript.txt" {
		t.Fatalf("unexpected transcript path: %q", txtPath)
	}

	text, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "Good morning") {
		t.Fatalf("transcript text missing: %q", text)
	}

	data, err := os.ReadFile(filepath.Join(dir, "standup_transcript.json"))
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	var saved savedTranscript
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("sidecar not valid JSON: %v", err)
	}
	if saved.Name != "standup" || saved.Language != "en" || len(saved.Segments) != 1 {
		t.Fatalf("unexpected sidecar contents: %+v", saved)
	}
}
