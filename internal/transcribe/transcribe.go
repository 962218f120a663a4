// Package transcribe converts recorded WAV files to text through a
// local whisper.cpp binary. The speech recognition itself is opaque;
// this package only shells out and parses the result.
package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Segment is one timed span of recognized speech.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a completed transcription.
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
}

// Transcriber interface for speech-to-text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type savedTranscript struct {
	Name      string    `json:"meeting_name"`
	CreatedAt time.Time `json:"created_at"`
	AudioFile string    `json:"audio_file"`
	Result
}

// SaveResult writes the transcript text plus a JSON sidecar with
// segments and metadata into dir. It returns the text file path.
func SaveResult(dir, name, audioPath string, res *Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create transcripts dir: %w", err)
	}

	txtPath := filepath.Join(dir, name+"_transcript.txt")
	if err := os.WriteFile(txtPath, []byte(res.Text+"\n"), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	saved := savedTranscript{
		Name:      name,
		CreatedAt: time.Now(),
		AudioFile: audioPath,
		Result:    *res,
	}
	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return "", err
	}
	jsonPath := filepath.Join(dir, name+"_transcript.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("write transcript sidecar: %w", err)
	}

	return txtPath, nil
}
