package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"meetnote/internal/config"
	"meetnote/internal/executor"
)

// whisperCLI drives the whisper.cpp command line binary. Results are
// requested as JSON (-oj) into a throwaway output prefix and parsed
// back.
type whisperCLI struct {
	cfg  config.WhisperConfig
	exec executor.Executor
	log  zerolog.Logger
}

// New creates a whisper.cpp backed transcriber.
func New(cfg config.WhisperConfig, exec executor.Executor, log zerolog.Logger) Transcriber {
	return &whisperCLI{cfg: cfg, exec: exec, log: log}
}

func (w *whisperCLI) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	prefix := filepath.Join(os.TempDir(), "meetnote_"+uuid.NewString())
	jsonPath := prefix + ".json"
	defer os.Remove(jsonPath)

	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-oj",
		"-of", prefix,
		"-np",
	}
	if w.cfg.Language != "" && w.cfg.Language != "auto" {
		args = append(args, "-l", w.cfg.Language)
	}
	if w.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(w.cfg.Threads))
	}

	w.log.Info().Str("audio", audioPath).Str("model", w.cfg.ModelPath).Msg("Transcribing")

	if _, err := w.exec.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	res, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	w.log.Info().
		Int("segments", len(res.Segments)).
		Str("language", res.Language).
		Float64("duration", res.Duration).
		Msg("Transcription complete")

	return res, nil
}

// whisperOutput mirrors the JSON whisper.cpp emits with -oj.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(data []byte) (*Result, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	res := &Result{Language: out.Result.Language}
	if res.Language == "" {
		res.Language = "unknown"
	}

	var parts []string
	for i, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		res.Segments = append(res.Segments, Segment{
			ID:    i,
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  text,
		})
		if text != "" {
			parts = append(parts, text)
		}
	}
	res.Text = strings.Join(parts, " ")
	if n := len(res.Segments); n > 0 {
		res.Duration = res.Segments[n-1].End
	}
	return res, nil
}
