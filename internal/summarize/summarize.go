// Package summarize turns meeting transcripts into structured markdown
// summaries, through Gemini when an API key is configured and through a
// statistical offline fallback otherwise.
package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Summarizer produces a markdown summary for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Save writes the summary as <name>_summary.md into dir and returns
// the written path.
func Save(dir, name, summary string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create summaries dir: %w", err)
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		time.Now().Format("2006-01-02 15:04"),
		summary,
	)

	path := filepath.Join(dir, name+"_summary.md")
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
