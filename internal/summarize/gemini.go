package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"meetnote/internal/config"
)

const summaryPrompt = `You are an expert meeting analyst. Analyze the following meeting transcript and provide a comprehensive, well-structured summary.

## TRANSCRIPT:
%s

## INSTRUCTIONS:
Please provide your summary in the following format:

### Meeting Overview
A brief 2-3 sentence overview of what this meeting was about.

### Key Discussion Points
The main topics and points discussed, as bullet points.

### Action Items
Specific tasks that need to be done, with the person responsible if mentioned.
Format: - [ ] Task description (Assigned to: Name, if known)

### Decisions Made
Any decisions that were made during the meeting.

### Follow-up Items
Items that need follow-up or future discussion.

Please be thorough but concise. Focus on the information attendees would need to reference later.`

// gemini summarizes through the Gemini API and degrades to the offline
// summarizer when the key is missing or the API fails.
type gemini struct {
	cfg      config.GeminiConfig
	fallback Summarizer
	log      zerolog.Logger
}

// New returns the Gemini summarizer, or the offline fallback directly
// when no API key is configured.
func New(cfg config.GeminiConfig, log zerolog.Logger) Summarizer {
	fallback := NewOffline()
	if cfg.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, summaries will be generated offline")
		return fallback
	}
	return &gemini{cfg: cfg, fallback: fallback, log: log}
}

func (g *gemini) Summarize(ctx context.Context, transcript string) (string, error) {
	summary, err := g.generate(ctx, transcript)
	if err != nil {
		g.log.Warn().Err(err).Msg("Gemini summarization failed, using offline fallback")
		return g.fallback.Summarize(ctx, transcript)
	}
	return summary, nil
}

func (g *gemini) generate(ctx context.Context, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	prompt := fmt.Sprintf(summaryPrompt, transcript)
	result, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text.String(), nil
}
