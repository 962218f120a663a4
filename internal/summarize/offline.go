package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// actionWords flag sentences that likely describe tasks or commitments.
var actionWords = []string{
	"will", "should", "must", "need to", "have to", "going to",
	"action", "task", "deadline", "complete", "finish",
}

// speakingRate is the assumed words-per-minute used for the duration
// estimate.
const speakingRate = 150

// Offline produces a basic statistical summary without any external
// service: word and sentence counts, an estimated duration, and a list
// of sentences that look like action items.
type Offline struct{}

func NewOffline() Offline {
	return Offline{}
}

func (Offline) Summarize(_ context.Context, transcript string) (string, error) {
	words := strings.Fields(transcript)
	sentences := splitSentences(transcript)
	actions := actionItems(sentences)

	var b strings.Builder
	b.WriteString("## Meeting Summary (Offline Mode)\n\n")
	b.WriteString("> Note: this is a basic summary generated offline. Configure a Gemini API key for AI-powered summaries.\n\n")

	b.WriteString("### Statistics\n")
	fmt.Fprintf(&b, "- **Word Count**: %d\n", len(words))
	fmt.Fprintf(&b, "- **Sentences**: %d\n", len(sentences))
	fmt.Fprintf(&b, "- **Estimated Duration**: %d minutes (based on avg. speaking rate)\n\n", len(words)/speakingRate)

	b.WriteString("### Transcript Excerpt\n")
	excerpt := transcript
	if len(excerpt) > 1000 {
		excerpt = truncate(excerpt, 1000) + "..."
	}
	b.WriteString(excerpt)
	b.WriteString("\n\n### Potential Action Items\n")
	if len(actions) == 0 {
		b.WriteString("- No action items detected\n")
	} else {
		for _, a := range actions {
			a = truncate(a, 100)
			fmt.Fprintf(&b, "- [ ] %s\n", a)
		}
	}

	return b.String(), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func splitSentences(text string) []string {
	replacer := strings.NewReplacer("!", ".", "?", ".")
	var sentences []string
	for _, s := range strings.Split(replacer.Replace(text), ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// actionItems keeps up to five sentences that mention an action word
// and are long enough to be meaningful.
func actionItems(sentences []string) []string {
	var actions []string
	for _, s := range sentences {
		if len(s) <= 10 {
			continue
		}
		lower := strings.ToLower(s)
		for _, w := range actionWords {
			if strings.Contains(lower, w) {
				actions = append(actions, s)
				break
			}
		}
		if len(actions) == 5 {
			break
		}
	}
	return actions
}
