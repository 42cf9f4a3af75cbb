package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// discordMaxContent is Discord's per-message content limit.
const discordMaxContent = 2000

// DiscordNotifier implements Notifier via a Discord webhook.
type DiscordNotifier struct {
	webhook
}

type discordPayload struct {
	Content string `json:"content"`
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...Option) *DiscordNotifier {
	return &DiscordNotifier{webhook: newWebhook("discord", webhookURL, opts...)}
}

// Notify implements Notifier. Long summaries are split on line boundaries
// into as many messages as needed.
func (d *DiscordNotifier) Notify(ctx context.Context, text string) error {
	chunks := splitContent(text, discordMaxContent)
	for i, chunk := range chunks {
		if err := d.post(ctx, discordPayload{Content: chunk}); err != nil {
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

// splitContent breaks text into pieces of at most limit bytes, preferring
// newline boundaries. A single line longer than limit is hard-split on a
// rune boundary.
func splitContent(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := runeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		extra := len(line)
		if cur.Len() > 0 {
			extra++
		}
		if cur.Len()+extra > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()

	return chunks
}

// runeCut returns the largest offset <= limit that starts a rune in s.
// A limit smaller than the first rune cuts at limit.
func runeCut(s string, limit int) int {
	for cut := limit; cut > 0; cut-- {
		if utf8.RuneStart(s[cut]) {
			return cut
		}
	}
	return limit
}

var _ Notifier = (*DiscordNotifier)(nil)
