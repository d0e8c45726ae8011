package notifications

import (
	"strings"
	"sync"
	"testing"
)

func TestDetectMention(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		selfUserID string
		isDM       bool
		want       MentionType
	}{
		{"DM", "hello", "1", true, MentionDM},
		{"direct mention", "hey <@1> check this", "1", false, MentionDirect},
		{"nickname mention", "hey <@!1> check this", "1", false, MentionDirect},
		{"everyone", "@everyone heads up", "1", false, MentionEveryone},
		{"here", "@here anyone around?", "1", false, MentionHere},
		{"no mention", "just a regular message", "1", false, MentionNone},
		{"other user mention", "hey <@2> check this", "1", false, MentionNone},
		{"id prefix is not a mention", "hey <@12>", "1", false, MentionNone},
		{"unknown self", "hey <@> there", "", false, MentionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMention(tt.text, tt.selfUserID, tt.isDM)
			if got != tt.want {
				t.Errorf("DetectMention(%q, %q, %v) = %d, want %d",
					tt.text, tt.selfUserID, tt.isDM, got, tt.want)
			}
		})
	}
}

func TestDetectMention_Priority(t *testing.T) {
	// DM takes priority over other mentions.
	got := DetectMention("<@1> @everyone", "1", true)
	if got != MentionDM {
		t.Errorf("DM should take priority, got %d", got)
	}

	// Direct mention takes priority over group mentions.
	got = DetectMention("<@1> @here", "1", false)
	if got != MentionDirect {
		t.Errorf("direct mention should take priority over here, got %d", got)
	}
}

func TestStripMarkdown(t *testing.T) {
	users := map[string]string{"1": "alice"}
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bold", "**hello**", "hello"},
		{"italic", "*hello*", "hello"},
		{"underline", "__hello__", "hello"},
		{"strike", "~~hello~~", "hello"},
		{"code block", "```code```", "code"},
		{"inline code", "`code`", "code"},
		{"known user", "<@1>", "@alice"},
		{"nickname form", "<@!1>", "@alice"},
		{"unknown user", "<@2>", "@2"},
		{"channel", "<#5>", "#5"},
		{"role", "<@&9>", "@role"},
		{"custom emoji", "<:pepe:3>", ":pepe:"},
		{"no formatting", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripMarkdown(tt.text, users)
			if got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestStripMarkdown_Truncation(t *testing.T) {
	got := StripMarkdown(strings.Repeat("a", 250), nil)
	if got != strings.Repeat("a", maxBody)+"…" {
		t.Errorf("unexpected truncation: length %d", len(got))
	}

	// Never split a multi-byte rune.
	got = StripMarkdown(strings.Repeat("é", 150), nil)
	trimmed := strings.TrimSuffix(got, "…")
	if !strings.HasSuffix(trimmed, "é") {
		t.Errorf("rune split at truncation: %q", got[len(got)-6:])
	}
}

func TestNotifier_RateLimit(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	n := &Notifier{send: func(title, body string) error {
		mu.Lock()
		sent = append(sent, title)
		mu.Unlock()
		return nil
	}}

	if !n.Send("title", "body") {
		t.Fatal("first Send should go through")
	}
	firstSent := n.lastSent

	if n.Send("title2", "body2") {
		t.Error("second Send should be rate-limited")
	}
	n.Wait()

	if !n.lastSent.Equal(firstSent) {
		t.Error("rate-limited Send should not update lastSent")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 1 || sent[0] != "title" {
		t.Errorf("sent = %v, want [title]", sent)
	}
}
