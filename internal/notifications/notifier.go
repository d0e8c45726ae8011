package notifications

import (
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/m96-chan/rivet/internal/consts"
)

// minInterval is the minimum time between notifications to prevent spam.
const minInterval = 3 * time.Second

// maxBody caps the notification body length in bytes.
const maxBody = 200

// Notifier sends desktop notifications with rate limiting.
type Notifier struct {
	mu       sync.Mutex
	lastSent time.Time
	wg       sync.WaitGroup
	send     func(title, body string) error
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{send: sendPlatform}
}

// Send dispatches a desktop notification using the platform's native system.
// Returns false without sending if rate-limited.
func (n *Notifier) Send(title, body string) bool {
	n.mu.Lock()
	if !n.lastSent.IsZero() && time.Since(n.lastSent) < minInterval {
		n.mu.Unlock()
		return false
	}
	n.lastSent = time.Now()
	n.mu.Unlock()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(title, body); err != nil {
			slog.Debug("notification failed", "error", err)
		}
	}()
	return true
}

// Wait blocks until in-flight notifications finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// sendPlatform dispatches a notification using OS-specific commands.
func sendPlatform(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", "--app-name="+consts.Name, title, body).Run()
	case "darwin":
		script := fmt.Sprintf(
			`display notification %q with title %q`, body, title)
		return exec.Command("osascript", "-e", script).Run()
	default:
		slog.Debug("notifications not supported on this platform", "os", runtime.GOOS)
		return nil
	}
}

// MentionType identifies what kind of notification trigger was detected.
type MentionType int

const (
	MentionNone MentionType = iota
	MentionDirect
	MentionDM
	MentionHere
	MentionEveryone
)

// DetectMention checks if a message should trigger a notification for the given user.
// Returns the most specific mention type found.
func DetectMention(text, selfUserID string, isDM bool) MentionType {
	if isDM {
		return MentionDM
	}

	if selfUserID != "" &&
		(strings.Contains(text, "<@"+selfUserID+">") || strings.Contains(text, "<@!"+selfUserID+">")) {
		return MentionDirect
	}

	if strings.Contains(text, "@everyone") {
		return MentionEveryone
	}
	if strings.Contains(text, "@here") {
		return MentionHere
	}

	return MentionNone
}

var tokenRe = regexp.MustCompile(`<(@!?|@&|#|a?:[A-Za-z0-9_]+:)(\d+)>`)

// StripMarkdown removes message formatting for a plain-text notification
// body. users maps ids to names for mention resolution and may be nil.
func StripMarkdown(text string, users map[string]string) string {
	text = tokenRe.ReplaceAllStringFunc(text, func(match string) string {
		return resolveToken(match, users)
	})

	// Fences and doubled markers before single ones.
	for _, m := range []string{"```", "**", "__", "~~", "`", "*"} {
		text = strings.ReplaceAll(text, m, "")
	}

	text = strings.TrimSpace(text)
	if len(text) > maxBody {
		cut := maxBody
		for cut > 0 && !isRuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "…"
	}
	return text
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// resolveToken converts a single angle-bracket token to readable text.
func resolveToken(match string, users map[string]string) string {
	sub := tokenRe.FindStringSubmatch(match)
	kind, id := sub[1], sub[2]
	switch {
	case kind == "#":
		return "#" + id
	case kind == "@&":
		return "@role"
	case strings.HasPrefix(kind, "@"):
		if name, ok := users[id]; ok {
			return "@" + name
		}
		return "@" + id
	default:
		return ":" + strings.Trim(strings.TrimPrefix(kind, "a"), ":") + ":"
	}
}
