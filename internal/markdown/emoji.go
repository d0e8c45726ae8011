package markdown

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kyokomi/emoji/v2"
	"github.com/sahilm/fuzzy"
)

//go:embed emojis.json
var defaultEmojis []byte

var (
	emojiEntries     map[string]string
	emojiEntriesOnce sync.Once
)

// shortcodeRe matches a custom emoji token (left untouched) or a :name:
// shortcode (submatch 1).
var shortcodeRe = regexp.MustCompile(`<a?:[A-Za-z0-9_]+:\d+>|:([a-zA-Z0-9_+\-]+):`)

// buildEmojiEntries creates the name→unicode map from kyokomi/emoji,
// keeping only plain shortcodes (lowercase, digits, _, -, +).
func buildEmojiEntries() map[string]string {
	codeMap := emoji.CodeMap()
	result := make(map[string]string, len(codeMap))
	for k, v := range codeMap {
		name := strings.TrimPrefix(strings.TrimSuffix(k, ":"), ":")
		if !isShortcode(name) {
			continue
		}
		result[name] = strings.TrimSpace(v)
	}
	return result
}

func isShortcode(name string) bool {
	for _, r := range name {
		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '+' {
			return false
		}
	}
	return len(name) > 0
}

func getEmojiEntries() map[string]string {
	emojiEntriesOnce.Do(func() {
		emojiEntries = buildEmojiEntries()
	})
	return emojiEntries
}

// lookupEmoji returns the unicode emoji for a name, or the :name: fallback.
// The name parameter should be without surrounding colons.
func lookupEmoji(name string) string {
	if u, ok := getEmojiEntries()[name]; ok {
		return u
	}
	return ":" + name + ":"
}

// Dictionary resolves shortcodes using the user's pairs on top of the
// built-in table. It is immutable after construction.
type Dictionary struct {
	entries map[string]string
	names   []string // sorted, for suggestions
}

// NewDictionary overlays pairs of [name, unicode] on the built-in table.
func NewDictionary(pairs [][2]string) *Dictionary {
	base := getEmojiEntries()
	entries := make(map[string]string, len(base)+len(pairs))
	for k, v := range base {
		entries[k] = v
	}
	for _, p := range pairs {
		if p[0] == "" {
			continue
		}
		entries[p[0]] = p[1]
	}

	names := make([]string, 0, len(entries))
	for k := range entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return &Dictionary{entries: entries, names: names}
}

// LoadDictionary reads the user's emoji file. A missing file is created
// from the embedded defaults; unreadable or malformed files are logged and
// the defaults are used instead.
func LoadDictionary(path string) *Dictionary {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("emoji file not found, writing default", "path", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			slog.Warn("creating emoji directory", "path", path, "error", err)
		} else if err := os.WriteFile(path, defaultEmojis, 0o600); err != nil {
			slog.Warn("writing default emoji file", "path", path, "error", err)
		}
		data = defaultEmojis
	case err != nil:
		slog.Warn("reading emoji file", "path", path, "error", err)
		data = defaultEmojis
	}

	pairs, err := parsePairs(data)
	if err != nil {
		slog.Warn("parsing emoji file", "path", path, "error", err)
		pairs, _ = parsePairs(defaultEmojis)
	}
	return NewDictionary(pairs)
}

func parsePairs(data []byte) ([][2]string, error) {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// Lookup returns the unicode emoji for a shortcode name without colons.
func (d *Dictionary) Lookup(name string) (string, bool) {
	u, ok := d.entries[name]
	return u, ok
}

// Expand replaces :name: shortcodes in outgoing text. custom maps server
// emoji names to their message markup and wins over the dictionary.
// Unknown shortcodes and existing custom emoji tokens are left as typed.
func (d *Dictionary) Expand(text string, custom map[string]string) string {
	return shortcodeRe.ReplaceAllStringFunc(text, func(match string) string {
		if strings.HasPrefix(match, "<") {
			return match
		}
		name := match[1 : len(match)-1]
		if m, ok := custom[name]; ok {
			return m
		}
		if u, ok := d.entries[name]; ok {
			return u
		}
		return match
	})
}

// PendingShortcode returns the partial name when input ends in an
// unfinished shortcode such as "hello :thu".
func PendingShortcode(input string) (string, bool) {
	i := strings.LastIndexFunc(input, unicode.IsSpace)
	word := input[i+1:]
	if len(word) < 3 || word[0] != ':' {
		return "", false
	}
	partial := word[1:]
	if strings.ContainsRune(partial, ':') {
		return "", false
	}
	return partial, true
}

// Suggest returns up to limit ":name:" completions for partial, best match
// first. extra names (server emojis) are searched along with the dictionary.
func (d *Dictionary) Suggest(partial string, limit int, extra []string) []string {
	if limit <= 0 || partial == "" {
		return nil
	}
	pool := d.names
	if len(extra) > 0 {
		pool = append(append(make([]string, 0, len(extra)+len(d.names)), extra...), d.names...)
	}

	matches := fuzzy.Find(partial, pool)
	out := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	for _, m := range matches {
		if seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		out = append(out, ":"+m.Str+":")
		if len(out) == limit {
			break
		}
	}
	return out
}
