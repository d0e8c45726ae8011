package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// StyleWrapper wraps tcell.Style and implements TOML unmarshalling.
// In TOML it is represented as a table with optional "foreground",
// "background", and "attributes" string fields. The raw values are kept so
// the style can also be emitted as a tview color tag.
type StyleWrapper struct {
	tcell.Style
	fg    string
	bg    string
	attrs string // tview attribute letters, e.g. "bu"
}

// UnmarshalTOML implements the toml.Unmarshaler interface.
func (s *StyleWrapper) UnmarshalTOML(data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("expected table for style, got %T", data)
	}

	fg, _ := m["foreground"].(string)
	bg, _ := m["background"].(string)
	attrs, _ := m["attributes"].(string)

	if _, err := stringToAttrMask(attrs); err != nil {
		return err
	}
	*s = makeStyle(fg, bg, attrsToTviewString(attrs))
	return nil
}

// Tag returns the tview color tag that starts this style.
func (s StyleWrapper) Tag() string {
	switch {
	case s.fg == "" && s.bg == "" && s.attrs == "":
		return "[-]"
	case s.bg == "" && s.attrs == "":
		return "[" + s.fg + "]"
	}
	return "[" + orDash(s.fg) + ":" + orDash(s.bg) + ":" + orDash(s.attrs) + "]"
}

// Reset returns the tview tag that ends this style.
func (s StyleWrapper) Reset() string {
	if s.bg == "" && s.attrs == "" {
		return "[-]"
	}
	return "[-:-:-]"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// makeStyle builds a StyleWrapper from a color name pair and tview
// attribute letters.
func makeStyle(fg, bg, attrs string) StyleWrapper {
	style := tcell.StyleDefault
	if fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		style = style.Background(tcell.GetColor(bg))
	}
	var mask tcell.AttrMask
	for _, r := range attrs {
		mask |= letterAttrs[r]
	}
	if mask != 0 {
		style = style.Attributes(mask)
	}
	return StyleWrapper{Style: style, fg: fg, bg: bg, attrs: attrs}
}

var letterAttrs = map[rune]tcell.AttrMask{
	'b': tcell.AttrBold,
	'i': tcell.AttrItalic,
	'u': tcell.AttrUnderline,
	'd': tcell.AttrDim,
	'r': tcell.AttrReverse,
	'l': tcell.AttrBlink,
	's': tcell.AttrStrikeThrough,
}

var attrLetters = map[string]string{
	"bold":          "b",
	"italic":        "i",
	"underline":     "u",
	"dim":           "d",
	"reverse":       "r",
	"blink":         "l",
	"strikethrough": "s",
}

// attrsToTviewString converts "bold|underline" into tview letters ("bu").
// Unknown names are dropped; stringToAttrMask reports them.
func attrsToTviewString(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "|") {
		b.WriteString(attrLetters[strings.TrimSpace(strings.ToLower(part))])
	}
	return b.String()
}

// stringToAttrMask parses a pipe-separated list of attribute names into
// a tcell.AttrMask. For example: "bold|underline".
func stringToAttrMask(s string) (tcell.AttrMask, error) {
	var mask tcell.AttrMask
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "none" || part == "" {
			continue
		}
		letter, ok := attrLetters[part]
		if !ok {
			return 0, fmt.Errorf("unknown style attribute: %q", part)
		}
		mask |= letterAttrs[rune(letter[0])]
	}
	return mask, nil
}

// Theme holds the complete theme configuration.
type Theme struct {
	Preset    string        `toml:"preset"`
	Border    StyleWrapper  `toml:"border"`
	Title     StyleWrapper  `toml:"title"`
	Selected  StyleWrapper  `toml:"selected"`
	Author    StyleWrapper  `toml:"author"`
	Timestamp StyleWrapper  `toml:"timestamp"`
	Status    StyleWrapper  `toml:"status"`
	Input     StyleWrapper  `toml:"input"`
	Markdown  MarkdownTheme `toml:"markdown"`
}

// MarkdownTheme configures inline message markup.
type MarkdownTheme struct {
	UserMention    StyleWrapper `toml:"user_mention"`
	ChannelMention StyleWrapper `toml:"channel_mention"`
	SpecialMention StyleWrapper `toml:"special_mention"`
	CustomEmoji    StyleWrapper `toml:"custom_emoji"`
	InlineCode     StyleWrapper `toml:"inline_code"`
	CodeFence      StyleWrapper `toml:"code_fence"`
	BlockquoteMark StyleWrapper `toml:"blockquote_mark"`
}
