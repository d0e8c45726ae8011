package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rivo/tview"
)

// placeholder markers for tokens that should not be processed by inline formatting.
const placeholderPrefix = "\x00T"
const placeholderSuffix = "\x00"

// Compiled patterns for message markdown.
var (
	// Angle-bracket tokens: <@123>, <@!123>, <@&123>, <#123>, <:name:123>,
	// <a:name:123>.
	tokenRe = regexp.MustCompile(`<(@!?|@&|#|a?:[A-Za-z0-9_]+:)(\d+)>`)

	// Inline code: `text` (single backtick, not inside code blocks).
	inlineCodeRe = regexp.MustCompile("`([^`\n]+)`")

	boldRe      = regexp.MustCompile(`\*\*([^\*\n]+)\*\*`)
	underlineRe = regexp.MustCompile(`__([^_\n]+)__`)
	italicRe    = regexp.MustCompile(`\*([^\*\n]+)\*|_([^_\n]+)_`)
	strikeRe    = regexp.MustCompile(`~~([^~\n]+)~~`)
	specialRe   = regexp.MustCompile(`@(everyone|here)\b`)

	// Emoji: :name: (alphanumeric, underscore, hyphen, plus).
	emojiRe = regexp.MustCompile(`:([a-zA-Z0-9_+\-]+):`)

	// Code block: ```lang\ncode``` or ```code```.
	codeBlockRe = regexp.MustCompile("(?s)```(\\w*)\\n?(.*?)```")
)

// Colors holds pre-computed tview tag strings for markdown rendering,
// avoiding a direct dependency on the config package.
type Colors struct {
	UserMention    string
	ChannelMention string
	SpecialMention string
	CustomEmoji    string
	InlineCode     string
	CodeFence      string
	BlockquoteMark string
}

// DefaultColors returns the colors of the default theme.
func DefaultColors() Colors {
	return Colors{
		UserMention:    "[yellow::b]",
		ChannelMention: "[cyan::b]",
		SpecialMention: "[yellow::bu]",
		CustomEmoji:    "[purple]",
		InlineCode:     "[gray]",
		CodeFence:      "[gray]",
		BlockquoteMark: "[gray]",
	}
}

// Names resolves mention ids to display names.
type Names struct {
	Users    map[string]string // user id → username
	Channels map[string]string // channel id → name
}

// Render converts message markdown to tview-formatted output. When enabled
// is false only mention tokens are resolved and the result is escaped.
func Render(text string, names Names, enabled bool, syntaxTheme string, colors Colors) string {
	if !enabled {
		return tview.Escape(resolveTokens(text, names))
	}

	var b strings.Builder
	for _, seg := range splitCodeBlocks(text) {
		if seg.isCode {
			b.WriteString(renderCodeBlock(seg.lang, seg.code, syntaxTheme, colors))
		} else {
			b.WriteString(renderInline(seg.text, names, colors))
		}
	}
	return b.String()
}

// segment represents either a code block or inline text.
type segment struct {
	isCode bool
	lang   string
	code   string
	text   string
}

// splitCodeBlocks splits text into alternating inline/code-block segments.
func splitCodeBlocks(text string) []segment {
	matches := codeBlockRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []segment{{text: text}}
	}

	var segments []segment
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			segments = append(segments, segment{text: text[prev:m[0]]})
		}
		segments = append(segments, segment{
			isCode: true,
			lang:   text[m[2]:m[3]],
			code:   text[m[4]:m[5]],
		})
		prev = m[1]
	}
	if prev < len(text) {
		segments = append(segments, segment{text: text[prev:]})
	}
	return segments
}

// resetFor returns the tag closing a color tag that may carry attributes.
func resetFor(tag string) string {
	if strings.Count(tag, ":") >= 2 {
		return "[-::-]"
	}
	return "[-]"
}

// renderCodeBlock renders a fenced code block with syntax highlighting.
func renderCodeBlock(lang, code string, syntaxTheme string, colors Colors) string {
	code = strings.TrimRight(code, "\n")
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(syntaxTheme)
	if style == nil {
		style = styles.Fallback
	}

	fence := colors.CodeFence + "```" + resetFor(colors.CodeFence)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fence + "\n" + tview.Escape(code) + "\n" + fence
	}

	var buf strings.Builder
	buf.WriteString(fence)
	if lang != "" {
		buf.WriteString(colors.CodeFence + tview.Escape(lang) + resetFor(colors.CodeFence))
	}
	buf.WriteString("\n")

	for _, token := range iterator.Tokens() {
		text := tview.Escape(token.Value)
		entry := style.Get(token.Type)
		if !entry.Colour.IsSet() {
			buf.WriteString(text)
			continue
		}

		attrs := ""
		if entry.Bold == chroma.Yes {
			attrs += "b"
		}
		if entry.Italic == chroma.Yes {
			attrs += "i"
		}
		if attrs != "" {
			fmt.Fprintf(&buf, "[%s::%s]%s[-::-]", entry.Colour.String(), attrs, text)
		} else {
			fmt.Fprintf(&buf, "[%s]%s[-]", entry.Colour.String(), text)
		}
	}

	return strings.TrimRight(buf.String(), "\n") + "\n" + fence
}

// renderInline processes inline formatting outside code blocks.
func renderInline(text string, names Names, colors Colors) string {
	var placeholders []string
	hold := func(rendered string) string {
		idx := len(placeholders)
		placeholders = append(placeholders, rendered)
		return fmt.Sprintf("%s%d%s", placeholderPrefix, idx, placeholderSuffix)
	}

	// Tokens first so their ids are not mistaken for formatting.
	text = tokenRe.ReplaceAllStringFunc(text, func(match string) string {
		return hold(renderToken(match, names, colors))
	})

	text = tview.Escape(text)

	codeReset := resetFor(colors.InlineCode)
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(match string) string {
		return hold(colors.InlineCode + match + codeReset)
	})

	text = renderBlockquotes(text, colors)

	text = boldRe.ReplaceAllString(text, "[::b]$1[::-]")
	text = underlineRe.ReplaceAllString(text, "[::u]$1[::-]")
	text = italicRe.ReplaceAllString(text, "[::i]$1$2[::-]")
	text = strikeRe.ReplaceAllString(text, "[::s]$1[::-]")
	text = specialRe.ReplaceAllString(text, colors.SpecialMention+"@$1"+resetFor(colors.SpecialMention))

	text = emojiRe.ReplaceAllStringFunc(text, func(match string) string {
		return lookupEmoji(match[1 : len(match)-1])
	})

	for i, p := range placeholders {
		text = strings.Replace(text, fmt.Sprintf("%s%d%s", placeholderPrefix, i, placeholderSuffix), p, 1)
	}
	return text
}

// renderBlockquotes converts lines starting with "> " to styled blockquotes.
func renderBlockquotes(text string, colors Colors) string {
	mark := colors.BlockquoteMark + "▎" + resetFor(colors.BlockquoteMark)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(stripped, "> "):
			lines[i] = mark + " " + stripped[2:]
		case stripped == ">":
			lines[i] = mark
		}
	}
	return strings.Join(lines, "\n")
}

// renderToken styles a single angle-bracket token.
func renderToken(match string, names Names, colors Colors) string {
	plain := resolveToken(match, names)
	switch {
	case strings.HasPrefix(match, "<#"):
		return colors.ChannelMention + tview.Escape(plain) + resetFor(colors.ChannelMention)
	case strings.HasPrefix(match, "<@"):
		return colors.UserMention + tview.Escape(plain) + resetFor(colors.UserMention)
	default:
		return colors.CustomEmoji + tview.Escape(plain) + resetFor(colors.CustomEmoji)
	}
}

// resolveTokens replaces every angle-bracket token with readable text.
func resolveTokens(text string, names Names) string {
	return tokenRe.ReplaceAllStringFunc(text, func(match string) string {
		return resolveToken(match, names)
	})
}

// resolveToken converts one token: users and channels by name when known,
// roles as @role, custom emojis as :name:.
func resolveToken(match string, names Names) string {
	sub := tokenRe.FindStringSubmatch(match)
	kind, id := sub[1], sub[2]
	switch {
	case kind == "#":
		if n, ok := names.Channels[id]; ok {
			return "#" + n
		}
		return "#" + id
	case kind == "@&":
		return "@role"
	case strings.HasPrefix(kind, "@"):
		if n, ok := names.Users[id]; ok {
			return "@" + n
		}
		return "@" + id
	default:
		// a:name: or :name:
		return ":" + strings.Trim(strings.TrimPrefix(kind, "a"), ":") + ":"
	}
}
