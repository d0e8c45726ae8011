// Package ui draws application snapshots onto a terminal screen. tview
// primitives are used for layout and drawing only; input is handled by the
// app package, so no tview.Application is started.
package ui

import (
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/rivet/internal/app"
	"github.com/m96-chan/rivet/internal/config"
	"github.com/m96-chan/rivet/internal/markdown"
	"github.com/m96-chan/rivet/internal/model"
)

const nonText = "(*non-text*)"

// View is the two-pane layout: a primary pane showing servers, channels or
// messages, and a single-line input pane titled with the status text.
//
// Layout:
//
//	Flex (FlexRow)
//	├── primary (proportional): List or Messages
//	└── Input (fixed 3 rows)
type View struct {
	screen tcell.Screen
	cfg    *config.Config
	emoji  *markdown.Dictionary
	colors markdown.Colors

	List     *tview.List
	Messages *tview.TextView
	Input    *tview.TextView

	width, height int
}

// New creates a view drawing onto screen.
func New(screen tcell.Screen, cfg *config.Config, emoji *markdown.Dictionary) *View {
	v := &View{
		screen: screen,
		cfg:    cfg,
		emoji:  emoji,
		colors: colorsFromTheme(cfg.Theme.Markdown),
	}

	v.List = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	v.List.SetBorder(true)

	v.Messages = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	v.Messages.SetBorder(true)

	v.Input = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	v.Input.SetBorder(true)

	v.applyTheme()
	return v
}

func colorsFromTheme(t config.MarkdownTheme) markdown.Colors {
	return markdown.Colors{
		UserMention:    t.UserMention.Tag(),
		ChannelMention: t.ChannelMention.Tag(),
		SpecialMention: t.SpecialMention.Tag(),
		CustomEmoji:    t.CustomEmoji.Tag(),
		InlineCode:     t.InlineCode.Tag(),
		CodeFence:      t.CodeFence.Tag(),
		BlockquoteMark: t.BlockquoteMark.Tag(),
	}
}

// applyTheme sets border, title and list colors from the config theme.
func (v *View) applyTheme() {
	th := v.cfg.Theme
	borderFg, _, _ := th.Border.Style.Decompose()
	titleFg, _, _ := th.Title.Style.Decompose()
	inputFg, _, _ := th.Input.Style.Decompose()

	boxes := []interface {
		SetBorderColor(tcell.Color) *tview.Box
		SetTitleColor(tcell.Color) *tview.Box
	}{v.List, v.Messages, v.Input}
	for _, box := range boxes {
		box.SetBorderColor(borderFg)
		box.SetTitleColor(titleFg)
	}

	v.List.SetMainTextStyle(th.Input.Style)
	v.List.SetSelectedStyle(th.Selected.Style)
	v.Input.SetTextColor(inputFg)
}

// Draw renders snap to the screen. It is called once per dispatch cycle.
func (v *View) Draw(snap app.Snapshot) {
	w, h := v.screen.Size()
	if w != v.width || h != v.height {
		v.width, v.height = w, h
		v.screen.Sync()
	}
	v.screen.Clear()

	var primary tview.Primitive
	switch st := snap.State.(type) {
	case app.SelectingServer:
		v.fillServers(snap)
		primary = v.List
	case app.SelectingChannel:
		v.fillChannels(snap, st.ServerID)
		primary = v.List
	case app.Conversing:
		v.fillMessages(snap, st.ChannelID)
		primary = v.Messages
	default:
		return
	}
	v.fillInput(snap)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(primary, 0, 1, false).
		AddItem(v.Input, 3, 0, false)
	layout.SetRect(0, 0, w, h)
	layout.Draw(v.screen)

	v.placeCursor(snap)
	v.screen.Show()
}

func (v *View) fillServers(snap app.Snapshot) {
	v.List.Clear()
	v.List.SetTitle(" Servers ")
	for _, s := range snap.Servers {
		v.List.AddItem(tview.Escape(s.Name), "", 0, nil)
	}
	if len(snap.Servers) > 0 {
		v.List.SetCurrentItem(snap.Selection)
	}
}

func (v *View) fillChannels(snap app.Snapshot, serverID string) {
	v.List.Clear()
	name := snap.ServerName
	if name == "" {
		name = serverID
	}
	v.List.SetTitle(" " + tview.Escape(name) + " ")
	for _, ch := range snap.Channels {
		v.List.AddItem("# "+tview.Escape(ch.Name), "", 0, nil)
	}
	if len(snap.Channels) > 0 {
		v.List.SetCurrentItem(snap.Selection)
	}
}

// fillMessages writes the conversation oldest first and scrolls to the end
// so the newest message sits at the bottom and only what fits is shown.
func (v *View) fillMessages(snap app.Snapshot, channelID string) {
	title := snap.ChannelName
	if title == "" {
		title = channelID
	}
	v.Messages.SetTitle(" #" + tview.Escape(title) + " ")

	names := markdown.Names{
		Users:    make(map[string]string),
		Channels: make(map[string]string, len(snap.Channels)),
	}
	for _, m := range snap.Messages {
		names.Users[m.Author.ID] = m.Author.Username
	}
	for _, ch := range snap.Channels {
		names.Channels[ch.ID] = ch.Name
	}

	var b strings.Builder
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		b.WriteString(v.formatMessage(snap.Messages[i], names))
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	v.Messages.SetText(b.String())
	v.Messages.ScrollToEnd()
}

// formatMessage renders "[HH:MM:SS] author: content".
func (v *View) formatMessage(m model.Message, names markdown.Names) string {
	th := v.cfg.Theme
	var b strings.Builder

	if v.cfg.Timestamps.Enabled && !m.Timestamp.IsZero() {
		ts := m.Timestamp.In(time.Local).Format(v.cfg.Timestamps.Format)
		b.WriteString(th.Timestamp.Tag())
		b.WriteString(tview.Escape("[" + ts + "]"))
		b.WriteString(th.Timestamp.Reset())
		b.WriteByte(' ')
	}

	b.WriteString(th.Author.Tag())
	b.WriteString(tview.Escape(m.Author.Username))
	b.WriteString(th.Author.Reset())
	b.WriteString(": ")

	if m.Content == "" {
		b.WriteString(nonText)
	} else {
		b.WriteString(markdown.Render(m.Content, names, v.cfg.Markdown.Enabled, v.cfg.Markdown.SyntaxTheme, v.colors))
	}
	return b.String()
}

// fillInput shows the input buffer while conversing and the status line as
// the pane title, followed by emoji suggestions when a shortcode is being
// typed.
func (v *View) fillInput(snap app.Snapshot) {
	title := snap.Status
	if _, ok := snap.State.(app.Conversing); ok {
		if s := v.suggestions(snap); len(s) > 0 {
			title = strings.Join(s, " ")
		}
		v.Input.SetText(tview.Escape(v.visibleInput(snap.Input)))
	} else {
		v.Input.SetText("")
	}
	v.Input.SetTitle(" " + tview.Escape(title) + " ")
}

func (v *View) suggestions(snap app.Snapshot) []string {
	if v.emoji == nil || v.cfg.Emoji.Suggestions <= 0 {
		return nil
	}
	partial, ok := markdown.PendingShortcode(snap.Input)
	if !ok {
		return nil
	}
	return v.emoji.Suggest(partial, v.cfg.Emoji.Suggestions, snap.EmojiNames)
}

// visibleInput keeps the tail of the buffer that fits the input pane.
func (v *View) visibleInput(input string) string {
	width := v.width - 2
	runes := []rune(input)
	for len(runes) > 0 && tview.TaggedStringWidth(tview.Escape(string(runes))) >= width {
		runes = runes[1:]
	}
	return string(runes)
}

func (v *View) placeCursor(snap app.Snapshot) {
	if _, ok := snap.State.(app.Conversing); !ok {
		v.screen.HideCursor()
		return
	}
	x, y, _, _ := v.Input.GetInnerRect()
	shown := tview.Escape(v.visibleInput(snap.Input))
	v.screen.ShowCursor(x+tview.TaggedStringWidth(shown), y)
}
