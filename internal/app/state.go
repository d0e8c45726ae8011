package app

import (
	"slices"
	"sync"

	"github.com/m96-chan/rivet/internal/model"
	"github.com/m96-chan/rivet/internal/permissions"
)

// State is the screen the user is on. Exactly one variant is active.
type State interface {
	isState()
}

// SelectingServer is the server list. It is the initial state.
type SelectingServer struct{}

// SelectingChannel browses the channels of one server.
type SelectingChannel struct {
	ServerID string
}

// Conversing shows and posts to one channel.
type Conversing struct {
	ChannelID string
}

func (SelectingServer) isState()  {}
func (SelectingChannel) isState() {}
func (Conversing) isState()       {}

const (
	statusServers  = "Select a server. Use arrows to navigate, Enter to select & Esc to quit"
	statusChannels = "Select a channel. Use arrows to navigate, Enter to select & Esc to return to servers"
	statusLoaded   = "Channels loaded. Select one to chat. (Esc to return to servers)"
	statusNoText   = "No text channels found. (Esc to return to servers)"
	statusChatting = "Chatting..."
)

// Shared is the single guarded application snapshot. Every field is read
// and written with mu held; no I/O happens under the lock.
type Shared struct {
	mu sync.Mutex

	state     State
	servers   []model.Server
	channels  []model.Channel
	perms     *model.PermissionContext
	messages  []model.Message
	input     []rune
	selection int
	status    string

	emojis map[string]string // name → message markup
}

// NewShared returns the state shown at startup.
func NewShared() *Shared {
	return &Shared{
		state:  SelectingServer{},
		status: "Loading servers...",
	}
}

// Snapshot is an immutable copy of Shared for the renderer.
type Snapshot struct {
	State     State
	Servers   []model.Server
	Channels  []model.Channel // selectable channels only
	Messages  []model.Message // newest first
	Input     string
	Selection int
	Status    string

	// ServerName and ChannelName label the active server and conversation
	// when known.
	ServerName  string
	ChannelName string

	// EmojiNames are the custom emoji names of the loaded server.
	EmojiNames []string
}

// Snapshot copies the current state.
func (s *Shared) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state,
		Servers:   append([]model.Server(nil), s.servers...),
		Channels:  s.selectable(),
		Messages:  append([]model.Message(nil), s.messages...),
		Input:     string(s.input),
		Selection: s.selection,
		Status:    s.status,
	}

	switch st := s.state.(type) {
	case SelectingChannel:
		snap.ServerName = s.serverName(st.ServerID)
	case Conversing:
		for _, ch := range s.channels {
			if ch.ID == st.ChannelID {
				snap.ChannelName = ch.Name
				snap.ServerName = s.serverName(ch.ServerID)
				break
			}
		}
	}

	for name := range s.emojis {
		snap.EmojiNames = append(snap.EmojiNames, name)
	}
	slices.Sort(snap.EmojiNames)
	return snap
}

// Current returns the active state variant.
func (s *Shared) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetStatus replaces the status line.
func (s *Shared) SetStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

// SetServers stores the result of the startup server fetch.
func (s *Shared) SetServers(servers []model.Server, status string) {
	s.mu.Lock()
	s.servers = servers
	s.status = status
	if _, ok := s.state.(SelectingServer); ok {
		s.selection = 0
	}
	s.mu.Unlock()
}

// channelKind returns the kind of a loaded channel.
func (s *Shared) channelKind(id string) (model.ChannelKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels {
		if ch.ID == id {
			return ch.Kind, true
		}
	}
	return 0, false
}

func (s *Shared) serverName(id string) string {
	for _, srv := range s.servers {
		if srv.ID == id {
			return srv.Name
		}
	}
	return ""
}

// selectable returns the channels that can be opened: visible to the user,
// not a category and not voice. Without a permission context only the kind
// filter applies.
func (s *Shared) selectable() []model.Channel {
	return selectableChannels(s.channels, s.perms)
}

func selectableChannels(channels []model.Channel, perms *model.PermissionContext) []model.Channel {
	out := make([]model.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Kind == model.KindCategory || ch.Kind.IsVoice() {
			continue
		}
		if perms != nil && !permissions.IsVisible(ch, *perms) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// listLen is the length of the list the selection index points into.
// Callers hold mu.
func (s *Shared) listLen() int {
	switch s.state.(type) {
	case SelectingServer:
		return len(s.servers)
	case SelectingChannel:
		return len(s.selectable())
	default:
		return 0
	}
}
