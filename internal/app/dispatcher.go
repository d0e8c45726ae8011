package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m96-chan/rivet/internal/model"
)

// dispatch applies one action to the shared state. It reports true when
// the loop should stop. Remote calls are never made here; they run as
// detached work that reports back through new actions.
func (a *App) dispatch(act Action) bool {
	s := a.shared
	s.mu.Lock()
	defer s.mu.Unlock()

	switch act := act.(type) {
	case Quit:
		return true

	case Escape:
		switch st := s.state.(type) {
		case SelectingServer:
			return true
		case SelectingChannel:
			s.state = SelectingServer{}
			s.selection = 0
			s.status = statusServers
		case Conversing:
			channelID := st.ChannelID
			a.spawn(func(ctx context.Context) { a.leaveConversation(ctx, channelID) })
		}

	case CharInput:
		if _, ok := s.state.(Conversing); ok {
			s.input = append(s.input, act.Char)
		}

	case Backspace:
		if n := len(s.input); n > 0 {
			s.input = s.input[:n-1]
		}

	case Submit:
		a.submit()

	case SelectNext:
		if n := s.listLen(); n > 0 {
			s.selection = (s.selection + 1) % n
		}

	case SelectPrevious:
		if n := s.listLen(); n > 0 {
			s.selection = (s.selection + n - 1) % n
		}

	case MessagesUpdated:
		conv, ok := s.state.(Conversing)
		if act.ChannelID != "" && (!ok || conv.ChannelID != act.ChannelID) {
			slog.Debug("dropping messages for inactive channel", "channel", act.ChannelID)
			break
		}
		if act.Cached && len(s.messages) > 0 {
			break
		}
		s.messages = act.Messages

	case ChannelsUpdated:
		s.channels = act.Channels
		s.perms = act.Perms
		s.selection = 0
		if len(s.selectable()) > 0 {
			s.status = statusLoaded
		} else {
			s.status = statusNoText
		}

	case TransitionToChannelList:
		s.state = SelectingChannel{ServerID: act.ServerID}
		s.selection = 0
		s.status = statusChannels

	case TransitionToConversation:
		a.enterConversation(act.ChannelID)

	case TransitionToServerList:
		s.state = SelectingServer{}
		s.selection = 0
		s.status = statusServers

	case EmojisUpdated:
		s.emojis = make(map[string]string, len(act.Emojis))
		for _, e := range act.Emojis {
			s.emojis[e.Name] = e.Markup()
		}

	default:
		slog.Warn("unhandled action", "action", fmt.Sprintf("%T", act))
	}
	return false
}

// submit handles Enter for the active state. Callers hold mu.
func (a *App) submit() {
	s := a.shared
	switch st := s.state.(type) {
	case SelectingServer:
		if len(s.servers) == 0 {
			return
		}
		serverID := s.servers[min(s.selection, len(s.servers)-1)].ID
		s.status = "Loading channels..."
		a.spawn(func(ctx context.Context) { _ = a.loadServer(ctx, serverID) })

	case SelectingChannel:
		list := s.selectable()
		if len(list) == 0 {
			return
		}
		a.enterConversation(list[min(s.selection, len(list)-1)].ID)

	case Conversing:
		if len(s.input) == 0 {
			return
		}
		text := a.emoji.Expand(string(s.input), s.emojis)
		s.input = s.input[:0]
		channelID := st.ChannelID
		a.spawn(func(ctx context.Context) { a.post(ctx, channelID, text) })
	}
}

// enterConversation switches to a channel. Messages from the previous
// conversation are dropped so they are never drawn against the new one.
// Callers hold mu.
func (a *App) enterConversation(channelID string) {
	s := a.shared
	s.state = Conversing{ChannelID: channelID}
	s.selection = 0
	s.messages = nil
	s.status = statusChatting
	a.spawn(func(ctx context.Context) { a.openConversation(ctx, channelID) })
}

// loadServer fetches a server's channels and emits channels-updated then
// transition-to-channel-list, in that order, followed by the server's
// custom emojis. Roles are best effort: without them the list is filtered
// by kind only. The returned error reports a failed channel fetch, in
// which case nothing was sent.
func (a *App) loadServer(ctx context.Context, serverID string) error {
	channels, err := a.gw.Channels(ctx, serverID)
	if err != nil {
		slog.Error("failed to fetch channels", "server", serverID, "error", err)
		a.setStatus(fmt.Sprintf("Failed to load channels. %v", err))
		return err
	}

	perms, err := a.gw.PermissionContext(ctx, serverID)
	if err != nil {
		slog.Warn("failed to resolve permissions, showing all channels", "server", serverID, "error", err)
		perms = nil
	}

	if !a.send(ChannelsUpdated{Channels: channels, Perms: perms}) {
		return nil
	}
	if !a.send(TransitionToChannelList{ServerID: serverID}) {
		return nil
	}

	emojis, err := a.gw.Emojis(ctx, serverID)
	if err != nil {
		slog.Warn("failed to fetch emojis", "server", serverID, "error", err)
		return nil
	}
	a.send(EmojisUpdated{ServerID: serverID, Emojis: emojis})
	return nil
}

// leaveConversation finds the channel's parent server and returns to its
// channel list, or to the server list when it has none. A failed channel
// refetch still leaves the conversation, keeping the last known list.
func (a *App) leaveConversation(ctx context.Context, channelID string) {
	ch, err := a.gw.Channel(ctx, channelID)
	if err != nil {
		slog.Error("failed to look up channel", "channel", channelID, "error", err)
		a.setStatus(fmt.Sprintf("Failed to load channel. %v", err))
		a.send(TransitionToServerList{})
		return
	}
	if ch.ServerID == "" {
		a.send(TransitionToServerList{})
		return
	}
	if err := a.loadServer(ctx, ch.ServerID); err != nil {
		a.send(TransitionToChannelList{ServerID: ch.ServerID})
	}
}

// openConversation shows the cached page, if any, then fetches a fresh one.
func (a *App) openConversation(ctx context.Context, channelID string) {
	if msgs, ok := a.cache.Load(channelID); ok {
		if !a.send(MessagesUpdated{ChannelID: channelID, Messages: msgs, Cached: true}) {
			return
		}
	}

	msgs, err := a.gw.Messages(ctx, channelID, model.MessageQuery{Limit: a.Config.MessagesLimit})
	if err != nil {
		slog.Error("failed to fetch messages", "channel", channelID, "error", err)
		a.setStatus(fmt.Sprintf("Error loading chat: %v", err))
		return
	}
	if err := a.cache.Put(channelID, msgs); err != nil {
		slog.Warn("failed to cache messages", "channel", channelID, "error", err)
	}
	a.send(MessagesUpdated{ChannelID: channelID, Messages: msgs})
}

// post sends a message. Failures are logged only.
func (a *App) post(ctx context.Context, channelID, text string) {
	if _, err := a.gw.PostMessage(ctx, channelID, text, false); err != nil {
		slog.Error("failed to send message", "channel", channelID, "error", err)
	}
}
