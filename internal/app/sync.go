package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m96-chan/rivet/internal/model"
	"github.com/m96-chan/rivet/internal/notifications"
)

// runSync loads the server list once, then refreshes the open conversation
// every sync interval until ctx is cancelled.
func (a *App) runSync(ctx context.Context) {
	a.loadServers(ctx)

	ticker := time.NewTicker(a.Config.SyncInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

// loadServers is the one-time startup fetch. A failure is reported and not
// retried.
func (a *App) loadServers(ctx context.Context) {
	servers, err := a.gw.Servers(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("failed to fetch servers", "error", err)
		a.setStatus(fmt.Sprintf("Failed to load servers. %v", err))
		return
	}

	slog.Info("servers loaded", "count", len(servers))
	a.shared.SetServers(servers, statusServers)
	a.requestRedraw()
}

// poll fetches the newest page of the open conversation and routes it
// through the dispatcher. Nothing happens outside a conversation.
func (a *App) poll(ctx context.Context) {
	conv, ok := a.shared.Current().(Conversing)
	if !ok {
		return
	}

	msgs, err := a.gw.Messages(ctx, conv.ChannelID, model.MessageQuery{Limit: a.Config.MessagesLimit})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("failed to fetch messages", "channel", conv.ChannelID, "error", err)
		a.setStatus(fmt.Sprintf("Error loading chat: %v", err))
		return
	}

	if err := a.cache.Put(conv.ChannelID, msgs); err != nil {
		slog.Warn("failed to cache messages", "channel", conv.ChannelID, "error", err)
	}
	a.maybeNotify(ctx, conv.ChannelID, msgs)
	a.send(MessagesUpdated{ChannelID: conv.ChannelID, Messages: msgs})
}

// maybeNotify raises a desktop notification for new messages that mention
// the current user. The first page seen for a channel is only a baseline.
func (a *App) maybeNotify(ctx context.Context, channelID string, msgs []model.Message) {
	if a.notifier == nil || len(msgs) == 0 {
		return
	}

	prev, seen := a.newest[channelID]
	a.newest[channelID] = msgs[0].ID
	if !seen {
		return
	}

	if a.selfID == "" {
		id, err := a.gw.SelfID(ctx)
		if err != nil {
			slog.Debug("cannot resolve current user for notifications", "error", err)
			return
		}
		a.selfID = id
	}

	kind, _ := a.shared.channelKind(channelID)
	isDM := kind == model.KindDM || kind == model.KindGroupDM

	users := make(map[string]string, len(msgs))
	for _, m := range msgs {
		users[m.Author.ID] = m.Author.Username
	}

	for _, m := range msgs {
		if !newerThan(m.ID, prev) {
			break
		}
		if m.Author.ID == a.selfID {
			continue
		}

		mention := notifications.DetectMention(m.Content, a.selfID, isDM)
		if mention == notifications.MentionNone {
			continue
		}

		var title string
		switch mention {
		case notifications.MentionDM:
			title = fmt.Sprintf("DM from %s", m.Author.Username)
		case notifications.MentionDirect:
			title = fmt.Sprintf("%s mentioned you", m.Author.Username)
		default:
			title = fmt.Sprintf("%s in channel", m.Author.Username)
		}
		a.notifier.Send(title, notifications.StripMarkdown(m.Content, users))
		return
	}
}

// newerThan compares snowflake ids, which grow with creation time.
func newerThan(id, than string) bool {
	if len(id) != len(than) {
		return len(id) > len(than)
	}
	return id > than
}
