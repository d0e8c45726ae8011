package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/m96-chan/rivet/internal/model"
)

func convertServers(in []*discordgo.UserGuild) []model.Server {
	out := make([]model.Server, 0, len(in))
	for _, g := range in {
		if g == nil {
			continue
		}
		out = append(out, model.Server{ID: g.ID, Name: g.Name})
	}
	return out
}

func convertChannels(in []*discordgo.Channel) []model.Channel {
	out := make([]model.Channel, 0, len(in))
	for _, ch := range in {
		if ch == nil {
			continue
		}
		out = append(out, convertChannel(ch))
	}
	return out
}

func convertChannel(ch *discordgo.Channel) model.Channel {
	out := model.Channel{
		ID:       ch.ID,
		Name:     ch.Name,
		Kind:     model.ChannelKind(ch.Type),
		ServerID: ch.GuildID,
	}
	for _, ow := range ch.PermissionOverwrites {
		if ow == nil {
			continue
		}
		// discordgo has already parsed the bitmasks; keep them in the
		// string form the resolver expects.
		out.Overwrites = append(out.Overwrites, model.Overwrite{
			SubjectID:   ow.ID,
			SubjectKind: model.OverwriteKind(ow.Type),
			Allow:       strconv.FormatInt(ow.Allow, 10),
			Deny:        strconv.FormatInt(ow.Deny, 10),
		})
	}
	return out
}

func convertRoles(in []*discordgo.Role) []model.Role {
	out := make([]model.Role, 0, len(in))
	for _, r := range in {
		if r == nil {
			continue
		}
		out = append(out, model.Role{
			ID:          r.ID,
			Name:        r.Name,
			Permissions: strconv.FormatInt(r.Permissions, 10),
		})
	}
	return out
}

func convertMessages(in []*discordgo.Message) []model.Message {
	out := make([]model.Message, 0, len(in))
	for _, m := range in {
		if m == nil {
			continue
		}
		out = append(out, convertMessage(m))
	}
	return out
}

func convertMessage(m *discordgo.Message) model.Message {
	out := model.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		out.Author = model.Author{ID: m.Author.ID, Username: m.Author.Username}
	}
	return out
}

func convertEmojis(in []*discordgo.Emoji) []model.Emoji {
	out := make([]model.Emoji, 0, len(in))
	for _, e := range in {
		if e == nil || e.ID == "" {
			continue
		}
		out = append(out, model.Emoji{ID: e.ID, Name: e.Name, Animated: e.Animated})
	}
	return out
}
