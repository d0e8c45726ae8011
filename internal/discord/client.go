package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/m96-chan/rivet/internal/model"
)

// maxServers is the page size the remote allows for the server list.
const maxServers = 200

// Client is a thin wrapper around the discordgo REST session with
// rate-limit retry, context propagation, and a cached self identity.
type Client struct {
	api *discordgo.Session

	mu     sync.Mutex
	selfID string
}

// New creates a Client for the given token. No request is made until the
// first call.
func New(token string) (*Client, error) {
	api, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	// Rate limits surface as *discordgo.RateLimitError so retryOnRateLimit
	// can honor the context while waiting.
	api.ShouldRetryOnRateLimit = false
	return &Client{api: api}, nil
}

// retryOnRateLimit executes fn and, if a RateLimitError is returned,
// waits for the requested duration and retries once.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	var rle *discordgo.RateLimitError
	if errors.As(err, &rle) && rle.RateLimit != nil && rle.TooManyRequests != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rle.RetryAfter):
		}
		return fn()
	}
	return err
}

// SelfID returns the id of the authenticated user.
func (c *Client) SelfID(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.selfID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}

	var u *discordgo.User
	err := retryOnRateLimit(ctx, func() error {
		var e error
		u, e = c.api.User("@me", discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return "", fmt.Errorf("fetching current user: %w", err)
	}

	c.mu.Lock()
	c.selfID = u.ID
	c.mu.Unlock()
	return u.ID, nil
}

// Servers returns the servers the user belongs to.
func (c *Client) Servers(ctx context.Context) ([]model.Server, error) {
	var guilds []*discordgo.UserGuild
	err := retryOnRateLimit(ctx, func() error {
		var e error
		guilds, e = c.api.UserGuilds(maxServers, "", "", false, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching servers: %w", err)
	}
	return convertServers(guilds), nil
}

// Channels returns every channel of a server.
func (c *Client) Channels(ctx context.Context, serverID string) ([]model.Channel, error) {
	var chans []*discordgo.Channel
	err := retryOnRateLimit(ctx, func() error {
		var e error
		chans, e = c.api.GuildChannels(serverID, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching channels of %s: %w", serverID, err)
	}
	return convertChannels(chans), nil
}

// Channel returns a single channel, used to find its parent server.
func (c *Client) Channel(ctx context.Context, channelID string) (*model.Channel, error) {
	var ch *discordgo.Channel
	err := retryOnRateLimit(ctx, func() error {
		var e error
		ch, e = c.api.Channel(channelID, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", channelID, err)
	}
	out := convertChannel(ch)
	return &out, nil
}

// Messages returns a page of channel history, newest first.
func (c *Client) Messages(ctx context.Context, channelID string, q model.MessageQuery) ([]model.Message, error) {
	var msgs []*discordgo.Message
	err := retryOnRateLimit(ctx, func() error {
		var e error
		msgs, e = c.api.ChannelMessages(channelID, q.Limit, q.Before, q.After, q.Around, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching messages of %s: %w", channelID, err)
	}
	return convertMessages(msgs), nil
}

// PostMessage sends content to a channel. tts asks clients to read it aloud.
func (c *Client) PostMessage(ctx context.Context, channelID, content string, tts bool) (*model.Message, error) {
	var msg *discordgo.Message
	err := retryOnRateLimit(ctx, func() error {
		var e error
		msg, e = c.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: content,
			TTS:     tts,
		}, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", channelID, err)
	}
	out := convertMessage(msg)
	return &out, nil
}

// PermissionContext gathers the roles needed to resolve channel visibility
// for the current user in a server.
func (c *Client) PermissionContext(ctx context.Context, serverID string) (*model.PermissionContext, error) {
	selfID, err := c.SelfID(ctx)
	if err != nil {
		return nil, err
	}

	var roles []*discordgo.Role
	err = retryOnRateLimit(ctx, func() error {
		var e error
		roles, e = c.api.GuildRoles(serverID, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching roles of %s: %w", serverID, err)
	}

	var member *discordgo.Member
	err = retryOnRateLimit(ctx, func() error {
		var e error
		member, e = c.api.GuildMember(serverID, selfID, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching membership in %s: %w", serverID, err)
	}

	return &model.PermissionContext{
		UserID:  selfID,
		RoleIDs: append([]string(nil), member.Roles...),
		Roles:   convertRoles(roles),
		// The default role shares the server's id.
		DefaultRoleID: serverID,
	}, nil
}

// Emojis returns a server's custom emojis.
func (c *Client) Emojis(ctx context.Context, serverID string) ([]model.Emoji, error) {
	var emojis []*discordgo.Emoji
	err := retryOnRateLimit(ctx, func() error {
		var e error
		emojis, e = c.api.GuildEmojis(serverID, discordgo.WithContext(ctx))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("fetching emojis of %s: %w", serverID, err)
	}
	return convertEmojis(emojis), nil
}
