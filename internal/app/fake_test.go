package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/m96-chan/rivet/internal/config"
	"github.com/m96-chan/rivet/internal/model"
)

var errBoom = errors.New("boom")

type post struct {
	channelID string
	content   string
}

// fakeGateway serves canned data and records posts.
type fakeGateway struct {
	mu sync.Mutex

	servers    []model.Server
	serversErr error
	channels   map[string][]model.Channel
	channel    map[string]*model.Channel
	channelErr error
	messages   map[string][]model.Message
	msgErr     error
	perms      *model.PermissionContext
	emojis     []model.Emoji
	posts      []post
}

func (g *fakeGateway) SelfID(context.Context) (string, error) { return "me", nil }

func (g *fakeGateway) Servers(context.Context) ([]model.Server, error) {
	return g.servers, g.serversErr
}

func (g *fakeGateway) Channels(_ context.Context, serverID string) ([]model.Channel, error) {
	chs, ok := g.channels[serverID]
	if !ok {
		return nil, errBoom
	}
	return chs, nil
}

func (g *fakeGateway) Channel(_ context.Context, channelID string) (*model.Channel, error) {
	if g.channelErr != nil {
		return nil, g.channelErr
	}
	ch, ok := g.channel[channelID]
	if !ok {
		return nil, errBoom
	}
	return ch, nil
}

func (g *fakeGateway) Messages(_ context.Context, channelID string, _ model.MessageQuery) ([]model.Message, error) {
	if g.msgErr != nil {
		return nil, g.msgErr
	}
	return g.messages[channelID], nil
}

func (g *fakeGateway) PostMessage(_ context.Context, channelID, content string, _ bool) (*model.Message, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.posts = append(g.posts, post{channelID, content})
	return &model.Message{ChannelID: channelID, Content: content}, nil
}

func (g *fakeGateway) PermissionContext(context.Context, string) (*model.PermissionContext, error) {
	if g.perms == nil {
		return nil, errBoom
	}
	return g.perms, nil
}

func (g *fakeGateway) Emojis(context.Context, string) ([]model.Emoji, error) {
	return g.emojis, nil
}

func (g *fakeGateway) postsCopy() []post {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]post(nil), g.posts...)
}

// fakeRenderer records every snapshot it is asked to draw.
type fakeRenderer struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *fakeRenderer) Draw(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{MessagesLimit: 100, SyncIntervalMS: 1000}
	cfg.Emoji.File = filepath.Join(t.TempDir(), "emojis.json")
	cfg.Keybinds = config.Keybinds{
		Quit:           "Ctrl+C",
		Submit:         "Enter",
		Escape:         "Esc",
		SelectNext:     "Down",
		SelectPrevious: "Up",
	}
	return cfg
}

func newTestApp(t *testing.T, gw *fakeGateway) *App {
	t.Helper()
	a := New(testConfig(t), gw, &fakeRenderer{}, nil, nil)
	t.Cleanup(func() {
		a.cancel()
		a.awaitDetached(time.Second)
	})
	return a
}

// nextAction waits for the next action sent by detached work.
func nextAction(t *testing.T, a *App) Action {
	t.Helper()
	select {
	case act := <-a.actions:
		return act
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for action")
		return nil
	}
}

func setState(a *App, st State) {
	a.shared.mu.Lock()
	a.shared.state = st
	a.shared.mu.Unlock()
}
