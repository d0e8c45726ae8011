package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/m96-chan/rivet/internal/cache"
	"github.com/m96-chan/rivet/internal/config"
	"github.com/m96-chan/rivet/internal/markdown"
	"github.com/m96-chan/rivet/internal/model"
	"github.com/m96-chan/rivet/internal/notifications"
)

// detachedGrace bounds how long shutdown waits for in-flight remote calls.
const detachedGrace = 2 * time.Second

// Gateway is the remote chat API. Implementations return typed errors and
// never panic.
type Gateway interface {
	SelfID(ctx context.Context) (string, error)
	Servers(ctx context.Context) ([]model.Server, error)
	Channels(ctx context.Context, serverID string) ([]model.Channel, error)
	Channel(ctx context.Context, channelID string) (*model.Channel, error)
	Messages(ctx context.Context, channelID string, q model.MessageQuery) ([]model.Message, error)
	PostMessage(ctx context.Context, channelID, content string, tts bool) (*model.Message, error)
	PermissionContext(ctx context.Context, serverID string) (*model.PermissionContext, error)
	Emojis(ctx context.Context, serverID string) ([]model.Emoji, error)
}

// Renderer draws a snapshot. It must not mutate application state.
type Renderer interface {
	Draw(Snapshot)
}

// App is the top-level application struct. It owns the action channel and
// the shared state, and runs the input, sync and render/dispatch loops.
type App struct {
	Config *config.Config

	gw       Gateway
	renderer Renderer
	events   <-chan tcell.Event
	shared   *Shared
	cache    *cache.Store
	emoji    *markdown.Dictionary
	notifier *notifications.Notifier

	actions chan Action
	redraw  chan struct{}

	// ctx is cancelled once at shutdown; sends to actions give up when it is.
	ctx    context.Context
	cancel context.CancelFunc

	detached sync.WaitGroup

	// Owned by the sync task.
	selfID string
	newest map[string]string // channel → newest seen message id
}

// New creates a new App. events delivers terminal events, typically fed by
// tcell.Screen.ChannelEvents. A nil dict is loaded from cfg.Emoji.File.
func New(cfg *config.Config, gw Gateway, r Renderer, events <-chan tcell.Event, dict *markdown.Dictionary) *App {
	if dict == nil {
		dict = markdown.LoadDictionary(cfg.Emoji.File)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config:   cfg,
		gw:       gw,
		renderer: r,
		events:   events,
		shared:   NewShared(),
		emoji:    dict,
		actions:  make(chan Action, 64),
		redraw:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		newest:   make(map[string]string),
	}
	if cfg.Cache.Enabled {
		a.cache = cache.New(cfg.Cache.Dir, cfg.Cache.MaxBytes)
	}
	if cfg.Notifications.Enabled {
		a.notifier = notifications.New()
	}
	return a
}

// Run starts the input and sync tasks and runs the render/dispatch loop
// until quit, escape on the server list, or ctx is cancelled. It returns
// after both tasks have stopped and detached work has drained or timed out.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, a.cancel)
	defer stop()
	defer a.cancel()

	var tasks sync.WaitGroup
	tasks.Add(2)
	go func() {
		defer tasks.Done()
		a.runInput(a.ctx)
	}()
	go func() {
		defer tasks.Done()
		a.runSync(a.ctx)
	}()

	a.loop()

	a.cancel()
	tasks.Wait()
	a.awaitDetached(detachedGrace)
	slog.Info("shutdown complete")
	return nil
}

// loop draws the current snapshot, waits for the next action and applies
// it. The screen never shows a partially applied transition.
func (a *App) loop() {
	for {
		a.renderer.Draw(a.shared.Snapshot())

		select {
		case <-a.ctx.Done():
			return
		case <-a.redraw:
		case act := <-a.actions:
			if a.dispatch(act) {
				return
			}
		}
	}
}

// send enqueues an action unless shutdown has begun.
func (a *App) send(act Action) bool {
	select {
	case a.actions <- act:
		return true
	case <-a.ctx.Done():
		return false
	}
}

// requestRedraw asks the loop to draw again without dispatching an action.
func (a *App) requestRedraw() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

// setStatus writes the status line from detached work and redraws.
func (a *App) setStatus(text string) {
	a.shared.SetStatus(text)
	a.requestRedraw()
}

// spawn runs fn as detached work. Remote calls made with the passed context
// are not cancelled at shutdown; they are awaited up to detachedGrace.
func (a *App) spawn(fn func(ctx context.Context)) {
	a.detached.Add(1)
	go func() {
		defer a.detached.Done()
		fn(context.WithoutCancel(a.ctx))
	}()
}

func (a *App) awaitDetached(d time.Duration) {
	done := make(chan struct{})
	go func() {
		a.detached.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(d):
		slog.Warn("detached work still running at shutdown", "waited", d)
	}
}
