package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/m96-chan/rivet/internal/app"
	"github.com/m96-chan/rivet/internal/config"
	"github.com/m96-chan/rivet/internal/consts"
	"github.com/m96-chan/rivet/internal/discord"
	"github.com/m96-chan/rivet/internal/keyring"
	"github.com/m96-chan/rivet/internal/logger"
	"github.com/m96-chan/rivet/internal/markdown"
	"github.com/m96-chan/rivet/internal/ui"
)

// Build info, set by main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

type rootOptions struct {
	configPath string
	logPath    string
	logLevel   string

	cfg     *config.Config
	logFile *os.File
}

// Run builds the command tree and executes it.
func Run() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           consts.Name,
		Short:         "Browse and chat in Discord servers from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logFile != nil {
				opts.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClient(cmd.Context(), opts.cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config-path", config.DefaultPath(), "path to config file")
	flags.StringVar(&opts.logPath, "log-path", logger.DefaultPath(), "path to log file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newTokenCommand(),
		newServersCommand(),
		newCacheCommand(opts),
		newVersionCommand(),
	)
	return root
}

// setup configures logging, loads .env and reads the config file. It runs
// before every subcommand.
func (o *rootOptions) setup() error {
	f, err := logger.Setup(o.logPath, logger.ParseLevel(o.logLevel))
	if err != nil {
		return fmt.Errorf("setting up log file: %w", err)
	}
	o.logFile = f

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	slog.Info("starting "+consts.Name, "version", Version, "config", o.configPath, "log", o.logPath)

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// runClient owns the terminal for the lifetime of the UI. The screen is
// finalized on every return path, including panics in this goroutine.
func runClient(ctx context.Context, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(consts.Name + " needs an interactive terminal")
	}

	token, err := keyring.GetToken()
	if err != nil {
		return err
	}

	gw, err := discord.New(token)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	dict := markdown.LoadDictionary(cfg.Emoji.File)
	view := ui.New(screen, cfg, dict)
	return app.New(cfg, gw, view, events, dict).Run(ctx)
}
