package app

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/m96-chan/rivet/internal/config"
	"github.com/m96-chan/rivet/internal/ui/keys"
)

// runInput turns terminal events into actions until ctx is cancelled or the
// event source closes. It does not look at application state.
func (a *App) runInput(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if act := keyAction(ev, a.Config.Keybinds); act != nil {
					a.send(act)
				}
			case *tcell.EventResize:
				a.requestRedraw()
			}
		}
	}
}

// keyAction maps one key press to at most one action. Configured bindings
// win over the built-in Backspace and printable-rune handling.
func keyAction(ev *tcell.EventKey, kb config.Keybinds) Action {
	name := ev.Name()
	switch {
	case keys.Match(name, kb.Quit):
		return Quit{}
	case keys.Match(name, kb.Submit):
		return Submit{}
	case keys.Match(name, kb.Escape):
		return Escape{}
	case keys.Match(name, kb.SelectNext):
		return SelectNext{}
	case keys.Match(name, kb.SelectPrevious):
		return SelectPrevious{}
	}

	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Backspace{}
	case tcell.KeyRune:
		return CharInput{Char: ev.Rune()}
	}
	return nil
}
