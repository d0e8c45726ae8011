package app

import "github.com/m96-chan/rivet/internal/model"

// Action is one user intent or asynchronous result. Actions are values and
// are never mutated after they are sent.
type Action interface {
	isAction()
}

type (
	Quit           struct{}
	Backspace      struct{}
	Escape         struct{}
	Submit         struct{}
	SelectNext     struct{}
	SelectPrevious struct{}

	// CharInput appends one character to the input buffer.
	CharInput struct {
		Char rune
	}

	// MessagesUpdated replaces the message list. ChannelID ties the page to
	// the conversation it was fetched for; Cached marks a page read from
	// disk, which only fills an empty list.
	MessagesUpdated struct {
		ChannelID string
		Messages  []model.Message
		Cached    bool
	}

	// ChannelsUpdated replaces the channel list. Perms is nil when the
	// member's roles could not be loaded.
	ChannelsUpdated struct {
		Channels []model.Channel
		Perms    *model.PermissionContext
	}

	TransitionToChannelList struct {
		ServerID string
	}

	TransitionToConversation struct {
		ChannelID string
	}

	TransitionToServerList struct{}

	// EmojisUpdated carries a server's custom emojis.
	EmojisUpdated struct {
		ServerID string
		Emojis   []model.Emoji
	}
)

func (Quit) isAction()                     {}
func (Backspace) isAction()                {}
func (Escape) isAction()                   {}
func (Submit) isAction()                   {}
func (SelectNext) isAction()               {}
func (SelectPrevious) isAction()           {}
func (CharInput) isAction()                {}
func (MessagesUpdated) isAction()          {}
func (ChannelsUpdated) isAction()          {}
func (TransitionToChannelList) isAction()  {}
func (TransitionToConversation) isAction() {}
func (TransitionToServerList) isAction()   {}
func (EmojisUpdated) isAction()            {}
