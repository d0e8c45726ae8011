package app

import (
	"slices"
	"strings"
	"testing"

	"github.com/m96-chan/rivet/internal/model"
)

func threeServers() []model.Server {
	return []model.Server{{ID: "s1", Name: "one"}, {ID: "s2", Name: "two"}, {ID: "s3", Name: "three"}}
}

func TestDispatch_SelectionWraps(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	a.shared.servers = threeServers()
	a.shared.selection = 2

	a.dispatch(SelectNext{})
	if a.shared.selection != 0 {
		t.Errorf("select-next at 2 of 3 = %d, want 0", a.shared.selection)
	}

	a.dispatch(SelectPrevious{})
	if a.shared.selection != 2 {
		t.Errorf("select-previous at 0 of 3 = %d, want 2", a.shared.selection)
	}
}

func TestDispatch_SelectionEmptyList(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})

	a.dispatch(SelectNext{})
	a.dispatch(SelectPrevious{})
	if a.shared.selection != 0 {
		t.Errorf("selection = %d, want 0", a.shared.selection)
	}
}

func TestDispatch_SelectionUsesFilteredChannels(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	setState(a, SelectingChannel{ServerID: "s1"})
	a.shared.channels = []model.Channel{
		{ID: "cat", Kind: model.KindCategory},
		{ID: "c1", Kind: model.KindText},
		{ID: "v1", Kind: model.KindVoice},
		{ID: "c2", Kind: model.KindText},
	}

	a.dispatch(SelectNext{})
	a.dispatch(SelectNext{})
	if a.shared.selection != 0 {
		t.Errorf("two select-next over 2 selectable channels = %d, want 0", a.shared.selection)
	}
}

func TestDispatch_QuitAndEscape(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})

	if !a.dispatch(Quit{}) {
		t.Error("quit should stop the loop")
	}
	if !a.dispatch(Escape{}) {
		t.Error("escape on the server list should stop the loop")
	}

	setState(a, SelectingChannel{ServerID: "s1"})
	a.shared.selection = 3
	if a.dispatch(Escape{}) {
		t.Error("escape from channel list should not stop")
	}
	if _, ok := a.shared.state.(SelectingServer); !ok {
		t.Errorf("state = %#v, want SelectingServer", a.shared.state)
	}
	if a.shared.selection != 0 {
		t.Errorf("selection = %d, want 0", a.shared.selection)
	}
}

func TestDispatch_InputEditing(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})

	a.dispatch(CharInput{Char: 'x'})
	if len(a.shared.input) != 0 {
		t.Errorf("char input outside a conversation = %q, want empty", string(a.shared.input))
	}

	a.dispatch(Backspace{})
	if len(a.shared.input) != 0 {
		t.Error("backspace on empty input should be a no-op")
	}

	setState(a, Conversing{ChannelID: "c1"})
	for _, r := range "héllo" {
		a.dispatch(CharInput{Char: r})
	}
	a.dispatch(Backspace{})
	if got := string(a.shared.input); got != "héll" {
		t.Errorf("input = %q, want %q", got, "héll")
	}

	// Backspace applies in every state.
	setState(a, SelectingServer{})
	a.dispatch(Backspace{})
	if got := string(a.shared.input); got != "hél" {
		t.Errorf("input = %q, want %q", got, "hél")
	}
}

func TestDispatch_SubmitEmptyInput(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(t, gw)
	setState(a, Conversing{ChannelID: "c1"})

	a.dispatch(Submit{})
	a.detached.Wait()

	if posts := gw.postsCopy(); len(posts) != 0 {
		t.Errorf("posts = %v, want none", posts)
	}
	if len(a.shared.input) != 0 {
		t.Errorf("input = %q, want empty", string(a.shared.input))
	}
}

func TestDispatch_SubmitPostsAndDrains(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestApp(t, gw)
	setState(a, Conversing{ChannelID: "c1"})
	a.dispatch(EmojisUpdated{ServerID: "s1", Emojis: []model.Emoji{{ID: "42", Name: "blob"}}})
	a.shared.input = []rune("hi :blob:")

	a.dispatch(Submit{})
	if len(a.shared.input) != 0 {
		t.Errorf("input not drained: %q", string(a.shared.input))
	}
	a.detached.Wait()

	posts := gw.postsCopy()
	if len(posts) != 1 {
		t.Fatalf("posts = %v, want 1", posts)
	}
	if posts[0].channelID != "c1" || posts[0].content != "hi <:blob:42>" {
		t.Errorf("post = %+v", posts[0])
	}
}

func TestDispatch_SubmitNoServers(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})

	a.dispatch(Submit{})
	a.detached.Wait()

	select {
	case act := <-a.actions:
		t.Errorf("unexpected action %T", act)
	default:
	}
}

func TestDispatch_SubmitServerOrdersActions(t *testing.T) {
	gw := &fakeGateway{
		channels: map[string][]model.Channel{
			"s1": {{ID: "c1", Name: "general", Kind: model.KindText, ServerID: "s1"}},
		},
		emojis: []model.Emoji{{ID: "7", Name: "wave"}},
	}
	a := newTestApp(t, gw)
	a.shared.servers = []model.Server{{ID: "s1", Name: "one"}}

	a.dispatch(Submit{})

	if _, ok := nextAction(t, a).(ChannelsUpdated); !ok {
		t.Fatal("first action should be channels-updated")
	}
	tr, ok := nextAction(t, a).(TransitionToChannelList)
	if !ok || tr.ServerID != "s1" {
		t.Fatalf("second action = %#v, want transition-to-channel-list(s1)", tr)
	}
	if em, ok := nextAction(t, a).(EmojisUpdated); !ok || len(em.Emojis) != 1 {
		t.Fatalf("third action = %#v, want emojis-updated", em)
	}
}

func TestDispatch_SubmitServerChannelError(t *testing.T) {
	a := newTestApp(t, &fakeGateway{channels: map[string][]model.Channel{}})
	a.shared.servers = []model.Server{{ID: "s1"}}

	a.dispatch(Submit{})
	a.detached.Wait()

	if !strings.HasPrefix(a.shared.Snapshot().Status, "Failed to load channels") {
		t.Errorf("status = %q", a.shared.Snapshot().Status)
	}
	if len(a.actions) != 0 {
		t.Errorf("%d actions queued, want none", len(a.actions))
	}
}

func TestDispatch_ChannelsUpdatedResetsSelection(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	setState(a, SelectingChannel{ServerID: "s1"})
	a.shared.selection = 5

	a.dispatch(ChannelsUpdated{Channels: []model.Channel{{ID: "c1", Kind: model.KindText}}})
	if a.shared.selection != 0 {
		t.Errorf("selection = %d, want 0", a.shared.selection)
	}
	if a.shared.status != statusLoaded {
		t.Errorf("status = %q", a.shared.status)
	}

	a.dispatch(ChannelsUpdated{Channels: []model.Channel{{ID: "cat", Kind: model.KindCategory}}})
	if a.shared.status != statusNoText {
		t.Errorf("status = %q, want %q", a.shared.status, statusNoText)
	}
}

func TestDispatch_ChannelsFilteredByPermission(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	setState(a, SelectingChannel{ServerID: "s1"})
	perms := &model.PermissionContext{
		UserID:        "me",
		DefaultRoleID: "s1",
		Roles:         []model.Role{{ID: "s1", Permissions: "1024"}},
	}

	a.dispatch(ChannelsUpdated{
		Channels: []model.Channel{
			{ID: "open", Kind: model.KindText},
			{ID: "hidden", Kind: model.KindText, Overwrites: []model.Overwrite{
				{SubjectID: "s1", SubjectKind: model.OverwriteRole, Deny: "1024"},
			}},
		},
		Perms: perms,
	})

	snap := a.shared.Snapshot()
	if len(snap.Channels) != 1 || snap.Channels[0].ID != "open" {
		t.Errorf("selectable = %+v, want only open", snap.Channels)
	}
}

func TestDispatch_SubmitChannelEntersConversation(t *testing.T) {
	msgs := []model.Message{{ID: "1", ChannelID: "c2", Content: "hi"}}
	gw := &fakeGateway{messages: map[string][]model.Message{"c2": msgs}}
	a := newTestApp(t, gw)
	setState(a, SelectingChannel{ServerID: "s1"})
	a.shared.channels = []model.Channel{
		{ID: "cat", Kind: model.KindCategory},
		{ID: "v", Kind: model.KindStageVoice},
		{ID: "c2", Kind: model.KindText},
	}
	a.shared.messages = []model.Message{{ID: "stale"}}

	a.dispatch(Submit{})

	conv, ok := a.shared.state.(Conversing)
	if !ok || conv.ChannelID != "c2" {
		t.Fatalf("state = %#v, want Conversing(c2)", a.shared.state)
	}
	if len(a.shared.messages) != 0 {
		t.Error("messages from the previous view were kept")
	}

	mu, ok := nextAction(t, a).(MessagesUpdated)
	if !ok || mu.ChannelID != "c2" || len(mu.Messages) != 1 {
		t.Fatalf("action = %#v, want messages-updated(c2)", mu)
	}
	a.dispatch(mu)
	if len(a.shared.messages) != 1 {
		t.Errorf("messages = %d, want 1", len(a.shared.messages))
	}
}

func TestDispatch_MessagesUpdatedGuards(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	setState(a, Conversing{ChannelID: "c1"})

	a.dispatch(MessagesUpdated{ChannelID: "other", Messages: []model.Message{{ID: "x"}}})
	if len(a.shared.messages) != 0 {
		t.Error("page for another channel was applied")
	}

	a.dispatch(MessagesUpdated{ChannelID: "c1", Messages: []model.Message{{ID: "fresh"}}})
	a.dispatch(MessagesUpdated{ChannelID: "c1", Messages: []model.Message{{ID: "cached"}}, Cached: true})
	if a.shared.messages[0].ID != "fresh" {
		t.Errorf("cached page replaced a fresh one: %+v", a.shared.messages)
	}

	// Pages without a channel id replace unconditionally.
	a.dispatch(MessagesUpdated{Messages: []model.Message{{ID: "any"}}})
	if a.shared.messages[0].ID != "any" {
		t.Errorf("messages = %+v", a.shared.messages)
	}
}

func TestDispatch_EscapeFromConversation(t *testing.T) {
	tests := []struct {
		name      string
		gw        *fakeGateway
		wantState State
	}{
		{
			name: "server channel",
			gw: &fakeGateway{
				channel:  map[string]*model.Channel{"c1": {ID: "c1", ServerID: "s1"}},
				channels: map[string][]model.Channel{"s1": {{ID: "c1", Kind: model.KindText}}},
			},
			wantState: SelectingChannel{ServerID: "s1"},
		},
		{
			name:      "no parent server",
			gw:        &fakeGateway{channel: map[string]*model.Channel{"c1": {ID: "c1"}}},
			wantState: SelectingServer{},
		},
		{
			name:      "lookup fails",
			gw:        &fakeGateway{channelErr: errBoom},
			wantState: SelectingServer{},
		},
		{
			name: "channels fetch fails",
			gw: &fakeGateway{
				channel: map[string]*model.Channel{"c1": {ID: "c1", ServerID: "s1"}},
			},
			wantState: SelectingChannel{ServerID: "s1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, tt.gw)
			setState(a, Conversing{ChannelID: "c1"})

			if a.dispatch(Escape{}) {
				t.Fatal("escape from a conversation should not stop")
			}
			a.detached.Wait()

			for len(a.actions) > 0 {
				a.dispatch(<-a.actions)
			}
			if got := a.shared.Current(); got != tt.wantState {
				t.Errorf("state = %#v, want %#v", got, tt.wantState)
			}
		})
	}
}

func TestDispatch_TransitionsResetSelection(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})

	a.shared.selection = 2
	a.dispatch(TransitionToChannelList{ServerID: "s9"})
	if st, ok := a.shared.state.(SelectingChannel); !ok || st.ServerID != "s9" || a.shared.selection != 0 {
		t.Errorf("state = %#v, selection = %d", a.shared.state, a.shared.selection)
	}

	a.shared.selection = 2
	a.dispatch(TransitionToServerList{})
	if _, ok := a.shared.state.(SelectingServer); !ok || a.shared.selection != 0 {
		t.Errorf("state = %#v, selection = %d", a.shared.state, a.shared.selection)
	}

	a.dispatch(TransitionToConversation{ChannelID: "c5"})
	if st, ok := a.shared.state.(Conversing); !ok || st.ChannelID != "c5" {
		t.Errorf("state = %#v", a.shared.state)
	}
	if a.shared.status != statusChatting {
		t.Errorf("status = %q", a.shared.status)
	}
}

func TestSnapshot_EmojiNamesSorted(t *testing.T) {
	a := newTestApp(t, &fakeGateway{})
	a.dispatch(EmojisUpdated{ServerID: "s1", Emojis: []model.Emoji{
		{ID: "3", Name: "zed"}, {ID: "1", Name: "blob"}, {ID: "2", Name: "party"}, {ID: "4", Name: "cat"},
	}})

	want := []string{"blob", "cat", "party", "zed"}
	for i := 0; i < 5; i++ {
		if got := a.shared.Snapshot().EmojiNames; !slices.Equal(got, want) {
			t.Fatalf("EmojiNames = %v, want %v", got, want)
		}
	}
}
