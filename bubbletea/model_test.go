package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/mjaros/parley"
	bt "github.com/mjaros/parley/bubbletea"
	"github.com/mjaros/parley/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, client *mock.Client) bt.Model {
	t.Helper()
	auth := parley.NewAuth(client, &mock.TokenStore{})
	session := parley.NewChatSession(client)
	return bt.New(auth, session, client, parley.DefaultTheme())
}

// sized runs the model through a window size message so View renders.
func sized(t *testing.T, m bt.Model) bt.Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func apply(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

func TestNew_RoutesByAuthState(t *testing.T) {
	t.Parallel()

	t.Run("unauthenticated starts on login", func(t *testing.T) {
		t.Parallel()

		m := newModel(t, &mock.Client{})
		assert.Equal(t, bt.ViewLogin, m.ActiveView())
	})

	t.Run("authenticated starts on dashboard", func(t *testing.T) {
		t.Parallel()

		client := &mock.Client{
			ProfileFn: func(ctx context.Context) (parley.User, error) {
				return parley.User{Username: "alice"}, nil
			},
		}
		store := &mock.TokenStore{}
		store.Set("tok-1")
		auth := parley.NewAuth(client, store)
		require.NoError(t, auth.Bootstrap(context.Background()))
		require.Equal(t, parley.StatusAuthenticated, auth.State().Status)

		m := bt.New(auth, parley.NewChatSession(client), client, parley.DefaultTheme())
		assert.Equal(t, bt.ViewDashboard, m.ActiveView())
	})
}

func TestModel_LoginResult(t *testing.T) {
	t.Parallel()

	t.Run("success moves to the dashboard", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, cmd := apply(t, m, bt.LoginResultMsg{})
		assert.Equal(t, bt.ViewDashboard, m.ActiveView())
		assert.NotNil(t, cmd) // kicks off the conversation list fetch
	})

	t.Run("rejection stays on login and shows the message", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, _ = apply(t, m, bt.LoginResultMsg{
			Err: &parley.AuthError{Message: "Invalid credentials"},
		})
		assert.Equal(t, bt.ViewLogin, m.ActiveView())
		assert.Contains(t, m.View(), "Invalid credentials")
	})
}

func TestModel_ConversationOpened(t *testing.T) {
	t.Parallel()

	t.Run("success shows the chat view", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, _ = apply(t, m, bt.ConversationOpenedMsg{ID: "7"})
		assert.Equal(t, bt.ViewChat, m.ActiveView())
		assert.Contains(t, m.View(), "Start a conversation")
	})

	t.Run("failure returns to the dashboard", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, _ = apply(t, m, bt.ConversationOpenedMsg{
			ID:  "7",
			Err: parley.ErrNotFound,
		})
		assert.Equal(t, bt.ViewDashboard, m.ActiveView())
	})
}

func TestModel_SendResult(t *testing.T) {
	t.Parallel()

	t.Run("failure restores the draft", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, _ = apply(t, m, bt.ConversationOpenedMsg{ID: "7"})

		m, _ = apply(t, m, bt.SendResultMsg{
			Draft: "an unsendable draft",
			Err:   errors.New("network down"),
		})
		view := m.View()
		assert.Contains(t, view, "an unsendable draft")
		assert.Contains(t, view, "Request failed")
	})

	t.Run("created conversation is opened by id", func(t *testing.T) {
		t.Parallel()

		client := &mock.Client{
			ConversationFn: func(ctx context.Context, id string) (parley.Conversation, error) {
				return parley.Conversation{ID: id, Title: "Weather talk"}, nil
			},
		}
		m := sized(t, newModel(t, client))
		m, cmd := apply(t, m, bt.SendResultMsg{
			Draft:  "hello",
			Result: parley.SendResult{Created: true, ConversationID: "42"},
		})
		require.NotNil(t, cmd)

		msg := cmd()
		opened, ok := msg.(bt.ConversationOpenedMsg)
		require.True(t, ok)
		assert.Equal(t, "42", opened.ID)
		require.NoError(t, opened.Err)

		m, _ = apply(t, m, opened)
		assert.Equal(t, bt.ViewChat, m.ActiveView())
		assert.Contains(t, m.View(), "Weather talk")
	})

	t.Run("stale result changes nothing", func(t *testing.T) {
		t.Parallel()

		m := sized(t, newModel(t, &mock.Client{}))
		m, _ = apply(t, m, bt.ConversationOpenedMsg{ID: "7"})
		m, cmd := apply(t, m, bt.SendResultMsg{
			Draft:  "late",
			Result: parley.SendResult{Stale: true},
		})
		assert.Nil(t, cmd)
		assert.Equal(t, bt.ViewChat, m.ActiveView())
		assert.NotContains(t, m.View(), "late")
	})
}

func TestModel_Logout(t *testing.T) {
	t.Parallel()

	m := sized(t, newModel(t, &mock.Client{}))
	m, _ = apply(t, m, bt.LoginResultMsg{})
	require.Equal(t, bt.ViewDashboard, m.ActiveView())

	m, _ = apply(t, m, bt.LogoutMsg{})
	assert.Equal(t, bt.ViewLogin, m.ActiveView())
}

func TestModel_ConversationsList(t *testing.T) {
	t.Parallel()

	m := sized(t, newModel(t, &mock.Client{}))
	m, _ = apply(t, m, bt.LoginResultMsg{})

	m, _ = apply(t, m, bt.ConversationsMsg{
		Conversations: []parley.Conversation{
			{ID: "1", Title: "Travel plans", MessageCount: 4},
			{ID: "2", Title: "Recipes", MessageCount: 2},
		},
	})
	view := m.View()
	assert.Contains(t, view, "Travel plans")
	assert.Contains(t, view, "Recipes")

	m, _ = apply(t, m, bt.DeleteResultMsg{ID: "1"})
	view = m.View()
	assert.NotContains(t, view, "Travel plans")
	assert.Contains(t, view, "Recipes")
}

func TestModel_Program(t *testing.T) {
	t.Parallel()

	m := newModel(t, &mock.Client{})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Log in"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
