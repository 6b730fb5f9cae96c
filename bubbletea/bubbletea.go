// Package bubbletea provides the Bubble Tea TUI for the parley chat client.
//
// The package owns display state only: forms, cursors, the draft string, and
// the scroll position. Conversation and account state live in the core state
// machines, which the views call through tea.Cmds and re-render from
// snapshots when the result messages arrive.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown — when cancelled,
// the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// LoginResultMsg reports a completed login attempt.
type LoginResultMsg struct {
	Err error
}

// RegisterResultMsg reports a completed registration attempt.
type RegisterResultMsg struct {
	Err error
}

// LogoutMsg reports a completed logout. Local cleanup always succeeds, so it
// carries no error for the network leg.
type LogoutMsg struct{}

// ConversationsMsg delivers the dashboard's conversation list.
type ConversationsMsg struct {
	Conversations []parley.Conversation
	Err           error
}

// ConversationOpenedMsg reports a completed ChatSession.Open.
type ConversationOpenedMsg struct {
	ID  string
	Err error
}

// DeleteResultMsg reports a completed conversation deletion.
type DeleteResultMsg struct {
	ID  string
	Err error
}

// SendResultMsg reports a resolved send. Draft is the exact submitted text
// so the chat view can restore it on failure.
type SendResultMsg struct {
	Draft  string
	Result parley.SendResult
	Err    error
}
