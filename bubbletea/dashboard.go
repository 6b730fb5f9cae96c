package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
)

type dashboardView struct {
	styles        Styles
	spin          spinner.Model
	conversations []parley.Conversation
	cursor        int
	loading       bool
	deleting      string // id awaiting y/n confirmation, empty otherwise
	errText       string
}

func newDashboardView(styles Styles) dashboardView {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Accent
	return dashboardView{styles: styles, spin: spin}
}

func (v *dashboardView) setConversations(conversations []parley.Conversation, err error) {
	v.loading = false
	if err != nil {
		v.errText = humanError(err)
		return
	}
	v.errText = ""
	v.conversations = conversations
	if v.cursor >= len(conversations) {
		v.cursor = max(0, len(conversations)-1)
	}
}

func (v *dashboardView) finishDelete(msg DeleteResultMsg) {
	if msg.Err != nil {
		v.errText = humanError(msg.Err)
		return
	}
	kept := v.conversations[:0]
	for _, c := range v.conversations {
		if c.ID != msg.ID {
			kept = append(kept, c)
		}
	}
	v.conversations = kept
	if v.cursor >= len(kept) {
		v.cursor = max(0, len(kept)-1)
	}
}

func (v dashboardView) update(msg tea.Msg, client parley.Client, session *parley.ChatSession, auth *parley.Auth) (dashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.deleting != "" {
			switch msg.String() {
			case "y":
				id := v.deleting
				v.deleting = ""
				return v, deleteConversation(client, id)
			default:
				v.deleting = ""
			}
			return v, nil
		}
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.conversations)-1 {
				v.cursor++
			}
		case "enter":
			if c, ok := v.selected(); ok {
				return v, openConversation(session, c.ID)
			}
		case "n":
			return v, openConversation(session, parley.NewConversation)
		case "d":
			if c, ok := v.selected(); ok {
				v.deleting = c.ID
			}
		case "r":
			v.loading = true
			v.errText = ""
			return v, tea.Batch(loadConversations(client), v.spin.Tick)
		case "ctrl+l":
			return v, doLogout(auth)
		}
	}
	return v, nil
}

func (v dashboardView) selected() (parley.Conversation, bool) {
	if v.cursor < 0 || v.cursor >= len(v.conversations) {
		return parley.Conversation{}, false
	}
	return v.conversations[v.cursor], true
}

func (v dashboardView) view(width, height int, state parley.AuthState) string {
	var b strings.Builder
	b.WriteString(v.styles.Bold.Render("Conversations"))
	if state.User.Username != "" {
		who := state.User.Username
		if state.User.Email != "" {
			who += " <" + state.User.Email + ">"
		}
		b.WriteString("  ")
		b.WriteString(v.styles.Muted.Render(who))
	}
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.spin.View())
		b.WriteString(" Loading conversations...")
	case len(v.conversations) == 0:
		b.WriteString(v.styles.Muted.Render("No conversations yet. Press n to start one."))
	default:
		for i, c := range v.conversations {
			line := fmt.Sprintf("%s (%d)", c.Title, c.MessageCount)
			if width > 4 {
				line = truncate(line, width-4)
			}
			if i == v.cursor {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.deleting != "" {
		b.WriteString(v.styles.Error.Render("Delete this conversation? y/n"))
		b.WriteString("\n")
	} else if v.errText != "" {
		b.WriteString(v.styles.Error.Render(v.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("enter: open • n: new chat • d: delete • r: refresh • ctrl+l: log out • ctrl+c: quit"))
	return b.String()
}
