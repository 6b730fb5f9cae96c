package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
)

type loginView struct {
	styles  Styles
	inputs  []textinput.Model
	focus   int
	busy    bool
	errText string
}

const (
	loginFieldUsername = iota
	loginFieldPassword
)

func newLoginView(styles Styles) loginView {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "> "
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword

	return loginView{
		styles: styles,
		inputs: []textinput.Model{username, password},
	}
}

func (v loginView) update(msg tea.Msg, auth *parley.Auth) (loginView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !v.busy {
		switch key.Type {
		case tea.KeyEnter:
			username := strings.TrimSpace(v.inputs[loginFieldUsername].Value())
			password := v.inputs[loginFieldPassword].Value()
			if username == "" || password == "" {
				v.errText = "Username and password are required"
				return v, nil
			}
			v.busy = true
			v.errText = ""
			return v, doLogin(auth, username, password)
		case tea.KeyTab, tea.KeyDown:
			return v.setFocus(v.focus + 1), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return v.setFocus(v.focus - 1), nil
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v loginView) setFocus(focus int) loginView {
	if focus < 0 {
		focus = len(v.inputs) - 1
	}
	if focus >= len(v.inputs) {
		focus = 0
	}
	v.inputs[v.focus].Blur()
	v.focus = focus
	v.inputs[v.focus].Focus()
	return v
}

// fail re-enables the form and surfaces the rejection.
func (v *loginView) fail(err error) {
	v.busy = false
	v.errText = humanError(err)
}

func (v loginView) view(width int) string {
	var b strings.Builder
	b.WriteString(v.styles.Bold.Render("Log in"))
	b.WriteString("\n\n")
	b.WriteString("Username\n")
	b.WriteString(v.inputs[loginFieldUsername].View())
	b.WriteString("\n\nPassword\n")
	b.WriteString(v.inputs[loginFieldPassword].View())
	b.WriteString("\n\n")
	if v.busy {
		b.WriteString(v.styles.Muted.Render("Logging in..."))
	} else if v.errText != "" {
		b.WriteString(v.styles.Error.Render(v.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("enter: log in • tab: next field • ctrl+r: register • ctrl+c: quit"))
	return b.String()
}
