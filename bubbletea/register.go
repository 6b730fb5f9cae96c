package bubbletea

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
)

type registerView struct {
	styles      Styles
	inputs      []textinput.Model
	focus       int
	busy        bool
	errText     string
	fieldErrors map[string][]string
}

// Field order matches the form top to bottom. The names double as the wire
// field names used to attach server-side validation errors.
var registerFields = []struct {
	name        string
	label       string
	placeholder string
	secret      bool
}{
	{name: "username", label: "Username", placeholder: "username"},
	{name: "email", label: "Email", placeholder: "you@example.com"},
	{name: "first_name", label: "First name", placeholder: "first name"},
	{name: "last_name", label: "Last name", placeholder: "last name"},
	{name: "password", label: "Password", placeholder: "password", secret: true},
	{name: "password_confirm", label: "Confirm password", placeholder: "password again", secret: true},
}

func newRegisterView(styles Styles) registerView {
	inputs := make([]textinput.Model, len(registerFields))
	for i, f := range registerFields {
		input := textinput.New()
		input.Placeholder = f.placeholder
		input.Prompt = "> "
		if f.secret {
			input.EchoMode = textinput.EchoPassword
		}
		inputs[i] = input
	}
	inputs[0].Focus()
	return registerView{styles: styles, inputs: inputs}
}

func (v registerView) update(msg tea.Msg, auth *parley.Auth) (registerView, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !v.busy {
		switch key.Type {
		case tea.KeyEnter:
			reg := parley.Registration{
				Username:        strings.TrimSpace(v.inputs[0].Value()),
				Email:           strings.TrimSpace(v.inputs[1].Value()),
				FirstName:       strings.TrimSpace(v.inputs[2].Value()),
				LastName:        strings.TrimSpace(v.inputs[3].Value()),
				Password:        v.inputs[4].Value(),
				PasswordConfirm: v.inputs[5].Value(),
			}
			if reg.Username == "" || reg.Password == "" {
				v.errText = "Username and password are required"
				return v, nil
			}
			v.busy = true
			v.errText = ""
			v.fieldErrors = nil
			return v, doRegister(auth, reg)
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

func (v registerView) setFocus(focus int) registerView {
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

// fail re-enables the form and distributes server validation errors to the
// fields they belong to.
func (v *registerView) fail(err error) {
	v.busy = false
	var ae *parley.AuthError
	if errors.As(err, &ae) {
		v.errText = ae.Message
		v.fieldErrors = ae.Fields
		return
	}
	v.errText = humanError(err)
	v.fieldErrors = nil
}

func (v registerView) view(width int) string {
	var b strings.Builder
	b.WriteString(v.styles.Bold.Render("Create an account"))
	b.WriteString("\n\n")
	for i, f := range registerFields {
		b.WriteString(f.label)
		b.WriteString("\n")
		b.WriteString(v.inputs[i].View())
		b.WriteString("\n")
		for _, msg := range v.fieldErrors[f.name] {
			b.WriteString(v.styles.Error.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if v.busy {
		b.WriteString(v.styles.Muted.Render("Creating account..."))
	} else if v.errText != "" {
		b.WriteString(v.styles.Error.Render(v.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("enter: register • tab: next field • esc: back to login • ctrl+c: quit"))
	return b.String()
}
