package bubbletea

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
)

var _ tea.Model = Model{}

// View identifies the active screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewDashboard
	ViewChat
)

// Model is the root Bubble Tea model. It routes messages to the active view
// and owns navigation: unauthenticated sessions can only reach the login and
// register screens.
type Model struct {
	auth    *parley.Auth
	session *parley.ChatSession
	client  parley.Client
	styles  Styles

	view  View
	login loginView
	reg   registerView
	dash  dashboardView
	chat  chatView

	width  int
	height int
	ready  bool
}

// New creates the root model. When auth is already authenticated (a valid
// persisted token was bootstrapped), the dashboard is the initial view.
func New(auth *parley.Auth, session *parley.ChatSession, client parley.Client, theme parley.Theme) Model {
	styles := NewStyles(theme)
	m := Model{
		auth:    auth,
		session: session,
		client:  client,
		styles:  styles,
		login:   newLoginView(styles),
		reg:     newRegisterView(styles),
		dash:    newDashboardView(styles),
		chat:    newChatView(styles),
	}
	if auth.State().Status == parley.StatusAuthenticated {
		m.view = ViewDashboard
		m.dash.loading = true
	}
	return m
}

// ActiveView returns the current screen. Exported for test access.
func (m Model) ActiveView() View { return m.view }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.view == ViewDashboard {
		return tea.Batch(loadConversations(m.client), m.dash.spin.Tick)
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.chat.resize(msg.Width, msg.Height)
		m.chat.refresh(m.session.Timeline())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if handled, next, cmd := m.handleNavKey(msg); handled {
			return next, cmd
		}

	case LoginResultMsg:
		if msg.Err != nil {
			m.login.fail(msg.Err)
			return m, nil
		}
		return m.gotoDashboard()

	case RegisterResultMsg:
		if msg.Err != nil {
			m.reg.fail(msg.Err)
			return m, nil
		}
		return m.gotoDashboard()

	case LogoutMsg:
		m.view = ViewLogin
		m.login = newLoginView(m.styles)
		return m, textinput.Blink

	case ConversationsMsg:
		m.dash.setConversations(msg.Conversations, msg.Err)
		return m, nil

	case ConversationOpenedMsg:
		if msg.Err != nil {
			// Per policy a failed fetch sends the user back to the list.
			next, cmd := m.gotoDashboard()
			next.dash.errText = humanError(msg.Err)
			return next, cmd
		}
		m.view = ViewChat
		m.chat.awaiting = false
		m.chat.errText = ""
		m.chat.refresh(m.session.Timeline())
		return m, m.chat.input.Focus()

	case DeleteResultMsg:
		m.dash.finishDelete(msg)
		return m, nil

	case SendResultMsg:
		return m.handleSendResult(msg)
	}

	return m.updateActiveView(msg)
}

// handleNavKey processes navigation keys that switch screens. View-local
// keys fall through to the active view.
func (m Model) handleNavKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	switch m.view {
	case ViewLogin:
		if msg.String() == "ctrl+r" {
			m.view = ViewRegister
			m.reg = newRegisterView(m.styles)
			return true, m, textinput.Blink
		}
	case ViewRegister:
		if msg.Type == tea.KeyEsc {
			m.view = ViewLogin
			return true, m, textinput.Blink
		}
	case ViewChat:
		if msg.Type == tea.KeyEsc {
			next, cmd := m.gotoDashboard()
			return true, next, cmd
		}
	}
	return false, m, nil
}

func (m Model) gotoDashboard() (Model, tea.Cmd) {
	m.view = ViewDashboard
	m.dash.loading = true
	m.dash.errText = ""
	return m, tea.Batch(loadConversations(m.client), m.dash.spin.Tick)
}

func (m Model) handleSendResult(msg SendResultMsg) (Model, tea.Cmd) {
	m.chat.awaiting = false
	if msg.Err != nil {
		// The user must not lose their message: put the draft back.
		m.chat.input.SetValue(msg.Draft)
		m.chat.errText = humanError(msg.Err)
		m.chat.refresh(m.session.Timeline())
		return m, nil
	}
	if msg.Result.Stale {
		return m, nil
	}
	if msg.Result.Created {
		return m, openConversation(m.session, msg.Result.ConversationID)
	}
	m.chat.errText = ""
	m.chat.refresh(m.session.Timeline())
	return m, nil
}

func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.login, cmd = m.login.update(msg, m.auth)
	case ViewRegister:
		m.reg, cmd = m.reg.update(msg, m.auth)
	case ViewDashboard:
		m.dash, cmd = m.dash.update(msg, m.client, m.session, m.auth)
	case ViewChat:
		m.chat, cmd = m.chat.update(msg, m.session)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	switch m.view {
	case ViewLogin:
		return m.login.view(m.width)
	case ViewRegister:
		return m.reg.view(m.width)
	case ViewDashboard:
		return m.dash.view(m.width, m.height, m.auth.State())
	default:
		return m.chat.view(m.width, m.height)
	}
}

// Commands. Each wraps one blocking core operation and delivers its result
// as a typed message.

func doLogin(auth *parley.Auth, username, password string) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg{Err: auth.Login(context.Background(), username, password)}
	}
}

func doRegister(auth *parley.Auth, reg parley.Registration) tea.Cmd {
	return func() tea.Msg {
		return RegisterResultMsg{Err: auth.Register(context.Background(), reg)}
	}
}

func doLogout(auth *parley.Auth) tea.Cmd {
	return func() tea.Msg {
		// Local cleanup is unconditional; a store failure still ends the
		// session from the UI's point of view.
		_ = auth.Logout(context.Background())
		return LogoutMsg{}
	}
}

func loadConversations(client parley.Client) tea.Cmd {
	return func() tea.Msg {
		conversations, err := client.Conversations(context.Background())
		return ConversationsMsg{Conversations: conversations, Err: err}
	}
}

func openConversation(session *parley.ChatSession, id string) tea.Cmd {
	return func() tea.Msg {
		return ConversationOpenedMsg{ID: id, Err: session.Open(context.Background(), id)}
	}
}

func deleteConversation(client parley.Client, id string) tea.Cmd {
	return func() tea.Msg {
		return DeleteResultMsg{ID: id, Err: client.DeleteConversation(context.Background(), id)}
	}
}

func sendMessage(session *parley.ChatSession, draft string) tea.Cmd {
	return func() tea.Msg {
		result, err := session.Send(context.Background(), draft)
		return SendResultMsg{Draft: draft, Result: result, Err: err}
	}
}

// humanError reduces an error to something worth putting on screen.
func humanError(err error) string {
	var ae *parley.AuthError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Message
	case errors.Is(err, parley.ErrNotFound):
		return "Conversation not found"
	case errors.Is(err, parley.ErrInvalidToken):
		return "Session expired, please log in again"
	case errors.Is(err, parley.ErrSendInFlight):
		return "Still sending the previous message"
	default:
		return "Request failed, please try again"
	}
}
