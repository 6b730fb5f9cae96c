package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mjaros/parley"
	"github.com/mjaros/parley/markup"
)

const emptyChatPrompt = "Start a conversation by sending a message below."

type chatView struct {
	styles   Styles
	vp       viewport.Model
	input    textinput.Model
	spin     spinner.Model
	timeline parley.Timeline
	awaiting bool
	errText  string
	width    int
	height   int
	sized    bool
}

func newChatView(styles Styles) chatView {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Accent

	return chatView{styles: styles, input: input, spin: spin}
}

func (v *chatView) resize(width, height int) {
	v.width = width
	v.height = height
	// Title, error line, input and key help take the rows below.
	vpHeight := max(1, height-6)
	if !v.sized {
		v.vp = viewport.New(width, vpHeight)
		v.sized = true
	} else {
		v.vp.Width = width
		v.vp.Height = vpHeight
	}
	v.input.Width = max(10, width-4)
	v.renderTimeline()
}

// refresh replaces the rendered timeline with the given snapshot and keeps
// the viewport pinned to the latest message.
func (v *chatView) refresh(t parley.Timeline) {
	v.timeline = t
	v.renderTimeline()
}

func (v *chatView) renderTimeline() {
	if !v.sized {
		return
	}
	v.vp.SetContent(v.renderMessages())
	v.vp.GotoBottom()
}

func (v chatView) renderMessages() string {
	if len(v.timeline.Messages) == 0 {
		return v.styles.Muted.Render(emptyChatPrompt)
	}
	var b strings.Builder
	for i, msg := range v.timeline.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		var label string
		var lines []markup.Line
		if msg.Author == parley.AuthorUser {
			label = v.styles.UserMsg.Render("You")
			lines = markup.Literal(msg.Content)
		} else {
			label = v.styles.Assistant.Render("Assistant")
			lines = markup.Parse(msg.Content)
		}
		if msg.ID == v.timeline.PendingID {
			label += v.styles.Muted.Render(" (sending)")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(v.renderLines(lines))
		b.WriteString("\n")
	}
	return b.String()
}

func (v chatView) renderLines(lines []markup.Line) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if line.Bullet {
			b.WriteString("  • ")
		}
		for _, span := range line.Spans {
			switch {
			case span.Bold && span.Italic:
				b.WriteString(v.styles.Bold.Italic(true).Render(span.Text))
			case span.Bold:
				b.WriteString(v.styles.Bold.Render(span.Text))
			case span.Italic:
				b.WriteString(v.styles.Italic.Render(span.Text))
			default:
				b.WriteString(span.Text)
			}
		}
	}
	return b.String()
}

func (v chatView) update(msg tea.Msg, session *parley.ChatSession) (chatView, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.awaiting {
			return v, nil
		}
		// Pick up the optimistic message once the send has inserted it.
		v.refresh(session.Timeline())
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if v.awaiting {
				return v, nil
			}
			draft := v.input.Value()
			if strings.TrimSpace(draft) == "" {
				return v, nil
			}
			v.input.Reset()
			v.errText = ""
			v.awaiting = true
			return v, tea.Batch(sendMessage(session, draft), v.spin.Tick)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v chatView) view(width, height int) string {
	var b strings.Builder
	title := v.timeline.Title
	if title == "" {
		title = parley.DefaultTitle
	}
	b.WriteString(v.styles.Bold.Render(truncate(title, max(1, width-2))))
	b.WriteString("\n")
	b.WriteString(v.vp.View())
	b.WriteString("\n")
	if v.awaiting {
		b.WriteString(v.spin.View())
		b.WriteString(v.styles.Muted.Render(" Waiting for reply..."))
	} else if v.errText != "" {
		b.WriteString(v.styles.Error.Render(v.errText))
	}
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("enter: send • esc: conversations • ctrl+c: quit"))
	return b.String()
}
