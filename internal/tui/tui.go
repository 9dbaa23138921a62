// Package tui is the terminal surface for a Murshed conversation. It drives
// the controller's render passes from the Bubble Tea event loop: one pass at
// a time, with a follow-up pass scheduled whenever the controller asks for an
// immediate rerender.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrWong99/murshed/internal/controller"
	"github.com/MrWong99/murshed/internal/document"
	"github.com/MrWong99/murshed/internal/session"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	directiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
)

// Options configures the TUI surface.
type Options struct {
	// Providers lists the synthesis route names the user may switch between.
	Providers []string

	// Logger receives UI-level log records. Defaults to slog.Default().
	Logger *slog.Logger
}

// passDoneMsg carries the result of one render pass.
type passDoneMsg struct {
	view controller.View
}

// ingestDoneMsg reports a finished document ingestion.
type ingestDoneMsg struct {
	files int
	err   error
}

// statusMsg updates the status line.
type statusMsg string

// Model is the Bubble Tea model for one conversation.
type Model struct {
	ctrl *controller.Controller
	docs *document.Service
	opts Options

	input      textinput.Model
	transcript viewport.Model
	spin       spinner.Model

	view   controller.View
	status string

	// stagedCapture is the audio buffer delivered on every pass until it is
	// replaced or cleared; the controller's fingerprint guard keeps it from
	// being submitted twice.
	stagedCapture []byte

	// busy is true while a render pass or ingestion is in flight. Update
	// never starts a second one.
	busy      bool
	ingesting bool

	width  int
	height int
	ready  bool
}

// NewModel creates the TUI model. ctrl and docs must not be nil.
func NewModel(ctrl *controller.Controller, docs *document.Service, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Providers) == 0 {
		opts.Providers = []string{"openai", "playht"}
	}

	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = "Ask about your documents, or /help for commands"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	return Model{
		ctrl:       ctrl,
		docs:       docs,
		opts:       opts,
		input:      input,
		transcript: vp,
		spin:       sp,
		status:     "ready",
	}
}

// Init starts the spinner and runs the first render pass so the initial
// directive shows up before any input.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.passCmd(""))
}

// passCmd runs one render pass off the event loop. The staged capture is
// re-delivered on every pass.
func (m Model) passCmd(typed string) tea.Cmd {
	ctrl := m.ctrl
	capture := m.stagedCapture
	return func() tea.Msg {
		view := ctrl.RenderPass(context.Background(), controller.Inputs{
			TypedText:    typed,
			AudioCapture: capture,
		})
		return passDoneMsg{view: view}
	}
}

// ingestCmd runs a document ingestion off the event loop.
func (m Model) ingestCmd(paths []string) tea.Cmd {
	docs := m.docs
	sess := m.ctrl.Session()
	return func() tea.Msg {
		err := docs.Process(context.Background(), sess, paths)
		return ingestDoneMsg{files: len(paths), err: err}
	}
}

// Update advances the model. Render passes are strictly serialised: a new
// one starts only after the previous passDoneMsg arrived.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = msg.Width
		m.transcript.Height = max(msg.Height-5, 3)
		m.ready = true
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				break
			}
			m.input.SetValue("")
			if strings.HasPrefix(raw, "/") {
				if cmd := m.handleSlash(raw); cmd != nil {
					cmds = append(cmds, cmd)
				}
				break
			}
			if m.busy || m.ingesting {
				m.status = "still working, hold on"
				break
			}
			m.busy = true
			m.status = "thinking..."
			cmds = append(cmds, m.passCmd(raw))
		}

	case passDoneMsg:
		m.busy = false
		m.view = msg.view
		m.status = "ready"
		if msg.view.Recognized != "" {
			m.status = "Recognized: " + msg.view.Recognized
		}
		m.refreshTranscript()
		if msg.view.Rerender {
			m.busy = true
			m.status = "synthesizing audio..."
			cmds = append(cmds, m.passCmd(""))
		}

	case ingestDoneMsg:
		m.ingesting = false
		if msg.err != nil {
			m.status = "ingestion failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("ingested %d document(s); ask away", msg.files)
		}
		// Refresh the view so the directive reflects the new gate state.
		m.busy = true
		cmds = append(cmds, m.passCmd(""))

	case statusMsg:
		m.status = string(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refreshTranscript rebuilds the viewport content from the current view.
func (m *Model) refreshTranscript() {
	m.transcript.SetContent(renderTranscript(m.view))
	m.transcript.GotoBottom()
}

// renderTranscript formats the turn history for display.
func renderTranscript(v controller.View) string {
	if len(v.Turns) == 0 {
		if v.Directive != "" {
			return directiveStyle.Render(v.Directive)
		}
		return statusStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, turn := range v.Turns {
		switch turn.Role {
		case session.RoleUser:
			b.WriteString(userStyle.Render("You") + "  " + turn.Text)
		case session.RoleAssistant:
			marker := ""
			if turn.Audio != nil {
				marker = " ♪"
			}
			b.WriteString(assistantStyle.Render("Murshed"+marker) + "  " + turn.Text)
			for _, src := range turn.Sources {
				b.WriteString("\n" + sourceStyle.Render("    ↳ "+formatSource(src.Document, src.Pages)))
			}
		}
		if i < len(v.Turns)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// formatSource renders one grounding reference.
func formatSource(doc string, pages []int) string {
	if len(pages) == 0 {
		return doc
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return fmt.Sprintf("%s (pages %s)", doc, strings.Join(parts, ", "))
}

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	sess := m.ctrl.Session()
	header := headerStyle.Render("murshed") + statusStyle.Render(
		fmt.Sprintf("  tts=%s voice=%s  session=%s", sess.TTSProvider, sess.Voice, sess.ID[:8]))

	var statusLine string
	switch {
	case m.busy || m.ingesting:
		statusLine = m.spin.View() + " " + statusStyle.Render(m.status)
	case m.view.Err != nil:
		statusLine = errorStyle.Render("error: " + m.view.Err.Message)
	case m.view.Directive != "":
		statusLine = directiveStyle.Render(m.view.Directive)
	default:
		statusLine = statusStyle.Render(m.status)
	}

	return header + "\n" +
		m.transcript.View() + "\n" +
		statusLine + "\n" +
		m.input.View()
}

// Run starts the TUI and blocks until the user quits.
func Run(ctrl *controller.Controller, docs *document.Service, opts Options) error {
	p := tea.NewProgram(NewModel(ctrl, docs, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
