package tui

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/pkg/audio"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

const helpText = `/ingest <pdf> [pdf...]  build the document index
/speak <wav>            stage a voice capture (delivered until /mute)
/mute                   clear the staged capture
/provider <name>        switch the synthesis route
/voice <name>           switch the voice (openai route only)
/save <turn> <file>     export a reply's audio
/quit                   exit`

// handleSlash executes one slash command. It may mutate the model and may
// return a command to run off the event loop.
func (m *Model) handleSlash(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	switch parts[0] {
	case "/help":
		m.status = "commands available"
		m.transcript.SetContent(helpText)
		return nil

	case "/quit", "/exit":
		return tea.Quit

	case "/ingest":
		if len(parts) < 2 {
			m.status = "usage: /ingest <pdf> [pdf...]"
			return nil
		}
		if m.busy || m.ingesting {
			m.status = "still working, hold on"
			return nil
		}
		m.ingesting = true
		m.status = "processing documents..."
		return m.ingestCmd(parts[1:])

	case "/speak":
		if len(parts) != 2 {
			m.status = "usage: /speak <wav>"
			return nil
		}
		capture, err := os.ReadFile(parts[1])
		if err != nil {
			m.status = "cannot read capture: " + err.Error()
			return nil
		}
		info, err := audio.Inspect(capture)
		if err != nil {
			m.status = err.Error()
			return nil
		}
		m.stagedCapture = capture
		m.status = fmt.Sprintf("staged %s capture (%.1fs)", parts[1], info.Duration().Seconds())
		if m.busy || m.ingesting {
			m.status = "capture staged; it will be delivered next pass"
			return nil
		}
		m.busy = true
		m.status = "transcribing..."
		return m.passCmd("")

	case "/mute":
		m.stagedCapture = nil
		m.status = "capture cleared"
		return nil

	case "/provider":
		if len(parts) != 2 {
			m.status = "usage: /provider <" + strings.Join(m.opts.Providers, "|") + ">"
			return nil
		}
		name := strings.ToLower(parts[1])
		if !slices.Contains(m.opts.Providers, name) {
			m.status = "unknown provider " + name + "; available: " + strings.Join(m.opts.Providers, ", ")
			return nil
		}
		m.ctrl.Session().TTSProvider = name
		m.status = "synthesis route set to " + name
		return nil

	case "/voice":
		if len(parts) != 2 {
			m.status = "usage: /voice <name>"
			return nil
		}
		voice := tts.Voice(strings.ToLower(parts[1]))
		if !voice.IsValid() {
			names := make([]string, len(tts.Voices))
			for i, v := range tts.Voices {
				names[i] = string(v)
			}
			m.status = "unknown voice; available: " + strings.Join(names, ", ")
			return nil
		}
		m.ctrl.Session().Voice = voice
		m.status = "voice set to " + string(voice)
		return nil

	case "/save":
		if len(parts) != 3 {
			m.status = "usage: /save <turn> <file>"
			return nil
		}
		return m.saveAudio(parts[1], parts[2])

	default:
		m.status = "unknown command " + parts[0] + "; try /help"
		return nil
	}
}

// saveAudio exports the audio blob of the 1-based turn number to path.
func (m *Model) saveAudio(turnArg, path string) tea.Cmd {
	n, err := strconv.Atoi(turnArg)
	if err != nil || n < 1 || n > len(m.view.Turns) {
		m.status = fmt.Sprintf("turn must be between 1 and %d", len(m.view.Turns))
		return nil
	}
	turn := m.view.Turns[n-1]
	if turn.Role != session.RoleAssistant {
		m.status = "only assistant turns carry audio"
		return nil
	}
	if turn.Audio == nil {
		m.status = "that turn has no audio yet"
		return nil
	}
	if err := os.WriteFile(path, turn.Audio.Data, 0o644); err != nil {
		m.status = "save failed: " + err.Error()
		return nil
	}
	m.status = "audio saved to " + path
	return nil
}
