// Package tui is the terminal view of the reader: a prompt, a headings
// sidebar and the outline with expanded bodies. Keys are forwarded to the
// reader controller; focus intents and status changes come back as events.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/naofs/pkg/events"
	"github.com/go-go-golems/naofs/pkg/generation"
	"github.com/go-go-golems/naofs/pkg/keys"
	"github.com/go-go-golems/naofs/pkg/reader"
	"github.com/go-go-golems/naofs/pkg/speech"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog/log"
)

const (
	sidebarWidth = 30
	rateStep     = 0.1
)

// EventMsg carries a reader event into the update loop.
type EventMsg struct {
	Seq   uint64
	Event events.Event
}

type generationDoneMsg struct {
	completion generation.Completion
}

type voicesLoadedMsg struct {
	voices []speech.Voice
	err    error
}

type Model struct {
	ctx  context.Context
	ctrl *reader.Controller

	textArea textarea.Model
	// is the prompt currently focused
	focused  bool
	viewport viewport.Model
	help     help.Model
	keyMap   KeyMap
	style    *Style

	speech speech.Status
	width  int
	height int
}

func NewModel(ctx context.Context, ctrl *reader.Controller) Model {
	ret := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		keyMap:   DefaultKeyMap,
		style:    DefaultStyles(),
		help:     help.New(),
		viewport: viewport.New(80, 10),
		speech:   ctrl.Speech().Status(),
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Describe what the outline should cover..."
	ret.textArea.SetHeight(3)
	ret.textArea.ShowLineNumbers = false
	ret.textArea.SetValue(ctrl.Prompt())
	ret.keyMap.updateKeyBindings(ret.focused)

	return ret
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadVoices())
}

// loadVoices only fetches; the controller takes the list in Update.
func (m Model) loadVoices() tea.Cmd {
	sc := m.ctrl.Speech()
	ctx := m.ctx
	return func() tea.Msg {
		voices, err := sc.Voices(ctx)
		return voicesLoadedMsg{voices: voices, err: err}
	}
}

func waitFor(ticket *generation.Ticket) tea.Cmd {
	return func() tea.Msg {
		return generationDoneMsg{completion: ticket.Wait()}
	}
}

func (m Model) focus() keys.Focus {
	if m.focused {
		return keys.Focus{Tag: "textarea", Editable: true}
	}
	return keys.Focus{Tag: "article"}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.ForceQuit) {
			m.ctrl.Cancel()
			m.ctrl.StopSpeech()
			return m, tea.Quit
		}

		res, ticket := m.ctrl.HandleKey(m.ctx, keys.FromTea(msg, m.focus()))
		if ticket != nil {
			cmds = append(cmds, waitFor(ticket))
		}
		if res.Handled {
			m.refreshViewport()
			return m, tea.Batch(cmds...)
		}

		if m.focused {
			if key.Matches(msg, m.keyMap.BlurPrompt) {
				m.blurPrompt()
				break
			}
			m.textArea, cmd = m.textArea.Update(msg)
			cmds = append(cmds, cmd)
			m.ctrl.SetPrompt(m.textArea.Value())
			break
		}

		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.ctrl.Cancel()
			m.ctrl.StopSpeech()
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.FocusPrompt):
			cmds = append(cmds, m.focusPrompt())
		case key.Matches(msg, m.keyMap.Refresh):
			m.ctrl.Refresh()
		case key.Matches(msg, m.keyMap.ToggleTitles):
			m.ctrl.SetAutoSpeakTitles(!m.ctrl.Preferences().AutoSpeakTitles)
		case key.Matches(msg, m.keyMap.ToggleBodies):
			m.ctrl.SetAutoSpeakBodies(!m.ctrl.Preferences().AutoSpeakBodies)
		case key.Matches(msg, m.keyMap.CycleVerbosity):
			m.ctrl.CycleVerbosity()
		case key.Matches(msg, m.keyMap.CycleLanguage):
			m.ctrl.CycleLanguage()
		case key.Matches(msg, m.keyMap.CancelGeneration):
			m.ctrl.Cancel()
		case key.Matches(msg, m.keyMap.RateUp):
			m.ctrl.AdjustRate(rateStep)
		case key.Matches(msg, m.keyMap.RateDown):
			m.ctrl.AdjustRate(-rateStep)
		case key.Matches(msg, m.keyMap.Jump):
			m.ctrl.Focus(int(msg.String()[0] - '1'))
		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		}

	case generationDoneMsg:
		m.ctrl.Apply(msg.completion)

	case EventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event))

	case voicesLoadedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("could not load voices")
			break
		}
		m.ctrl.SetVoices(msg.voices)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	default:
		if m.focused {
			m.textArea, cmd = m.textArea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.refreshViewport()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(e events.Event) tea.Cmd {
	switch e := e.(type) {
	case *events.FocusIntent:
		if e.Target == events.FocusTargetPrompt {
			return m.focusPrompt()
		}
		m.blurPrompt()
	case *events.SpeechChanged:
		m.speech = speech.Status{Available: e.Available, Speaking: e.Speaking, Pending: e.Pending}
	case *events.OutlineReplaced:
		m.viewport.GotoTop()
	}
	return nil
}

func (m *Model) focusPrompt() tea.Cmd {
	if m.focused {
		return nil
	}
	m.focused = true
	m.keyMap.updateKeyBindings(true)
	return m.textArea.Focus()
}

func (m *Model) blurPrompt() {
	if !m.focused {
		return
	}
	m.textArea.Blur()
	m.focused = false
	m.keyMap.updateKeyBindings(false)
}

func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	h, _ := m.style.FocusedPrompt.GetFrameSize()
	m.textArea.SetWidth(m.width - h)
	m.help.Width = m.width

	rw, rh := m.style.Reader.GetFrameSize()
	m.viewport.Width = max(10, m.width-sidebarWidth-rw)
	// header, prompt (3 lines + border), status, controls, help
	used := 1 + m.textArea.Height() + 2 + 1 + 1 + lipgloss.Height(m.help.View(m.helpKeys()))
	m.viewport.Height = max(3, m.height-used-rh)
}

func (m Model) helpKeys() helpKeys {
	return helpKeys{reader: m.ctrl.KeyMap(), view: m.keyMap}
}

// refreshViewport re-renders the outline and scrolls the current entry into
// view.
func (m *Model) refreshViewport() {
	content, top, bottom := m.renderEntries(m.viewport.Width)
	m.viewport.SetContent(content)
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height + 1)
	}
}

// renderEntries returns the outline text and the line span of the current
// entry.
func (m Model) renderEntries(width int) (string, int, int) {
	nav := m.ctrl.Navigator()
	if nav.Len() == 0 {
		return m.style.Muted.Render("No sections."), 0, 0
	}

	textWidth := max(10, width-4)
	var lines []string
	top, bottom := 0, 0
	for i, e := range nav.Entries() {
		marker := "▸"
		if nav.IsExpanded(e.ID) {
			marker = "▾"
		}
		block := fmt.Sprintf("%s %s", marker, wordwrap.String(e.Title, textWidth))
		if nav.IsExpanded(e.ID) && e.Body != "" {
			block += "\n" + m.style.Body.Render(wordwrap.String(e.Body, textWidth-3))
		}
		if i == nav.Index() && !m.focused {
			block = m.style.SelectedEntry.Render(block)
		} else {
			block = m.style.Entry.Render(block)
		}
		if i == nav.Index() {
			top = len(lines)
		}
		lines = append(lines, strings.Split(block, "\n")...)
		if i == nav.Index() {
			bottom = len(lines) - 1
		}
	}
	return strings.Join(lines, "\n"), top, bottom
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.style.Header.Render("naofs · outline reader"))
	sb.WriteString("\n")

	prompt := m.textArea.View()
	if m.focused {
		prompt = m.style.FocusedPrompt.Render(prompt)
	} else {
		prompt = m.style.UnfocusedPrompt.Render(prompt)
	}
	sb.WriteString(prompt)
	sb.WriteString("\n")

	status := m.ctrl.Status()
	if strings.HasPrefix(status, "Error:") {
		sb.WriteString(m.style.Error.Render(status))
	} else {
		sb.WriteString(m.style.Status.Render(status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.controls())
	sb.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), m.style.Reader.Render(m.viewport.View()))
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.helpKeys()))

	return sb.String()
}

func (m Model) controls() string {
	generate := "generate: ctrl+g"
	if m.ctrl.Busy() {
		generate = "generating… (x to cancel)"
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	prefs := m.ctrl.Preferences()
	parts := []string{
		"verbosity: " + m.ctrl.Verbosity(),
		"language: " + m.ctrl.Language(),
		generate,
		"titles: " + onOff(prefs.AutoSpeakTitles),
		"bodies: " + onOff(prefs.AutoSpeakBodies),
	}
	if !m.speech.Available {
		parts = append(parts, "Speech not available.")
	} else {
		s := m.ctrl.Speech().Settings()
		voice := "default voice"
		if v, ok := m.ctrl.Voice(); ok {
			voice = v.DisplayName
		}
		speaking := ""
		if m.speech.Speaking {
			speaking = " 🔊"
		}
		parts = append(parts, fmt.Sprintf("%s · rate %.1f · volume %.1f%s", voice, s.Rate, s.Volume, speaking))
	}
	return m.style.Muted.Render(" " + strings.Join(parts, " | "))
}

func (m Model) sidebar() string {
	nav := m.ctrl.Navigator()
	var sb strings.Builder
	sb.WriteString("Headings ")
	sb.WriteString(m.style.Badge.Render(fmt.Sprintf("%d", nav.Len())))
	sb.WriteString("\n")
	for i, e := range nav.Entries() {
		title := e.Title
		if len([]rune(title)) > sidebarWidth-8 {
			title = string([]rune(title)[:sidebarWidth-9]) + "…"
		}
		line := fmt.Sprintf("%d. %s", i+1, title)
		if i == nav.Index() {
			line = m.style.SidebarSelected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	// lipgloss widths include padding but not borders
	w := m.style.Sidebar.GetHorizontalBorderSize()
	return m.style.Sidebar.Width(sidebarWidth - w).Height(m.viewport.Height).Render(strings.TrimRight(sb.String(), "\n"))
}
