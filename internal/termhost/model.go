// Package termhost presents toasts inside a bubbletea terminal program.
package termhost

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/transition"
)

// frameInterval is the redraw rate while a toast is mounted.
const frameInterval = time.Second / 30

// maxEvents is how many event log lines are kept.
const maxEvents = 8

type frameMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// Model is the bubbletea model hosting the toast surface.
type Model struct {
	presenter *toast.Presenter
	screen    model.ScreenID
	cfg       *config.DaemonConfig
	demo      *Demo

	keys KeyMap
	help help.Model

	width  int
	height int
	ready  bool

	session *toast.Session
	events  []string

	statusMsg string
	statusErr bool
}

// NewModel creates a model drawing toasts for screen.
func NewModel(p *toast.Presenter, screen model.ScreenID, cfg *config.DaemonConfig) Model {
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}
	return Model{
		presenter: p,
		screen:    screen,
		cfg:       cfg,
		demo:      &Demo{},
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		// The bottom row is reserved for the help bar.
		_ = m.presenter.Screens().Resize(m.screen, transition.Size{
			Width:  float64(msg.Width),
			Height: float64(max(msg.Height-1, 1)),
		})
		return m, nil

	case mountMsg:
		m.session = msg.session
		return m, frameTick()

	case unmountMsg:
		if m.session == msg.session {
			m.session = nil
		}
		return m, nil

	case frameMsg:
		if m.session == nil {
			return m, nil
		}
		return m, frameTick()

	case eventMsg:
		m.events = append(m.events, msg.text)
		if len(m.events) > maxEvents {
			m.events = m.events[len(m.events)-maxEvents:]
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}
	return m, nil
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// handleKey handles key presses. Presenter calls run as commands: the
// host sends mount and unmount messages back into the program, which would
// block if issued from inside Update.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Tap):
		if s := m.session; s != nil {
			return m, func() tea.Msg {
				s.Tap()
				return nil
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		return m, func() tea.Msg {
			m.presenter.Dismiss(m.screen)
			return nil
		}

	case key.Matches(msg, m.keys.Clear):
		return m, func() tea.Msg {
			n := m.presenter.Clear()
			return statusMsg{text: fmt.Sprintf("Cleared %d toast(s)", n)}
		}

	case key.Matches(msg, m.keys.Copy):
		if m.session == nil {
			return m, nil
		}
		text := m.session.Descriptor().Message
		return m, func() tea.Msg {
			if err := copyText(text); err != nil {
				return statusMsg{text: "Copy failed: " + err.Error(), isErr: true}
			}
			return statusMsg{text: "Copied to clipboard"}
		}

	case key.Matches(msg, m.keys.Next):
		return m, m.showDemo(1)

	case key.Matches(msg, m.keys.Burst):
		return m, m.showDemo(3)
	}
	return m, nil
}

func (m Model) showDemo(n int) tea.Cmd {
	return func() tea.Msg {
		for i := 0; i < n; i++ {
			d, err := m.demo.Next(m.screen)
			if err == nil {
				_, err = m.presenter.Show(d, d.Length)
			}
			if err != nil {
				return statusMsg{text: "Show failed: " + err.Error(), isErr: true}
			}
		}
		return nil
	}
}

// handleMouse maps a click on the toast to the configured action.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || m.session == nil {
		return m, nil
	}
	block, x, y := renderToast(m.session, m.presenter.Options())
	if !hit(block, x, y, msg.X, msg.Y) {
		return m, nil
	}

	s := m.session
	switch m.cfg.MouseActionFor(uint(msg.Button)) {
	case config.MouseActionDismiss:
		return m, func() tea.Msg {
			s.Tap()
			return nil
		}
	case config.MouseActionCloseAll:
		return m, func() tea.Msg {
			m.presenter.Clear()
			return nil
		}
	}
	return m, nil
}

// View renders the screen: event log, toast overlay and help bar.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	rows := max(m.height-1, 1)
	bg := make([]string, rows)

	logStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	start := max(rows-len(m.events), 0)
	for i, e := range m.events {
		if row := start + i; row < rows {
			bg[row] = logStyle.Render(ansi.Truncate(e, m.width, "…"))
		}
	}

	if m.session != nil {
		block, x, y := renderToast(m.session, m.presenter.Options())
		bg = overlay(bg, block, x, y, m.width)
	}

	return strings.Join(bg, "\n") + "\n" + m.bottomBar()
}

func (m Model) bottomBar() string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}
	if m.help.ShowAll {
		// FullHelp spans several rows; keep the bar to one line.
		return strings.ReplaceAll(m.help.View(m.keys), "\n", "  ")
	}
	return m.help.View(m.keys)
}
