package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tracky/internal/modules/tracker/dto"
	"tracky/internal/ui/components"
	"tracky/internal/ui/render"
	"tracky/internal/ui/theme"
	trackersview "tracky/internal/ui/views/trackers"
)

const refreshInterval = time.Second

// trackerPort is the slice of the tracker CLI handler the dashboard drives.
type trackerPort interface {
	New(ctx context.Context, title string) (trackerdto.CreateOutput, error)
	Delete(ctx context.Context, title string) (trackerdto.TitleOutput, error)
	Start(ctx context.Context, title, notes string) (trackerdto.StartOutput, error)
	Stop(ctx context.Context, title string) (trackerdto.StopOutput, error)
	Switch(ctx context.Context, title string) (trackerdto.TitleOutput, error)
	List(ctx context.Context, match string) (trackerdto.ListOutput, error)
	Status(ctx context.Context, title string) (trackerdto.StatusOutput, error)
}

type tickMsg time.Time

// actionDoneMsg carries the rendered outcome of a mutating command.
type actionDoneMsg struct {
	text string
	err  error
}

type keyMap struct {
	Switch  key.Binding
	Toggle  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Switch:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch to tracker")),
		Toggle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Toggle, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Switch, k.Toggle},
		{k.Palette, k.Help, k.Quit},
	}
}

// Model is the root Bubble Tea model. Keys act on the highlighted tracker;
// palette commands follow the CLI and act on the current one.
type Model struct {
	port     trackerPort
	renderer render.Renderer
	watcher  *StateWatcher

	view     trackersview.Model
	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

// NewModel builds the dashboard. watcher may be nil, in which case external
// edits show up only on the next reload.
func NewModel(port trackerPort, renderer render.Renderer, watcher *StateWatcher) Model {
	return Model{
		port:     port,
		renderer: renderer,
		watcher:  watcher,
		view:     trackersview.New(port, renderer),
		keys:     defaultKeys(),
		help:     help.New(),
		palette:  components.NewPalette(),
		status:   "ready",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.view.Init(), tick()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.next())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 3})
		return m, cmd

	case tickMsg:
		return m, tea.Batch(m.view.RefreshStatus(), tick())

	case stateChangedMsg:
		return m, tea.Batch(m.view.Reload(), m.watcher.next())

	case watchFailedMsg:
		m.status = "watch: " + msg.err.Error()
		return m, m.watcher.next()

	case actionDoneMsg:
		if msg.err != nil {
			m.status = m.renderer.Error(msg.err)
		} else {
			m.status = msg.text
		}
		return m, m.view.Reload()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.view.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Switch):
			if title, ok := m.view.SelectedTitle(); ok {
				return m, m.switchCmd(title)
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			title, ok := m.view.SelectedTitle()
			if !ok {
				return m, nil
			}
			if m.view.SelectedRunning() {
				return m, m.stopCmd(title)
			}
			return m, m.startCmd(title, "")
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(theme.Hot.Render(" tracky ")) + "\n"
	statusBar := m.renderStatusBar()

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" + theme.Muted.Render(strings.Join(components.Suggest(""), "\n")))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.view.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// executePalette runs a command line from the palette. Titles and notes
// keep their inner spaces.
func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)
	switch verb {
	case "":
		return m, nil
	case "new":
		if rest == "" {
			m.status = "usage: new <title>"
			return m, nil
		}
		return m, m.newCmd(rest)
	case "start":
		return m, m.startCmd("", rest)
	case "stop":
		return m, m.stopCmd("")
	case "switch":
		if rest == "" {
			m.status = "usage: switch <title>"
			return m, nil
		}
		return m, m.switchCmd(rest)
	case "delete":
		return m, m.deleteCmd()
	case "reload":
		m.status = "reloaded"
		return m, m.view.Reload()
	default:
		m.status = "unknown command: " + verb
		return m, nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) newCmd(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.New(context.Background(), title)
		return actionDoneMsg{text: m.renderer.Created(out), err: err}
	}
}

func (m Model) startCmd(title, notes string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background(), title, notes)
		return actionDoneMsg{text: m.renderer.Started(out), err: err}
	}
}

func (m Model) stopCmd(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Stop(context.Background(), title)
		return actionDoneMsg{text: m.renderer.Stopped(out), err: err}
	}
}

func (m Model) switchCmd(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Switch(context.Background(), title)
		return actionDoneMsg{text: m.renderer.Switched(out), err: err}
	}
}

func (m Model) deleteCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Delete(context.Background(), "")
		return actionDoneMsg{text: m.renderer.Deleted(out), err: err}
	}
}
