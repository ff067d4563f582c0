package trackers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	trackerdto "tracky/internal/modules/tracker/dto"
	"tracky/internal/ui/render"
	"tracky/internal/ui/theme"
)

type Port interface {
	List(ctx context.Context, match string) (trackerdto.ListOutput, error)
	Status(ctx context.Context, title string) (trackerdto.StatusOutput, error)
}

type ListLoadedMsg struct {
	List trackerdto.ListOutput
	Err  error
}

type StatusLoadedMsg struct {
	Status trackerdto.StatusOutput
	Err    error
}

type trackerItem struct {
	tracker trackerdto.TrackerOutput
}

func (i trackerItem) Title() string {
	if i.tracker.Current {
		return "> " + i.tracker.Title
	}
	return "  " + i.tracker.Title
}

func (i trackerItem) Description() string {
	state := "idle"
	if i.tracker.Running {
		state = "running"
	}
	return fmt.Sprintf("  %s  %d logs", state, i.tracker.Logs)
}

func (i trackerItem) FilterValue() string { return i.tracker.Title }

// Model shows the trackers on the left and the highlighted tracker's status
// on the right.
type Model struct {
	port     Port
	renderer render.Renderer
	list     list.Model
	status   viewport.Model
	loaded   bool
	width    int
	height   int
}

func New(port Port, renderer render.Renderer) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Trackers"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, renderer: renderer, list: l, status: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload re-reads the tracker list. The status pane follows once the list
// arrives.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.List(context.Background(), "")
		return ListLoadedMsg{List: out, Err: err}
	}
}

// RefreshStatus re-reads the highlighted tracker so open logs show their
// live duration.
func (m Model) RefreshStatus() tea.Cmd {
	title, ok := m.SelectedTitle()
	if !ok {
		return nil
	}
	return m.loadStatusCmd(title)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ListLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.list.Title = "Trackers: " + render.Message(msg.Err)
			return m, nil
		}
		m.list.Title = "Trackers"
		items := make([]list.Item, len(msg.List.Trackers))
		for i, t := range msg.List.Trackers {
			items[i] = trackerItem{tracker: t}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(items) == 0 {
			m.status.SetContent(theme.Muted.Render("No trackers exist\n\n:new <title> creates one"))
		} else {
			cmds = append(cmds, m.RefreshStatus())
		}

	case StatusLoadedMsg:
		if msg.Err != nil {
			m.status.SetContent(m.renderer.Error(msg.Err))
		} else {
			m.status.SetContent(m.renderer.Status(msg.Status) + "\n" +
				theme.Muted.Render("enter: switch  s: start/stop  :: command"))
		}
	}

	if m.loaded {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			cmds = append(cmds, m.RefreshStatus())
		}

		var vCmd tea.Cmd
		m.status, vCmd = m.status.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	statusW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	statusPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(statusW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.status.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, statusPane)
}

func (m Model) SelectedTitle() (string, bool) {
	if item, ok := m.list.SelectedItem().(trackerItem); ok {
		return item.tracker.Title, true
	}
	return "", false
}

// SelectedRunning reports whether the highlighted tracker has an open log.
func (m Model) SelectedRunning() bool {
	if item, ok := m.list.SelectedItem().(trackerItem); ok {
		return item.tracker.Running
	}
	return false
}

// Filtering reports whether the list's search filter is active. Global keys
// yield while it is.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	statusW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.status.Width = max(statusW-4, 0)
	m.status.Height = max(m.height-4, 0)
}

func (m Model) loadStatusCmd(title string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Status(context.Background(), title)
		return StatusLoadedMsg{Status: out, Err: err}
	}
}
