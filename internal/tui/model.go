// Package tui is the interactive terminal front end. It only talks to the
// explorer controller through its commands and renders its snapshots.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/pcx/internal/explorer"
	"github.com/vburojevic/pcx/internal/jsonview"
)

type pane int

const (
	paneExperiments pane = iota
	paneSubjects
	paneInspector
)

// doneMsg reports that a controller command finished
type doneMsg struct {
	err error
}

// changedMsg reports a state change that happened outside a command
type changedMsg struct{}

// Model is the bubbletea model of the explorer
type Model struct {
	ctx      context.Context
	ctrl     *explorer.Controller
	changes  <-chan struct{}
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	focus      pane
	cursors    [2]int // experiment and subject pane cursors
	offsets    [2]int
	inspCursor int
	textMode   bool
	doc        *jsonview.Document // document the inspector cursor belongs to
	preview    int

	width  int
	height int
}

// New creates a model over ctrl. changes carries controller OnChange
// notifications; it may be nil.
func New(ctx context.Context, ctrl *explorer.Controller, changes <-chan struct{}, previewCount int) Model {
	if previewCount <= 0 {
		previewCount = jsonview.DefaultPreviewCount
	}
	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		changes:  changes,
		keys:     defaultKeys(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		viewport: viewport.New(60, 20),
		preview:  previewCount,
		width:    120,
		height:   32,
	}
}

// Init loads both lists and starts the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh(), m.waitForChange())
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: m.ctrl.Refresh(m.ctx)}
	}
}

func (m Model) togglePanel(k explorer.PanelKey) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: m.ctrl.TogglePanel(m.ctx, k)}
	}
}

func (m Model) selectSession(id string) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: m.ctrl.SelectSession(m.ctx, id)}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.changes:
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update handles input and command results
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncInspector()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.syncInspector()
		return m, cmd

	case doneMsg:
		// failures are already part of the snapshot
		m.clampCursors()
		m.syncInspector()
		return m, nil

	case changedMsg:
		return m, m.waitForChange()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		m.focus = (m.focus + 1) % 3

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Enter):
		return m, m.activate()

	case key.Matches(msg, m.keys.Samples):
		m.ctrl.SetMode(!m.ctrl.Mode().IncludeSamples())
		m.syncInspector()

	case key.Matches(msg, m.keys.Refresh):
		m.cursors = [2]int{}
		m.offsets = [2]int{}
		return m, m.refresh()

	case key.Matches(msg, m.keys.Copy):
		m.ctrl.CopyJSON()

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearInspector()
		m.syncInspector()

	case key.Matches(msg, m.keys.Text):
		m.textMode = !m.textMode
		m.syncInspector()

	case key.Matches(msg, m.keys.Fold):
		m.fold()
	}
	return m, nil
}

// activate runs enter on the focused row
func (m *Model) activate() tea.Cmd {
	if m.focus == paneInspector {
		m.fold()
		return nil
	}
	rows := m.rows(m.focus)
	i := m.cursors[m.focus]
	if i < 0 || i >= len(rows) {
		return nil
	}
	r := rows[i]
	switch {
	case r.session != "":
		return m.selectSession(r.session)
	case r.header:
		return m.togglePanel(r.panel)
	}
	return nil
}

// fold toggles the tree node under the inspector cursor
func (m *Model) fold() {
	if m.focus != paneInspector || m.textMode {
		return
	}
	lines := m.doc.Lines(m.preview)
	if m.inspCursor >= len(lines) {
		return
	}
	lines[m.inspCursor].Node.Toggle()
	m.syncInspector()
}

func (m *Model) move(delta int) {
	if m.focus == paneInspector {
		if m.textMode {
			if delta < 0 {
				m.viewport.LineUp(1)
			} else {
				m.viewport.LineDown(1)
			}
			return
		}
		m.inspCursor += delta
		m.syncInspector()
		return
	}
	m.cursors[m.focus] += delta
	m.clampCursors()
}

func (m Model) rows(p pane) []row {
	v := m.ctrl.Snapshot()
	if p == paneSubjects {
		return flatten(v.Subjects)
	}
	return flatten(v.Experiments)
}

func (m *Model) clampCursors() {
	for p := paneExperiments; p <= paneSubjects; p++ {
		n := len(m.rows(p))
		m.cursors[p] = clamp(m.cursors[p], 0, n-1)
		m.offsets[p] = scrollOffset(m.offsets[p], m.cursors[p], m.listRows())
	}
}

// listRows is roughly how many rows fit in a list pane below its title
// and status lines.
func (m Model) listRows() int {
	return max(1, m.listHeight()-2)
}

func (m Model) listHeight() int {
	return (m.height-4)/2 - 2
}

// syncInspector refreshes the viewport from the current document and keeps
// the tree cursor on screen.
func (m *Model) syncInspector() {
	w, h := m.inspectorSize()
	m.viewport.Width = w
	m.viewport.Height = h

	insp := m.ctrl.Snapshot().Inspector
	if insp.Document != m.doc {
		m.doc = insp.Document
		m.inspCursor = 0
		m.viewport.GotoTop()
	}
	if m.doc == nil {
		m.viewport.SetContent(dimStyle.Render(insp.Hint))
		return
	}
	if m.textMode {
		m.viewport.SetContent(m.doc.Text)
		return
	}

	lines := m.doc.Lines(m.preview)
	m.inspCursor = clamp(m.inspCursor, 0, len(lines)-1)
	rendered := make([]string, len(lines))
	for i, l := range lines {
		text := strings.Repeat("  ", l.Depth) + l.Text
		if i == m.inspCursor && m.focus == paneInspector {
			text = selectedStyle.Render(text)
		}
		rendered[i] = text
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	if m.inspCursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.inspCursor)
	} else if m.inspCursor >= m.viewport.YOffset+h {
		m.viewport.SetYOffset(m.inspCursor - h + 1)
	}
}

// View renders the header, the two list panes, the inspector and help
func (m Model) View() string {
	v := m.ctrl.Snapshot()

	leftWidth := m.width/2 - 2
	listHeight := m.listHeight()

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderList(paneExperiments, "Experiments", v.Experiments, leftWidth, listHeight),
		m.renderList(paneSubjects, "Subjects", v.Subjects, leftWidth, listHeight),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderInspector(v))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(v),
		body,
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

func (m Model) renderHeader(v explorer.View) string {
	mode := dimStyle.Render("includeSamples=" + v.Mode.String())
	if v.Mode.IncludeSamples() {
		mode = modeOnStyle.Render("includeSamples=" + v.Mode.String())
	}
	return titleStyle.Render("pcx") + " " + mode
}

func (m Model) renderList(p pane, title string, list explorer.ListView, width, height int) string {
	header := paneTitleStyle.Render(title)
	if count := list.CountText(); count != "" {
		header += " " + dimStyle.Render(count)
	}

	lines := []string{header}
	if list.Status.Text != "" {
		status := list.Status.Text
		if list.Status.Level == explorer.LevelInfo {
			status = m.spinner.View() + " " + status
		}
		lines = append(lines, statusStyle(list.Status.Level).Render(status))
	}

	rows := flatten(list)
	visible := max(1, height-len(lines))
	cursor := m.cursors[p]
	offset := scrollOffset(m.offsets[p], cursor, visible)
	end := min(len(rows), offset+visible)
	for i := offset; i < end; i++ {
		text := lipgloss.NewStyle().MaxWidth(width).Render(rows[i].text)
		if i == cursor && m.focus == p {
			text = selectedStyle.Render(text)
		}
		lines = append(lines, text)
	}

	style := paneStyle
	if m.focus == p {
		style = focusedPaneStyle
	}
	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderInspector(v explorer.View) string {
	width, height := m.inspectorSize()

	title := paneTitleStyle.Render("Session JSON")
	if v.Inspector.State == explorer.InspectorLoading {
		title += " " + m.spinner.View()
	}
	if v.Inspector.CanCopy() {
		title += " " + copyStyle.Render(v.CopyLabel)
	}
	hint := dimStyle.MaxWidth(width).Render(v.Inspector.Hint)
	if v.Inspector.Document == nil {
		hint = ""
	}

	style := paneStyle
	if m.focus == paneInspector {
		style = focusedPaneStyle
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, hint, m.viewport.View())
	return style.Width(width).Height(height + 2).Render(content)
}

func (m Model) inspectorSize() (int, int) {
	return max(20, m.width-m.width/2-2), max(3, m.height-8)
}

// scrollOffset keeps cursor inside a window of visible rows
func scrollOffset(offset, cursor, visible int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visible {
		return cursor - visible + 1
	}
	return offset
}

func clamp(v, low, high int) int {
	if high < low {
		return low
	}
	return min(max(v, low), high)
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *explorer.Controller, changes <-chan struct{}, previewCount int) error {
	p := tea.NewProgram(New(ctx, ctrl, changes, previewCount), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
