// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/litescript/ls-lunar/internal/refresh"
	"github.com/litescript/ls-lunar/internal/state"
	"github.com/litescript/ls-lunar/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewMoon ViewMode = iota
	ViewFeatures
	ViewEvents
)

const viewCount = 3

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new observation is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a refresh error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager
	clock clockwork.Clock

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	// Sub-models
	moonView    MoonViewModel
	featureList FeatureListModel
	eventLog    EventLogModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model. A nil clock means the real clock.
func New(stateMgr *state.Manager, clock clockwork.Clock) Model {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return Model{
		state:       stateMgr,
		clock:       clock,
		viewMode:    ViewMoon,
		moonView:    NewMoonViewModel(),
		featureList: NewFeatureListModel(),
		eventLog:    NewEventLogModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "m":
			m.viewMode = ViewMoon
		case "2", "f":
			m.viewMode = ViewFeatures
		case "3", "e":
			m.viewMode = ViewEvents

		case "tab":
			// Cycle through views
			m.viewMode = (m.viewMode + 1) % viewCount

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.moonView = m.moonView.SetSize(msg.Width, contentHeight)
		m.featureList = m.featureList.SetSize(msg.Width, contentHeight)
		m.eventLog = m.eventLog.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.setSnapshot(m.state.Snapshot())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.setSnapshot(msg.Snapshot)
		m.moonView = m.moonView.SetError(nil)

	case ErrorMsg:
		m.moonView = m.moonView.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.moonView = m.moonView.UpdateData(snap, m.state.History(), m.state.ColongitudeRate())
	m.featureList = m.featureList.UpdateData(snap)
	m.eventLog = m.eventLog.UpdateData(snap)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewFeatures:
		m.featureList, cmd = m.featureList.Update(msg)
	case ViewEvents:
		m.eventLog, cmd = m.eventLog.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewMoon:
		content = m.moonView.View()
	case ViewFeatures:
		content = m.featureList.View()
	case ViewEvents:
		content = m.eventLog.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗      ██╗     ██╗   ██╗███╗   ██╗ █████╗ ██████╗ `,
		`  ██║     ██╔════╝      ██║     ██║   ██║████╗  ██║██╔══██╗██╔══██╗`,
		`  ██║     ███████╗█████╗██║     ██║   ██║██╔██╗ ██║███████║██████╔╝`,
		`  ██║     ╚════██║╚════╝██║     ██║   ██║██║╚██╗██║██╔══██║██╔══██╗`,
		`  ███████╗███████║      ███████╗╚██████╔╝██║ ╚████║██║  ██║██║  ██║`,
		`  ╚══════╝╚══════╝      ╚══════╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Lunar Club Observing · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// slate grey at the left edge brightening to pale moonlight on the right,
// dimming toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Slate (#64748B) -> Silver (#CBD5E1) -> Moonlight (#FEF3C7)
	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 100 + t*(203-100)
		g = 116 + t*(213-116)
		b = 139 + t*(225-139)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 203 + t*(254-203)
		g = 213 + t*(243-213)
		b = 225 + t*(199-225)
	}

	brightness := 1.0 - (yRatio * 0.4)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Moon", "[2] Features", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FEF3C7")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E1"))

	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastRefresh.IsZero():
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" refresh in %ds", int(m.untilRefresh().Seconds())))
		if m.snapshot.RefreshDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.RefreshDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" Computing ephemeris...")
	}

	var help string
	switch m.viewMode {
	case ViewFeatures:
		help = dimStyle.Render("↑↓: select | t: filter type | tab: switch view")
	case ViewEvents:
		help = dimStyle.Render("↑↓: scroll | tab: switch view")
	default:
		help = dimStyle.Render("tab: switch view | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// untilRefresh returns the time left before the next scheduled refresh.
func (m Model) untilRefresh() time.Duration {
	next := m.snapshot.LastRefresh.Add(m.state.RefreshInterval())
	d := next.Sub(m.clock.Now()).Round(time.Second)
	if d < 0 {
		return 0
	}
	return d
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Notifier returns a refresh callback that forwards each result to the
// program, typically through tea.Program.Send.
func Notifier(send func(tea.Msg), mgr *state.Manager) func(refresh.Result) {
	return func(res refresh.Result) {
		if res.Error != nil {
			send(ErrorMsg{Error: res.Error})
			return
		}
		send(DataUpdateMsg{Snapshot: mgr.Snapshot()})
	}
}
