package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/state"
)

var (
	eventShownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FEF3C7"))
	eventHiddenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	eventPhaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// EventLogModel shows the recent event log, newest first.
type EventLogModel struct {
	width    int
	height   int
	offset   int
	snapshot state.Snapshot
}

// NewEventLogModel creates a new event log model.
func NewEventLogModel() EventLogModel {
	return EventLogModel{}
}

// SetSize updates the viewport size.
func (m EventLogModel) SetSize(width, height int) EventLogModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m EventLogModel) UpdateData(snapshot state.Snapshot) EventLogModel {
	m.snapshot = snapshot
	if m.offset > len(snapshot.Events)-1 {
		m.offset = max(len(snapshot.Events)-1, 0)
	}
	return m
}

// Update handles messages.
func (m EventLogModel) Update(msg tea.Msg) (EventLogModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.snapshot.Events)-1 {
				m.offset++
			}
		case "home":
			m.offset = 0
		}
	}
	return m, nil
}

// View renders the event log.
func (m EventLogModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  No events yet\n")
		return b.String()
	}

	loc := time.UTC
	if m.snapshot.Data != nil {
		if l, err := time.LoadLocation(m.snapshot.Data.Site.Timezone); err == nil {
			loc = l
		}
	}

	maxRows := m.height - 2
	if maxRows < 5 {
		maxRows = 5
	}

	shown := 0
	for i := len(events) - 1 - m.offset; i >= 0 && shown < maxRows; i-- {
		b.WriteString("  " + formatEvent(events[i], loc) + "\n")
		shown++
	}
	return b.String()
}

// formatEvent renders one event line.
func formatEvent(e state.Event, loc *time.Location) string {
	ts := dimStyle.Render(e.Timestamp.In(loc).Format("Jan 2 15:04:05"))

	switch e.Type {
	case state.EventFeatureVisible:
		return ts + " " + eventShownStyle.Render("+ "+e.Feature+" now visible")
	case state.EventFeatureHidden:
		return ts + " " + eventHiddenStyle.Render("- "+e.Feature+" no longer visible")
	case state.EventPhaseChange:
		return ts + " " + eventPhaseStyle.Render(fmt.Sprintf("phase %s → %s", e.Old, e.New))
	case state.EventTimeOfDay:
		return ts + " " + eventPhaseStyle.Render(fmt.Sprintf("terminator %s → %s", e.Old, e.New))
	}
	return ts + " " + string(e.Type)
}
