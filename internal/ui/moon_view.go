package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/report"
	"github.com/litescript/ls-lunar/internal/state"
)

// Shared styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEF3C7"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(12)

	moonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FEF3C7")).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// MoonViewModel shows the current lunar circumstances.
type MoonViewModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	history  state.MoonHistory
	rate     float64
	lastErr  error
}

// NewMoonViewModel creates a new moon view model.
func NewMoonViewModel() MoonViewModel {
	return MoonViewModel{}
}

// SetSize updates the viewport size.
func (m MoonViewModel) SetSize(width, height int) MoonViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new observation, the quantity history
// and the terminator rate in degrees per hour.
func (m MoonViewModel) UpdateData(snapshot state.Snapshot, history state.MoonHistory, rate float64) MoonViewModel {
	m.snapshot = snapshot
	m.history = history
	m.rate = rate
	return m
}

// SetError sets the last error for display.
func (m MoonViewModel) SetError(err error) MoonViewModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m MoonViewModel) Update(tea.Msg) (MoonViewModel, tea.Cmd) {
	return m, nil
}

// View renders the moon panel.
func (m MoonViewModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	data := m.snapshot.Data
	if data == nil {
		b.WriteString("Computing ephemeris...\n")
		return b.String()
	}

	art := moonStyle.Render(data.Moon.Shape)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, art, m.renderQuantities(data)))
	b.WriteString("\n\n")

	b.WriteString(m.renderToday(data))
	b.WriteString("\n")
	b.WriteString(m.renderPhases(data))
	b.WriteString("\n")
	b.WriteString(m.renderAltitudes(data))
	b.WriteString("\n")
	b.WriteString(m.renderHistory())

	for _, w := range data.Warnings {
		b.WriteString("\n" + errorStyle.Render("! "+w))
	}

	return b.String()
}

func (m MoonViewModel) renderQuantities(data *report.SnapshotExport) string {
	mo := data.Moon
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s %s", mo.Emoji, mo.Phase)) + dimStyle.Render("  "+data.Local),
		labelStyle.Render("Illuminated") + fmt.Sprintf("%.1f%%  age %.1f days (%.0f%% of lunation)", mo.Illumination*100, mo.Age, mo.FractionalAge*100),
		labelStyle.Render("Position") + fmt.Sprintf("alt %.1f°  az %.1f°", mo.Altitude, mo.Azimuth),
		labelStyle.Render("Terminator") + fmt.Sprintf("%s %s  colong %.2f°", report.FormatLongitude(mo.TerminatorLongitude), mo.TimeOfDay, mo.Colongitude),
		labelStyle.Render("Libration") + fmt.Sprintf("lat %+.2f°  lon %+.2f°", mo.LibrationLat, mo.LibrationLon),
		labelStyle.Render("Distance") + fmt.Sprintf("%s  size %.3f°", report.FormatDistance(mo.EarthDistance), mo.AngularSize),
	}
	if m.rate != 0 {
		lines = append(lines, labelStyle.Render("Drift")+fmt.Sprintf("%.2f°/h", m.rate))
	}
	return strings.Join(lines, "\n")
}

func (m MoonViewModel) renderToday(data *report.SnapshotExport) string {
	var parts []string
	for _, e := range data.Events {
		if e.Happens && e.Time != nil {
			parts = append(parts, fmt.Sprintf("%s %02d:%02d", e.Name, e.Time.Hour, e.Time.Minute))
		} else {
			parts = append(parts, dimStyle.Render("no "+e.Name))
		}
	}
	return labelStyle.Render("Today") + strings.Join(parts, "  ")
}

func (m MoonViewModel) renderPhases(data *report.SnapshotExport) string {
	loc, err := time.LoadLocation(data.Site.Timezone)
	if err != nil {
		loc = time.UTC
	}

	var parts []string
	for _, p := range data.Phases {
		parts = append(parts, fmt.Sprintf("%s %s", shortPhase(p.Name), p.Time.In(loc).Format("Jan 2 15:04")))
	}
	return labelStyle.Render("Next") + strings.Join(parts, "  ")
}

// shortPhase turns "FIRST_QUARTER" into "First quarter".
func shortPhase(name string) string {
	s := strings.ToLower(strings.ReplaceAll(name, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m MoonViewModel) renderAltitudes(data *report.SnapshotExport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sun over"))
	b.WriteString("\n")
	for _, a := range data.Altitudes {
		b.WriteString("  " + labelStyle.Render(a.Name))
		b.WriteString(renderAltitudeBar(a.Altitude, 10))
		b.WriteString(fmt.Sprintf(" %6.1f°\n", a.Altitude))
	}
	return b.String()
}

// renderAltitudeBar fills one cell per 9 degrees of solar altitude. Features
// in darkness get an empty bar.
func renderAltitudeBar(alt float64, width int) string {
	filled := 0
	if alt > 0 {
		filled = int(alt / 90 * float64(width))
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (m MoonViewModel) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n")
	b.WriteString("  " + labelStyle.Render("Illuminated") + renderSparkline(m.history.Illumination, 0, 1, SparklineWidth) + "\n")
	b.WriteString("  " + labelStyle.Render("Altitude") + renderSparkline(m.history.Altitude, -10, 90, SparklineWidth) + "\n")
	return b.String()
}
