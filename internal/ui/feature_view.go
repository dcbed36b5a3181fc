package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-lunar/internal/feature"
	"github.com/litescript/ls-lunar/internal/report"
	"github.com/litescript/ls-lunar/internal/state"
)

// FeatureListModel lists the club features visible in the latest
// observation.
type FeatureListModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot

	// typeFilter is an index into types; -1 shows every type.
	types      []string
	typeFilter int
}

// NewFeatureListModel creates a new feature list model.
func NewFeatureListModel() FeatureListModel {
	return FeatureListModel{typeFilter: -1}
}

// SetSize updates the viewport size.
func (m FeatureListModel) SetSize(width, height int) FeatureListModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data. The selection follows the
// selected feature by name when it is still visible.
func (m FeatureListModel) UpdateData(snapshot state.Snapshot) FeatureListModel {
	selected := m.Selected()
	filter := m.FilterType()

	m.snapshot = snapshot
	m.types = nil
	if snapshot.Data != nil {
		for _, f := range snapshot.Data.Features {
			if !slices.Contains(m.types, f.Type) {
				m.types = append(m.types, f.Type)
			}
		}
		slices.Sort(m.types)
	}

	m.typeFilter = -1
	if filter != "" {
		m.typeFilter = slices.Index(m.types, filter)
	}

	m.cursor = 0
	if selected != nil {
		for i, f := range m.visible() {
			if f.Name == selected.Name {
				m.cursor = i
				break
			}
		}
	}
	return m
}

// Update handles messages.
func (m FeatureListModel) Update(msg tea.Msg) (FeatureListModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		count := len(m.visible())

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < count-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if count > 0 {
				m.cursor = count - 1
			}
		case "t":
			// Cycle all -> each type -> all
			m.typeFilter++
			if m.typeFilter >= len(m.types) {
				m.typeFilter = -1
			}
			m.cursor = 0
		}
	}

	return m, nil
}

// FilterType returns the feature type being shown, or "" for all types.
func (m FeatureListModel) FilterType() string {
	if m.typeFilter < 0 || m.typeFilter >= len(m.types) {
		return ""
	}
	return m.types[m.typeFilter]
}

// visible returns the features passing the type filter.
func (m FeatureListModel) visible() []feature.Feature {
	if m.snapshot.Data == nil {
		return nil
	}
	filter := m.FilterType()
	if filter == "" {
		return m.snapshot.Data.Features
	}

	var out []feature.Feature
	for _, f := range m.snapshot.Data.Features {
		if f.Type == filter {
			out = append(out, f)
		}
	}
	return out
}

// Selected returns the feature under the cursor, if any.
func (m FeatureListModel) Selected() *feature.Feature {
	features := m.visible()
	if m.cursor < 0 || m.cursor >= len(features) {
		return nil
	}
	f := features[m.cursor]
	return &f
}

// View renders the feature table and the selected feature's details.
func (m FeatureListModel) View() string {
	var b strings.Builder

	data := m.snapshot.Data
	if data == nil {
		b.WriteString("Computing ephemeris...\n")
		return b.String()
	}

	title := fmt.Sprintf("%s Club features visible", data.Club)
	if filter := m.FilterType(); filter != "" {
		title += " · " + filter
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	header := fmt.Sprintf("%-22s %-12s %-8s %-8s %-9s %-10s", "Name", "Type", "Lat", "Lon", "Diameter", "Club Type")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	features := m.visible()
	if len(features) == 0 {
		b.WriteString("  No features visible\n")
		return b.String()
	}

	// Leave room for the header and the detail panel
	maxRows := m.height - 10
	if maxRows < 5 {
		maxRows = 5
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	end := min(start+maxRows, len(features))

	for i := start; i < end; i++ {
		f := features[i]
		row := fmt.Sprintf("%-22s %-12s %-8s %-8s %-9s %-10s",
			truncate(f.Name, 22),
			truncate(f.Type, 12),
			report.FormatLatitude(f.Latitude),
			report.FormatLongitude(f.Longitude),
			report.FormatDiameter(f.Diameter),
			truncate(f.ClubType, 10),
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(features) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d features", start+1, end, len(features)))
	}

	if sel := m.Selected(); sel != nil {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(*sel))
	}

	return b.String()
}

func (m FeatureListModel) renderDetail(f feature.Feature) string {
	lat := f.LatitudeRange()
	lon := f.LongitudeRange()

	var b strings.Builder
	b.WriteString(titleStyle.Render(f.Name))
	b.WriteString("\n")
	b.WriteString("  " + labelStyle.Render("Quadrangle") + fmt.Sprintf("%s (%s)\n", f.QuadName, f.QuadCode))
	b.WriteString("  " + labelStyle.Render("Spans") + fmt.Sprintf("lat %s to %s, lon %s to %s\n",
		report.FormatLatitude(lat.Min), report.FormatLatitude(lat.Max),
		report.FormatLongitude(lon.Min), report.FormatLongitude(lon.Max)))
	b.WriteString("  " + labelStyle.Render("Checklist") + fmt.Sprintf("%s, %s\n", f.CodeName, f.ClubType))
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
