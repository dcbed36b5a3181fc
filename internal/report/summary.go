package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SummaryRow represents one row in the feature table.
type SummaryRow struct {
	Name      string
	Type      string
	Latitude  string
	Longitude string
	Diameter  string
	ClubType  string
}

// GenerateSummaryRows creates one row per visible feature.
func GenerateSummaryRows(s *SnapshotExport) []SummaryRow {
	if s == nil {
		return nil
	}

	var rows []SummaryRow
	for _, f := range s.Features {
		rows = append(rows, SummaryRow{
			Name:      f.Name,
			Type:      f.Type,
			Latitude:  FormatLatitude(f.Latitude),
			Longitude: FormatLongitude(f.Longitude),
			Diameter:  FormatDiameter(f.Diameter),
			ClubType:  f.ClubType,
		})
	}
	return rows
}

// WriteSummary writes a text report to the given writer.
func (s *SnapshotExport) WriteSummary(w io.Writer) {
	m := s.Moon

	fmt.Fprintf(w, "Moon @ %s (%s)\n", s.Local, s.Site.Timezone)
	fmt.Fprintf(w, "Site %s, %s\n", s.Site.Latitude, s.Site.Longitude)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	fmt.Fprintf(w, "Phase       %s %s  %.1f%% lit, age %.1f days\n", m.Emoji, m.Phase, m.Illumination*100, m.Age)
	fmt.Fprintf(w, "Position    alt %6.2f°  az %6.2f°  RA %6.2f°  Dec %6.2f°\n", m.Altitude, m.Azimuth, m.RA, m.Dec)
	fmt.Fprintf(w, "Terminator  colong %6.2f°  at %s (%s)\n", m.Colongitude, FormatLongitude(m.TerminatorLongitude), m.TimeOfDay)
	fmt.Fprintf(w, "Libration   lat %+.2f°  lon %+.2f°  toward %.0f°\n", m.LibrationLat, m.LibrationLon, m.LibrationPhaseAngle)
	fmt.Fprintf(w, "Distance    %s  size %.3f°  mag %.2f\n", FormatDistance(m.EarthDistance), m.AngularSize, m.Magnitude)

	if len(s.Events) > 0 {
		var parts []string
		for _, e := range s.Events {
			if e.Happens && e.Time != nil {
				parts = append(parts, fmt.Sprintf("%s %02d:%02d", e.Name, e.Time.Hour, e.Time.Minute))
			} else {
				parts = append(parts, "no "+e.Name)
			}
		}
		fmt.Fprintf(w, "Today       %s\n", strings.Join(parts, ", "))
	}
	for _, p := range s.Phases {
		fmt.Fprintf(w, "            %-14s %s UTC\n", p.Name, p.Time)
	}
	if len(s.Altitudes) > 0 {
		var parts []string
		for _, a := range s.Altitudes {
			parts = append(parts, fmt.Sprintf("%s %.1f°", a.Name, a.Altitude))
		}
		fmt.Fprintf(w, "Sun over    %s\n", strings.Join(parts, ", "))
	}
	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))

	rows := GenerateSummaryRows(s)
	if len(rows) == 0 {
		fmt.Fprintf(w, "No %s features visible\n", s.Club)
		return
	}

	// Header
	fmt.Fprintf(w, "%-22s %-12s %-8s %-8s %-9s %-9s\n",
		"Feature", "Type", "Lat", "Long", "Diameter", "Club")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	// Rows
	for _, r := range rows {
		fmt.Fprintf(w, "%-22s %-12s %-8s %-8s %-9s %-9s\n",
			truncateStr(r.Name, 22),
			truncateStr(r.Type, 12),
			r.Latitude,
			r.Longitude,
			r.Diameter,
			truncateStr(r.ClubType, 9),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d %s features visible\n", len(rows), s.Club)
}

// FormatLatitude renders a selenographic latitude, e.g. "58.6°S".
func FormatLatitude(deg float64) string {
	return formatHemisphere(deg, "N", "S")
}

// FormatLongitude renders a selenographic longitude, e.g. "14.7°W".
func FormatLongitude(deg float64) string {
	return formatHemisphere(deg, "E", "W")
}

func formatHemisphere(deg float64, pos, neg string) string {
	suffix := pos
	if deg < 0 {
		deg = -deg
		suffix = neg
	}
	return strconv.FormatFloat(deg, 'f', 1, 64) + "°" + suffix
}

// FormatDiameter returns a human-readable feature size.
func FormatDiameter(km float64) string {
	if km <= 0 {
		return "N/A"
	}
	return formatWithUnit(km, "km")
}

// FormatDistance returns a human-readable distance string.
func FormatDistance(km float64) string {
	switch {
	case km <= 0:
		return "N/A"
	case km < 1e6:
		return formatWithUnit(km, "km")
	default:
		return formatWithUnit(km/1e6, "M km")
	}
}

func formatWithUnit(value float64, unit string) string {
	if value < 10 {
		return strconv.FormatFloat(value, 'f', 2, 64) + " " + unit
	} else if value < 100 {
		return strconv.FormatFloat(value, 'f', 1, 64) + " " + unit
	}
	return strconv.FormatFloat(value, 'f', 0, 64) + " " + unit
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
