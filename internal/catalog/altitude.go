package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/litescript/ls-lunar/internal/feature"
)

// AltitudeFeatures are the reference features whose solar altitude is
// tracked to judge the lighting of the terminator region.
var AltitudeFeatures = []string{"Byrgius A", "Proclus", "Rupes Recta", "Tycho"}

// SolarAltitudeSource gives the Sun's altitude over a feature in degrees.
// *moon.State implements it.
type SolarAltitudeSource interface {
	SolarAltitude(f feature.Feature) float64
}

// MissingFeaturesError lists reference features absent from the catalog.
type MissingFeaturesError struct {
	Names []string
}

func (e *MissingFeaturesError) Error() string {
	return "catalog: reference features not found: " + strings.Join(e.Names, ", ")
}

// AltitudeEntry is the solar altitude over one reference feature.
type AltitudeEntry struct {
	Name     string  `json:"name"`
	Altitude float64 `json:"altitude"`
}

// AltitudeTable maps reference feature names to solar altitudes.
type AltitudeTable struct {
	entries []AltitudeEntry
}

// Load recomputes the table for the current state of sun. Features found
// in the catalog are kept even when others are missing; the missing names
// are reported as a *MissingFeaturesError.
func (t *AltitudeTable) Load(ctx context.Context, src *Source, sun SolarAltitudeSource) error {
	rows, err := src.Query(ctx, Query{Names: AltitudeFeatures})
	if err != nil {
		return fmt.Errorf("load altitude table: %w", err)
	}

	t.entries = t.entries[:0]
	found := make(map[string]bool, len(rows))
	for _, row := range rows {
		if found[row.Name] {
			continue
		}
		found[row.Name] = true
		t.entries = append(t.entries, AltitudeEntry{
			Name:     row.Name,
			Altitude: sun.SolarAltitude(feature.FromRow(row)),
		})
	}
	slices.SortFunc(t.entries, func(a, b AltitudeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	var missing []string
	for _, name := range AltitudeFeatures {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFeaturesError{Names: missing}
	}
	return nil
}

// Get returns the solar altitude over the named feature.
func (t *AltitudeTable) Get(name string) (float64, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Altitude, true
		}
	}
	return 0, false
}

// Len returns the number of entries.
func (t *AltitudeTable) Len() int {
	return len(t.entries)
}

// Entries returns the entries sorted by name.
func (t *AltitudeTable) Entries() []AltitudeEntry {
	return slices.Clone(t.entries)
}
