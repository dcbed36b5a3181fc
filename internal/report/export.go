// Package report assembles one observation of the Moon and its visible
// features and writes it as JSON or a text summary.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/litescript/ls-lunar/internal/catalog"
	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/feature"
	"github.com/litescript/ls-lunar/internal/moon"
)

// SnapshotExport is the JSON-serializable representation of one observation.
type SnapshotExport struct {
	Timestamp time.Time               `json:"timestamp"`
	Local     string                  `json:"local_time"`
	Site      SiteExport              `json:"site"`
	Moon      MoonExport              `json:"moon"`
	Phases    []PhaseExport           `json:"next_phases"`
	Events    []EventExport           `json:"rise_set_transit"`
	Club      string                  `json:"club"`
	Features  []feature.Feature       `json:"visible_features"`
	Altitudes []catalog.AltitudeEntry `json:"solar_altitudes"`
	Warnings  []string                `json:"warnings,omitempty"`
}

// SiteExport describes the observer.
type SiteExport struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Timezone  string `json:"timezone"`
}

// MoonExport carries the lunar quantities, angles in degrees.
type MoonExport struct {
	Altitude            float64 `json:"altitude"`
	Azimuth             float64 `json:"azimuth"`
	RA                  float64 `json:"ra"`
	Dec                 float64 `json:"dec"`
	Colongitude         float64 `json:"colongitude"`
	TerminatorLongitude float64 `json:"terminator_longitude"`
	TimeOfDay           string  `json:"time_of_day"`
	Phase               string  `json:"phase"`
	Emoji               string  `json:"emoji"`
	Shape               string  `json:"shape"`
	Illumination        float64 `json:"illumination"`
	Age                 float64 `json:"age_days"`
	FractionalAge       float64 `json:"fractional_age"`
	Elongation          float64 `json:"elongation"`
	AngularSize         float64 `json:"angular_size"`
	EarthDistance       float64 `json:"earth_distance_km"`
	Magnitude           float64 `json:"magnitude"`
	LibrationLat        float64 `json:"libration_lat"`
	LibrationLon        float64 `json:"libration_lon"`
	LibrationPhaseAngle float64 `json:"libration_phase_angle"`
	SubsolarLat         float64 `json:"subsolar_lat"`
	TimeToFullMoon      float64 `json:"time_to_full_moon_days"`
	TimeToNewMoon       float64 `json:"time_to_new_moon_hours"`
}

// PhaseExport is the instant of an upcoming primary phase.
type PhaseExport struct {
	Name string          `json:"name"`
	Time codec.DateTuple `json:"time"`
}

// EventExport is a rise, transit or set. Time is absent when the event
// does not happen on the local day.
type EventExport struct {
	Name    string           `json:"name"`
	Happens bool             `json:"happens"`
	Time    *codec.DateTuple `json:"time,omitempty"`
}

// Request names the inputs of one observation.
type Request struct {
	State     *moon.State
	Source    *catalog.Source
	Container *catalog.Container
	Timezone  string
	Limit     int
}

// Build computes an observation at the state's current instant. The
// container is reloaded against the state. Reference features missing from
// the catalog are reported in Warnings rather than failing the build.
func Build(ctx context.Context, req Request) (*SnapshotExport, error) {
	s := req.State
	if s == nil || req.Source == nil || req.Container == nil {
		return nil, errors.New("report: state, source and container are required")
	}

	if err := req.Container.Load(ctx, s, req.Limit); err != nil {
		return nil, err
	}

	export := &SnapshotExport{
		Timestamp: s.DateTuple().Time(),
		Site: SiteExport{
			Latitude:  s.Latitude().String(),
			Longitude: s.Longitude().String(),
			Timezone:  req.Timezone,
		},
		Moon:     exportMoon(s),
		Club:     req.Container.Club(),
		Features: req.Container.Features(),
	}

	if loc, err := time.LoadLocation(req.Timezone); err == nil {
		export.Local = export.Timestamp.In(loc).Format("2006-01-02 15:04:05 MST")
	} else {
		export.Local = export.Timestamp.Format("2006-01-02 15:04:05 MST")
	}

	var table catalog.AltitudeTable
	if err := table.Load(ctx, req.Source, s); err != nil {
		var missing *catalog.MissingFeaturesError
		if !errors.As(err, &missing) {
			return nil, err
		}
		export.Warnings = append(export.Warnings, err.Error())
	}
	export.Altitudes = table.Entries()

	for _, p := range s.NextFourPhases() {
		export.Phases = append(export.Phases, PhaseExport{Name: p.Phase.String(), Time: p.Time.Round()})
	}
	for _, e := range s.RiseSetTimes(req.Timezone) {
		ev := EventExport{Name: e.Name, Happens: e.Happens}
		if e.Happens {
			t := e.Time
			ev.Time = &t
		}
		export.Events = append(export.Events, ev)
	}

	return export, nil
}

func exportMoon(s *moon.State) MoonExport {
	phase := s.PhaseName()
	return MoonExport{
		Altitude:            s.Altitude(),
		Azimuth:             s.Azimuth(),
		RA:                  s.RA(),
		Dec:                 s.Dec(),
		Colongitude:         s.Colong(),
		TerminatorLongitude: s.ColongToLong(),
		TimeOfDay:           s.TimeOfDay().String(),
		Phase:               phase.String(),
		Emoji:               phase.Emoji(),
		Shape:               s.PhaseShapeInASCII(),
		Illumination:        s.FractionalPhase(),
		Age:                 s.Age(),
		FractionalAge:       s.FractionalAge(),
		Elongation:          s.Elongation(),
		AngularSize:         s.AngularSize(),
		EarthDistance:       s.EarthDistance(),
		Magnitude:           s.Magnitude(),
		LibrationLat:        s.LibrationLat(),
		LibrationLon:        s.LibrationLon(),
		LibrationPhaseAngle: s.LibrationPhaseAngle(),
		SubsolarLat:         s.SubsolarLat(),
		TimeToFullMoon:      s.TimeToFullMoon(),
		TimeToNewMoon:       s.TimeToNewMoon(),
	}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
