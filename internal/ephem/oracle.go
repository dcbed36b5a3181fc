// Package ephem provides the lunar ephemeris seam: the Oracle interface the
// rest of the module computes against, and a Meeus-series implementation.
package ephem

import (
	"errors"
)

// ErrNoEvent is returned when no rising, transit or setting occurs inside
// the search window (circumpolar or never-up Moon at high latitudes).
var ErrNoEvent = errors.New("no event within search window")

// Body is one computed snapshot of the Moon for the oracle's observer and
// date. Angles are radians, as the oracle delivers them.
type Body struct {
	Alt float64 // Apparent topocentric altitude (refracted when pressure > 0)
	Az  float64 // Azimuth, 0 = North, π/2 = East
	RA  float64 // Apparent topocentric right ascension
	Dec float64 // Apparent topocentric declination

	Colong       float64 // Selenographic colongitude of the Sun [0, 2π)
	LibrationLat float64 // Optical libration in latitude
	LibrationLon float64 // Optical libration in longitude
	SubsolarLat  float64 // Selenographic latitude of the subsolar point

	Elongation float64 // Signed Sun-Moon elongation (-π, π], positive when waxing
	Phase      float64 // Illuminated fraction [0, 1]
	Size       float64 // Apparent diameter in arcseconds

	EarthDistance float64 // Observer-Moon distance in AU
	SunDistance   float64 // Earth-Sun distance in AU
	Magnitude     float64
}

// Oracle is a stateful lunar ephemeris bound to one observer and one date.
// Implementations are not safe for concurrent use.
type Oracle interface {
	// Name returns the oracle name for display/logging.
	Name() string

	// Observer returns a copy of the current observer parameters.
	Observer() Observer

	// SetObserver replaces the observer parameters.
	SetObserver(o Observer)

	// Date returns the current date.
	Date() Date

	// SetDate moves the oracle to a new date.
	SetDate(d Date)

	// Compute returns the Moon's circumstances at the current date.
	Compute() Body

	// NextPhase finds the first occurrence of a primary phase after from.
	NextPhase(p PrimaryPhase, from Date) Date

	// PreviousPhase finds the last occurrence of a primary phase before from.
	PreviousPhase(p PrimaryPhase, from Date) Date

	// NextEvent finds the first rising, transit or setting after from,
	// honoring the observer's horizon and pressure.
	NextEvent(kind EventKind, from Date) (Date, error)

	// PreviousEvent finds the last rising, transit or setting before from.
	PreviousEvent(kind EventKind, from Date) (Date, error)
}

// PrimaryPhase is one of the four principal lunar phases.
type PrimaryPhase int

const (
	NewMoon PrimaryPhase = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

// PrimaryPhases lists the principal phases in cycle order.
var PrimaryPhases = []PrimaryPhase{NewMoon, FirstQuarter, FullMoon, LastQuarter}

// String returns the phase name.
func (p PrimaryPhase) String() string {
	switch p {
	case NewMoon:
		return "new_moon"
	case FirstQuarter:
		return "first_quarter"
	case FullMoon:
		return "full_moon"
	case LastQuarter:
		return "last_quarter"
	default:
		return "unknown"
	}
}

// Previous returns the principal phase that precedes p in the cycle.
func (p PrimaryPhase) Previous() PrimaryPhase {
	return (p + 3) % 4
}

// Next returns the principal phase that follows p in the cycle.
func (p PrimaryPhase) Next() PrimaryPhase {
	return (p + 1) % 4
}

// Elongation returns the Moon-Sun ecliptic longitude difference, in
// degrees, that defines the phase.
func (p PrimaryPhase) Elongation() float64 {
	return float64(p%4) * 90
}

// EventKind selects a horizon or meridian event.
type EventKind int

const (
	Rising EventKind = iota
	Transit
	Setting
)

// EventKinds lists the events in their natural daily order.
var EventKinds = []EventKind{Rising, Transit, Setting}

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case Rising:
		return "rising"
	case Transit:
		return "transit"
	case Setting:
		return "setting"
	default:
		return "unknown"
	}
}
