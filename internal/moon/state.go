// Package moon holds the observer/Moon state and the feature visibility
// engine built on top of it.
//
// A State is bound to one observing site and one instant. It is not safe
// for concurrent use; callers that refresh from several goroutines keep one
// State per goroutine.
package moon

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-lunar/internal/astro"
	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/ephem"
	"github.com/litescript/ls-lunar/internal/logging"
)

// DaysToHours converts oracle day differences to hours.
const DaysToHours = 24.0

// Option configures a State.
type Option func(*State)

// WithOracle selects the ephemeris oracle. The default is ephem.NewMeeus().
func WithOracle(o ephem.Oracle) Option {
	return func(s *State) {
		s.oracle = o
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		s.log = l
	}
}

// State is the Moon as seen from one site at one instant.
type State struct {
	oracle ephem.Oracle
	log    *logging.Logger

	lat codec.DMS
	lon codec.DMS

	// Snapshot of the oracle at the current instant
	body ephem.Body
}

// New creates a State for the site at lat/lon, computed at the UTC instant at.
func New(lat, lon codec.DMS, at codec.DateTuple, opts ...Option) (*State, error) {
	s := &State{lat: lat, lon: lon}
	for _, opt := range opts {
		opt(s)
	}
	if s.oracle == nil {
		s.oracle = ephem.NewMeeus()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}

	if err := lat.Validate(); err != nil {
		return nil, fmt.Errorf("latitude %v: %w", lat, err)
	}
	if err := lon.Validate(); err != nil {
		return nil, fmt.Errorf("longitude %v: %w", lon, err)
	}

	obs := s.oracle.Observer()
	if err := obs.SetLocation(codec.TupleToString(lat), codec.TupleToString(lon)); err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidAngle, err)
	}
	s.oracle.SetObserver(obs)

	if err := s.Update(at); err != nil {
		return nil, err
	}
	s.log.Debug("observer at %s, %s using %s oracle", lat, lon, s.oracle.Name())
	return s, nil
}

// Update moves the state to a new UTC instant and recomputes the Moon.
func (s *State) Update(at codec.DateTuple) error {
	if err := at.Validate(); err != nil {
		return err
	}
	s.oracle.SetDate(at.Date())
	s.body = s.oracle.Compute()
	return nil
}

// UpdateTime moves the state to t, in any location.
func (s *State) UpdateTime(t time.Time) error {
	return s.Update(codec.FromTime(t.UTC()))
}

// Latitude returns the observer latitude tuple.
func (s *State) Latitude() codec.DMS { return s.lat }

// Longitude returns the observer longitude tuple.
func (s *State) Longitude() codec.DMS { return s.lon }

// Date returns the current instant in the oracle's date form.
func (s *State) Date() ephem.Date { return s.oracle.Date() }

// DateTuple returns the current instant as an unrounded UTC tuple.
func (s *State) DateTuple() codec.DateTuple {
	return codec.ToDateTuple(s.oracle.Date(), false)
}

// Altitude returns the topocentric altitude in degrees.
func (s *State) Altitude() float64 { return degrees(s.body.Alt) }

// Azimuth returns the azimuth in degrees, North 0, East 90.
func (s *State) Azimuth() float64 { return degrees(s.body.Az) }

// RA returns the right ascension in degrees.
func (s *State) RA() float64 { return degrees(s.body.RA) }

// Dec returns the declination in degrees.
func (s *State) Dec() float64 { return degrees(s.body.Dec) }

// Colong returns the selenographic colongitude of the Sun in [0, 360).
func (s *State) Colong() float64 {
	return astro.NormalizeAngle360(degrees(s.body.Colong))
}

// LibrationLat returns the libration in latitude in degrees.
func (s *State) LibrationLat() float64 { return degrees(s.body.LibrationLat) }

// LibrationLon returns the libration in longitude in degrees.
func (s *State) LibrationLon() float64 { return degrees(s.body.LibrationLon) }

// LibrationPhaseAngle returns the direction of the libration tilt,
// atan2(lon, lat) in [0, 360).
func (s *State) LibrationPhaseAngle() float64 {
	a := degrees(math.Atan2(s.body.LibrationLon, s.body.LibrationLat))
	if a < 0 {
		a += 360
	}
	return a
}

// SubsolarLat returns the selenographic latitude of the subsolar point.
func (s *State) SubsolarLat() float64 { return degrees(s.body.SubsolarLat) }

// Elongation returns the Moon-Sun elongation in [0, 360); values below 180
// mean the Moon is waxing.
func (s *State) Elongation() float64 {
	e := degrees(s.body.Elongation)
	if e < 0 {
		e += 360
	}
	return e
}

// maxFractionalPhase keeps FractionalPhase in [0, 1).
var maxFractionalPhase = math.Nextafter(1, 0)

// FractionalPhase returns the illuminated fraction of the disk, in [0, 1).
func (s *State) FractionalPhase() float64 {
	return math.Max(0, math.Min(maxFractionalPhase, s.body.Phase))
}

// AngularSize returns the apparent diameter in degrees.
func (s *State) AngularSize() float64 { return s.body.Size / 3600 }

// EarthDistance returns the observer to Moon distance in kilometers.
func (s *State) EarthDistance() float64 { return astro.AUToKm(s.body.EarthDistance) }

// Magnitude returns the visual magnitude.
func (s *State) Magnitude() float64 { return s.body.Magnitude }

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
