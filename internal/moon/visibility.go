package moon

import (
	"math"
	"slices"

	"github.com/litescript/ls-lunar/internal/feature"
)

const (
	// FeatureCutoff is the width, in degrees of colongitude, of the band
	// behind the terminator in which relief is visible. It is stretched by
	// 1/cos(latitude) away from the equator.
	FeatureCutoff = 15.0

	// LibrationZone is the latitude or longitude beyond which a feature is
	// close enough to the limb to depend on libration.
	LibrationZone = 80.0

	// MaxLibrationPhaseAngleCutoff is the largest angle between the
	// libration direction and a limb feature that still exposes it.
	MaxLibrationPhaseAngleCutoff = 65.0
)

// noCutoffTypes are feature types seen whenever they are on the lit side
// of the terminator.
var noCutoffTypes = []string{"Landing Site", "Mare", "Oceanus"}

// NoCutoffType reports whether features of type t skip the terminator band.
func NoCutoffType(t string) bool {
	return slices.Contains(noCutoffTypes, t)
}

// TimeOfDay says whether the terminator is a sunrise or a sunset line.
type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Evening
)

func (t TimeOfDay) String() string {
	if t == Evening {
		return "EVENING"
	}
	return "MORNING"
}

// TimeOfDay returns Evening when the colongitude is in [90, 270).
func (s *State) TimeOfDay() TimeOfDay {
	c := s.Colong()
	if c >= 90 && c < 270 {
		return Evening
	}
	return Morning
}

// ColongToLong converts the colongitude to the selenographic longitude of
// the terminator.
func (s *State) ColongToLong() float64 {
	c := s.Colong()
	switch {
	case c >= 90 && c < 270:
		return 180 - c
	case c >= 270 && c < 360:
		return 360 - c
	default:
		return -c
	}
}

// IsVisible reports whether f is observable under the current illumination
// and libration.
func (s *State) IsVisible(f feature.Feature) bool {
	selco := s.ColongToLong()
	span := f.LongitudeRange()

	exempt := NoCutoffType(f.Type)
	cutoff := FeatureCutoff / math.Cos(radians(f.Latitude))

	var lit bool
	switch s.TimeOfDay() {
	case Morning:
		if exempt {
			lit = selco <= span.Min
		} else {
			lit = span.Min-cutoff <= selco && selco <= span.Min
		}
	case Evening:
		if exempt {
			lit = span.Max <= selco
		} else {
			lit = span.Max <= selco && selco <= span.Max+cutoff
		}
	}

	return lit && s.IsLibrationOK(f)
}

// IsLibrationOK reports whether a feature near the limb is tipped toward
// the observer. Features away from the limb always pass.
func (s *State) IsLibrationOK(f feature.Feature) bool {
	if math.Abs(f.Latitude) <= LibrationZone && math.Abs(f.Longitude) <= LibrationZone {
		return true
	}

	delta := s.LibrationPhaseAngle() - f.Angle()
	if delta > 180 {
		delta -= 360
	}
	return math.Abs(delta) <= MaxLibrationPhaseAngleCutoff
}

// SolarAltitude returns the altitude of the Sun above the local horizon of
// f, in degrees: 0 on the terminator, 90 with the Sun overhead.
func (s *State) SolarAltitude(f feature.Feature) float64 {
	ssl := radians(s.SubsolarLat())
	lat := radians(f.Latitude)
	x := math.Sin(ssl)*math.Sin(lat) + math.Cos(ssl)*math.Cos(lat)*math.Sin(radians(s.Colong()+f.Longitude))
	return degrees(math.Asin(math.Max(-1, math.Min(1, x))))
}
