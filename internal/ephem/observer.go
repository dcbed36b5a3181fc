package ephem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAngle is returned for sexagesimal strings that do not parse.
var ErrInvalidAngle = errors.New("invalid angle")

// Standard atmosphere used for refraction until the caller overrides it.
const (
	DefaultPressure    = 1010.0 // mBar
	DefaultTemperature = 15.0   // °C
)

// Observer holds the observing site and atmosphere the oracle computes for.
type Observer struct {
	Lat         float64 // Geodetic latitude in radians, north positive
	Lon         float64 // Longitude in radians, east positive
	Pressure    float64 // mBar; zero disables refraction
	Temperature float64 // °C
	Horizon     float64 // Altitude of the horizon for risings/settings, radians
}

// NewObserver returns an observer at lat/lon zero with the standard atmosphere.
func NewObserver() Observer {
	return Observer{
		Pressure:    DefaultPressure,
		Temperature: DefaultTemperature,
	}
}

// SetLocation sets latitude and longitude from sexagesimal degree strings
// such as "35:58:10" and "-84:19:0".
func (o *Observer) SetLocation(lat, lon string) error {
	latDeg, err := ParseAngle(lat)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	if latDeg < -90 || latDeg > 90 {
		return fmt.Errorf("latitude %q: %w: out of range", lat, ErrInvalidAngle)
	}
	lonDeg, err := ParseAngle(lon)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	if lonDeg < -360 || lonDeg > 360 {
		return fmt.Errorf("longitude %q: %w: out of range", lon, ErrInvalidAngle)
	}

	o.Lat = latDeg * math.Pi / 180
	o.Lon = lonDeg * math.Pi / 180
	return nil
}

// SetHorizon sets the horizon altitude from a sexagesimal string, e.g. "-0:34".
func (o *Observer) SetHorizon(s string) error {
	deg, err := ParseAngle(s)
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	o.Horizon = deg * math.Pi / 180
	return nil
}

// LatDeg returns the latitude in degrees.
func (o Observer) LatDeg() float64 { return o.Lat * 180 / math.Pi }

// LonDeg returns the longitude in degrees.
func (o Observer) LonDeg() float64 { return o.Lon * 180 / math.Pi }

// HorizonDeg returns the horizon altitude in degrees.
func (o Observer) HorizonDeg() float64 { return o.Horizon * 180 / math.Pi }

// ParseAngle parses a sexagesimal degree string of one to three
// colon-separated fields ("d", "d:m" or "d:m:s") into decimal degrees.
// A leading minus sign negates the whole angle; fields may be fractional.
func ParseAngle(s string) (float64, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAngle)
	}

	sign := 1.0
	switch str[0] {
	case '-':
		sign = -1
		str = str[1:]
	case '+':
		str = str[1:]
	}

	fields := strings.Split(str, ":")
	if len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q has more than three fields", ErrInvalidAngle, s)
	}

	var deg float64
	scale := 1.0
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("%w: bad field %q in %q", ErrInvalidAngle, f, s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: field %q in %q must be below 60", ErrInvalidAngle, f, s)
		}
		deg += v / scale
		scale *= 60
	}

	return sign * deg, nil
}
