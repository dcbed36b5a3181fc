// Package feature defines the lunar surface feature record shared by the
// catalog and the visibility engine.
package feature

import (
	"fmt"
	"math"
	"strings"
)

// NoClubType is the club type of features that belong only to Lunar II.
const NoClubType = "None"

// Club codes used by the Astronomical League checklists.
const (
	ClubLunar   = "Lunar"
	ClubLunarII = "LunarII"
	ClubBoth    = "Both"
)

// Feature is one named lunar surface feature. Values are plain data and
// are passed by value; nothing mutates a Feature after construction.
type Feature struct {
	Name           string  `json:"name"`
	Diameter       float64 `json:"diameter"`  // km
	Latitude       float64 `json:"latitude"`  // degrees, South negative
	Longitude      float64 `json:"longitude"` // degrees, West negative
	DeltaLatitude  float64 `json:"delta_latitude"`
	DeltaLongitude float64 `json:"delta_longitude"`
	Type           string  `json:"feature_type"` // Crater, Mons, Mare...
	QuadName       string  `json:"quad_name"`    // IAU quadrangle name
	QuadCode       string  `json:"quad_code"`    // IAU quadrangle code, e.g. LAC-126
	CodeName       string  `json:"code_name"`    // Lunar, LunarII or Both
	ClubType       string  `json:"club_type"`    // Naked Eye, Binocular, Telescope or None
}

// Row is one record of the feature table as stored: a row id followed by
// the eleven feature columns. ClubType is nil for Lunar II only features.
type Row struct {
	ID             int     `yaml:"id"`
	Name           string  `yaml:"name"`
	Diameter       float64 `yaml:"diameter"`
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	DeltaLatitude  float64 `yaml:"delta_latitude"`
	DeltaLongitude float64 `yaml:"delta_longitude"`
	FeatureType    string  `yaml:"feature_type"`
	QuadName       string  `yaml:"quad_name"`
	QuadCode       string  `yaml:"quad_code"`
	ClubCode       string  `yaml:"club_code"`
	ClubType       *string `yaml:"club_type"`
}

// Range is a closed [Min, Max] interval in degrees.
type Range struct {
	Min float64
	Max float64
}

// New builds a feature. An empty club type is stored as NoClubType.
func New(name string, diameter, latitude, longitude, deltaLatitude, deltaLongitude float64,
	featureType, quadName, quadCode, codeName, clubType string) Feature {
	if clubType == "" {
		clubType = NoClubType
	}
	return Feature{
		Name:           name,
		Diameter:       diameter,
		Latitude:       latitude,
		Longitude:      longitude,
		DeltaLatitude:  deltaLatitude,
		DeltaLongitude: deltaLongitude,
		Type:           featureType,
		QuadName:       quadName,
		QuadCode:       quadCode,
		CodeName:       codeName,
		ClubType:       clubType,
	}
}

// FromRow builds a feature from a table row, ignoring the row id.
func FromRow(r Row) Feature {
	clubType := NoClubType
	if r.ClubType != nil {
		clubType = *r.ClubType
	}
	return New(r.Name, r.Diameter, r.Latitude, r.Longitude, r.DeltaLatitude, r.DeltaLongitude,
		r.FeatureType, r.QuadName, r.QuadCode, r.ClubCode, clubType)
}

// LatitudeRange returns latitude ∓ half the latitude extent.
func (f Feature) LatitudeRange() Range {
	return span(f.Latitude, f.DeltaLatitude)
}

// LongitudeRange returns longitude ∓ half the longitude extent.
func (f Feature) LongitudeRange() Range {
	return span(f.Longitude, f.DeltaLongitude)
}

func span(center, delta float64) Range {
	lo, hi := center-delta/2, center+delta/2
	if lo > hi {
		lo, hi = hi, lo
	}
	return Range{Min: lo, Max: hi}
}

// Angle returns the position angle of the feature on the lunar face,
// atan2(longitude, latitude) in [0, 360): North 0, East 90, South 180,
// West 270.
func (f Feature) Angle() float64 {
	lat := f.Latitude * math.Pi / 180
	lon := f.Longitude * math.Pi / 180
	a := math.Atan2(lon, lat) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}

// Fields returns the constructor values in order.
func (f Feature) Fields() []any {
	return []any{
		f.Name,
		f.Diameter,
		f.Latitude,
		f.Longitude,
		f.DeltaLatitude,
		f.DeltaLongitude,
		f.Type,
		f.QuadName,
		f.QuadCode,
		f.CodeName,
		f.ClubType,
	}
}

// String implements fmt.Stringer.
func (f Feature) String() string {
	lines := []string{
		"Name = " + f.Name,
		fmt.Sprintf("Lat/Long = (%.2f, %.2f)", f.Latitude, f.Longitude),
		"Type = " + f.Type,
		fmt.Sprintf("Delta Lat/Long = (%.2f, %.2f)", f.DeltaLatitude, f.DeltaLongitude),
	}
	return strings.Join(lines, "\n")
}
