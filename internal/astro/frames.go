package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Earth reference ellipsoid (IAU 1976) used for observer parallax.
const (
	earthEquatorialRadiusKm = 6378.14
	earthFlattening         = 1 / 298.257
)

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Spherical returns the vector as longitude-like and latitude-like angles in
// degrees plus its length. In the equatorial frame these are RA and Dec.
func (v Vec3) Spherical() (lonDeg, latDeg, r float64) {
	r = v.Norm()
	if r == 0 {
		return 0, 0, 0
	}
	lonDeg = NormalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
	latDeg = radToDeg(math.Asin(clampUnit(v.Z / r)))
	return lonDeg, latDeg, r
}

// FromSpherical builds a vector from angles in degrees and a length.
func FromSpherical(lonDeg, latDeg, r float64) Vec3 {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	return Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// ObserverPosition returns the geocentric equatorial position (km) of an
// observer on the reference ellipsoid at sea level, for a geodetic latitude
// and local sidereal time.
func ObserverPosition(latDeg, lstDeg float64) Vec3 {
	phi := degToRad(latDeg)
	lst := degToRad(lstDeg)

	// Reduced latitude on the flattened Earth
	u := math.Atan((1 - earthFlattening) * math.Tan(phi))
	rhoSin := earthEquatorialRadiusKm * (1 - earthFlattening) * math.Sin(u)
	rhoCos := earthEquatorialRadiusKm * math.Cos(u)

	return Vec3{
		X: rhoCos * math.Cos(lst),
		Y: rhoCos * math.Sin(lst),
		Z: rhoSin,
	}
}

// Topocentric shifts a geocentric equatorial position (degrees, km) to the
// observer's location, correcting for diurnal parallax.
func Topocentric(raDeg, decDeg, distKm, latDeg, lstDeg float64) (tRaDeg, tDecDeg, tDistKm float64) {
	geo := FromSpherical(raDeg, decDeg, distKm)
	return geo.Sub(ObserverPosition(latDeg, lstDeg)).Spherical()
}

// Refraction returns the atmospheric refraction in degrees to add to a
// geometric altitude, using Saemundsson's formula scaled for pressure (mBar)
// and temperature (°C). A pressure of zero disables refraction, as does an
// altitude far below the horizon where the formula diverges.
func Refraction(altDeg, pressureMbar, tempC float64) float64 {
	if pressureMbar <= 0 || altDeg < -1 {
		return 0
	}
	r := 1.02 / math.Tan(degToRad(altDeg+10.3/(altDeg+5.11))) // arcminutes
	return r / 60 * (pressureMbar / 1010) * (283 / (273 + tempC))
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}
