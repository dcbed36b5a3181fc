package astro

import (
	"math"
)

// Inclination of the mean lunar equator to the ecliptic (degrees).
const lunarEquatorInclination = 1.54242

// Selenographic holds a direction expressed in selenographic coordinates.
type Selenographic struct {
	LonDeg float64 // Selenographic longitude (-180, 180]
	LatDeg float64 // Selenographic latitude
}

// OpticalLibration returns the selenographic coordinates of the point on the
// lunar surface facing the given geocentric ecliptic direction.
//
// lonDeg is the apparent longitude (including nutation); dPsiDeg removes the
// nutation again so the node and longitude refer to the same equinox. argLatDeg
// is the Moon's mean argument of latitude F from Moon().
//
// Called with the Moon's own direction this yields the optical librations
// (Meeus, chapter 53). Called with the anti-solar direction it yields the
// selenographic position of the Sun. Physical librations are not included.
func OpticalLibration(jde, lonDeg, latDeg, dPsiDeg, argLatDeg float64) Selenographic {
	T := julianCenturies(jde)
	I := degToRad(lunarEquatorInclination)

	// Longitude of the mean ascending node of the lunar orbit
	omega := 125.0445479 - 1934.1362891*T + 0.0020754*T*T + T*T*T/467441 - T*T*T*T/60616000

	W := degToRad(lonDeg - dPsiDeg - omega)
	beta := degToRad(latDeg)

	A := math.Atan2(math.Sin(W)*math.Cos(beta)*math.Cos(I)-math.Sin(beta)*math.Sin(I),
		math.Cos(W)*math.Cos(beta))

	l := WrapAngle180(radToDeg(A) - argLatDeg)
	b := math.Asin(clampUnit(-math.Sin(W)*math.Cos(beta)*math.Sin(I) - math.Sin(beta)*math.Cos(I)))

	return Selenographic{LonDeg: l, LatDeg: radToDeg(b)}
}

// Colongitude converts the selenographic longitude of the Sun into the
// selenographic colongitude (0-360), the longitude of the morning terminator.
func Colongitude(sunLonDeg float64) float64 {
	return NormalizeAngle360(90 - sunLonDeg)
}
