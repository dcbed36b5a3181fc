// Package astro provides the low-level sky math behind the lunar ephemeris:
// time scales, sidereal time, coordinate rotations, and truncated series for
// the Sun and Moon.
//
// All angles are in degrees unless a name says otherwise. Times are Julian
// Dates; functions taking a JDE expect Terrestrial (dynamical) Time.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch.
const J2000 = 2451545.0

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	// Convert to UTC
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	// Time of day as fraction
	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Adjust for January/February (treat as months 13/14 of previous year)
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	// Julian Date formula
	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5

	return jd
}

// TimeFromJulianDate converts a Julian Date back to a UTC time.
func TimeFromJulianDate(jd float64) time.Time {
	// Split whole days from the fraction so the nanosecond offset stays small
	days := math.Floor(jd - J2000)
	frac := (jd - J2000) - days

	epoch := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * 86400 * float64(time.Second)))
}

// DeltaT returns TT - UT in seconds for a Julian Date.
// Uses the Espenak & Meeus polynomial valid for 2005-2050, which stays within
// a few seconds across the rest of the 21st century.
func DeltaT(jd float64) float64 {
	t := (jd - J2000) / 365.25
	return 62.92 + 0.32217*t + 0.005589*t*t
}

// DynamicalTime converts a UT Julian Date into a Julian Ephemeris Date.
func DynamicalTime(jd float64) float64 {
	return jd + DeltaT(jd)/86400
}

// julianCenturies returns Julian centuries since J2000.0.
func julianCenturies(jde float64) float64 {
	return (jde - J2000) / 36525.0
}

// GreenwichMeanSiderealTime calculates GMST in degrees for a UT Julian Date.
// Uses the IAU formula based on Julian Date.
func GreenwichMeanSiderealTime(jd float64) float64 {
	// Julian centuries since J2000.0
	T := julianCenturies(jd)

	// GMST in degrees (IAU 1982 formula)
	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return NormalizeAngle360(gmst)
}

// LocalSiderealTime calculates the Local Sidereal Time in degrees
// for a UT Julian Date and observer longitude (east positive).
func LocalSiderealTime(jd, lonDeg float64) float64 {
	return NormalizeAngle360(GreenwichMeanSiderealTime(jd) + lonDeg)
}

// EclipticToEquatorial rotates ecliptic longitude/latitude into right
// ascension and declination for the given obliquity.
func EclipticToEquatorial(lonDeg, latDeg, epsDeg float64) (raDeg, decDeg float64) {
	lon := degToRad(lonDeg)
	lat := degToRad(latDeg)
	eps := degToRad(epsDeg)

	ra := math.Atan2(math.Sin(lon)*math.Cos(eps)-math.Tan(lat)*math.Sin(eps), math.Cos(lon))
	dec := math.Asin(math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon))

	return NormalizeAngle360(radToDeg(ra)), radToDeg(dec)
}

// EquatorialToHorizontal converts equatorial coordinates to azimuth and
// altitude for an observer latitude and local sidereal time.
//
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Altitude: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(raDeg, decDeg, latDeg, lstDeg float64) (azDeg, altDeg float64) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)

	// Hour Angle = LST - RA
	ha := degToRad(lstDeg - raDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	// atan2 form keeps the quadrant without a separate hour-angle test
	az := math.Atan2(-math.Cos(dec)*math.Sin(ha),
		math.Sin(dec)*math.Cos(lat)-math.Cos(dec)*math.Sin(lat)*math.Cos(ha))

	return NormalizeAngle360(radToDeg(az)), radToDeg(alt)
}

// HourAngle returns LST - RA wrapped to (-180, 180].
func HourAngle(lstDeg, raDeg float64) float64 {
	return WrapAngle180(lstDeg - raDeg)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAngle360 normalizes an angle to 0-360 degrees.
func NormalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// WrapAngle180 normalizes an angle to (-180, 180] degrees.
func WrapAngle180(a float64) float64 {
	a = NormalizeAngle360(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// clampUnit clamps x to [-1, 1] to keep asin/acos inside their domain.
func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
