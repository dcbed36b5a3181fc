package astro

import (
	"math"
)

// SunPosition holds the Sun's apparent geocentric ecliptic position.
type SunPosition struct {
	LonDeg float64 // Apparent ecliptic longitude (0-360)
	DistKm float64 // Earth-Sun distance
}

// Sun calculates the apparent position of the Sun for a JDE.
// Uses the low-precision solar theory of Meeus, chapter 25.
// Accuracy: ~0.01 degrees in longitude.
func Sun(jde float64) SunPosition {
	// Julian centuries from J2000.0
	T := julianCenturies(jde)

	// Mean longitude of the Sun (degrees)
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	// Mean anomaly of the Sun (degrees)
	M := NormalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Eccentricity of Earth's orbit
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Sun's equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Sun's true anomaly and radius vector (AU)
	v := M + C
	R := (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(degToRad(v)))

	// Apparent longitude (correcting for aberration and nutation)
	omega := 125.04 - 1934.136*T
	lon := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	return SunPosition{
		LonDeg: NormalizeAngle360(lon),
		DistKm: AUToKm(R),
	}
}
