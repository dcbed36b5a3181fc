package astro

import (
	"math"
)

// MoonPosition holds the Moon's geocentric ecliptic position of date.
type MoonPosition struct {
	LonDeg    float64 // Ecliptic longitude, mean equinox of date (0-360)
	LatDeg    float64 // Ecliptic latitude
	DistKm    float64 // Earth-Moon center distance
	ArgLatDeg float64 // Mean argument of latitude F, needed for librations
}

// moonTerm is one periodic term of the lunar series: multiples of the
// fundamental arguments D, M, M', F and the coefficient(s) in 1e-6 degrees
// (longitude, latitude) or 1e-3 km (distance).
type moonTerm struct {
	d, m, mp, f int
	a, b        float64
}

// Longitude (a) and distance (b) terms, Meeus table 47.A, truncated to the
// terms above 2000e-6 degrees.
var moonLonDist = []moonTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
	{4, 0, 0, 0, 3861, -11650},
	{2, 0, -3, 0, 3665, 14403},
	{0, 1, -2, 0, -2689, -7003},
	{2, 0, -1, 2, -2602, 0},
	{2, -1, -2, 0, 2390, 10056},
	{1, 0, 1, 0, -2348, 6322},
	{2, -2, 0, 0, 2236, -9884},
}

// Latitude terms, Meeus table 47.B, truncated the same way. Only a is used.
var moonLat = []moonTerm{
	{0, 0, 0, 1, 5128122, 0},
	{0, 0, 1, 1, 280602, 0},
	{0, 0, 1, -1, 277693, 0},
	{2, 0, 0, -1, 173237, 0},
	{2, 0, -1, 1, 55413, 0},
	{2, 0, -1, -1, 46271, 0},
	{2, 0, 0, 1, 32573, 0},
	{0, 0, 2, 1, 17198, 0},
	{2, 0, 1, -1, 9266, 0},
	{0, 0, 2, -1, 8822, 0},
	{2, -1, 0, -1, 8216, 0},
	{2, 0, -2, -1, 4324, 0},
	{2, 0, 1, 1, 4200, 0},
	{2, 1, 0, -1, -3359, 0},
	{2, -1, -1, 1, 2463, 0},
	{2, -1, 0, 1, 2211, 0},
	{2, -1, -1, -1, 2065, 0},
	{0, 1, -1, -1, -1870, 0},
	{4, 0, -1, -1, 1828, 0},
	{0, 1, 0, 1, -1794, 0},
	{0, 0, 0, 3, -1749, 0},
	{0, 1, -1, 1, -1565, 0},
	{1, 0, 0, 1, -1491, 0},
	{0, 1, 1, 1, -1475, 0},
	{0, 1, 1, -1, -1410, 0},
	{0, 1, 0, -1, -1344, 0},
	{1, 0, 0, -1, -1335, 0},
	{0, 0, 3, 1, 1107, 0},
	{4, 0, 0, -1, 1021, 0},
	{4, 0, -1, 1, 833, 0},
}

// Moon calculates the geocentric position of the Moon for a JDE.
// Uses the truncated ELP-2000/82 series of Meeus, chapter 47.
// Accuracy: ~10" in longitude, ~4" in latitude.
func Moon(jde float64) MoonPosition {
	T := julianCenturies(jde)
	T2 := T * T
	T3 := T2 * T
	T4 := T3 * T

	// Mean longitude of the Moon
	Lp := NormalizeAngle360(218.3164477 + 481267.88123421*T - 0.0015786*T2 + T3/538841 - T4/65194000)
	// Mean elongation of the Moon
	D := NormalizeAngle360(297.8501921 + 445267.1114034*T - 0.0018819*T2 + T3/545868 - T4/113065000)
	// Mean anomaly of the Sun
	M := NormalizeAngle360(357.5291092 + 35999.0502909*T - 0.0001536*T2 + T3/24490000)
	// Mean anomaly of the Moon
	Mp := NormalizeAngle360(134.9633964 + 477198.8675055*T + 0.0087414*T2 + T3/69699 - T4/14712000)
	// Mean argument of latitude
	F := NormalizeAngle360(93.2720950 + 483202.0175233*T - 0.0036539*T2 - T3/3526000 + T4/863310000)

	// Venus, Jupiter and flattening perturbations
	A1 := NormalizeAngle360(119.75 + 131.849*T)
	A2 := NormalizeAngle360(53.09 + 479264.290*T)
	A3 := NormalizeAngle360(313.45 + 481266.484*T)

	// Decreasing eccentricity of Earth's orbit scales terms containing M
	E := 1 - 0.002516*T - 0.0000074*T2

	var sumL, sumR, sumB float64
	for _, t := range moonLonDist {
		arg := degToRad(float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F)
		e := eccentricityFactor(E, t.m)
		sumL += t.a * e * math.Sin(arg)
		sumR += t.b * e * math.Cos(arg)
	}
	for _, t := range moonLat {
		arg := degToRad(float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F)
		sumB += t.a * eccentricityFactor(E, t.m) * math.Sin(arg)
	}

	sumL += 3958*math.Sin(degToRad(A1)) +
		1962*math.Sin(degToRad(Lp-F)) +
		318*math.Sin(degToRad(A2))
	sumB += -2235*math.Sin(degToRad(Lp)) +
		382*math.Sin(degToRad(A3)) +
		175*math.Sin(degToRad(A1-F)) +
		175*math.Sin(degToRad(A1+F)) +
		127*math.Sin(degToRad(Lp-Mp)) -
		115*math.Sin(degToRad(Lp+Mp))

	return MoonPosition{
		LonDeg:    NormalizeAngle360(Lp + sumL/1e6),
		LatDeg:    sumB / 1e6,
		DistKm:    385000.56 + sumR/1000,
		ArgLatDeg: F,
	}
}

func eccentricityFactor(E float64, m int) float64 {
	switch m {
	case 1, -1:
		return E
	case 2, -2:
		return E * E
	default:
		return 1
	}
}

// Nutation returns the nutation in longitude and the true obliquity of the
// ecliptic, both in degrees, for a JDE.
// Uses the abridged series of Meeus, chapter 22 (accurate to ~0.5").
func Nutation(jde float64) (dPsiDeg, epsDeg float64) {
	T := julianCenturies(jde)

	// Longitude of the ascending node of the Moon's mean orbit
	omega := degToRad(125.04452 - 1934.136261*T)
	// Mean longitudes of the Sun and Moon
	L := degToRad(280.4665 + 36000.7698*T)
	Lp := degToRad(218.3165 + 481267.8813*T)

	dPsi := -17.20*math.Sin(omega) - 1.32*math.Sin(2*L) - 0.23*math.Sin(2*Lp) + 0.21*math.Sin(2*omega)
	dEps := 9.20*math.Cos(omega) + 0.57*math.Cos(2*L) + 0.10*math.Cos(2*Lp) - 0.09*math.Cos(2*omega)

	// Mean obliquity (arcseconds folded into degrees)
	eps0 := 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T

	return dPsi / 3600, eps0 + dEps/3600
}
