package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "Dublin epoch",
			time:     time.Date(1899, 12, 31, 12, 0, 0, 0, time.UTC),
			expected: 2415020.0,
			tol:      0.0001,
		},
		{
			name:     "2013-10-18 22:00 UTC",
			time:     time.Date(2013, 10, 18, 22, 0, 0, 0, time.UTC),
			expected: 2456584.416667,
			tol:      0.000001,
		},
		{
			name:     "Non-UTC input is converted",
			time:     time.Date(2013, 10, 18, 18, 0, 0, 0, time.FixedZone("EDT", -4*3600)),
			expected: 2456584.416667,
			tol:      0.000001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestTimeFromJulianDate(t *testing.T) {
	times := []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2013, 10, 18, 23, 37, 39, 0, time.UTC),
		time.Date(1999, 2, 28, 3, 4, 5, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	for _, want := range times {
		got := TimeFromJulianDate(JulianDate(want))
		if d := got.Sub(want); d > time.Millisecond || d < -time.Millisecond {
			t.Errorf("round trip %v -> %v (off by %v)", want, got, d)
		}
	}
}

func TestDeltaT(t *testing.T) {
	// ΔT was ~69 s in 2015 and ~64 s in 2005
	jd2013 := JulianDate(time.Date(2013, 10, 18, 0, 0, 0, 0, time.UTC))
	if dt := DeltaT(jd2013); math.Abs(dt-68.4) > 1 {
		t.Errorf("DeltaT(2013) = %.2f s, want ~68.4 s", dt)
	}

	jde := DynamicalTime(jd2013)
	if diff := (jde - jd2013) * 86400; math.Abs(diff-DeltaT(jd2013)) > 1e-3 {
		t.Errorf("DynamicalTime offset = %.4f s, want %.4f s", diff, DeltaT(jd2013))
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want float64
		tol  float64
	}{
		// At J2000 epoch GMST should be approximately 280.46°
		{"J2000", J2000, 280.46061837, 1e-6},
		// Meeus example 12.a: 1987 April 10, 0h UT
		{"Meeus 12.a", 2446895.5, 197.693195, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GreenwichMeanSiderealTime(tt.jd)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("GMST = %.6f°, want %.6f°", got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("GMST out of range: %v", got)
			}
		})
	}
}

func TestLocalSiderealTime(t *testing.T) {
	// LST = GMST + longitude
	jd := JulianDate(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	// At longitude 0 (Greenwich), LST should equal GMST
	gmst := GreenwichMeanSiderealTime(jd)
	if lst0 := LocalSiderealTime(jd, 0); math.Abs(lst0-gmst) > 0.001 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	// At longitude +90° (east), LST should be GMST + 90°
	expected90 := math.Mod(gmst+90, 360)
	if lst90 := LocalSiderealTime(jd, 90); math.Abs(lst90-expected90) > 0.001 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, expected90)
	}

	// LST should always be in 0-360 range
	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(jd, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestEquatorialToHorizontal(t *testing.T) {
	tests := []struct {
		name             string
		ra, dec, lat     float64
		lst              float64
		wantAz, wantAlt  float64
		azTol, altTol    float64
		skipAzimuthCheck bool
	}{
		{
			// Star at zenith: Dec = lat, RA = LST
			name: "zenith", ra: 120, dec: 35, lat: 35, lst: 120,
			wantAlt: 90, altTol: 1e-6, skipAzimuthCheck: true,
		},
		{
			// Polaris from 35°N sits due north at roughly the latitude
			name: "polaris", ra: 37.95, dec: 89.26, lat: 35, lst: 37.95,
			wantAz: 0, wantAlt: 35.74, azTol: 0.01, altTol: 0.01,
		},
		{
			// On the celestial equator, six hours east of the meridian: rising due east
			name: "equator rising", ra: 90, dec: 0, lat: 40, lst: 0,
			wantAz: 90, wantAlt: 0, azTol: 1e-6, altTol: 1e-6,
		},
		{
			// Six hours west of the meridian: setting due west
			name: "equator setting", ra: 0, dec: 0, lat: 40, lst: 90,
			wantAz: 270, wantAlt: 0, azTol: 1e-6, altTol: 1e-6,
		},
		{
			// Upper culmination south of the zenith
			name: "meridian south", ra: 10, dec: -20, lat: 40, lst: 10,
			wantAz: 180, wantAlt: 30, azTol: 1e-6, altTol: 1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, alt := EquatorialToHorizontal(tt.ra, tt.dec, tt.lat, tt.lst)
			if math.Abs(alt-tt.wantAlt) > tt.altTol {
				t.Errorf("altitude = %.4f°, want %.4f°", alt, tt.wantAlt)
			}
			if tt.skipAzimuthCheck {
				return
			}
			if d := math.Abs(WrapAngle180(az - tt.wantAz)); d > tt.azTol {
				t.Errorf("azimuth = %.4f°, want %.4f°", az, tt.wantAz)
			}
		})
	}
}

func TestEquatorialToHorizontal_SouthernStar(t *testing.T) {
	// A star at Dec = -60° never rises from 35°N
	// Max elevation = 90 - lat + dec = 90 - 35 + (-60) = -5°
	for lst := 0.0; lst < 360; lst += 15 {
		_, alt := EquatorialToHorizontal(0, -60, 35, lst)
		if alt > 0 {
			t.Errorf("Star at Dec=-60° visible from 35°N at LST %.0f: El=%v°", lst, alt)
		}
	}
}

func TestEclipticToEquatorial(t *testing.T) {
	tests := []struct {
		name         string
		lon, lat     float64
		eps          float64
		wantRA, wDec float64
	}{
		{"vernal equinox", 0, 0, 23.44, 0, 0},
		{"summer solstice", 90, 0, 23.44, 90, 23.44},
		{"autumnal equinox", 180, 0, 23.44, 180, 0},
		{"ecliptic pole", 0, 90, 23.44, 270, 66.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := EclipticToEquatorial(tt.lon, tt.lat, tt.eps)
			if math.Abs(dec-tt.wDec) > 1e-6 {
				t.Errorf("dec = %.6f°, want %.6f°", dec, tt.wDec)
			}
			if math.Abs(WrapAngle180(ra-tt.wantRA)) > 1e-6 {
				t.Errorf("ra = %.6f°, want %.6f°", ra, tt.wantRA)
			}
		})
	}
}

func TestAngleNormalization(t *testing.T) {
	tests := []struct {
		in      float64
		want360 float64
		want180 float64
	}{
		{0, 0, 0},
		{360, 0, 0},
		{-90, 270, -90},
		{190, 190, -170},
		{180, 180, 180},
		{-180, 180, 180},
		{725, 5, 5},
	}

	for _, tt := range tests {
		if got := NormalizeAngle360(tt.in); math.Abs(got-tt.want360) > 1e-9 {
			t.Errorf("NormalizeAngle360(%v) = %v, want %v", tt.in, got, tt.want360)
		}
		if got := WrapAngle180(tt.in); math.Abs(got-tt.want180) > 1e-9 {
			t.Errorf("WrapAngle180(%v) = %v, want %v", tt.in, got, tt.want180)
		}
	}
}

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
	}

	for _, tt := range tests {
		if got := degToRad(tt.deg); math.Abs(got-tt.rad) > 1e-12 {
			t.Errorf("degToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if got := radToDeg(tt.rad); math.Abs(got-tt.deg) > 1e-9 {
			t.Errorf("radToDeg(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}
