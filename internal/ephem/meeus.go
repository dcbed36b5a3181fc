package ephem

import (
	"math"
	"time"

	"github.com/litescript/ls-lunar/internal/astro"
)

const (
	// moonRadiusKm is the mean lunar radius.
	moonRadiusKm = 1737.4

	// synodicMonth is the mean new-moon to new-moon period in days.
	synodicMonth = 29.530588853

	// meanElongationRate is the mean daily motion of the Moon away from the
	// Sun (360° / synodic month) used for Newton steps.
	meanElongationRate = 360 / synodicMonth

	// Event searches scan in 10 minute steps up to two days out.
	eventStep = 10.0 / 1440
	eventSpan = 2.0
)

// Meeus is an Oracle built on the truncated Meeus series in package astro.
// It reproduces topocentric position to ~0.01° and colongitude and optical
// librations to ~0.1°.
type Meeus struct {
	obs  Observer
	date Date
}

// NewMeeus creates an oracle for an observer at lat/lon zero, dated now.
func NewMeeus() *Meeus {
	return &Meeus{
		obs:  NewObserver(),
		date: DateFromTime(time.Now()),
	}
}

// Name implements Oracle.
func (m *Meeus) Name() string {
	return "Meeus"
}

// Observer implements Oracle.
func (m *Meeus) Observer() Observer {
	return m.obs
}

// SetObserver implements Oracle.
func (m *Meeus) SetObserver(o Observer) {
	m.obs = o
}

// Date implements Oracle.
func (m *Meeus) Date() Date {
	return m.date
}

// SetDate implements Oracle.
func (m *Meeus) SetDate(d Date) {
	m.date = d
}

// Compute implements Oracle.
func (m *Meeus) Compute() Body {
	g := geometryAt(m.date.JD())
	topo := g.topocentric(m.obs)

	// Optical librations: the sub-Earth point
	lib := astro.OpticalLibration(g.jde, g.moonLon, g.moon.LatDeg, g.dPsi, g.moon.ArgLatDeg)

	// Selenographic Sun: the anti-solar direction seen from the Moon, with the
	// solar latitude scaled by the Earth-Moon/Earth-Sun distance ratio. The
	// matching heliocentric longitude term is not applied.
	sunLat := g.moon.DistKm / g.sun.DistKm * g.moon.LatDeg
	sel := astro.OpticalLibration(g.jde, g.sun.LonDeg+180, sunLat, g.dPsi, g.moon.ArgLatDeg)

	psi, elong := g.elongation()
	phaseAngle := g.phaseAngle(psi)

	return Body{
		Alt: radians(topo.alt),
		Az:  radians(topo.az),
		RA:  radians(topo.ra),
		Dec: radians(topo.dec),

		Colong:       radians(astro.Colongitude(sel.LonDeg)),
		LibrationLat: radians(lib.LatDeg),
		LibrationLon: radians(lib.LonDeg),
		SubsolarLat:  radians(sel.LatDeg),

		Elongation: radians(elong),
		Phase:      (1 + math.Cos(radians(phaseAngle))) / 2,
		Size:       2 * math.Asin(moonRadiusKm/topo.distKm) * 180 / math.Pi * 3600,

		EarthDistance: astro.KmToAU(topo.distKm),
		SunDistance:   astro.KmToAU(g.sun.DistKm),
		Magnitude:     magnitude(phaseAngle, g.sun.DistKm, topo.distKm),
	}
}

// NextPhase implements Oracle.
func (m *Meeus) NextPhase(p PrimaryPhase, from Date) Date {
	return DateFromJD(findPhase(from.JD(), p.Elongation(), true))
}

// PreviousPhase implements Oracle.
func (m *Meeus) PreviousPhase(p PrimaryPhase, from Date) Date {
	return DateFromJD(findPhase(from.JD(), p.Elongation(), false))
}

// NextEvent implements Oracle.
func (m *Meeus) NextEvent(kind EventKind, from Date) (Date, error) {
	return m.findEvent(kind, from, false)
}

// PreviousEvent implements Oracle.
func (m *Meeus) PreviousEvent(kind EventKind, from Date) (Date, error) {
	return m.findEvent(kind, from, true)
}

func (m *Meeus) findEvent(kind EventKind, from Date, backward bool) (Date, error) {
	obs := m.obs
	search := astro.CrossingSearch{Step: eventStep, Span: eventSpan, Backward: backward}

	var f func(jd float64) float64
	switch kind {
	case Transit:
		// Upper culmination: hour angle passes through zero going west
		search.Edge = astro.Rising
		search.MaxJump = 90
		f = func(jd float64) float64 {
			t := geometryAt(jd).topocentric(obs)
			return astro.HourAngle(t.lst, t.ra)
		}
	case Rising, Setting:
		// Upper limb on the observer's horizon
		search.Edge = astro.Rising
		if kind == Setting {
			search.Edge = astro.Falling
		}
		horizon := obs.HorizonDeg()
		f = func(jd float64) float64 {
			t := geometryAt(jd).topocentric(obs)
			semi := math.Asin(moonRadiusKm/t.distKm) * 180 / math.Pi
			return t.alt + semi - horizon
		}
	default:
		return 0, ErrNoEvent
	}

	jd, ok := search.Find(f, from.JD())
	if !ok {
		return 0, ErrNoEvent
	}
	return DateFromJD(jd), nil
}

// lunarGeometry is the geocentric Sun/Moon configuration at one instant.
type lunarGeometry struct {
	jd, jde   float64
	moon      astro.MoonPosition
	sun       astro.SunPosition
	dPsi, eps float64
	moonLon   float64 // apparent longitude, nutation applied
}

func geometryAt(jd float64) lunarGeometry {
	jde := astro.DynamicalTime(jd)
	moon := astro.Moon(jde)
	dPsi, eps := astro.Nutation(jde)

	return lunarGeometry{
		jd:      jd,
		jde:     jde,
		moon:    moon,
		sun:     astro.Sun(jde),
		dPsi:    dPsi,
		eps:     eps,
		moonLon: astro.NormalizeAngle360(moon.LonDeg + dPsi),
	}
}

// elongationDeg returns the Moon-Sun longitude difference in [0, 360).
func (g lunarGeometry) elongationDeg() float64 {
	return astro.NormalizeAngle360(g.moonLon - g.sun.LonDeg)
}

// elongation returns the Sun-Moon angular separation psi in [0, 180] and
// the same angle signed positive east of the Sun, both in degrees.
func (g lunarGeometry) elongation() (psi, signed float64) {
	beta := radians(g.moon.LatDeg)
	cosPsi := math.Cos(beta) * math.Cos(radians(g.moonLon-g.sun.LonDeg))
	psi = math.Acos(math.Max(-1, math.Min(1, cosPsi))) * 180 / math.Pi

	if g.elongationDeg() < 180 {
		return psi, psi
	}
	return psi, -psi
}

// phaseAngle returns the Sun-Moon-Earth angle in degrees for separation psi.
func (g lunarGeometry) phaseAngle(psiDeg float64) float64 {
	psi := radians(psiDeg)
	r := g.sun.DistKm
	i := math.Atan2(r*math.Sin(psi), g.moon.DistKm-r*math.Cos(psi))
	return i * 180 / math.Pi
}

type topoPosition struct {
	ra, dec, distKm float64
	alt, az         float64
	lst             float64
}

func (g lunarGeometry) topocentric(obs Observer) topoPosition {
	latDeg := obs.LatDeg()
	lst := astro.LocalSiderealTime(g.jd, obs.LonDeg())

	ra, dec := astro.EclipticToEquatorial(g.moonLon, g.moon.LatDeg, g.eps)
	tra, tdec, tdist := astro.Topocentric(ra, dec, g.moon.DistKm, latDeg, lst)
	az, alt := astro.EquatorialToHorizontal(tra, tdec, latDeg, lst)
	alt += astro.Refraction(alt, obs.Pressure, obs.Temperature)

	return topoPosition{ra: tra, dec: tdec, distKm: tdist, alt: alt, az: az, lst: lst}
}

// findPhase solves for the instant the Moon-Sun elongation equals target
// degrees, searching forward or backward from jd.
func findPhase(jd, target float64, forward bool) float64 {
	e := geometryAt(jd).elongationDeg()

	// First guess from the mean synodic motion
	var delta float64
	if forward {
		delta = astro.NormalizeAngle360(target - e)
	} else {
		delta = -astro.NormalizeAngle360(e - target)
	}
	guess := jd + delta/360*synodicMonth

	for i := 0; i < 50; i++ {
		step := astro.WrapAngle180(target-geometryAt(guess).elongationDeg()) / meanElongationRate
		guess += step
		if math.Abs(step) < 1e-7 {
			break
		}
	}

	// A start sitting on the phase itself converges back onto jd
	if forward && guess <= jd {
		return findPhase(jd+synodicMonth/4, target, true)
	}
	if !forward && guess >= jd {
		return findPhase(jd-synodicMonth/4, target, false)
	}
	return guess
}

// magnitude estimates the Moon's visual magnitude from the phase angle and
// the Sun-Moon and Earth-Moon distances.
func magnitude(phaseAngleDeg, sunKm, moonKm float64) float64 {
	i := math.Abs(phaseAngleDeg)
	return 0.21 + 5*math.Log10(astro.KmToAU(sunKm)*astro.KmToAU(moonKm)) + 0.026*i + 4e-9*math.Pow(i, 4)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
