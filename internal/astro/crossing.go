package astro

import (
	"math"
)

// Edge selects which sign change of a function counts as a crossing.
type Edge int

const (
	// Rising matches f going from <= 0 to > 0 as time increases.
	Rising Edge = iota
	// Falling matches f going from > 0 to <= 0 as time increases.
	Falling
)

// CrossingSearch scans a time function in fixed steps looking for the first
// zero crossing of the requested edge, then refines it by bisection.
type CrossingSearch struct {
	Step     float64 // Scan step in days
	Span     float64 // Maximum distance scanned from the start, in days
	Edge     Edge
	Backward bool // Scan toward earlier times

	// MaxJump rejects brackets whose endpoint values differ by more than this.
	// Used for wrapped angles (hour angle) where the ±180 seam is a sign
	// change but not a crossing. Zero disables the check.
	MaxJump float64
}

// bisectionSteps halves a 10 minute bracket to well under a millisecond.
const bisectionSteps = 40

// Find returns the Julian Date of the nearest crossing from start in the scan
// direction. ok is false when no crossing exists inside the span.
func (s CrossingSearch) Find(f func(jd float64) float64, start float64) (jd float64, ok bool) {
	if s.Step <= 0 || s.Span <= 0 {
		return 0, false
	}

	dir := 1.0
	if s.Backward {
		dir = -1.0
	}

	n := int(math.Ceil(s.Span / s.Step))
	a, fa := start, f(start)

	for i := 1; i <= n; i++ {
		b := start + dir*float64(i)*s.Step
		fb := f(b)

		// Order the bracket in time so the edge test reads the same both ways
		lo, hi, flo, fhi := a, b, fa, fb
		if s.Backward {
			lo, hi, flo, fhi = b, a, fb, fa
		}

		if s.matches(flo, fhi) {
			return bisect(f, lo, hi, flo), true
		}
		a, fa = b, fb
	}

	return 0, false
}

func (s CrossingSearch) matches(flo, fhi float64) bool {
	if s.MaxJump > 0 && math.Abs(fhi-flo) > s.MaxJump {
		return false
	}
	if s.Edge == Rising {
		return flo <= 0 && fhi > 0
	}
	return flo > 0 && fhi <= 0
}

// bisect narrows [lo, hi] around the sign change of f.
func bisect(f func(float64) float64, lo, hi, flo float64) float64 {
	for i := 0; i < bisectionSteps; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if (fm <= 0) == (flo <= 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
