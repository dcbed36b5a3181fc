// Package codec converts between the tuple forms callers use for angles and
// calendar dates and the values the ephemeris oracle works with.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidAngle is returned for malformed degree/minute/second tuples.
	ErrInvalidAngle = errors.New("invalid angle tuple")

	// ErrInvalidDate is returned for malformed calendar tuples.
	ErrInvalidDate = errors.New("invalid date tuple")
)

// DMS is an angle as a (degrees, minutes, seconds) tuple, e.g. (35, 58, 10)
// or (-84, 19, 0). The sign is carried by the leading non-zero component.
type DMS struct {
	Degrees int
	Minutes int
	Seconds int
}

// NewDMS builds a DMS from exactly three integers and validates it.
func NewDMS(values ...int) (DMS, error) {
	if len(values) != 3 {
		return DMS{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidAngle, len(values))
	}
	d := DMS{Degrees: values[0], Minutes: values[1], Seconds: values[2]}
	if err := d.Validate(); err != nil {
		return DMS{}, err
	}
	return d, nil
}

// ParseDMS parses a "d:m:s" string of three integers, e.g. "-84:19:0".
func ParseDMS(s string) (DMS, error) {
	str := strings.TrimSpace(s)
	neg := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	parts := strings.Split(str, ":")
	if len(parts) != 3 {
		return DMS{}, fmt.Errorf("%w: %q: want d:m:s", ErrInvalidAngle, s)
	}

	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return DMS{}, fmt.Errorf("%w: %q: bad component %q", ErrInvalidAngle, s, p)
		}
		vals[i] = v
	}

	if neg {
		// Push the sign onto the leading non-zero component
		for i := range vals {
			if vals[i] != 0 {
				vals[i] = -vals[i]
				break
			}
		}
	}
	return NewDMS(vals...)
}

// FromDecimal converts decimal degrees to the nearest whole-second DMS.
func FromDecimal(deg float64) DMS {
	neg := deg < 0
	total := int(math.Round(math.Abs(deg) * 3600))

	d := DMS{Degrees: total / 3600, Minutes: total % 3600 / 60, Seconds: total % 60}
	if neg && total != 0 {
		switch {
		case d.Degrees != 0:
			d.Degrees = -d.Degrees
		case d.Minutes != 0:
			d.Minutes = -d.Minutes
		default:
			d.Seconds = -d.Seconds
		}
	}
	return d
}

// Validate checks component ranges: |degrees| <= 360, minutes and seconds
// in [0, 60), with a minus sign allowed only on the leading non-zero value.
func (d DMS) Validate() error {
	if d.Degrees < -360 || d.Degrees > 360 {
		return fmt.Errorf("%w: degrees %d out of range", ErrInvalidAngle, d.Degrees)
	}
	if abs(d.Minutes) >= 60 || abs(d.Seconds) >= 60 {
		return fmt.Errorf("%w: minutes/seconds must be below 60 in %v", ErrInvalidAngle, [3]int{d.Degrees, d.Minutes, d.Seconds})
	}
	if d.Minutes < 0 && d.Degrees != 0 {
		return fmt.Errorf("%w: negative minutes after non-zero degrees", ErrInvalidAngle)
	}
	if d.Seconds < 0 && (d.Degrees != 0 || d.Minutes != 0) {
		return fmt.Errorf("%w: negative seconds after a non-zero component", ErrInvalidAngle)
	}
	return nil
}

// Negative reports whether the angle is below zero.
func (d DMS) Negative() bool {
	return d.Degrees < 0 || d.Minutes < 0 || d.Seconds < 0
}

// Decimal returns the angle in decimal degrees.
func (d DMS) Decimal() float64 {
	v := float64(abs(d.Degrees)) + float64(abs(d.Minutes))/60 + float64(abs(d.Seconds))/3600
	if d.Negative() {
		return -v
	}
	return v
}

// String implements fmt.Stringer using TupleToString.
func (d DMS) String() string {
	return TupleToString(d)
}

// TupleToString renders a DMS as the colon-separated string the oracle
// parses, e.g. (-34, 23, 12) becomes "-34:23:12".
func TupleToString(d DMS) string {
	sign := ""
	if d.Negative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d:%d:%d", sign, abs(d.Degrees), abs(d.Minutes), abs(d.Seconds))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
