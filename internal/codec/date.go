package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-lunar/internal/ephem"
)

// DateTuple is a calendar instant as (year, month, day, hour, minute,
// second). Tuples handed to the oracle are UTC; tuples produced for display
// may be in a local zone.
type DateTuple struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64
}

// NewDateTuple builds a DateTuple from three to six values. All values but
// the seconds must be integral. Missing time fields default to zero.
func NewDateTuple(values ...float64) (DateTuple, error) {
	if len(values) < 3 || len(values) > 6 {
		return DateTuple{}, fmt.Errorf("%w: want 3 to 6 components, got %d", ErrInvalidDate, len(values))
	}

	fields := make([]int, 5)
	for i, v := range values {
		if i == 5 {
			break
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return DateTuple{}, fmt.Errorf("%w: component %d (%v) must be integral", ErrInvalidDate, i, v)
		}
		fields[i] = int(v)
	}

	d := DateTuple{Year: fields[0], Month: fields[1], Day: fields[2], Hour: fields[3], Minute: fields[4]}
	if len(values) == 6 {
		d.Second = values[5]
	}
	if err := d.Validate(); err != nil {
		return DateTuple{}, err
	}
	return d, nil
}

// Validate checks that every component names a real calendar instant.
func (d DateTuple) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, d.Month)
	}
	// Day zero of the next month is the last day of this one
	last := time.Date(d.Year, time.Month(d.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d.Day < 1 || d.Day > last {
		return fmt.Errorf("%w: day %d in %04d-%02d", ErrInvalidDate, d.Day, d.Year, d.Month)
	}
	if d.Hour < 0 || d.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidDate, d.Hour)
	}
	if d.Minute < 0 || d.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidDate, d.Minute)
	}
	if d.Second < 0 || d.Second >= 60 || math.IsNaN(d.Second) {
		return fmt.Errorf("%w: second %v", ErrInvalidDate, d.Second)
	}
	return nil
}

// FromTime returns the wall-clock tuple of t in its own location.
func FromTime(t time.Time) DateTuple {
	return DateTuple{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: float64(t.Second()) + float64(t.Nanosecond())/1e9,
	}
}

// Time interprets the tuple as UTC.
func (d DateTuple) Time() time.Time {
	return d.In(time.UTC)
}

// In interprets the tuple as wall-clock time in loc.
func (d DateTuple) In(loc *time.Location) time.Time {
	whole := math.Floor(d.Second)
	ns := int(math.Round((d.Second - whole) * 1e9))
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, int(whole), ns, loc)
}

// Date converts a UTC tuple to the oracle's native date.
func (d DateTuple) Date() ephem.Date {
	return ephem.DateFromTime(d.Time())
}

// Round rounds to the nearest whole second, carrying into minutes, hours
// and the calendar when the seconds reach 60.
func (d DateTuple) Round() DateTuple {
	// The UTC frame has no DST gaps, so wall-clock carries are exact
	return FromTime(d.Time().Round(time.Second))
}

// ToDateTuple converts an oracle date into a UTC tuple, optionally rounding
// the seconds.
func ToDateTuple(date ephem.Date, round bool) DateTuple {
	t := FromTime(date.Time())
	if round {
		return t.Round()
	}
	return t
}

// SameDay reports whether two tuples fall on the same calendar day.
func (d DateTuple) SameDay(o DateTuple) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// String formats the tuple as "2006-01-02 15:04:05", seconds truncated.
func (d DateTuple) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, int(d.Second))
}

// MarshalJSON encodes the tuple as a six-element array.
func (d DateTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second})
}
