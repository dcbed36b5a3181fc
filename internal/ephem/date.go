package ephem

import (
	"math"
	"time"
)

// Date is an instant as a Dublin Julian Day: fractional days since
// 1899-12-31 12:00 UT. This is the native date of the oracle.
type Date float64

// dublinOffset is the Julian Date of the Dublin epoch.
const dublinOffset = 2415020.0

var dublinEpoch = time.Date(1899, 12, 31, 12, 0, 0, 0, time.UTC)

// DateFromTime converts a time to a Date.
func DateFromTime(t time.Time) Date {
	// Whole days in integer seconds keep the fraction exact for round trips
	secs := t.Unix() - dublinEpoch.Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	rem := float64(secs-days*86400) + float64(t.Nanosecond())/1e9
	return Date(float64(days) + rem/86400)
}

// DateFromJD converts a Julian Date to a Date.
func DateFromJD(jd float64) Date {
	return Date(jd - dublinOffset)
}

// JD returns the Julian Date.
func (d Date) JD() float64 {
	return float64(d) + dublinOffset
}

// Time returns the instant as a UTC time.
func (d Date) Time() time.Time {
	days := math.Floor(float64(d))
	frac := float64(d) - days
	return dublinEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * 86400 * float64(time.Second)))
}

// Add returns the date shifted by a number of days.
func (d Date) Add(days float64) Date {
	return d + Date(days)
}

// String formats the date like the oracle's own display, e.g. "2013/10/18 22:00:00".
func (d Date) String() string {
	return d.Time().Round(time.Second).Format("2006/01/02 15:04:05")
}
