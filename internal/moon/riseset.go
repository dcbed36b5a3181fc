package moon

import (
	"errors"
	"slices"
	"time"

	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/ephem"
)

// Rise, set and transit times are reported for the upper limb against the
// standard refraction-free horizon.
const riseSetHorizon = "-0:34"

var eventNames = map[ephem.EventKind]string{
	ephem.Rising:  "rise",
	ephem.Transit: "transit",
	ephem.Setting: "set",
}

// Event is one rise, transit or set on the local calendar day.
type Event struct {
	Name    string          // "rise", "transit" or "set"
	Time    codec.DateTuple // local wall-clock time; zero when !Happens
	Happens bool

	at time.Time
}

// Value returns the local time tuple, or "Does not <name>" for an event that
// does not happen that day.
func (e Event) Value() any {
	if !e.Happens {
		return "Does not " + e.Name
	}
	return e.Time
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if !e.Happens {
		return "Does not " + e.Name
	}
	return e.Name + " " + e.Time.String()
}

// RiseSetTimes returns the Moon's rise, transit and set on the local day of
// the current instant in the IANA zone tz. Events that do not happen that
// day come first, in rise, transit, set order; the rest follow in time
// order. An unknown zone falls back to UTC.
//
// The observer's pressure and horizon are overridden during the search and
// restored before returning.
func (s *State) RiseSetTimes(tz string) []Event {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("unknown timezone %q, using UTC: %v", tz, err)
		loc = time.UTC
	}

	saved := s.oracle.Observer()
	search := saved
	search.Pressure = 0
	_ = search.SetHorizon(riseSetHorizon) // constant, always parses
	s.oracle.SetObserver(search)
	defer func() {
		s.oracle.SetObserver(saved)
		s.body = s.oracle.Compute()
	}()

	now := s.oracle.Date()
	today := codec.FromTime(codec.ToDateTuple(now, true).Time().In(loc))

	var missing, found []Event
	for _, kind := range ephem.EventKinds {
		name := eventNames[kind]
		if at, ok := s.eventOn(today, loc, kind, now); ok {
			found = append(found, Event{Name: name, Time: codec.FromTime(at), Happens: true, at: at})
			continue
		}
		missing = append(missing, Event{Name: name})
	}

	slices.SortStableFunc(found, func(a, b Event) int {
		return a.at.Compare(b.at)
	})
	return append(missing, found...)
}

// eventOn looks for kind on the local day today, trying the next
// occurrence and then the previous one.
func (s *State) eventOn(today codec.DateTuple, loc *time.Location, kind ephem.EventKind, now ephem.Date) (time.Time, bool) {
	finders := []func(ephem.EventKind, ephem.Date) (ephem.Date, error){
		s.oracle.NextEvent,
		s.oracle.PreviousEvent,
	}
	for _, find := range finders {
		d, err := find(kind, now)
		if err != nil {
			if !errors.Is(err, ephem.ErrNoEvent) {
				s.log.Warn("%s search failed: %v", eventNames[kind], err)
			}
			continue
		}
		local := codec.ToDateTuple(d, true).Time().In(loc)
		if codec.FromTime(local).SameDay(today) {
			return local, true
		}
	}
	return time.Time{}, false
}
