package moon

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/ephem"
	"github.com/litescript/ls-lunar/internal/logging"
)

type wantEvent struct {
	name string
	at   time.Time // zero for an event that does not happen
}

func checkEvents(t *testing.T, got []Event, want []wantEvent, loc *time.Location) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(got), got, len(want))
	}
	for i, w := range want {
		e := got[i]
		if e.Name != w.name {
			t.Errorf("event %d = %q, want %q", i, e.Name, w.name)
			continue
		}
		if w.at.IsZero() {
			if e.Happens {
				t.Errorf("%s should not happen, got %v", e.Name, e.Time)
			}
			if v := e.Value(); v != "Does not "+w.name {
				t.Errorf("%s Value() = %v", e.Name, v)
			}
			continue
		}
		if !e.Happens {
			t.Errorf("%s should happen", e.Name)
			continue
		}
		if e.Time.Second != float64(int(e.Time.Second)) {
			t.Errorf("%s time %v not rounded to the second", e.Name, e.Time)
		}
		d := e.Time.In(loc).Sub(w.at)
		if d < -time.Minute || d > time.Minute {
			t.Errorf("%s at %v, want %v", e.Name, e.Time, w.at.Format("2006-01-02 15:04:05"))
		}
		if v, ok := e.Value().(codec.DateTuple); !ok || v != e.Time {
			t.Errorf("%s Value() = %v", e.Name, e.Value())
		}
	}
}

func TestRiseSetTimes(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	local := func(mo, d, h, mi, sec int) time.Time {
		return time.Date(2013, time.Month(mo), d, h, mi, sec, 0, ny)
	}

	tests := []struct {
		name string
		at   codec.DateTuple
		want []wantEvent
	}{
		{
			name: "all three",
			at:   at(2013, 10, 18, 22, 0),
			want: []wantEvent{
				{"transit", local(10, 18, 0, 43, 22)},
				{"set", local(10, 18, 7, 22, 19)},
				{"rise", local(10, 18, 18, 47, 41)},
			},
		},
		{
			name: "no transit",
			at:   at(2013, 10, 17, 22, 0),
			want: []wantEvent{
				{"transit", time.Time{}},
				{"set", local(10, 17, 6, 19, 58)},
				{"rise", local(10, 17, 18, 11, 22)},
			},
		},
		{
			name: "no rise",
			at:   at(2013, 9, 26, 22, 0),
			want: []wantEvent{
				{"rise", time.Time{}},
				{"transit", local(9, 26, 6, 57, 53)},
				{"set", local(9, 26, 14, 10, 30)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newKnoxville(t, tt.at)
			checkEvents(t, s.RiseSetTimes("America/New_York"), tt.want, ny)
		})
	}
}

func TestRiseSetTimes_RestoresObserver(t *testing.T) {
	s := newKnoxville(t, at(2013, 10, 18, 22, 0))
	before := s.oracle.Observer()
	alt := s.Altitude()
	date := s.Date()

	s.RiseSetTimes("America/New_York")

	if got := s.oracle.Observer(); got != before {
		t.Errorf("observer = %+v, want %+v", got, before)
	}
	if got := s.oracle.Observer(); got.Pressure != ephem.DefaultPressure || got.Horizon != 0 {
		t.Errorf("pressure/horizon not restored: %+v", got)
	}
	if s.Date() != date {
		t.Errorf("date moved from %v to %v", date, s.Date())
	}
	approx(t, "altitude after search", s.Altitude(), alt, 1e-12)
}

func TestRiseSetTimes_UnknownZone(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.LevelWarn)
	log.SetOutput(&buf)

	s, err := New(knoxLat, knoxLon, at(2013, 10, 18, 22, 0), WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}

	events := s.RiseSetTimes("Mars/Olympus_Mons")
	if len(events) != 3 {
		t.Fatalf("got %d events", len(events))
	}
	for _, e := range events {
		if e.Happens && !e.Time.SameDay(codec.DateTuple{Year: 2013, Month: 10, Day: 18}) {
			t.Errorf("%s on %v, want the UTC day 2013-10-18", e.Name, e.Time)
		}
	}
	if !strings.Contains(buf.String(), `unknown timezone "Mars/Olympus_Mons"`) {
		t.Errorf("missing warning, log = %q", buf.String())
	}
}

func TestEventString(t *testing.T) {
	e := Event{Name: "rise", Time: codec.DateTuple{Year: 2013, Month: 10, Day: 18, Hour: 18, Minute: 47, Second: 41}, Happens: true}
	if got := e.String(); got != "rise 2013-10-18 18:47:41" {
		t.Errorf("String() = %q", got)
	}
	if got := (Event{Name: "set"}).String(); got != "Does not set" {
		t.Errorf("String() = %q", got)
	}
}
