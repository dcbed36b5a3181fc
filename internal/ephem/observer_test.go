package ephem

import (
	"errors"
	"math"
	"testing"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"35:58:10", 35 + 58.0/60 + 10.0/3600, false},
		{"-84:19:0", -(84 + 19.0/60), false},
		{"-34:23:12", -(34 + 23.0/60 + 12.0/3600), false},
		{"-0:34", -34.0 / 60, false},
		{"+12.5", 12.5, false},
		{"  10:30  ", 10.5, false},
		{"0:0:30.5", 30.5 / 3600, false},
		{"", 0, true},
		{"abc", 0, true},
		{"10:60:0", 0, true},
		{"10:-5:0", 0, true},
		{"1:2:3:4", 0, true},
		{"10::", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseAngle(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidAngle) {
					t.Errorf("ParseAngle(%q) error = %v, want ErrInvalidAngle", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAngle(%q) unexpected error: %v", tc.input, err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("ParseAngle(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestObserverSetLocation(t *testing.T) {
	obs := NewObserver()
	if obs.Pressure != DefaultPressure || obs.Temperature != DefaultTemperature {
		t.Errorf("NewObserver() atmosphere = %v mBar / %v °C", obs.Pressure, obs.Temperature)
	}

	if err := obs.SetLocation("35:58:10", "-84:19:0"); err != nil {
		t.Fatalf("SetLocation: %v", err)
	}
	if math.Abs(obs.LatDeg()-35.969444) > 1e-6 {
		t.Errorf("LatDeg() = %v, want 35.969444", obs.LatDeg())
	}
	if math.Abs(obs.LonDeg()-(-84.316667)) > 1e-6 {
		t.Errorf("LonDeg() = %v, want -84.316667", obs.LonDeg())
	}

	tests := []struct {
		name     string
		lat, lon string
	}{
		{"bad latitude", "north", "0"},
		{"latitude out of range", "91:0:0", "0"},
		{"bad longitude", "0", "1:2:3:4"},
		{"longitude out of range", "0", "400"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewObserver()
			if err := o.SetLocation(tc.lat, tc.lon); !errors.Is(err, ErrInvalidAngle) {
				t.Errorf("SetLocation(%q, %q) error = %v, want ErrInvalidAngle", tc.lat, tc.lon, err)
			}
		})
	}
}

func TestObserverSetHorizon(t *testing.T) {
	obs := NewObserver()
	if err := obs.SetHorizon("-0:34"); err != nil {
		t.Fatalf("SetHorizon: %v", err)
	}
	if math.Abs(obs.HorizonDeg()-(-34.0/60)) > 1e-12 {
		t.Errorf("HorizonDeg() = %v, want %v", obs.HorizonDeg(), -34.0/60)
	}
	if err := obs.SetHorizon("low"); !errors.Is(err, ErrInvalidAngle) {
		t.Errorf("SetHorizon(\"low\") error = %v, want ErrInvalidAngle", err)
	}
}

func TestPrimaryPhase(t *testing.T) {
	tests := []struct {
		phase    PrimaryPhase
		name     string
		previous PrimaryPhase
		next     PrimaryPhase
		elong    float64
	}{
		{NewMoon, "new_moon", LastQuarter, FirstQuarter, 0},
		{FirstQuarter, "first_quarter", NewMoon, FullMoon, 90},
		{FullMoon, "full_moon", FirstQuarter, LastQuarter, 180},
		{LastQuarter, "last_quarter", FullMoon, NewMoon, 270},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.phase.String(); got != tc.name {
				t.Errorf("String() = %q, want %q", got, tc.name)
			}
			if got := tc.phase.Previous(); got != tc.previous {
				t.Errorf("Previous() = %v, want %v", got, tc.previous)
			}
			if got := tc.phase.Next(); got != tc.next {
				t.Errorf("Next() = %v, want %v", got, tc.next)
			}
			if got := tc.phase.Elongation(); got != tc.elong {
				t.Errorf("Elongation() = %v, want %v", got, tc.elong)
			}
		})
	}

	if got := PrimaryPhase(9).String(); got != "unknown" {
		t.Errorf("PrimaryPhase(9).String() = %q, want unknown", got)
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{Rising, "rising"},
		{Transit, "transit"},
		{Setting, "setting"},
		{EventKind(7), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
