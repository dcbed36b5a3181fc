package astro

import (
	"math"
	"testing"
)

func TestCrossingSearch_Find(t *testing.T) {
	// sin with a one day period crosses upward at 0, 1, 2..., downward at 0.5, 1.5...
	wave := func(jd float64) float64 { return math.Sin(2 * math.Pi * jd) }
	step := 10.0 / 1440

	tests := []struct {
		name   string
		search CrossingSearch
		start  float64
		want   float64
		wantOK bool
	}{
		{
			name:   "next rising",
			search: CrossingSearch{Step: step, Span: 2, Edge: Rising},
			start:  0.3, want: 1.0, wantOK: true,
		},
		{
			name:   "next falling",
			search: CrossingSearch{Step: step, Span: 2, Edge: Falling},
			start:  0.6, want: 1.5, wantOK: true,
		},
		{
			name:   "previous rising",
			search: CrossingSearch{Step: step, Span: 2, Edge: Rising, Backward: true},
			start:  0.3, want: 0.0, wantOK: true,
		},
		{
			name:   "previous falling",
			search: CrossingSearch{Step: step, Span: 2, Edge: Falling, Backward: true},
			start:  0.3, want: -0.5, wantOK: true,
		},
		{
			name:   "span too short",
			search: CrossingSearch{Step: step, Span: 0.2, Edge: Rising},
			start:  0.3, wantOK: false,
		},
		{
			name:   "invalid step",
			search: CrossingSearch{Step: 0, Span: 2, Edge: Rising},
			start:  0.3, wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.search.Find(wave, tt.start)
			if ok != tt.wantOK {
				t.Fatalf("Find() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Find() = %.8f, want %.8f", got, tt.want)
			}
		})
	}
}

func TestCrossingSearch_MaxJump(t *testing.T) {
	// A wrapped angle increasing 360° per day jumps from +180 to -180 at
	// 0.5 and crosses zero upward at 1.0. The seam must not be reported.
	angle := func(jd float64) float64 { return WrapAngle180(360 * jd) }

	s := CrossingSearch{Step: 10.0 / 1440, Span: 2, Edge: Rising, MaxJump: 90}
	got, ok := s.Find(angle, 0.3)
	if !ok {
		t.Fatal("Find() found no crossing")
	}
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("Find() = %.8f, want 1.0", got)
	}

	// Without the guard the falling seam still is not a rising edge, but a
	// falling search would report it.
	s = CrossingSearch{Step: 10.0 / 1440, Span: 2, Edge: Falling}
	if got, ok := s.Find(angle, 0.3); !ok || math.Abs(got-0.5) > 1e-3 {
		t.Errorf("unguarded falling Find() = %.6f, %v; want the seam at 0.5", got, ok)
	}
	s.MaxJump = 90
	if _, ok := s.Find(angle, 0.3); ok {
		t.Error("guarded falling Find() reported the wrap seam")
	}
}
