package moon

import (
	"math"
	"slices"

	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/ephem"
)

// MainPhaseCutoff is the window, in hours on either side of a primary
// phase, in which the Moon is reported at that phase.
const MainPhaseCutoff = 2.0

// PrimaryPhase is one of the four principal phases.
type PrimaryPhase = ephem.PrimaryPhase

const (
	NewMoon      = ephem.NewMoon
	FirstQuarter = ephem.FirstQuarter
	FullMoon     = ephem.FullMoon
	LastQuarter  = ephem.LastQuarter
)

// Phase is the named phase of the Moon: a primary phase within
// MainPhaseCutoff hours, or the intermediate state between two of them.
type Phase int

const (
	PhaseNewMoon Phase = iota
	PhaseWaxingCrescent
	PhaseFirstQuarter
	PhaseWaxingGibbous
	PhaseFullMoon
	PhaseWaningGibbous
	PhaseLastQuarter
	PhaseWaningCrescent
)

var phaseNames = [...]string{
	"NEW_MOON",
	"WAXING_CRESCENT",
	"FIRST_QUARTER",
	"WAXING_GIBBOUS",
	"FULL_MOON",
	"WANING_GIBBOUS",
	"LAST_QUARTER",
	"WANING_CRESCENT",
}

var phaseEmoji = [...]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

var phaseArt = [...]string{
	"   _..._\n .:::::::.\n:::::::::::\n:::::::::::\n`:::::::::'\n  `':::''        ",
	"   _..._\n .::::. `.\n:::::::.  :\n::::::::  :\n`::::::' .'\n  `'::'-'        ",
	"   _..._\n .::::  `.\n::::::    :\n::::::    :\n`:::::   .'\n  `'::.-'        ",
	"   _..._\n .::'   `.\n:::       :\n:::       :\n`::.     .'\n  `':..-'        ",
	"   _..._\n .'     `.\n:         :\n:         :\n`.       .'\n  `-...-'        ",
	"   _..._\n .'   `::.\n:       :::\n:       :::\n`.     .::'\n  `-..:''        ",
	"   _..._\n .'  ::::.\n:    ::::::\n:    ::::::\n`.   :::::'\n  `-.::''        ",
	"   _..._\n .' .::::.\n:  ::::::::\n:  ::::::::\n`. '::::::'\n  `-.::''        ",
}

// String returns the phase name, e.g. "WAXING_GIBBOUS".
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Emoji returns the moon-phase emoji for p.
func (p Phase) Emoji() string {
	if p < 0 || int(p) >= len(phaseEmoji) {
		return ""
	}
	return phaseEmoji[p]
}

// phaseOf maps a primary phase onto the named phase.
func phaseOf(p PrimaryPhase) Phase {
	return Phase(2 * int(p))
}

// between returns the intermediate phase that follows primary phase p.
func between(p PrimaryPhase) Phase {
	return Phase(2*int(p) + 1)
}

// PhaseTime is the instant of one primary phase.
type PhaseTime struct {
	Phase PrimaryPhase
	Time  codec.DateTuple // UTC, unrounded
	Date  ephem.Date
}

// NextFourPhases returns the next occurrence of each primary phase,
// soonest first.
func (s *State) NextFourPhases() []PhaseTime {
	now := s.oracle.Date()
	phases := make([]PhaseTime, 0, len(ephem.PrimaryPhases))
	for _, p := range ephem.PrimaryPhases {
		d := s.oracle.NextPhase(p, now)
		phases = append(phases, PhaseTime{Phase: p, Time: codec.ToDateTuple(d, false), Date: d})
	}
	slices.SortFunc(phases, func(a, b PhaseTime) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	})
	return phases
}

// PhaseName names the current phase.
func (s *State) PhaseName() Phase {
	now := s.oracle.Date()
	next := s.NextFourPhases()[0]
	previous := next.Phase.Previous()

	hoursToNext := math.Abs(float64(next.Date-now)) * DaysToHours
	hoursFromPrevious := math.Abs(float64(now-s.oracle.PreviousPhase(previous, now))) * DaysToHours

	switch {
	case hoursFromPrevious < MainPhaseCutoff:
		return phaseOf(previous)
	case hoursToNext < MainPhaseCutoff:
		return phaseOf(next.Phase)
	default:
		return between(previous)
	}
}

// PhaseEmoji returns the emoji for the current phase.
func (s *State) PhaseEmoji() string {
	return s.PhaseName().Emoji()
}

// PhaseShapeInASCII returns a six line drawing of the current phase.
func (s *State) PhaseShapeInASCII() string {
	p := s.PhaseName()
	if p < 0 || int(p) >= len(phaseArt) {
		return p.String()
	}
	return phaseArt[p]
}

// Age returns the days since the previous new moon.
func (s *State) Age() float64 {
	now := s.oracle.Date()
	return float64(now - s.oracle.PreviousPhase(NewMoon, now))
}

// FractionalAge returns the position in the current lunation, 0 at the
// previous new moon and 1 at the next.
func (s *State) FractionalAge() float64 {
	now := s.oracle.Date()
	prev := s.oracle.PreviousPhase(NewMoon, now)
	next := s.oracle.NextPhase(NewMoon, now)
	return float64(now-prev) / float64(next-prev)
}

// TimeFromNewMoon returns the hours since the previous new moon.
func (s *State) TimeFromNewMoon() float64 {
	return s.Age() * DaysToHours
}

// TimeToNewMoon returns the hours until the next new moon.
func (s *State) TimeToNewMoon() float64 {
	now := s.oracle.Date()
	return float64(s.oracle.NextPhase(NewMoon, now)-now) * DaysToHours
}

// TimeToFullMoon returns the days until the next full moon.
func (s *State) TimeToFullMoon() float64 {
	now := s.oracle.Date()
	return float64(s.oracle.NextPhase(FullMoon, now) - now)
}
