// Package state provides thread-safe state management for the application.
package state

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/litescript/ls-lunar/internal/observability"
	"github.com/litescript/ls-lunar/internal/report"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventFeatureVisible EventType = "FEATURE_VISIBLE"
	EventFeatureHidden  EventType = "FEATURE_HIDDEN"
	EventPhaseChange    EventType = "PHASE_CHANGE"
	EventTimeOfDay      EventType = "TIME_OF_DAY"
)

// Event represents a change between two observations.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Feature   string    `json:"feature,omitempty"`
	Old       string    `json:"old,omitempty"`
	New       string    `json:"new,omitempty"`
}

// HistoryEntry represents a single point in the history buffer.
type HistoryEntry struct {
	Timestamp time.Time
	Snapshot  *report.SnapshotExport
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// MoonHistory tracks the lunar quantities shown as sparklines.
type MoonHistory struct {
	Colongitude  []TimeSeries
	Illumination []TimeSeries
	Altitude     []TimeSeries
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	clock   clockwork.Clock
	metrics *observability.Metrics

	// Current state
	current         *report.SnapshotExport
	lastRefresh     time.Time
	lastError       error
	refreshDuration time.Duration

	// Previous observation for event detection
	prevVisible   map[string]bool
	prevPhase     string
	prevTimeOfDay string

	// History buffers
	history       []HistoryEntry
	maxHistoryLen int
	moonHistory   MoonHistory
	maxMoonHist   int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxMoonHist     int
	MaxEvents       int
	RefreshInterval time.Duration

	// Clock stamps refreshes and events. Nil means the real clock.
	Clock clockwork.Clock
	// Metrics, when set, counts refreshes and exports the current quantities.
	Metrics *observability.Metrics
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   60,  // Keep ~1 hour at 1 refresh/min
		MaxMoonHist:     240, // 4 hours of lunar quantities
		MaxEvents:       50,  // Last 50 events
		RefreshInterval: time.Minute,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		clock:           clock,
		metrics:         cfg.Metrics,
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxMoonHist:     cfg.MaxMoonHist,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		prevVisible:     make(map[string]bool),
	}
}

// Update atomically replaces the current observation. A nil snap records
// only the refresh outcome.
func (m *Manager) Update(snap *report.SnapshotExport, refreshDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRefresh = m.clock.Now()
	m.lastError = err
	m.refreshDuration = refreshDuration

	if m.metrics != nil {
		if err != nil {
			m.metrics.RefreshErrors.Inc()
		} else {
			m.metrics.Refreshes.Inc()
		}
	}

	if snap == nil {
		return
	}

	// Detect events before updating current state
	m.detectEvents(snap)

	m.current = snap

	m.history = append(m.history, HistoryEntry{Timestamp: snap.Timestamp, Snapshot: snap})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	m.updateMoonHistory(snap)

	if m.metrics != nil {
		m.metrics.Colongitude.Set(snap.Moon.Colongitude)
		m.metrics.Illumination.Set(snap.Moon.Illumination)
		m.metrics.Altitude.Set(snap.Moon.Altitude)
	}

	clear(m.prevVisible)
	for _, f := range snap.Features {
		m.prevVisible[f.Name] = true
	}
	m.prevPhase = snap.Moon.Phase
	m.prevTimeOfDay = snap.Moon.TimeOfDay
}

// detectEvents compares a new observation with the previous one.
func (m *Manager) detectEvents(snap *report.SnapshotExport) {
	now := m.clock.Now()

	visible := make(map[string]bool, len(snap.Features))
	for _, f := range snap.Features {
		visible[f.Name] = true
		if !m.prevVisible[f.Name] {
			m.addEvent(Event{Type: EventFeatureVisible, Timestamp: now, Feature: f.Name})
		}
	}

	// Hidden features are reported in the order they were first seen
	if m.current != nil {
		for _, f := range m.current.Features {
			if !visible[f.Name] {
				m.addEvent(Event{Type: EventFeatureHidden, Timestamp: now, Feature: f.Name})
			}
		}
	}

	if m.prevPhase != "" && m.prevPhase != snap.Moon.Phase {
		m.addEvent(Event{Type: EventPhaseChange, Timestamp: now, Old: m.prevPhase, New: snap.Moon.Phase})
	}
	if m.prevTimeOfDay != "" && m.prevTimeOfDay != snap.Moon.TimeOfDay {
		m.addEvent(Event{Type: EventTimeOfDay, Timestamp: now, Old: m.prevTimeOfDay, New: snap.Moon.TimeOfDay})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updateMoonHistory(snap *report.SnapshotExport) {
	ts := snap.Timestamp
	m.moonHistory.Colongitude = m.appendSeries(m.moonHistory.Colongitude, ts, snap.Moon.Colongitude)
	m.moonHistory.Illumination = m.appendSeries(m.moonHistory.Illumination, ts, snap.Moon.Illumination)
	m.moonHistory.Altitude = m.appendSeries(m.moonHistory.Altitude, ts, snap.Moon.Altitude)
}

func (m *Manager) appendSeries(series []TimeSeries, ts time.Time, v float64) []TimeSeries {
	series = append(series, TimeSeries{Timestamp: ts, Value: v})
	if m.maxMoonHist > 0 && len(series) > m.maxMoonHist {
		series = series[1:]
	}
	return series
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Data            *report.SnapshotExport
	LastRefresh     time.Time
	LastError       error
	RefreshDuration time.Duration
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Data:            m.current,
		LastRefresh:     m.lastRefresh,
		LastError:       m.lastError,
		RefreshDuration: m.refreshDuration,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// History returns a copy of the lunar quantity history.
func (m *Manager) History() MoonHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MoonHistory{
		Colongitude:  append([]TimeSeries(nil), m.moonHistory.Colongitude...),
		Illumination: append([]TimeSeries(nil), m.moonHistory.Illumination...),
		Altitude:     append([]TimeSeries(nil), m.moonHistory.Altitude...),
	}
}

// ColongitudeRate estimates how fast the terminator moves, in degrees of
// colongitude per hour, from the last two observations.
func (m *Manager) ColongitudeRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	series := m.moonHistory.Colongitude
	if len(series) < 2 {
		return 0
	}

	p1 := series[len(series)-2]
	p2 := series[len(series)-1]
	hours := p2.Timestamp.Sub(p1.Timestamp).Hours()
	if hours <= 0 {
		return 0
	}

	// Colongitude wraps at 360
	delta := math.Mod(p2.Value-p1.Value+540, 360) - 180
	return delta / hours
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if an observation has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
