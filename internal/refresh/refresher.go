// Package refresh recomputes observations on a schedule and feeds them to
// the state manager.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/litescript/ls-lunar/internal/catalog"
	"github.com/litescript/ls-lunar/internal/logging"
	"github.com/litescript/ls-lunar/internal/moon"
	"github.com/litescript/ls-lunar/internal/report"
	"github.com/litescript/ls-lunar/internal/state"
)

// MinInterval is the shortest accepted refresh interval.
const MinInterval = time.Second

// Refresher owns a moon.State and serializes every computation on it.
type Refresher struct {
	mu        sync.Mutex
	moon      *moon.State
	src       *catalog.Source
	container *catalog.Container
	timezone  string
	limit     int
	clock     clockwork.Clock
	log       *logging.Logger
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithClock sets the clock that supplies observation instants.
func WithClock(c clockwork.Clock) Option {
	return func(r *Refresher) {
		r.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Refresher) {
		r.log = l
	}
}

// WithLimit caps the catalog rows examined per refresh.
func WithLimit(n int) Option {
	return func(r *Refresher) {
		r.limit = n
	}
}

// New creates a Refresher observing from s, reading features from src into
// container. Rise and set times are reported for timezone.
func New(s *moon.State, src *catalog.Source, container *catalog.Container, timezone string, opts ...Option) *Refresher {
	r := &Refresher{
		moon:      s,
		src:       src,
		container: container,
		timezone:  timezone,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	return r
}

// Result contains the result of one refresh.
type Result struct {
	Data     *report.SnapshotExport
	At       time.Time
	Duration time.Duration
	Error    error
}

// Refresh moves the state to the clock's current instant and builds an
// observation.
func (r *Refresher) Refresh(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.clock.Now()
	result := Result{At: start}

	if err := r.moon.UpdateTime(start); err != nil {
		result.Error = fmt.Errorf("update moon state: %w", err)
		return result
	}

	data, err := report.Build(ctx, report.Request{
		State:     r.moon,
		Source:    r.src,
		Container: r.container,
		Timezone:  r.timezone,
		Limit:     r.limit,
	})
	result.Duration = r.clock.Since(start)
	if err != nil {
		result.Error = err
		return result
	}
	result.Data = data
	return result
}

// Run refreshes immediately and then every interval until ctx is done. Each
// result is stored in mgr before notify, if non-nil, is called with it.
func (r *Refresher) Run(ctx context.Context, mgr *state.Manager, interval time.Duration, notify func(Result)) {
	if interval < MinInterval {
		interval = MinInterval
	}

	r.once(ctx, mgr, notify)

	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Refresh loop shutting down")
			return
		case <-ticker.Chan():
			r.once(ctx, mgr, notify)
		}
	}
}

func (r *Refresher) once(ctx context.Context, mgr *state.Manager, notify func(Result)) {
	r.log.Debug("Refreshing observation...")

	result := r.Refresh(ctx)
	if result.Error != nil {
		if errors.Is(result.Error, context.Canceled) {
			return
		}
		r.log.Error("Refresh failed: %v", result.Error)
		mgr.Update(nil, result.Duration, result.Error)
	} else {
		r.log.Debug("Refresh complete: %d %s features visible in %v",
			len(result.Data.Features), result.Data.Club, result.Duration)
		mgr.Update(result.Data, result.Duration, nil)
	}

	if notify != nil {
		notify(result)
	}
}
