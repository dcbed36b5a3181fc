package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-lunar/internal/catalog"
	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/feature"
	"github.com/litescript/ls-lunar/internal/moon"
	"github.com/litescript/ls-lunar/internal/state"
)

var fullMoon = time.Date(2013, time.October, 18, 22, 0, 0, 0, time.UTC)

func newRefresher(t *testing.T, clock clockwork.Clock) (*Refresher, *catalog.Source) {
	t.Helper()

	src, err := catalog.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	container, err := catalog.NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)

	s, err := moon.New(
		codec.DMS{Degrees: 35, Minutes: 58, Seconds: 10},
		codec.DMS{Degrees: -84, Minutes: 19, Seconds: 0},
		codec.FromTime(clock.Now()),
	)
	require.NoError(t, err)

	return New(s, src, container, "America/New_York", WithClock(clock)), src
}

func TestRefresh(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fullMoon)
	r, _ := newRefresher(t, clock)

	result := r.Refresh(context.Background())
	require.NoError(t, result.Error)
	require.NotNil(t, result.Data)

	assert.True(t, result.At.Equal(fullMoon))
	assert.WithinDuration(t, fullMoon, result.Data.Timestamp, time.Second)
	assert.Equal(t, feature.ClubLunar, result.Data.Club)
	assert.Len(t, result.Data.Features, 14)
	assert.Equal(t, "FULL_MOON", result.Data.Moon.Phase)

	// The clock drives the observation instant
	clock.Advance(3 * 24 * time.Hour)
	later := r.Refresh(context.Background())
	require.NoError(t, later.Error)
	assert.WithinDuration(t, fullMoon.Add(3*24*time.Hour), later.Data.Timestamp, time.Second)
	assert.NotEqual(t, result.Data.Moon.Colongitude, later.Data.Moon.Colongitude)
}

func TestRefresh_Limit(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fullMoon)
	r, _ := newRefresher(t, clock)
	WithLimit(5)(r)

	result := r.Refresh(context.Background())
	require.NoError(t, result.Error)
	assert.LessOrEqual(t, len(result.Data.Features), 5)
}

func TestRefresh_ClosedSource(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fullMoon)
	r, src := newRefresher(t, clock)
	require.NoError(t, src.Close())

	result := r.Refresh(context.Background())
	assert.ErrorIs(t, result.Error, catalog.ErrClosed)
	assert.Nil(t, result.Data)
}

func TestRun(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fullMoon)
	r, _ := newRefresher(t, clock)
	mgr := state.NewManager(state.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan Result, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, mgr, time.Hour, func(res Result) { results <- res })
	}()

	first := <-results
	require.NoError(t, first.Error)
	assert.True(t, first.At.Equal(fullMoon))
	assert.True(t, mgr.HasData())

	// Wait for the ticker before moving time forward
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Hour)

	second := <-results
	require.NoError(t, second.Error)
	assert.True(t, second.At.Equal(fullMoon.Add(time.Hour)))
	assert.Same(t, second.Data, mgr.Snapshot().Data)

	cancel()
	<-done
}

func TestRun_ReportsErrors(t *testing.T) {
	clock := clockwork.NewFakeClockAt(fullMoon)
	r, src := newRefresher(t, clock)
	require.NoError(t, src.Close())
	mgr := state.NewManager(state.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan Result, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, mgr, 0, func(res Result) { results <- res })
	}()

	res := <-results
	assert.Error(t, res.Error)
	snap := mgr.Snapshot()
	assert.Nil(t, snap.Data)
	assert.ErrorIs(t, snap.LastError, catalog.ErrClosed)

	cancel()
	<-done
}
