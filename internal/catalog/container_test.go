package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-lunar/internal/codec"
	"github.com/litescript/ls-lunar/internal/feature"
	"github.com/litescript/ls-lunar/internal/moon"
	"github.com/litescript/ls-lunar/internal/observability"
)

func knoxville(t *testing.T, at codec.DateTuple) *moon.State {
	t.Helper()
	s, err := moon.New(
		codec.DMS{Degrees: 35, Minutes: 58, Seconds: 10},
		codec.DMS{Degrees: -84, Minutes: 19, Seconds: 0},
		at,
	)
	require.NoError(t, err)
	return s
}

func names(fs []feature.Feature) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

// rejectAll hides every feature.
type rejectAll struct{}

func (rejectAll) IsVisible(feature.Feature) bool { return false }

// countingChecker accepts every feature and counts calls.
type countingChecker struct{ calls int }

func (c *countingChecker) IsVisible(feature.Feature) bool {
	c.calls++
	return true
}

func TestNewContainer_UnknownClub(t *testing.T) {
	_, err := NewContainer(openSource(t), "Both")
	assert.ErrorIs(t, err, ErrUnknownClub)
}

func TestContainerLoad_Visible(t *testing.T) {
	tests := []struct {
		name    string
		at      codec.DateTuple
		lunar   []string
		lunarII []string
	}{
		{
			name: "waxing gibbous",
			at:   codec.DateTuple{Year: 2013, Month: 10, Day: 12, Hour: 18},
			lunar: []string{
				"Vallis Alpes", "Mare Crisium", "Mare Serenitatis", "Mare Tranquillitatis",
				"Mare Fecunditatis", "Mare Nectaris", "Mare Vaporum", "Ptolemaeus", "Alphonsus",
				"Arzachel", "Archimedes", "Montes Alpes", "Montes Caucasus", "Rupes Recta",
				"Rima Hyginus", "Mons Piton", "Apollo 11", "Apollo 15",
			},
			lunarII: []string{
				"Vallis Alpes", "Rupes Recta", "Mare Australe", "Rimae Triesnecker", "Mare Undarum", "Alpetragius",
			},
		},
		{
			name: "full",
			at:   codec.DateTuple{Year: 2013, Month: 10, Day: 18, Hour: 22},
			lunar: []string{
				"Mare Crisium", "Mare Serenitatis", "Mare Tranquillitatis", "Mare Imbrium",
				"Oceanus Procellarum", "Mare Nubium", "Mare Fecunditatis", "Mare Nectaris",
				"Mare Humorum", "Mare Frigoris", "Mare Vaporum", "Grimaldi", "Apollo 11", "Apollo 15",
			},
			lunarII: []string{
				"Mare Australe", "Mare Marginis", "Mare Smythii", "Mare Humboldtianum", "Wargentin", "Mare Undarum",
			},
		},
	}

	src := openSource(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := knoxville(t, tt.at)

			lunar, err := NewContainer(src, feature.ClubLunar)
			require.NoError(t, err)
			require.NoError(t, lunar.Load(context.Background(), state, 0))
			assert.Equal(t, tt.lunar, names(lunar.Features()))

			lunarII, err := NewContainer(src, feature.ClubLunarII)
			require.NoError(t, err)
			require.NoError(t, lunarII.Load(context.Background(), state, 0))
			assert.Equal(t, tt.lunarII, names(lunarII.Features()))
		})
	}
}

func TestContainerLoad_Counts(t *testing.T) {
	src := openSource(t)
	state := knoxville(t, codec.DateTuple{Year: 2013, Month: 10, Day: 15, Hour: 3})

	lunar, err := NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)
	require.NoError(t, lunar.Load(context.Background(), state, 0))
	assert.Equal(t, 13, lunar.Len())

	lunarII, err := NewContainer(src, feature.ClubLunarII)
	require.NoError(t, err)
	require.NoError(t, lunarII.Load(context.Background(), state, 0))
	assert.Equal(t, []string{"Clavius", "Mare Australe", "Mare Smythii", "Mare Undarum"}, names(lunarII.Features()))
}

func TestContainerLoad_NoChecker(t *testing.T) {
	src := openSource(t)

	lunar, err := NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)
	require.NoError(t, lunar.Load(context.Background(), nil, 0))
	assert.Equal(t, 50, lunar.Len())
	assert.Equal(t, []string{"Binocular", "Naked Eye", "Telescope"}, lunar.ClubTypes())

	lunarII, err := NewContainer(src, feature.ClubLunarII)
	require.NoError(t, err)
	require.NoError(t, lunarII.Load(context.Background(), nil, 0))
	assert.Equal(t, 25, lunarII.Len())
	// The six shared features keep their Lunar club type
	assert.Contains(t, lunarII.ClubTypes(), feature.NoClubType)
}

func TestContainerLoad_Limit(t *testing.T) {
	src := openSource(t)
	c, err := NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)

	checker := &countingChecker{}
	require.NoError(t, c.Load(context.Background(), checker, 10))
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, 10, checker.calls, "limit applies to rows examined")

	// The limit counts rows, not visible features
	require.NoError(t, c.Load(context.Background(), rejectAll{}, 10))
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ClubTypes())
	assert.Empty(t, c.FeatureTypes())
}

func TestContainerLoad_Idempotent(t *testing.T) {
	src := openSource(t)
	state := knoxville(t, codec.DateTuple{Year: 2013, Month: 10, Day: 18, Hour: 22})

	c, err := NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), state, 0))
	first := c.Features()
	firstTypes := c.FeatureTypes()

	require.NoError(t, c.Load(context.Background(), state, 0))
	assert.Equal(t, first, c.Features())
	assert.Equal(t, firstTypes, c.FeatureTypes())
	assert.Equal(t, []string{"Crater", "Landing Site", "Mare", "Oceanus"}, c.FeatureTypes())

	// Keys restart at 1 on every load
	var keys []Key
	for k, f := range c.All() {
		keys = append(keys, k)
		got, ok := c.Get(k)
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
	require.Len(t, keys, 14)
	assert.Equal(t, Key(1), keys[0])
	assert.Equal(t, Key(14), keys[13])

	_, ok := c.Get(15)
	assert.False(t, ok)
}

func TestContainerSetsMatchFeatures(t *testing.T) {
	src := openSource(t)
	state := knoxville(t, codec.DateTuple{Year: 2013, Month: 10, Day: 12, Hour: 18})

	c, err := NewContainer(src, feature.ClubLunarII)
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background(), state, 0))

	clubTypes := map[string]bool{}
	featureTypes := map[string]bool{}
	for _, f := range c.Features() {
		clubTypes[f.ClubType] = true
		featureTypes[f.Type] = true
	}
	assert.Len(t, c.ClubTypes(), len(clubTypes))
	for _, ct := range c.ClubTypes() {
		assert.True(t, clubTypes[ct], ct)
	}
	assert.Len(t, c.FeatureTypes(), len(featureTypes))
	for _, ft := range c.FeatureTypes() {
		assert.True(t, featureTypes[ft], ft)
	}
}

func TestContainerAllStopsEarly(t *testing.T) {
	c, err := NewContainer(openSource(t), feature.ClubLunar)
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background(), nil, 0))

	n := 0
	for range c.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestContainerLoad_Errors(t *testing.T) {
	src, err := Open()
	require.NoError(t, err)
	c, err := NewContainer(src, feature.ClubLunar)
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background(), nil, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Load(ctx, nil, 0)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, src.Close())
	err = c.Load(context.Background(), nil, 0)
	assert.True(t, errors.Is(err, ErrClosed), err)
}

func TestContainerMetrics(t *testing.T) {
	src := openSource(t)
	m := observability.NewMetricsForTesting()
	c, err := NewContainer(src, feature.ClubLunarII, WithMetrics(m))
	require.NoError(t, err)

	state := knoxville(t, codec.DateTuple{Year: 2013, Month: 10, Day: 18, Hour: 22})
	require.NoError(t, c.Load(context.Background(), state, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues(feature.ClubLunarII, "success")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.FeaturesEvaluated.WithLabelValues(feature.ClubLunarII)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.FeaturesVisible.WithLabelValues(feature.ClubLunarII)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CatalogLoadDuration))

	require.NoError(t, src.Close())
	assert.Error(t, c.Load(context.Background(), state, 0))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues(feature.ClubLunarII, "error")))
}
