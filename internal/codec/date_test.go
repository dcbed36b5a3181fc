package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-lunar/internal/ephem"
)

func TestToDateTuple(t *testing.T) {
	date := ephem.Date(41564.48448662116)

	exact := ToDateTuple(date, false)
	assert.Equal(t, 2013, exact.Year)
	assert.Equal(t, 10, exact.Month)
	assert.Equal(t, 18, exact.Day)
	assert.Equal(t, 23, exact.Hour)
	assert.Equal(t, 37, exact.Minute)
	assert.InDelta(t, 39.644068, exact.Second, 1e-3)

	rounded := ToDateTuple(date, true)
	assert.Equal(t, DateTuple{2013, 10, 18, 23, 37, 40}, rounded)
}

func TestDateTupleRound(t *testing.T) {
	tests := []struct {
		name string
		in   DateTuple
		want DateTuple
	}{
		{"down", DateTuple{2013, 10, 18, 23, 37, 39.4}, DateTuple{2013, 10, 18, 23, 37, 39}},
		{"up", DateTuple{2013, 10, 18, 23, 37, 39.6}, DateTuple{2013, 10, 18, 23, 37, 40}},
		{"carry into minute", DateTuple{2013, 10, 18, 23, 37, 59.6}, DateTuple{2013, 10, 18, 23, 38, 0}},
		{"carry into next year", DateTuple{2013, 12, 31, 23, 59, 59.7}, DateTuple{2014, 1, 1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Round())
		})
	}
}

func TestNewDateTuple(t *testing.T) {
	d, err := NewDateTuple(2013, 10, 18, 22, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DateTuple{2013, 10, 18, 22, 0, 0}, d)
	assert.InDelta(t, 41564.416666666664, float64(d.Date()), 1e-9)

	short, err := NewDateTuple(2013, 10, 18)
	require.NoError(t, err)
	assert.Equal(t, DateTuple{Year: 2013, Month: 10, Day: 18}, short)

	frac, err := NewDateTuple(2013, 10, 18, 23, 37, 39.644)
	require.NoError(t, err)
	assert.InDelta(t, 39.644, frac.Second, 1e-12)

	tests := []struct {
		name   string
		values []float64
	}{
		{"too few", []float64{2013, 10}},
		{"too many", []float64{2013, 10, 18, 1, 2, 3, 4}},
		{"fractional day", []float64{2013, 10, 18.5}},
		{"bad month", []float64{2013, 13, 1}},
		{"bad day", []float64{2013, 2, 29}},
		{"bad hour", []float64{2013, 10, 18, 24}},
		{"bad minute", []float64{2013, 10, 18, 1, 60}},
		{"bad second", []float64{2013, 10, 18, 1, 0, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateTuple(tt.values...)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestDateTupleTime(t *testing.T) {
	d := DateTuple{2013, 10, 18, 22, 0, 30.25}
	assert.Equal(t, time.Date(2013, 10, 18, 22, 0, 30, 250000000, time.UTC), d.Time())

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	local := d.In(ny)
	assert.Equal(t, 22, local.Hour())
	assert.Equal(t, time.Date(2013, 10, 19, 2, 0, 30, 250000000, time.UTC), local.UTC())

	assert.Equal(t, DateTuple{2013, 10, 18, 18, 0, 30.25}, FromTime(d.Time().In(ny)))
}

func TestDateTupleSameDay(t *testing.T) {
	a := DateTuple{2013, 10, 18, 0, 43, 21}
	assert.True(t, a.SameDay(DateTuple{2013, 10, 18, 23, 0, 0}))
	assert.False(t, a.SameDay(DateTuple{2013, 11, 18, 0, 43, 21}))
	assert.False(t, a.SameDay(DateTuple{2014, 10, 18, 0, 43, 21}))
}

func TestDateTupleFormatting(t *testing.T) {
	d := DateTuple{2013, 10, 18, 23, 37, 39.644}
	assert.Equal(t, "2013-10-18 23:37:39", d.String())

	raw, err := json.Marshal(DateTuple{2013, 10, 18, 23, 37, 39})
	require.NoError(t, err)
	assert.JSONEq(t, `[2013, 10, 18, 23, 37, 39]`, string(raw))
}
