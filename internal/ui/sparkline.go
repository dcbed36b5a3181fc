package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-lunar/internal/state"
)

// SparklineWidth is the number of cells in a history sparkline.
const SparklineWidth = 40

var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline gradient endpoints.
var (
	sparkColorLow  = [3]uint8{0x1e, 0x29, 0x3b}
	sparkColorMid  = [3]uint8{0x64, 0x74, 0x8b}
	sparkColorHigh = [3]uint8{0xfe, 0xf3, 0xc7}
)

// renderSparkline draws series scaled between lo and hi. Values outside the
// range are clamped.
func renderSparkline(series []state.TimeSeries, lo, hi float64, width int) string {
	values := resampleSeries(series, width)
	if len(values) == 0 || hi <= lo {
		return dimStyle.Render("no history yet")
	}

	var sb strings.Builder
	for _, v := range values {
		t := (v - lo) / (hi - lo)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}

		idx := int(t * float64(len(sparklineBlocks)-1))
		r, g, b := interpolateColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[idx])))
	}
	return sb.String()
}

// interpolateColor returns the RGB color for t in [0, 1].
func interpolateColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	from, to, s := sparkColorLow, sparkColorMid, t*2
	if t >= 0.5 {
		from, to, s = sparkColorMid, sparkColorHigh, (t-0.5)*2
	}

	mix := func(i int) uint8 {
		return uint8(float64(from[i])*(1-s) + float64(to[i])*s)
	}
	return mix(0), mix(1), mix(2)
}

// resampleSeries averages series into at most width buckets. Short series
// are returned unchanged.
func resampleSeries(series []state.TimeSeries, width int) []float64 {
	if len(series) == 0 || width <= 0 {
		return nil
	}

	if len(series) <= width {
		out := make([]float64, len(series))
		for i, p := range series {
			out[i] = p.Value
		}
		return out
	}

	result := make([]float64, width)
	perBucket := float64(len(series)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * perBucket)
		end := int(float64(i+1) * perBucket)
		if end > len(series) {
			end = len(series)
		}
		if start >= end {
			start = end - 1
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += series[j].Value
		}
		result[i] = sum / float64(end-start)
	}
	return result
}
