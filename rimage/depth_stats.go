package rimage

import (
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/awareness/awareness"
)

// ErrNoDepth is returned when a buffer has no usable depth to summarize.
var ErrNoDepth = errors.New("buffer has no usable depth")

// DepthSummary describes the distribution of the usable depths of a buffer, in meters.
type DepthSummary struct {
	Valid   int
	Invalid int
	Min     float64
	Max     float64
	Mean    float64
	Median  float64
	StdDev  float64
	P10     float64
	P90     float64

	Histogram histogram.Histogram
}

// SummarizeDepth computes statistics and a histogram with the given number of bins over every
// usable depth sample.
func SummarizeDepth(dm *awareness.DepthBuffer, bins int) (DepthSummary, error) {
	depths := make(stats.Float64Data, 0, dm.Len())
	for _, d := range dm.Samples() {
		if validDepth(d) {
			depths = append(depths, float64(d))
		}
	}
	summary := DepthSummary{Valid: len(depths), Invalid: dm.Len() - len(depths)}
	if len(depths) == 0 {
		return summary, ErrNoDepth
	}

	var err error
	if summary.Min, err = depths.Min(); err != nil {
		return summary, err
	}
	if summary.Max, err = depths.Max(); err != nil {
		return summary, err
	}
	if summary.Mean, err = depths.Mean(); err != nil {
		return summary, err
	}
	if summary.Median, err = depths.Median(); err != nil {
		return summary, err
	}
	if summary.StdDev, err = depths.StandardDeviation(); err != nil {
		return summary, err
	}
	if summary.P10, err = depths.PercentileNearestRank(10); err != nil {
		return summary, err
	}
	if summary.P90, err = depths.PercentileNearestRank(90); err != nil {
		return summary, err
	}
	summary.Histogram = histogram.Hist(max(1, bins), depths)
	return summary, nil
}

// Modes counts the separated peaks of the histogram: runs of non-empty buckets split by at
// least gap empty ones. A buffer that sees a near object in front of a far backdrop has two.
func (s DepthSummary) Modes(gap int) int {
	peaks := 0
	zeros := gap
	for _, bkt := range s.Histogram.Buckets {
		if bkt.Count == 0 {
			zeros++
			continue
		}
		if zeros >= gap {
			peaks++
		}
		zeros = 0
	}
	return peaks
}

// FprintHistogram draws the histogram as text bars at most width characters wide.
func (s DepthSummary) FprintHistogram(w io.Writer, width int) error {
	return histogram.Fprint(w, s.Histogram, histogram.Linear(width))
}
