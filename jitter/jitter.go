// Package jitter turns an ordered run of probe outcomes into a single
// reportable figure: the absolute deltas between temporally adjacent
// successful round trip times, reduced by a configurable aggregation method.
package jitter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thetooth/check-jitter/check"
)

// Method selects how deltas are reduced to one value
type Method int

const (
	Average Method = iota
	Median
	Max
	Min
)

func (m Method) String() string {
	switch m {
	case Median:
		return "Median"
	case Max:
		return "Max"
	case Min:
		return "Min"
	default:
		return "Average"
	}
}

// ParseMethod accepts the method names and their common aliases
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "average", "avg", "mean":
		return Average, nil
	case "median", "med":
		return Median, nil
	case "max", "maximum":
		return Max, nil
	case "min", "minimum":
		return Min, nil
	default:
		return Average, fmt.Errorf("'%v' is not a valid aggregation method", s)
	}
}

// ErrNoDeltas means every adjacent sample pair contained at least one
// failure, there is no jitter value to report
var ErrNoDeltas = errors.New("the delta count is 0, cannot calculate jitter")

// Deltas walks the sample sequence and computes |rtt(b) - rtt(a)| for every
// pair of successful outcomes adjacent in original sequence position. A
// failed probe breaks continuity on both sides: with a failure at position
// i, neither (i-1, i) nor (i, i+1) contributes a delta, so a run of k
// consecutive failures removes up to 2k pairs.
func Deltas(samples check.Sequence) ([]time.Duration, error) {
	deltas := make([]time.Duration, 0, len(samples))
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		if !a.OK() || !b.OK() {
			continue
		}
		deltas = append(deltas, absDiff(a.RTT, b.RTT))
	}
	if len(deltas) == 0 {
		return nil, ErrNoDeltas
	}

	logrus.Debug("Deltas: ", deltas)
	return deltas, nil
}

// Aggregate reduces a non-empty delta sequence to a single value in
// milliseconds using the given method
func Aggregate(deltas []time.Duration, method Method) float64 {
	switch method {
	case Median:
		return median(deltas)
	case Max:
		max := deltas[0]
		for _, d := range deltas[1:] {
			if d > max {
				max = d
			}
		}
		return millis(max)
	case Min:
		min := deltas[0]
		for _, d := range deltas[1:] {
			if d < min {
				min = d
			}
		}
		return millis(min)
	default:
		var sum time.Duration
		for _, d := range deltas {
			sum += d
		}
		return millis(sum / time.Duration(len(deltas)))
	}
}

// median is the midpoint of the sorted deltas, for an even count the mean
// of the two middle values
func median(deltas []time.Duration) float64 {
	sorted := make([]time.Duration, len(deltas))
	copy(sorted, deltas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (millis(sorted[mid-1]) + millis(sorted[mid])) / 2
	}
	return millis(sorted[mid])
}

// Round rounds to the given number of decimal places. Display only, the
// full precision value is what gets evaluated against thresholds.
func Round(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

func millis(d time.Duration) float64 {
	return d.Seconds() * 1000
}

func absDiff(a, b time.Duration) time.Duration {
	if a > b {
		return a - b
	}
	return b - a
}
