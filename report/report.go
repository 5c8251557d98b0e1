// Package report renders the single output line a monitoring system
// consumes: human readable status text plus machine readable performance
// data.
package report

import (
	"fmt"
	"strconv"

	"github.com/thetooth/check-jitter/jitter"
	"github.com/thetooth/check-jitter/threshold"
)

const uom = "ms"

// Render builds the plugin line for a completed measurement. The value is
// rounded to the configured precision here and nowhere else, threshold
// evaluation has already happened on the full precision value.
func Render(status threshold.Status, method jitter.Method, value float64, precision int, t threshold.Thresholds) string {
	label := fmt.Sprintf("%v Jitter", method)
	v := strconv.FormatFloat(jitter.Round(value, precision), 'f', -1, 64)

	var warn, crit string
	if t.Warning != nil {
		warn = t.Warning.String()
	}
	if t.Critical != nil {
		crit = t.Critical.String()
	}

	return fmt.Sprintf("%v - %v: %v%v|'%v'=%v%v;%v;%v;0",
		status, label, v, uom, label, v, uom, warn, crit)
}

// RenderUnknown builds the plugin line for a check that could not produce a
// status, so that an inconclusive run is never mistaken for a passing one
func RenderUnknown(err error) string {
	return fmt.Sprintf("%v - %v", threshold.Unknown, err)
}
