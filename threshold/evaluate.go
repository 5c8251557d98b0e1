package threshold

import (
	"github.com/sirupsen/logrus"
)

// Status is the tri-state check result plus the error state monitoring
// systems use for inconclusive checks. The ordering OK < Warning < Critical
// is significant, Critical always wins when both thresholds fire.
type Status int

const (
	OK Status = iota
	Warning
	Critical
	Unknown
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the status to the conventional monitoring exit code
func (s Status) ExitCode() int {
	return int(s)
}

// Thresholds carries the optional warning and critical ranges of one check
type Thresholds struct {
	Warning  *Range
	Critical *Range
}

// Evaluate classifies the value. The critical range is always consulted
// first regardless of how the two ranges relate numerically, a missing
// range simply never fires.
func Evaluate(value float64, t Thresholds) Status {
	if t.Critical != nil && t.Critical.Matches(value) {
		logrus.Info("Value ", value, " matched critical range ", t.Critical)
		return Critical
	}
	if t.Warning != nil && t.Warning.Matches(value) {
		logrus.Info("Value ", value, " matched warning range ", t.Warning)
		return Warning
	}
	return OK
}
