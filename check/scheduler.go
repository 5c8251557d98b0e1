package check

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler decides how long to wait before the next probe is issued.
// With both bounds zero probes are sent back to back, with equal bounds the
// delay is fixed, otherwise it is drawn uniformly from [Min, Max]. Bound
// ordering is enforced by configuration validation before probing starts.
type Scheduler struct {
	Min time.Duration
	Max time.Duration

	rng *rand.Rand
}

func NewScheduler(min, max time.Duration) *Scheduler {
	return &Scheduler{Min: min, Max: max, rng: rand.New(rand.NewSource(getSeed()))}
}

// NextDelay returns the wait time to apply after the probe that just completed
func (s *Scheduler) NextDelay() time.Duration {
	switch {
	case s.Min == 0 && s.Max == 0:
		return 0
	case s.Min == s.Max:
		return s.Min
	default:
		d := s.Min + time.Duration(s.rng.Int63n(int64(s.Max-s.Min)+1))
		logrus.Debug("Next probe delay: ", d)
		return d
	}
}
