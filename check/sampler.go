package check

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Sampler drives a prober across a fixed number of probes, one at a time.
// Execution is strictly sequential, the loop blocks for each probe's
// reply-or-timeout wait and for each inter-probe delay, so total runtime is
// bounded by Samples * (Timeout + Scheduler.Max).
type Sampler struct {
	Prober   Prober
	Schedule *Scheduler
	Samples  int
	Timeout  time.Duration
}

// Run attempts every configured probe and records each outcome in
// transmission order. Probe failures never abort the run early, they are
// recorded and left for the downstream stages to fold in.
func (s *Sampler) Run() Sequence {
	sequence := make(Sequence, 0, s.Samples)
	for i := 0; i < s.Samples; i++ {
		outcome := s.Prober.Probe(i, s.Timeout)
		logrus.Debug(outcome)
		sequence = append(sequence, outcome)

		if i < s.Samples-1 {
			if delay := s.Schedule.NextDelay(); delay > 0 {
				time.Sleep(delay)
			}
		}
	}

	if failed := sequence.Failures(); failed > 0 {
		logrus.Warn(failed, " of ", s.Samples, " probes failed")
	}
	return sequence
}
