package check

import (
	"fmt"
	"time"
)

// FailReason classifies why a probe produced no round trip time
type FailReason int

const (
	ReasonTimeout FailReason = iota
	ReasonUnreachable
	ReasonOther
)

func (r FailReason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonUnreachable:
		return "unreachable"
	default:
		return "other"
	}
}

// Outcome is the result of a single echo probe. A successful probe carries
// its round trip time, a failed one carries the reason it produced none.
// Use the constructors below, a zero Outcome is not meaningful.
type Outcome struct {
	Seq    int
	RTT    time.Duration
	ok     bool
	reason FailReason
}

// Success records a round trip time for probe number seq
func Success(seq int, rtt time.Duration) Outcome {
	return Outcome{Seq: seq, RTT: rtt, ok: true}
}

// Failed records a probe that never completed
func Failed(seq int, reason FailReason) Outcome {
	return Outcome{Seq: seq, reason: reason}
}

func (o Outcome) OK() bool {
	return o.ok
}

func (o Outcome) Reason() FailReason {
	return o.reason
}

func (o Outcome) String() string {
	if o.ok {
		return fmt.Sprintf("probe %v: %v", o.Seq, o.RTT)
	}
	return fmt.Sprintf("probe %v: %v", o.Seq, o.reason)
}

// Sequence is an ordered run of probe outcomes, insertion order matches
// transmission order and Outcome.Seq matches position
type Sequence []Outcome

// Failures counts the probes that produced no round trip time
func (s Sequence) Failures() (n int) {
	for _, o := range s {
		if !o.OK() {
			n++
		}
	}
	return
}
