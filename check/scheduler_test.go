package check_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thetooth/check-jitter/check"
)

func TestSchedulerImmediate(t *testing.T) {
	s := check.NewScheduler(0, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, time.Duration(0), s.NextDelay())
	}
}

func TestSchedulerFixed(t *testing.T) {
	s := check.NewScheduler(25*time.Millisecond, 25*time.Millisecond)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 25*time.Millisecond, s.NextDelay())
	}
}

func TestSchedulerRandomWithinBounds(t *testing.T) {
	min, max := 10*time.Millisecond, 100*time.Millisecond
	s := check.NewScheduler(min, max)

	for i := 0; i < 1000; i++ {
		d := s.NextDelay()
		assert.GreaterOrEqual(t, d, min)
		assert.LessOrEqual(t, d, max)
	}
}

func TestSchedulerRandomVaries(t *testing.T) {
	s := check.NewScheduler(0, time.Hour)

	seen := map[time.Duration]struct{}{}
	for i := 0; i < 100; i++ {
		seen[s.NextDelay()] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "uniform draws over a wide interval should differ")
}
