// Package config holds one invocation worth of settings and performs every
// fail-fast validation before a single probe is sent.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/thetooth/check-jitter/check"
	"github.com/thetooth/check-jitter/jitter"
	"github.com/thetooth/check-jitter/threshold"
)

var (
	ErrNoHost        = errors.New("no target host provided")
	ErrSampleCount   = errors.New("at least 3 samples are required to calculate jitter")
	ErrTimeout       = errors.New("timeout must be a positive duration")
	ErrIntervalOrder = errors.New("minimum interval must not exceed maximum interval")
	ErrPrecision     = errors.New("precision must not be negative")
	ErrNoThresholds  = errors.New("no thresholds provided, provide at least one")
)

// Settings is everything the core trusts once Validate has passed
type Settings struct {
	Host        string
	Samples     int
	Timeout     time.Duration
	MinInterval time.Duration
	MaxInterval time.Duration
	Method      string
	Warning     string
	Critical    string
	Precision   int
	DgramSocket bool

	method     jitter.Method
	thresholds threshold.Thresholds
}

// Validate checks every configuration invariant and parses the aggregation
// method and threshold expressions. All failures here are fatal and occur
// before any network traffic.
func (s *Settings) Validate() error {
	if s.Host == "" {
		return ErrNoHost
	}
	if s.Samples <= 2 {
		return fmt.Errorf("%w, got %v", ErrSampleCount, s.Samples)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w, got %v", ErrTimeout, s.Timeout)
	}
	if s.MinInterval > s.MaxInterval {
		return fmt.Errorf("%w: min %v, max %v", ErrIntervalOrder, s.MinInterval, s.MaxInterval)
	}
	if s.Precision < 0 {
		return fmt.Errorf("%w, got %v", ErrPrecision, s.Precision)
	}

	method, err := jitter.ParseMethod(s.Method)
	if err != nil {
		return err
	}
	s.method = method

	if s.Warning == "" && s.Critical == "" {
		return ErrNoThresholds
	}
	if s.Warning != "" {
		r, err := threshold.ParseRange(s.Warning)
		if err != nil {
			return fmt.Errorf("warning threshold: %w", err)
		}
		s.thresholds.Warning = r
	}
	if s.Critical != "" {
		r, err := threshold.ParseRange(s.Critical)
		if err != nil {
			return fmt.Errorf("critical threshold: %w", err)
		}
		s.thresholds.Critical = r
	}

	return nil
}

// AggregationMethod returns the parsed method, valid after Validate
func (s *Settings) AggregationMethod() jitter.Method {
	return s.method
}

// Thresholds returns the parsed ranges, valid after Validate
func (s *Settings) Thresholds() threshold.Thresholds {
	return s.thresholds
}

// SocketType maps the datagram flag to the prober transport mode
func (s *Settings) SocketType() check.SocketType {
	if s.DgramSocket {
		return check.SocketDatagram
	}
	return check.SocketRaw
}
