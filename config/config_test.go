package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetooth/check-jitter/check"
	"github.com/thetooth/check-jitter/config"
	"github.com/thetooth/check-jitter/jitter"
)

func validSettings() config.Settings {
	return config.Settings{
		Host:      "192.0.2.1",
		Samples:   10,
		Timeout:   time.Second,
		Method:    "average",
		Warning:   "5",
		Critical:  "10",
		Precision: 3,
	}
}

func TestValidateAccepts(t *testing.T) {
	s := validSettings()
	require.NoError(t, s.Validate())

	assert.Equal(t, jitter.Average, s.AggregationMethod())
	thresholds := s.Thresholds()
	require.NotNil(t, thresholds.Warning)
	require.NotNil(t, thresholds.Critical)
	assert.Equal(t, "0:5", thresholds.Warning.String())
	assert.Equal(t, "0:10", thresholds.Critical.String())
}

func TestValidateSampleCountBoundary(t *testing.T) {
	s := validSettings()

	// Three samples is the minimum legal configuration
	s.Samples = 3
	assert.NoError(t, s.Validate())

	s.Samples = 2
	assert.ErrorIs(t, s.Validate(), config.ErrSampleCount)

	s.Samples = 0
	assert.ErrorIs(t, s.Validate(), config.ErrSampleCount)
}

func TestValidateIntervalOrder(t *testing.T) {
	s := validSettings()
	s.MinInterval = 50 * time.Millisecond
	s.MaxInterval = 10 * time.Millisecond

	assert.ErrorIs(t, s.Validate(), config.ErrIntervalOrder)
}

func TestValidateEqualIntervals(t *testing.T) {
	s := validSettings()
	s.MinInterval = 10 * time.Millisecond
	s.MaxInterval = 10 * time.Millisecond

	assert.NoError(t, s.Validate())
}

func TestValidateNoHost(t *testing.T) {
	s := validSettings()
	s.Host = ""
	assert.ErrorIs(t, s.Validate(), config.ErrNoHost)
}

func TestValidateTimeout(t *testing.T) {
	s := validSettings()
	s.Timeout = 0
	assert.ErrorIs(t, s.Validate(), config.ErrTimeout)
}

func TestValidatePrecision(t *testing.T) {
	s := validSettings()
	s.Precision = -1
	assert.ErrorIs(t, s.Validate(), config.ErrPrecision)
}

func TestValidateNoThresholds(t *testing.T) {
	s := validSettings()
	s.Warning = ""
	s.Critical = ""
	assert.ErrorIs(t, s.Validate(), config.ErrNoThresholds)
}

func TestValidateSingleThreshold(t *testing.T) {
	s := validSettings()
	s.Warning = ""
	require.NoError(t, s.Validate())
	assert.Nil(t, s.Thresholds().Warning)
	assert.NotNil(t, s.Thresholds().Critical)
}

func TestValidateBadRange(t *testing.T) {
	s := validSettings()
	s.Warning = "20:10"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warning threshold")

	s = validSettings()
	s.Critical = "nonsense:"
	err = s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical threshold")
}

func TestValidateBadMethod(t *testing.T) {
	s := validSettings()
	s.Method = "mode"
	assert.Error(t, s.Validate())
}

func TestSocketType(t *testing.T) {
	s := validSettings()
	assert.Equal(t, check.SocketRaw, s.SocketType())

	s.DgramSocket = true
	assert.Equal(t, check.SocketDatagram, s.SocketType())
}
