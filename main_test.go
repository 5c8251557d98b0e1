package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunNoArguments(t *testing.T) {
	line, code := run(nil)

	assert.Equal(t, 3, code)
	assert.True(t, strings.HasPrefix(line, "UNKNOWN - "))
}

func TestRunVersion(t *testing.T) {
	line, code := run([]string{"--version"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "check-jitter")
}

func TestRunHelp(t *testing.T) {
	_, code := run([]string{"--help"})
	assert.Equal(t, 3, code)
}

func TestRunUnknownFlag(t *testing.T) {
	line, code := run([]string{"--no-such-flag"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "command line parsing produced an error")
}

func TestRunNoThresholds(t *testing.T) {
	line, code := run([]string{"-H", "192.0.2.1"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "no thresholds provided")
}

func TestRunInvalidSampleCount(t *testing.T) {
	line, code := run([]string{"-H", "192.0.2.1", "-w", "5", "-s", "2"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "at least 3 samples")
}

func TestRunInvalidIntervalOrder(t *testing.T) {
	// Rejected before any probing starts
	line, code := run([]string{"-H", "192.0.2.1", "-w", "5", "-m", "50", "-M", "10"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "minimum interval must not exceed maximum interval")
}

func TestRunInvalidRange(t *testing.T) {
	line, code := run([]string{"-H", "192.0.2.1", "-w", "20:10"})

	assert.Equal(t, 3, code)
	assert.Contains(t, line, "warning threshold")
}
