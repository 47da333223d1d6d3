package system

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	assert.Equal(t, PlatformWindows, ParsePlatform("windows"))
	assert.Equal(t, PlatformLinux, ParsePlatform("Linux"))
	assert.Equal(t, PlatformDarwin, ParsePlatform("darwin"))
	assert.Equal(t, PlatformDarwin, ParsePlatform(" macOS "))
	assert.Equal(t, PlatformUnknown, ParsePlatform("plan9"))
	assert.Equal(t, PlatformUnknown, ParsePlatform(""))
}

func TestDetectPlatform_MatchesRuntime(t *testing.T) {
	assert.Equal(t, ParsePlatform(runtime.GOOS), DetectPlatform())
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5m", formatUptime(300))
	assert.Equal(t, "2h 0m", formatUptime(7200))
	assert.Equal(t, "1d 1h 1m", formatUptime(90060))
}
