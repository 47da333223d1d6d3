package system

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Platform identifies the desktop environment family used for shell integration
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformUnknown Platform = "unknown"
)

// ParsePlatform maps an OS name as reported by gopsutil or runtime.GOOS to a Platform
func ParsePlatform(name string) Platform {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformLinux
	case "darwin", "macos":
		return PlatformDarwin
	default:
		return PlatformUnknown
	}
}

// DetectPlatform asks the host for its OS, falling back to the compile target
func DetectPlatform() Platform {
	name := runtime.GOOS
	if info, err := host.Info(); err == nil && info.OS != "" {
		name = info.OS
	}
	return ParsePlatform(name)
}
