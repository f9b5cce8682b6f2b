// Build-time identity of the binary. The variables below are meant to be
// stamped via -ldflags; unset values are reported as "unknown" rather than
// left empty so that logs and --print_version output stay unambiguous.

package utils

import (
	"log/slog"
	"strconv"
	"time"
)

var (
	TestMode   string // Stamped "true" by the test build target.
	IsTestMode bool
	Version    string
	Commit     string
	BuildTime  string
	StartTime  time.Time
)

func init() {
	StartTime = time.Now()

	if Version == "" {
		Version = "unknown"
	}
	if Commit == "" {
		Commit = "unknown"
	}
	if BuildTime == "" {
		BuildTime = "unknown"
	}
	if TestMode != "" {
		isTestMode, err := strconv.ParseBool(TestMode)
		if err != nil {
			slog.Warn("Failed to parse TestMode build flag, defaulting to false.", "error", err)
		}
		IsTestMode = isTestMode
	}
}
